package search

import (
	"context"
	"sync"

	"github.com/kailas-cloud/appdex/internal/domain/search/request"
	"github.com/kailas-cloud/appdex/internal/domain/search/result"
)

// Pending is a search running in the background.
type Pending struct {
	done   chan struct{}
	cancel context.CancelFunc
	res    result.Result
	err    error
}

// SearchAsync starts req in its own goroutine. The request is copied, so the
// caller may build the next one while this one runs.
func (s *Service) SearchAsync(ctx context.Context, req *request.Request) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{done: make(chan struct{}), cancel: cancel}
	r := *req

	go func() {
		defer close(p.done)
		defer cancel()
		p.res, p.err = s.Search(ctx, &r)
	}()
	return p
}

// Done is closed when the search has finished.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Cancel stops the search. The result will carry domain.ErrCanceled unless it already finished.
func (p *Pending) Cancel() { p.cancel() }

// Wait blocks until the search finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (result.Result, error) {
	select {
	case <-p.done:
		return p.res, p.err
	case <-ctx.Done():
		return result.Result{}, ctx.Err()
	}
}

// Outcome is a delivered session result.
type Outcome struct {
	Seq    uint64
	Result result.Result
	Err    error
}

// Session delivers only the outcome of its most recent search. Submitting a
// new search cancels the previous one; superseded outcomes are dropped.
type Session struct {
	svc     *Service
	deliver func(Outcome)

	mu      sync.Mutex
	seq     uint64
	current *Pending
	closed  bool
}

// NewSession creates a session. deliver is called with the session lock held
// and must not call back into the session.
func (s *Service) NewSession(deliver func(Outcome)) *Session {
	return &Session{svc: s, deliver: deliver}
}

// Submit starts req and returns its sequence number.
func (ss *Session) Submit(ctx context.Context, req *request.Request) uint64 {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.current != nil {
		ss.current.Cancel()
	}
	ss.seq++
	seq := ss.seq
	if ss.closed {
		return seq
	}

	p := ss.svc.SearchAsync(ctx, req)
	ss.current = p
	go ss.await(seq, p)
	return seq
}

func (ss *Session) await(seq uint64, p *Pending) {
	<-p.Done()

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.closed || seq != ss.seq {
		return
	}
	ss.current = nil
	ss.deliver(Outcome{Seq: seq, Result: p.res, Err: p.err})
}

// Close cancels the running search. Nothing is delivered afterwards.
func (ss *Session) Close() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.closed = true
	if ss.current != nil {
		ss.current.Cancel()
		ss.current = nil
	}
}
