package batch

// ItemStatus is the import outcome of a single catalog item.
type ItemStatus string

// Item status values.
const (
	// StatusIndexed means the item was written to the index.
	StatusIndexed ItemStatus = "indexed"
	// StatusRejected means the item failed validation and was never written.
	StatusRejected ItemStatus = "rejected"
	// StatusFailed means the item was valid but the write failed.
	StatusFailed ItemStatus = "failed"
)

// Result is the outcome of importing one catalog item.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewIndexed creates a successful result.
func NewIndexed(id string) Result { return Result{id: id, status: StatusIndexed} }

// NewRejected creates a validation failure.
func NewRejected(id string, err error) Result { return Result{id: id, status: StatusRejected, err: err} }

// NewFailed creates a storage failure.
func NewFailed(id string, err error) Result { return Result{id: id, status: StatusFailed, err: err} }

// ID returns the item identifier (may be empty for rejected rows).
func (r Result) ID() string { return r.id }

// Status returns the outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts results per status.
type Summary struct {
	Indexed  int
	Rejected int
	Failed   int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.status {
		case StatusIndexed:
			s.Indexed++
		case StatusRejected:
			s.Rejected++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// OK reports whether nothing was rejected or failed.
func (s Summary) OK() bool { return s.Rejected == 0 && s.Failed == 0 }
