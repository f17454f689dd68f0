package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/appdex/internal/domain"
	"github.com/kailas-cloud/appdex/internal/domain/category"
	"github.com/kailas-cloud/appdex/internal/domain/search/request"
	"github.com/kailas-cloud/appdex/internal/domain/search/result"
	"github.com/kailas-cloud/appdex/internal/usecase/compiler"
	healthuc "github.com/kailas-cloud/appdex/internal/usecase/health"
)

// Searcher runs validated search requests.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	search        Searcher
	compiler      *compiler.Compiler
	categories    category.Tree
	health        *healthuc.Service
	defaultLimit  int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server. defaultLimit applies when neither the
// request nor its category sets a limit.
func NewServer(
	search Searcher,
	comp *compiler.Compiler,
	categories category.Tree,
	health *healthuc.Service,
	defaultLimit int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:       search,
		compiler:     comp,
		categories:   categories,
		health:       health,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrUnknownCategory, http.StatusNotFound, ErrorCodeUnknownCategory),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, ErrorCodeIndexUnavailable),
		sentinelHandler(domain.ErrCanceled, http.StatusServiceUnavailable, ErrorCodeCanceled),
	}
	return s
}

// SearchApps handles GET /v1/search.
func (s *Server) SearchApps(w http.ResponseWriter, r *http.Request, params SearchParams) {
	req, err := s.searchRequest(params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse(&res))
}

// ListCategories handles GET /v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CategoryListResponse{Items: s.categories.Names()})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// searchRequest compiles the parameters into a request.
func (s *Server) searchRequest(p SearchParams) (request.Request, error) {
	params := compiler.Params{
		Terms:            deref(p.Q),
		Category:         deref(p.Category),
		Channel:          deref(p.Channel),
		Sort:             deref(p.Sort),
		Visibility:       deref(p.Visibility),
		Limit:            p.Limit,
		AvailableOnly:    p.Available,
		NotInstalledOnly: p.NotInstalled,
		InstalledOnly:    deref(p.Installed),
		SupportedOnly:    deref(p.Supported),
	}
	if p.Restrict != nil {
		params.Restrict = *p.Restrict
	}
	return s.compiler.Request(s.categories, params, s.defaultLimit)
}

func searchResponse(res *result.Result) SearchResponse {
	matches := res.Matches()
	items := make([]MatchItem, len(matches))
	for i := range matches {
		doc := matches[i].Document()
		items[i] = MatchItem{
			ID:          doc.ID(),
			PkgName:     doc.PkgName(),
			DisplayName: doc.DisplayName(),
			Score:       matches[i].Score(),
		}
	}
	return SearchResponse{
		Matches:  items,
		AppCount: res.AppCount(),
		PkgCount: res.PkgCount(),
		Fallback: res.Fallback(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// WriteBindError answers a request whose parameters could not be bound.
func WriteBindError(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid parameter: "+pe.ParamName)
		return
	}
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request")
}

// safeDomainMessage returns a message for the client without exposing internals.
// Validation and category errors are produced from client input and are returned in full.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) || errors.Is(err, domain.ErrUnknownCategory) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrIndexUnavailable,
		domain.ErrCanceled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
