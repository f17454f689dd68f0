package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Route paths served by Handler.
const (
	PathSearch     = "/v1/search"
	PathCategories = "/v1/categories"
	PathHealth     = "/health"
	PathMetrics    = "/metrics"
)

// ErrorCode is a machine-readable error code returned in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnknownCategory  ErrorCode = "unknown_category"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeIndexUnavailable ErrorCode = "index_unavailable"
	ErrorCodeCanceled         ErrorCode = "canceled"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchParams are the query parameters of GET /v1/search.
type SearchParams struct {
	Q            *string   `json:"q,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Channel      *string   `json:"channel,omitempty"`
	Sort         *string   `json:"sort,omitempty"`
	Limit        *int      `json:"limit,omitempty"`
	Visibility   *string   `json:"visibility,omitempty"`
	Available    *bool     `json:"available,omitempty"`
	Installed    *bool     `json:"installed,omitempty"`
	NotInstalled *bool     `json:"not_installed,omitempty"`
	Supported    *bool     `json:"supported,omitempty"`
	Restrict     *[]string `json:"restrict,omitempty"`
}

// MatchItem is a single search hit.
type MatchItem struct {
	ID          string  `json:"id"`
	PkgName     string  `json:"pkgname"`
	DisplayName string  `json:"display_name,omitempty"`
	Score       float64 `json:"score"`
}

// SearchResponse is the body of GET /v1/search.
type SearchResponse struct {
	Matches  []MatchItem `json:"matches"`
	AppCount int         `json:"app_count"`
	PkgCount int         `json:"pkg_count"`
	Fallback bool        `json:"fallback"`
}

// CategoryListResponse is the body of GET /v1/categories.
type CategoryListResponse struct {
	Items []string `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ServerInterface is implemented by Server.
type ServerInterface interface {
	// SearchApps handles GET /v1/search.
	SearchApps(w http.ResponseWriter, r *http.Request, params SearchParams)
	// ListCategories handles GET /v1/categories.
	ListCategories(w http.ResponseWriter, r *http.Request)
	// HealthCheck handles GET /health.
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Metrics handles GET /metrics.
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a query parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %v", e.ParamName, e.Err)
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ChiServerOptions configures Handler.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

type serverInterfaceWrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) searchApps(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	query := r.URL.Query()

	bindings := []struct {
		name    string
		explode bool
		dest    any
	}{
		{"q", true, &params.Q},
		{"category", true, &params.Category},
		{"channel", true, &params.Channel},
		{"sort", true, &params.Sort},
		{"limit", true, &params.Limit},
		{"visibility", true, &params.Visibility},
		{"available", true, &params.Available},
		{"installed", true, &params.Installed},
		{"not_installed", true, &params.NotInstalled},
		{"supported", true, &params.Supported},
		{"restrict", false, &params.Restrict},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", b.explode, false, b.name, query, b.dest); err != nil {
			siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: b.name, Err: err})
			return
		}
	}

	siw.handler.SearchApps(w, r, params)
}

// Handler registers the API routes on options.BaseRouter (a new router when nil).
func Handler(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	errorHandler := options.ErrorHandlerFunc
	if errorHandler == nil {
		errorHandler = WriteBindError
	}
	wrapper := &serverInterfaceWrapper{handler: si, errorHandlerFunc: errorHandler}

	r.Get(PathSearch, wrapper.searchApps)
	r.Get(PathCategories, si.ListCategories)
	r.Get(PathHealth, si.HealthCheck)
	r.Get(PathMetrics, si.Metrics)
	return r
}
