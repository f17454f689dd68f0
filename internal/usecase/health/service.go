package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Component names reported by Check.
const (
	ComponentIndex   = "index"
	ComponentReviews = "reviews"
)

// Service coordinates health checks.
type Service struct {
	index   Pinger
	reviews Pinger
}

// New creates a Service. reviews can be nil.
func New(index, reviews Pinger) *Service {
	return &Service{index: index, reviews: reviews}
}

// Check runs health checks against all components. The index is required:
// without it no search can run. The review store only degrades top-rated ordering.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[ComponentIndex] = result(s.index.Ping(ctx))
	if s.reviews != nil {
		checks[ComponentReviews] = result(s.reviews.Ping(ctx))
	}

	status := Healthy
	switch {
	case checks[ComponentIndex] == CheckError:
		status = Unhealthy
	case checks[ComponentReviews] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
