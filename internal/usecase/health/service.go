// Package health aggregates component availability checks.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. The extraction pipeline still
	// serves requests in degraded mode.
	Degraded Status = "degraded"
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
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	cache      CachePinger
	embedding  CapabilityChecker
	generation CapabilityChecker
}

// New creates a Service. Any dependency can be nil (component not configured).
func New(cache CachePinger, embedding, generation CapabilityChecker) *Service {
	return &Service{cache: cache, embedding: embedding, generation: generation}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.cache != nil {
		checks["cache"] = check(s.cache.Ping(ctx))
	}
	if s.embedding != nil {
		checks["embedding"] = check(s.embedding.HealthCheck(ctx))
	}
	if s.generation != nil {
		checks["generation"] = check(s.generation.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func check(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
