package health

import "context"

// CachePinger checks cache-store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// CapabilityChecker checks an external AI capability's availability.
type CapabilityChecker interface {
	HealthCheck(ctx context.Context) error
}
