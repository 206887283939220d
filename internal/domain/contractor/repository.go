package contractor

import (
	"context"
)

// ContractorRepository defines the reads and the single profile write the
// engine needs. General contractor CRUD lives outside this core.
type ContractorRepository interface {
	// GetByID retrieves a contractor with tenant isolation
	GetByID(ctx context.Context, id string, tenantID string) (Contractor, error)

	// ListAutoClockingEnabled returns active contractors across all tenants
	// whose profile is enabled for the given mode. Consumed by the
	// recurring scheduler cycles.
	ListAutoClockingEnabled(ctx context.Context, mode ProcessingMode) ([]Contractor, error)

	// UpdateProfile replaces the contractor's auto-clocking profile
	UpdateProfile(ctx context.Context, id, tenantID string, profile AutoClockingProfile) error

	// GetDefaultRates returns contractor id -> default hourly rate for the
	// given contractors. Contractors without a rate are omitted.
	GetDefaultRates(ctx context.Context, tenantID string, ids []string) (map[string]float64, error)
}
