package exception

import (
	"context"
	"time"
)

// ExceptionRepository defines data access for contractor exceptions.
// All methods are tenant-scoped.
type ExceptionRepository interface {
	Create(ctx context.Context, e ContractorException) (ContractorException, error)

	GetByID(ctx context.Context, id string, tenantID string) (ContractorException, error)

	// HasCoverage reports whether a non-rejected exception covers the date.
	// Pending exceptions count: suppression is optimistic.
	HasCoverage(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error)

	// HasOverlap reports whether a non-rejected exception overlaps any date
	// in [start, end].
	HasOverlap(ctx context.Context, tenantID, contractorID string, start, end time.Time) (bool, error)

	List(ctx context.Context, filter ExceptionFilter, tenantID string) ([]ContractorException, int64, error)

	// Decide atomically moves a pending exception to a terminal status.
	// Returns ErrExceptionNotFound or ErrExceptionAlreadyDecided when the
	// guarded update matches no row.
	Decide(ctx context.Context, id, tenantID string, status Status, decidedBy string, reason *string) error
}

// RuleRepository provides the per-tenant auto-approval rule table.
type RuleRepository interface {
	// GetByTenantAndType returns the tenant's rule for the type, or
	// ErrRuleNotFound when the tenant has not customized it.
	GetByTenantAndType(ctx context.Context, tenantID string, t Type) (AutoApprovalRule, error)

	ListByTenant(ctx context.Context, tenantID string) ([]AutoApprovalRule, error)
}
