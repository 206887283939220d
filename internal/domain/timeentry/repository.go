package timeentry

import (
	"context"
	"time"
)

// TimeEntryRepository defines data access methods for time entries.
// Every method takes tenantID to prevent cross-tenant data access.
type TimeEntryRepository interface {
	// Create creates a manually clocked entry
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)

	// CreateAutoGenerated inserts a scheduler-generated entry if no
	// auto-generated entry exists yet for (tenant, contractor, work date).
	// Returns created=false when the insert lost to an existing row;
	// callers treat that as skip, not error.
	CreateAutoGenerated(ctx context.Context, entry TimeEntry) (created bool, err error)

	// GetByID retrieves an entry by ID with tenant isolation
	GetByID(ctx context.Context, id string, tenantID string) (TimeEntry, error)

	// GetOpenEntry retrieves the contractor's open session, if any.
	// Returns nil when there is no open entry.
	GetOpenEntry(ctx context.Context, tenantID, contractorID string) (*TimeEntry, error)

	// HasAutoGenerated reports whether an auto-generated entry exists for
	// the contractor on the given work date.
	HasAutoGenerated(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error)

	// List retrieves entries with filters and pagination
	List(ctx context.Context, filter EntryFilter, tenantID string) ([]TimeEntry, int64, error)

	// Update persists clock-out data and derived hour fields
	Update(ctx context.Context, entry TimeEntry) error

	// AppendDecision atomically moves a pending entry to a terminal status
	// and appends the approval record. Returns ErrEntryNotFound or
	// ErrEntryAlreadyDecided when the guarded update matches no row.
	AppendDecision(ctx context.Context, id, tenantID string, status Status, record ApprovalRecord) error

	// DeleteAutoGenerated removes auto-generated entries for the contractor
	// in [start, end]. Manual entries are never touched. Returns the number
	// of deleted rows. This is the only deletion path in the system.
	DeleteAutoGenerated(ctx context.Context, tenantID, contractorID string, start, end time.Time) (int64, error)

	// CountAutoGeneratedByMode counts auto-generated entries created at or
	// after since, grouped by the owning contractor's processing mode.
	CountAutoGeneratedByMode(ctx context.Context, since time.Time) (map[string]int64, error)
}
