package timeentry

import (
	"context"
)

// TimeEntryService defines business logic for manual clock operations
// and entry reads.
type TimeEntryService interface {
	// ClockIn opens a new entry for the contractor
	ClockIn(ctx context.Context, req ClockInRequest) (TimeEntryResponse, error)

	// ClockOut closes the contractor's open entry, computes hour tiers
	// and resolves the initial approval status
	ClockOut(ctx context.Context, req ClockOutRequest) (TimeEntryResponse, error)

	// GetEntry retrieves a single entry by ID
	GetEntry(ctx context.Context, id, tenantID string) (TimeEntryResponse, error)

	// ListEntries retrieves entries with filters (read API for reporting)
	ListEntries(ctx context.Context, filter EntryFilter, tenantID string) (ListTimeEntriesResponse, error)
}

// ApprovalService drives the entry approval state machine.
type ApprovalService interface {
	// Decide applies a single approval decision
	Decide(ctx context.Context, req DecideRequest) (TimeEntryResponse, error)

	// BulkDecide applies one decision to many entries with per-entry
	// isolation; one entry's failure never aborts the batch
	BulkDecide(ctx context.Context, req BulkDecideRequest) (BulkDecideResult, error)
}
