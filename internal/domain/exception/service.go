package exception

import (
	"context"
	"time"
)

// Service is the exception ledger consumed by the HTTP layer and by the
// auto-clocking scheduler.
type Service interface {
	// Report records a claimed absence, applying auto-approval rules
	Report(ctx context.Context, req ReportRequest) (ExceptionResponse, error)

	// Decide approves or rejects a pending exception
	Decide(ctx context.Context, req DecideRequest) (ExceptionResponse, error)

	// List retrieves exceptions with filters
	List(ctx context.Context, filter ExceptionFilter, tenantID string) (ListExceptionsResponse, error)

	// HasCoverage reports whether a non-rejected exception covers the date.
	// Used by the scheduler to suppress auto-generation.
	HasCoverage(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error)
}
