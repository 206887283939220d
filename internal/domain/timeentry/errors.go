package timeentry

import "errors"

// Time entry domain errors
var (
	// Clock errors
	ErrAlreadyClockedIn = errors.New("an open time entry already exists for this contractor")
	ErrNotClockedIn     = errors.New("no open time entry found for this contractor")

	// Approval errors
	ErrEntryNotFound           = errors.New("time entry not found")
	ErrEntryAlreadyDecided     = errors.New("time entry has already been approved or rejected")
	ErrRejectionReasonRequired = errors.New("a rejection reason is required")
	ErrApproverNotAuthorized   = errors.New("approver is not authorized to decide this entry")

	// Auto-generation errors
	ErrDuplicateAutoEntry = errors.New("an auto-generated entry already exists for this contractor and date")
)
