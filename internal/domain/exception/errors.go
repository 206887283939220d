package exception

import "errors"

var (
	ErrExceptionNotFound       = errors.New("exception not found")
	ErrExceptionOverlap        = errors.New("an exception already covers part of this date range")
	ErrExceptionAlreadyDecided = errors.New("exception has already been approved or rejected")
	ErrRejectionReasonRequired = errors.New("a rejection reason is required")
	ErrRuleNotFound            = errors.New("no auto-approval rule configured for this type")
)
