package response

import (
	"errors"
	"net/http"

	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/exception"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/project"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Time entry domain errors
	case errors.Is(err, timeentry.ErrEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timeentry.ErrAlreadyClockedIn):
		Conflict(w, "Contractor already has an open time entry")
	case errors.Is(err, timeentry.ErrNotClockedIn):
		Conflict(w, "Contractor has no open time entry")
	case errors.Is(err, timeentry.ErrEntryAlreadyDecided):
		Conflict(w, "Time entry already decided")
	case errors.Is(err, timeentry.ErrDuplicateAutoEntry):
		Conflict(w, "Auto-generated entry already exists for this day")
	case errors.Is(err, timeentry.ErrRejectionReasonRequired):
		BadRequest(w, "A rejection requires a reason", nil)
	case errors.Is(err, timeentry.ErrApproverNotAuthorized):
		Forbidden(w, "Approver not authorized for this entry")

	// Exception domain errors
	case errors.Is(err, exception.ErrExceptionNotFound):
		NotFound(w, "Exception not found")
	case errors.Is(err, exception.ErrExceptionOverlap):
		Conflict(w, "An exception already covers part of this date range")
	case errors.Is(err, exception.ErrExceptionAlreadyDecided):
		Conflict(w, "Exception already decided")
	case errors.Is(err, exception.ErrRejectionReasonRequired):
		BadRequest(w, "A rejection requires a reason", nil)

	// Contractor domain errors
	case errors.Is(err, contractor.ErrContractorNotFound):
		NotFound(w, "Contractor not found")
	case errors.Is(err, contractor.ErrMalformedSchedule):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, contractor.ErrAutoClockingDisabled):
		BadRequest(w, "Auto-clocking is disabled for this contractor", nil)

	// Project domain errors
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
