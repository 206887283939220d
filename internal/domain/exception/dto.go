package exception

import (
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/validator"
)

type ReportRequest struct {
	TenantID      string   `json:"-"`
	ContractorID  string   `json:"-"`
	StartDate     string   `json:"start_date"`
	EndDate       *string  `json:"end_date,omitempty"`
	Type          Type     `json:"type"`
	FullDay       bool     `json:"full_day"`
	HoursAffected *float64 `json:"hours_affected,omitempty"`
	WindowStart   *string  `json:"window_start,omitempty"`
	WindowEnd     *string  `json:"window_end,omitempty"`
}

func (r ReportRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.TenantID) {
		errs = append(errs, validator.ValidationError{Field: "tenant_id", Message: "tenant id is required"})
	}
	if validator.IsEmpty(r.ContractorID) {
		errs = append(errs, validator.ValidationError{Field: "contractor_id", Message: "contractor id is required"})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start date must be in YYYY-MM-DD format"})
	}
	if r.EndDate != nil {
		end, ok := validator.IsValidDate(*r.EndDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end date must be in YYYY-MM-DD format"})
		} else if start, ok := validator.IsValidDate(r.StartDate); ok && end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end date must not precede start date"})
		}
	}
	if !r.Type.Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "unknown exception type"})
	}
	if !r.FullDay && r.HoursAffected == nil {
		errs = append(errs, validator.ValidationError{Field: "hours_affected", Message: "hours affected is required for partial-day exceptions"})
	}
	if r.HoursAffected != nil && *r.HoursAffected <= 0 {
		errs = append(errs, validator.ValidationError{Field: "hours_affected", Message: "hours affected must be positive"})
	}
	if r.WindowStart != nil && !validator.IsValidTimeOfDay(*r.WindowStart) {
		errs = append(errs, validator.ValidationError{Field: "window_start", Message: "window start must be in HH:MM format"})
	}
	if r.WindowEnd != nil && !validator.IsValidTimeOfDay(*r.WindowEnd) {
		errs = append(errs, validator.ValidationError{Field: "window_end", Message: "window end must be in HH:MM format"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequest struct {
	ExceptionID string  `json:"-"`
	TenantID    string  `json:"-"`
	Approve     bool    `json:"approve"`
	DecidedBy   string  `json:"-"`
	Reason      *string `json:"reason,omitempty"`
}

type ExceptionFilter struct {
	ContractorID *string
	Status       *string
	Type         *string
	StartDate    *string
	EndDate      *string
	Page         int
	Limit        int
}

type ExceptionResponse struct {
	ID               string   `json:"id"`
	ContractorID     string   `json:"contractor_id"`
	StartDate        string   `json:"start_date"`
	EndDate          *string  `json:"end_date,omitempty"`
	Type             Type     `json:"type"`
	FullDay          bool     `json:"full_day"`
	HoursAffected    *float64 `json:"hours_affected,omitempty"`
	WindowStart      *string  `json:"window_start,omitempty"`
	WindowEnd        *string  `json:"window_end,omitempty"`
	Status           Status   `json:"status"`
	RequiresDocument bool     `json:"requires_document"`
	DecidedBy        *string  `json:"decided_by,omitempty"`
	DecidedAt        *string  `json:"decided_at,omitempty"`
	RejectionReason  *string  `json:"rejection_reason,omitempty"`
	CreatedAt        string   `json:"created_at"`
}

type ListExceptionsResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Exceptions []ExceptionResponse `json:"exceptions"`
}
