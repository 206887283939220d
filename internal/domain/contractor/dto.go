package contractor

import (
	"time"

	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/validator"
)

type UpdateProfileRequest struct {
	ContractorID     string         `json:"-"`
	TenantID         string         `json:"-"`
	Enabled          bool           `json:"enabled"`
	Mode             ProcessingMode `json:"mode"`
	StartTime        string         `json:"start_time"`
	EndTime          string         `json:"end_time"`
	HoursPerDay      float64        `json:"hours_per_day"`
	WorkDays         []time.Weekday `json:"work_days"`
	Timezone         string         `json:"timezone"`
	RequiresApproval bool           `json:"requires_approval"`
}

func (r UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ContractorID) {
		errs = append(errs, validator.ValidationError{Field: "contractor_id", Message: "contractor id is required"})
	}
	if validator.IsEmpty(r.TenantID) {
		errs = append(errs, validator.ValidationError{Field: "tenant_id", Message: "tenant id is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	// A disabled profile keeps whatever schedule it carries; only an
	// enabled one has to be well formed.
	if !r.Enabled {
		return nil
	}
	return r.Profile().Validate()
}

// Profile builds the profile value carried by the request.
func (r UpdateProfileRequest) Profile() AutoClockingProfile {
	return AutoClockingProfile{
		Enabled:          r.Enabled,
		Mode:             r.Mode,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		HoursPerDay:      r.HoursPerDay,
		WorkDays:         r.WorkDays,
		Timezone:         r.Timezone,
		RequiresApproval: r.RequiresApproval,
	}
}

type ProfileResponse struct {
	ContractorID     string         `json:"contractor_id"`
	Enabled          bool           `json:"enabled"`
	Mode             ProcessingMode `json:"mode"`
	StartTime        string         `json:"start_time"`
	EndTime          string         `json:"end_time"`
	HoursPerDay      float64        `json:"hours_per_day"`
	WorkDays         []time.Weekday `json:"work_days"`
	Timezone         string         `json:"timezone"`
	RequiresApproval bool           `json:"requires_approval"`
}
