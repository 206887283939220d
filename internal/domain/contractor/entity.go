package contractor

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type ProcessingMode string

const (
	// ModeProactive generates today's entry at/near start of day.
	ModeProactive ProcessingMode = "proactive"
	// ModeReactive generates today's entry near end of day.
	ModeReactive ProcessingMode = "reactive"
	// ModeWeeklyBatch generates the 5 weekdays of the work week at once.
	ModeWeeklyBatch ProcessingMode = "weekly_batch"
)

func (m ProcessingMode) Valid() bool {
	return m == ModeProactive || m == ModeReactive || m == ModeWeeklyBatch
}

// AutoClockingProfile is the per-contractor scheduling configuration,
// stored as a JSONB column on the contractor row.
type AutoClockingProfile struct {
	Enabled          bool           `json:"enabled"`
	Mode             ProcessingMode `json:"mode"`
	StartTime        string         `json:"start_time"` // "15:04"
	EndTime          string         `json:"end_time"`   // "15:04"
	HoursPerDay      float64        `json:"hours_per_day"`
	WorkDays         []time.Weekday `json:"work_days"`
	Timezone         string         `json:"timezone"`
	RequiresApproval bool           `json:"requires_approval"`
}

// Value implements driver.Valuer for database storage
func (p AutoClockingProfile) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for database retrieval
func (p *AutoClockingProfile) Scan(value interface{}) error {
	if value == nil {
		*p = AutoClockingProfile{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return errors.New("unsupported type for AutoClockingProfile")
}

// Validate checks the schedule is well formed. An invalid schedule is a
// configuration error surfaced as ErrMalformedSchedule.
func (p AutoClockingProfile) Validate() error {
	if !p.Mode.Valid() {
		return fmt.Errorf("%w: unknown processing mode %q", ErrMalformedSchedule, p.Mode)
	}
	if _, err := time.Parse("15:04", p.StartTime); err != nil {
		return fmt.Errorf("%w: invalid start time %q", ErrMalformedSchedule, p.StartTime)
	}
	if _, err := time.Parse("15:04", p.EndTime); err != nil {
		return fmt.Errorf("%w: invalid end time %q", ErrMalformedSchedule, p.EndTime)
	}
	if p.HoursPerDay <= 0 || p.HoursPerDay > 24 {
		return fmt.Errorf("%w: hours per day must be in (0, 24]", ErrMalformedSchedule)
	}
	if len(p.WorkDays) == 0 {
		return fmt.Errorf("%w: at least one work day is required", ErrMalformedSchedule)
	}
	for _, d := range p.WorkDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrMalformedSchedule, d)
		}
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrMalformedSchedule, p.Timezone)
	}
	return nil
}

// WorksOn reports whether the weekday is in the contractor's work-days set.
func (p AutoClockingProfile) WorksOn(day time.Weekday) bool {
	for _, d := range p.WorkDays {
		if d == day {
			return true
		}
	}
	return false
}

// Location resolves the configured timezone, falling back to UTC.
func (p AutoClockingProfile) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IntervalOn builds the synthetic clock-in/clock-out pair for the target
// date in the contractor's timezone. An end time at or before the start
// time rolls over to the next day.
func (p AutoClockingProfile) IntervalOn(date time.Time) (clockIn, clockOut time.Time, err error) {
	start, err := time.Parse("15:04", p.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start time %q", ErrMalformedSchedule, p.StartTime)
	}
	end, err := time.Parse("15:04", p.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end time %q", ErrMalformedSchedule, p.EndTime)
	}

	loc := p.Location()
	clockIn = time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, loc)
	clockOut = time.Date(date.Year(), date.Month(), date.Day(), end.Hour(), end.Minute(), 0, 0, loc)
	if !clockOut.After(clockIn) {
		clockOut = clockOut.Add(24 * time.Hour)
	}
	return clockIn.UTC(), clockOut.UTC(), nil
}

type Contractor struct {
	ID       string
	TenantID string
	FullName string
	Email    *string

	// DefaultProjectID attributes auto-generated hours to a project so
	// the billable split carries through to billing.
	DefaultProjectID *string

	DefaultHourlyRate *float64

	// RequiresApproval governs manually clocked entries; the profile's
	// own flag governs auto-generated ones.
	RequiresApproval bool

	AutoClocking AutoClockingProfile
	Active       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
