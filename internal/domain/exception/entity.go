package exception

import (
	"time"
)

// Status mirrors the time entry approval statuses. A pending exception
// still suppresses auto-clocking (optimistic suppression).
type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusAutoApproved Status = "auto_approved"
)

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusAutoApproved
}

type Type string

const (
	TypeSick        Type = "sick"
	TypeVacation    Type = "vacation"
	TypeHoliday     Type = "holiday"
	TypeUnpaidLeave Type = "unpaid_leave"
	TypePersonal    Type = "personal"
	TypeBereavement Type = "bereavement"
	TypeJuryDuty    Type = "jury_duty"
	TypeCustom      Type = "custom"
)

var validTypes = map[Type]bool{
	TypeSick: true, TypeVacation: true, TypeHoliday: true, TypeUnpaidLeave: true,
	TypePersonal: true, TypeBereavement: true, TypeJuryDuty: true, TypeCustom: true,
}

func (t Type) Valid() bool {
	return validTypes[t]
}

// ContractorException is a claimed absence covering a date or date range.
type ContractorException struct {
	ID           string
	TenantID     string
	ContractorID string
	StartDate    time.Time
	EndDate      *time.Time // nil for a single day
	Type         Type
	FullDay      bool
	HoursAffected *float64 // set when the absence is partial-day
	WindowStart   *string  // "15:04" local time, partial-day only
	WindowEnd     *string

	Status           Status
	RequiresDocument bool
	DecidedBy        *string
	DecidedAt        *time.Time
	RejectionReason  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether the exception spans the given calendar date.
func (e ContractorException) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	start := e.StartDate.Truncate(24 * time.Hour)
	end := start
	if e.EndDate != nil {
		end = e.EndDate.Truncate(24 * time.Hour)
	}
	return !d.Before(start) && !d.After(end)
}

// AutoApprovalRule decides whether a reported exception of a given type
// auto-approves. Rules are per-tenant configuration, not hard-coded.
type AutoApprovalRule struct {
	TenantID         string
	Type             Type
	AutoApprove      bool
	RequiresDocument bool
}

// DefaultRules is the fallback rule set applied when a tenant has not
// customized a type.
var DefaultRules = map[Type]AutoApprovalRule{
	TypeSick:        {Type: TypeSick, AutoApprove: true},
	TypeVacation:    {Type: TypeVacation, AutoApprove: false},
	TypeHoliday:     {Type: TypeHoliday, AutoApprove: true},
	TypeUnpaidLeave: {Type: TypeUnpaidLeave, AutoApprove: false},
	TypePersonal:    {Type: TypePersonal, AutoApprove: false},
	TypeBereavement: {Type: TypeBereavement, AutoApprove: true, RequiresDocument: true},
	TypeJuryDuty:    {Type: TypeJuryDuty, AutoApprove: true, RequiresDocument: true},
	TypeCustom:      {Type: TypeCustom, AutoApprove: false},
}
