package timeentry

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Status is the approval status of a time entry.
type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusAutoApproved Status = "auto_approved"
)

// IsTerminal reports whether no further approval decision is accepted.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusAutoApproved
}

type ApproverRole string

const (
	RoleManager ApproverRole = "manager"
	RoleClient  ApproverRole = "client"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ApprovalRecord is one decision in an entry's approval history.
// The history is append-only; a terminal record is never rewritten.
type ApprovalRecord struct {
	ApproverID   string       `json:"approver_id"`
	ApproverRole ApproverRole `json:"approver_role"`
	Decision     Decision     `json:"decision"`
	DecidedAt    time.Time    `json:"decided_at"`
	Notes        *string      `json:"notes,omitempty"`
}

// ApprovalRecords is stored as a JSONB array.
type ApprovalRecords []ApprovalRecord

// Value implements driver.Valuer for database storage
func (r ApprovalRecords) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal(ApprovalRecords{})
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for database retrieval
func (r *ApprovalRecords) Scan(value interface{}) error {
	if value == nil {
		*r = ApprovalRecords{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	}
	return errors.New("unsupported type for ApprovalRecords")
}

type TimeEntry struct {
	ID           string
	TenantID     string
	ContractorID string
	ProjectID    *string
	ClientID     *string

	// WorkDate is the calendar day the entry belongs to, in the
	// contractor's timezone. ClockIn/ClockOut are absolute UTC instants.
	WorkDate     time.Time
	ClockIn      time.Time
	ClockOut     *time.Time
	BreakMinutes int

	// Hour fields are derived at clock-out and never edited directly.
	TotalHours       float64
	RegularHours     float64
	OvertimeHours    float64
	DoubleTimeHours  float64
	BillableHours    float64
	NonBillableHours float64

	Status           Status
	RequiresApproval bool
	ApprovalRecords  ApprovalRecords

	IsAutoGenerated bool
	GeneratedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	ContractorName *string
}

// IsOpen reports whether the entry is still an open session (no clock-out).
func (e TimeEntry) IsOpen() bool {
	return e.ClockOut == nil
}
