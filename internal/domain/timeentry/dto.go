package timeentry

import (
	"time"

	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	TenantID     string  `json:"-"`
	ContractorID string  `json:"-"`
	ProjectID    *string `json:"project_id,omitempty"`
	ClientID     *string `json:"client_id,omitempty"`
}

func (r ClockInRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.TenantID) {
		errs = append(errs, validator.ValidationError{Field: "tenant_id", Message: "tenant id is required"})
	}
	if validator.IsEmpty(r.ContractorID) {
		errs = append(errs, validator.ValidationError{Field: "contractor_id", Message: "contractor id is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	TenantID     string `json:"-"`
	ContractorID string `json:"-"`
	BreakMinutes int    `json:"break_minutes"`
}

func (r ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.TenantID) {
		errs = append(errs, validator.ValidationError{Field: "tenant_id", Message: "tenant id is required"})
	}
	if validator.IsEmpty(r.ContractorID) {
		errs = append(errs, validator.ValidationError{Field: "contractor_id", Message: "contractor id is required"})
	}
	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "break minutes must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EntryFilter struct {
	ContractorID    *string
	ProjectID       *string
	Status          *string
	StartDate       *string
	EndDate         *string
	IsAutoGenerated *bool
	Page            int
	Limit           int
	SortBy          string
	SortOrder       string
}

// DecideRequest is a single approval decision on one entry.
type DecideRequest struct {
	EntryID      string       `json:"-"`
	TenantID     string       `json:"-"`
	Decision     Decision     `json:"decision"`
	ApproverID   string       `json:"-"`
	ApproverRole ApproverRole `json:"-"`
	Notes        *string      `json:"notes,omitempty"`
}

func (r DecideRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EntryID) {
		errs = append(errs, validator.ValidationError{Field: "entry_id", Message: "entry id is required"})
	}
	if validator.IsEmpty(r.TenantID) {
		errs = append(errs, validator.ValidationError{Field: "tenant_id", Message: "tenant id is required"})
	}
	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "approver id is required"})
	}
	if r.Decision != DecisionApproved && r.Decision != DecisionRejected {
		errs = append(errs, validator.ValidationError{Field: "decision", Message: "decision must be 'approved' or 'rejected'"})
	}
	if r.ApproverRole != RoleManager && r.ApproverRole != RoleClient {
		errs = append(errs, validator.ValidationError{Field: "approver_role", Message: "approver role must be 'manager' or 'client'"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkDecideRequest applies one decision to many entries. Entries are
// processed independently; a shared notes value is attached to every record.
type BulkDecideRequest struct {
	EntryIDs     []string     `json:"entry_ids"`
	TenantID     string       `json:"-"`
	Decision     Decision     `json:"decision"`
	ApproverID   string       `json:"-"`
	ApproverRole ApproverRole `json:"-"`
	Notes        *string      `json:"notes,omitempty"`
}

func (r BulkDecideRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.EntryIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "entry_ids", Message: "at least one entry id is required"})
	}
	if validator.IsEmpty(r.TenantID) {
		errs = append(errs, validator.ValidationError{Field: "tenant_id", Message: "tenant id is required"})
	}
	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "approver id is required"})
	}
	if r.Decision != DecisionApproved && r.Decision != DecisionRejected {
		errs = append(errs, validator.ValidationError{Field: "decision", Message: "decision must be 'approved' or 'rejected'"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EntryOutcome reports the result for one entry in a bulk decision.
type EntryOutcome struct {
	EntryID string `json:"entry_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

type BulkDecideResult struct {
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Outcomes  []EntryOutcome `json:"outcomes"`
}

type TimeEntryResponse struct {
	ID               string          `json:"id"`
	ContractorID     string          `json:"contractor_id"`
	ContractorName   *string         `json:"contractor_name,omitempty"`
	ProjectID        *string         `json:"project_id,omitempty"`
	ClientID         *string         `json:"client_id,omitempty"`
	WorkDate         string          `json:"work_date"`
	ClockIn          string          `json:"clock_in"`
	ClockOut         *string         `json:"clock_out,omitempty"`
	BreakMinutes     int             `json:"break_minutes"`
	TotalHours       float64         `json:"total_hours"`
	RegularHours     float64         `json:"regular_hours"`
	OvertimeHours    float64         `json:"overtime_hours"`
	DoubleTimeHours  float64         `json:"double_time_hours"`
	BillableHours    float64         `json:"billable_hours"`
	NonBillableHours float64         `json:"non_billable_hours"`
	Status           Status          `json:"status"`
	RequiresApproval bool            `json:"requires_approval"`
	ApprovalRecords  ApprovalRecords `json:"approval_records"`
	IsAutoGenerated  bool            `json:"is_auto_generated"`
	GeneratedAt      *string         `json:"generated_at,omitempty"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

// ToResponse converts the entity to its response DTO.
func (e TimeEntry) ToResponse() TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:               e.ID,
		ContractorID:     e.ContractorID,
		ContractorName:   e.ContractorName,
		ProjectID:        e.ProjectID,
		ClientID:         e.ClientID,
		WorkDate:         e.WorkDate.Format("2006-01-02"),
		ClockIn:          e.ClockIn.Format(time.RFC3339),
		BreakMinutes:     e.BreakMinutes,
		TotalHours:       e.TotalHours,
		RegularHours:     e.RegularHours,
		OvertimeHours:    e.OvertimeHours,
		DoubleTimeHours:  e.DoubleTimeHours,
		BillableHours:    e.BillableHours,
		NonBillableHours: e.NonBillableHours,
		Status:           e.Status,
		RequiresApproval: e.RequiresApproval,
		ApprovalRecords:  e.ApprovalRecords,
		IsAutoGenerated:  e.IsAutoGenerated,
		CreatedAt:        e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.ClockOut != nil {
		out := e.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &out
	}
	if e.GeneratedAt != nil {
		gen := e.GeneratedAt.Format(time.RFC3339)
		resp.GeneratedAt = &gen
	}
	return resp
}

type ListTimeEntriesResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Entries    []TimeEntryResponse `json:"entries"`
}
