package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/project"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/validator"
)

type ApprovalServiceImpl struct {
	timeentry.TimeEntryRepository
	project.ProjectRepository
	now func() time.Time
}

func NewApprovalService(
	entryRepo timeentry.TimeEntryRepository,
	projectRepo project.ProjectRepository,
) timeentry.ApprovalService {
	return &ApprovalServiceImpl{
		TimeEntryRepository: entryRepo,
		ProjectRepository:   projectRepo,
		now:                 time.Now,
	}
}

// Decide implements timeentry.ApprovalService.
func (s *ApprovalServiceImpl) Decide(ctx context.Context, req timeentry.DecideRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	entry, err := s.TimeEntryRepository.GetByID(ctx, req.EntryID, req.TenantID)
	if err != nil {
		if errors.Is(err, timeentry.ErrEntryNotFound) {
			return timeentry.TimeEntryResponse{}, timeentry.ErrEntryNotFound
		}
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to get time entry: %w", err)
	}

	if entry.Status.IsTerminal() {
		return timeentry.TimeEntryResponse{}, timeentry.ErrEntryAlreadyDecided
	}

	if err := s.authorizeApprover(ctx, req.ApproverRole, req.ApproverID, entry); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	newStatus := timeentry.StatusApproved
	if req.Decision == timeentry.DecisionRejected {
		if req.Notes == nil || validator.IsEmpty(*req.Notes) {
			return timeentry.TimeEntryResponse{}, timeentry.ErrRejectionReasonRequired
		}
		newStatus = timeentry.StatusRejected
	}

	record := timeentry.ApprovalRecord{
		ApproverID:   req.ApproverID,
		ApproverRole: req.ApproverRole,
		Decision:     req.Decision,
		DecidedAt:    s.now().UTC(),
		Notes:        req.Notes,
	}

	// The guarded update only matches status='pending'; a racing decision
	// that landed first turns this into ErrEntryAlreadyDecided.
	if err := s.TimeEntryRepository.AppendDecision(ctx, req.EntryID, req.TenantID, newStatus, record); err != nil {
		if errors.Is(err, timeentry.ErrEntryNotFound) || errors.Is(err, timeentry.ErrEntryAlreadyDecided) {
			return timeentry.TimeEntryResponse{}, err
		}
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to append approval decision: %w", err)
	}

	updated, err := s.TimeEntryRepository.GetByID(ctx, req.EntryID, req.TenantID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to get updated entry: %w", err)
	}

	return updated.ToResponse(), nil
}

// BulkDecide implements timeentry.ApprovalService. Entries are processed
// independently: one entry's failure is recorded in its outcome and the
// batch continues. No cross-entry transaction is used.
func (s *ApprovalServiceImpl) BulkDecide(ctx context.Context, req timeentry.BulkDecideRequest) (timeentry.BulkDecideResult, error) {
	if err := req.Validate(); err != nil {
		return timeentry.BulkDecideResult{}, err
	}

	result := timeentry.BulkDecideResult{
		Outcomes: make([]timeentry.EntryOutcome, 0, len(req.EntryIDs)),
	}

	for _, entryID := range req.EntryIDs {
		_, err := s.Decide(ctx, timeentry.DecideRequest{
			EntryID:      entryID,
			TenantID:     req.TenantID,
			Decision:     req.Decision,
			ApproverID:   req.ApproverID,
			ApproverRole: req.ApproverRole,
			Notes:        req.Notes,
		})
		if err != nil {
			slog.Warn("Bulk decision failed for entry",
				"entry_id", entryID,
				"decision", req.Decision,
				"error", err)
			result.Failed++
			result.Outcomes = append(result.Outcomes, timeentry.EntryOutcome{
				EntryID: entryID,
				Success: false,
				Error:   err.Error(),
				Code:    errorCode(err),
			})
			continue
		}

		result.Succeeded++
		result.Outcomes = append(result.Outcomes, timeentry.EntryOutcome{
			EntryID: entryID,
			Success: true,
		})
	}

	return result, nil
}

// authorizeApprover is the single authorization gate for both the single
// and bulk decision paths. Managers may decide any entry in their tenant;
// a client approver must be named on the entry's project.
func (s *ApprovalServiceImpl) authorizeApprover(ctx context.Context, role timeentry.ApproverRole, approverID string, entry timeentry.TimeEntry) error {
	switch role {
	case timeentry.RoleManager:
		return nil
	case timeentry.RoleClient:
		if entry.ProjectID == nil {
			return timeentry.ErrApproverNotAuthorized
		}
		proj, err := s.ProjectRepository.GetByID(ctx, *entry.ProjectID, entry.TenantID)
		if err != nil {
			if errors.Is(err, project.ErrProjectNotFound) {
				return timeentry.ErrApproverNotAuthorized
			}
			return fmt.Errorf("failed to get project for authorization: %w", err)
		}
		if !proj.ClientApprovers.Contains(approverID) {
			return timeentry.ErrApproverNotAuthorized
		}
		return nil
	default:
		return timeentry.ErrApproverNotAuthorized
	}
}

// errorCode tags a bulk outcome with the error family so callers can tell
// "already rejected" apart from "not found" without string matching.
func errorCode(err error) string {
	switch {
	case errors.Is(err, timeentry.ErrEntryNotFound):
		return "NOT_FOUND"
	case errors.Is(err, timeentry.ErrEntryAlreadyDecided):
		return "CONFLICT"
	case errors.Is(err, timeentry.ErrApproverNotAuthorized):
		return "POLICY"
	case errors.Is(err, timeentry.ErrRejectionReasonRequired):
		return "VALIDATION"
	default:
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return "VALIDATION"
		}
		return "INTERNAL"
	}
}
