package exception

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/exception"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/validator"
)

type ExceptionServiceImpl struct {
	exception.ExceptionRepository
	exception.RuleRepository
	now func() time.Time
}

func NewExceptionService(
	exceptionRepo exception.ExceptionRepository,
	ruleRepo exception.RuleRepository,
) exception.Service {
	return &ExceptionServiceImpl{
		ExceptionRepository: exceptionRepo,
		RuleRepository:      ruleRepo,
		now:                 time.Now,
	}
}

// Report implements exception.Service.
func (s *ExceptionServiceImpl) Report(ctx context.Context, req exception.ReportRequest) (exception.ExceptionResponse, error) {
	if err := req.Validate(); err != nil {
		return exception.ExceptionResponse{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate := startDate
	var endPtr *time.Time
	if req.EndDate != nil {
		endDate, _ = validator.IsValidDate(*req.EndDate)
		endPtr = &endDate
	}

	overlap, err := s.ExceptionRepository.HasOverlap(ctx, req.TenantID, req.ContractorID, startDate, endDate)
	if err != nil {
		return exception.ExceptionResponse{}, fmt.Errorf("failed to check exception overlap: %w", err)
	}
	if overlap {
		return exception.ExceptionResponse{}, exception.ErrExceptionOverlap
	}

	rule := s.resolveRule(ctx, req.TenantID, req.Type)

	status := exception.StatusPending
	if rule.AutoApprove {
		status = exception.StatusAutoApproved
	}

	data := exception.ContractorException{
		ID:               uuid.NewString(),
		TenantID:         req.TenantID,
		ContractorID:     req.ContractorID,
		StartDate:        startDate,
		EndDate:          endPtr,
		Type:             req.Type,
		FullDay:          req.FullDay,
		HoursAffected:    req.HoursAffected,
		WindowStart:      req.WindowStart,
		WindowEnd:        req.WindowEnd,
		Status:           status,
		RequiresDocument: rule.RequiresDocument,
	}

	created, err := s.ExceptionRepository.Create(ctx, data)
	if err != nil {
		return exception.ExceptionResponse{}, fmt.Errorf("failed to create exception: %w", err)
	}

	return mapExceptionToResponse(created), nil
}

// resolveRule looks up the tenant's rule for the type, falling back to the
// built-in defaults when the tenant has not customized it.
func (s *ExceptionServiceImpl) resolveRule(ctx context.Context, tenantID string, t exception.Type) exception.AutoApprovalRule {
	rule, err := s.RuleRepository.GetByTenantAndType(ctx, tenantID, t)
	if err == nil {
		return rule
	}
	if !errors.Is(err, exception.ErrRuleNotFound) {
		slog.Warn("Failed to load auto-approval rule, using defaults",
			"tenant_id", tenantID, "type", t, "error", err)
	}
	return exception.DefaultRules[t]
}

// Decide implements exception.Service.
func (s *ExceptionServiceImpl) Decide(ctx context.Context, req exception.DecideRequest) (exception.ExceptionResponse, error) {
	status := exception.StatusApproved
	if !req.Approve {
		if req.Reason == nil || validator.IsEmpty(*req.Reason) {
			return exception.ExceptionResponse{}, exception.ErrRejectionReasonRequired
		}
		status = exception.StatusRejected
	}

	err := s.ExceptionRepository.Decide(ctx, req.ExceptionID, req.TenantID, status, req.DecidedBy, req.Reason)
	if err != nil {
		if errors.Is(err, exception.ErrExceptionNotFound) || errors.Is(err, exception.ErrExceptionAlreadyDecided) {
			return exception.ExceptionResponse{}, err
		}
		return exception.ExceptionResponse{}, fmt.Errorf("failed to decide exception: %w", err)
	}

	updated, err := s.ExceptionRepository.GetByID(ctx, req.ExceptionID, req.TenantID)
	if err != nil {
		return exception.ExceptionResponse{}, fmt.Errorf("failed to get updated exception: %w", err)
	}

	return mapExceptionToResponse(updated), nil
}

// List implements exception.Service.
func (s *ExceptionServiceImpl) List(ctx context.Context, filter exception.ExceptionFilter, tenantID string) (exception.ListExceptionsResponse, error) {
	exceptions, total, err := s.ExceptionRepository.List(ctx, filter, tenantID)
	if err != nil {
		return exception.ListExceptionsResponse{}, fmt.Errorf("failed to list exceptions: %w", err)
	}

	responses := make([]exception.ExceptionResponse, 0, len(exceptions))
	for _, e := range exceptions {
		responses = append(responses, mapExceptionToResponse(e))
	}

	return exception.ListExceptionsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Exceptions: responses,
	}, nil
}

// HasCoverage implements exception.Service.
func (s *ExceptionServiceImpl) HasCoverage(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error) {
	covered, err := s.ExceptionRepository.HasCoverage(ctx, tenantID, contractorID, date)
	if err != nil {
		return false, fmt.Errorf("failed to check exception coverage: %w", err)
	}
	return covered, nil
}

func mapExceptionToResponse(e exception.ContractorException) exception.ExceptionResponse {
	resp := exception.ExceptionResponse{
		ID:               e.ID,
		ContractorID:     e.ContractorID,
		StartDate:        e.StartDate.Format("2006-01-02"),
		Type:             e.Type,
		FullDay:          e.FullDay,
		HoursAffected:    e.HoursAffected,
		WindowStart:      e.WindowStart,
		WindowEnd:        e.WindowEnd,
		Status:           e.Status,
		RequiresDocument: e.RequiresDocument,
		DecidedBy:        e.DecidedBy,
		RejectionReason:  e.RejectionReason,
		CreatedAt:        e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.EndDate != nil {
		end := e.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	if e.DecidedAt != nil {
		decided := e.DecidedAt.Format("2006-01-02 15:04:05")
		resp.DecidedAt = &decided
	}
	return resp
}
