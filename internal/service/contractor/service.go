package contractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
)

// ContractorServiceImpl manages the auto-clocking profile surface.
type ContractorServiceImpl struct {
	contractorRepo contractor.ContractorRepository
}

func NewContractorService(contractorRepo contractor.ContractorRepository) *ContractorServiceImpl {
	return &ContractorServiceImpl{contractorRepo: contractorRepo}
}

func (s *ContractorServiceImpl) GetProfile(ctx context.Context, contractorID, tenantID string) (contractor.ProfileResponse, error) {
	c, err := s.contractorRepo.GetByID(ctx, contractorID, tenantID)
	if err != nil {
		if errors.Is(err, contractor.ErrContractorNotFound) {
			return contractor.ProfileResponse{}, contractor.ErrContractorNotFound
		}
		return contractor.ProfileResponse{}, fmt.Errorf("failed to get contractor: %w", err)
	}
	return mapProfileToResponse(c.ID, c.AutoClocking), nil
}

// UpdateProfile replaces the contractor's schedule configuration. The
// schedule is validated up front so a malformed profile never reaches
// the scheduler.
func (s *ContractorServiceImpl) UpdateProfile(ctx context.Context, req contractor.UpdateProfileRequest) (contractor.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return contractor.ProfileResponse{}, err
	}

	profile := req.Profile()
	if err := s.contractorRepo.UpdateProfile(ctx, req.ContractorID, req.TenantID, profile); err != nil {
		if errors.Is(err, contractor.ErrContractorNotFound) {
			return contractor.ProfileResponse{}, contractor.ErrContractorNotFound
		}
		return contractor.ProfileResponse{}, fmt.Errorf("failed to update profile: %w", err)
	}

	slog.Info("Auto-clocking profile updated",
		"contractor_id", req.ContractorID,
		"tenant_id", req.TenantID,
		"enabled", profile.Enabled,
		"mode", profile.Mode)
	return mapProfileToResponse(req.ContractorID, profile), nil
}

func mapProfileToResponse(contractorID string, p contractor.AutoClockingProfile) contractor.ProfileResponse {
	return contractor.ProfileResponse{
		ContractorID:     contractorID,
		Enabled:          p.Enabled,
		Mode:             p.Mode,
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		HoursPerDay:      p.HoursPerDay,
		WorkDays:         p.WorkDays,
		Timezone:         p.Timezone,
		RequiresApproval: p.RequiresApproval,
	}
}
