package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/response"
	contractorservice "github.com/workpulse-hq/timetrack-backend-go/internal/service/contractor"
)

type ContractorHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
}

type contractorHandlerImpl struct {
	contractorService *contractorservice.ContractorServiceImpl
}

func NewContractorHandler(contractorService *contractorservice.ContractorServiceImpl) ContractorHandler {
	return &contractorHandlerImpl{
		contractorService: contractorService,
	}
}

// GetProfile implements ContractorHandler.
func (h *contractorHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.contractorService.GetProfile(r.Context(),
		chi.URLParam(r, "contractorID"), middleware.TenantID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

// UpdateProfile implements ContractorHandler.
func (h *contractorHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req contractor.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.ContractorID = chi.URLParam(r, "contractorID")
	req.TenantID = middleware.TenantID(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	profile, err := h.contractorService.UpdateProfile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Auto-clocking profile updated", profile)
}
