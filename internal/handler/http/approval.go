package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/response"
)

type ApprovalHandler interface {
	Decide(w http.ResponseWriter, r *http.Request)
	BulkDecide(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	approvalService timeentry.ApprovalService
}

func NewApprovalHandler(approvalService timeentry.ApprovalService) ApprovalHandler {
	return &approvalHandlerImpl{
		approvalService: approvalService,
	}
}

// Decide implements ApprovalHandler.
func (h *approvalHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req timeentry.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EntryID = chi.URLParam(r, "id")
	req.TenantID = middleware.TenantID(r)
	req.ApproverID = middleware.ActorID(r)
	req.ApproverRole = approverRole(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.approvalService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded", result)
}

// BulkDecide implements ApprovalHandler.
func (h *approvalHandlerImpl) BulkDecide(w http.ResponseWriter, r *http.Request) {
	var req timeentry.BulkDecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = middleware.TenantID(r)
	req.ApproverID = middleware.ActorID(r)
	req.ApproverRole = approverRole(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Per-entry outcomes live in the result envelope, so a partially
	// failed batch is still a 200.
	result, err := h.approvalService.BulkDecide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// approverRole maps the token role onto the approval domain's approver
// roles. Admins decide with manager authority.
func approverRole(r *http.Request) timeentry.ApproverRole {
	switch middleware.Role(r) {
	case middleware.RoleClient:
		return timeentry.RoleClient
	default:
		return timeentry.RoleManager
	}
}
