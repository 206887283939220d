package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/exception"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/response"
)

type ExceptionHandler interface {
	Report(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type exceptionHandlerImpl struct {
	exceptionService exception.Service
}

func NewExceptionHandler(exceptionService exception.Service) ExceptionHandler {
	return &exceptionHandlerImpl{
		exceptionService: exceptionService,
	}
}

// Report implements ExceptionHandler.
func (h *exceptionHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	var req exception.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = middleware.TenantID(r)
	req.ContractorID = middleware.ActorID(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.exceptionService.Report(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Exception reported", result)
}

// Decide implements ExceptionHandler.
func (h *exceptionHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req exception.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ExceptionID = chi.URLParam(r, "id")
	req.TenantID = middleware.TenantID(r)
	req.DecidedBy = middleware.ActorID(r)

	result, err := h.exceptionService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded", result)
}

// List implements ExceptionHandler.
func (h *exceptionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := exception.ExceptionFilter{Page: 1, Limit: 20}

	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if v := q.Get("contractor_id"); v != "" {
		filter.ContractorID = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("type"); v != "" {
		filter.Type = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}

	result, err := h.exceptionService.List(r.Context(), filter, middleware.TenantID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Exceptions, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
	})
}
