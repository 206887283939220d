package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/response"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/cron"
	"github.com/workpulse-hq/timetrack-backend-go/internal/service/autoclock"
)

type AutoClockHandler interface {
	Trigger(w http.ResponseWriter, r *http.Request)
	Regenerate(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type autoClockHandlerImpl struct {
	engine    *autoclock.Engine
	scheduler *cron.Scheduler
}

func NewAutoClockHandler(engine *autoclock.Engine, scheduler *cron.Scheduler) AutoClockHandler {
	return &autoClockHandlerImpl{
		engine:    engine,
		scheduler: scheduler,
	}
}

type triggerRequest struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD; today when omitted
}

type regenerateRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Trigger implements AutoClockHandler.
func (h *autoClockHandlerImpl) Trigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	var date time.Time
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			response.BadRequest(w, "Date must be in YYYY-MM-DD format", nil)
			return
		}
		date = parsed
	}

	created, err := h.engine.TriggerContractor(r.Context(),
		middleware.TenantID(r), chi.URLParam(r, "contractorID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"created": created,
	})
}

// Regenerate implements AutoClockHandler.
func (h *autoClockHandlerImpl) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req regenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		response.BadRequest(w, "Start date must be in YYYY-MM-DD format", nil)
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		response.BadRequest(w, "End date must be in YYYY-MM-DD format", nil)
		return
	}

	result, err := h.engine.Regenerate(r.Context(),
		middleware.TenantID(r), chi.URLParam(r, "contractorID"), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regeneration completed", result)
}

// Status implements AutoClockHandler.
func (h *autoClockHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"active_triggers": h.scheduler.Active(),
		"generated":       stats,
	})
}
