package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/response"
	"github.com/workpulse-hq/timetrack-backend-go/internal/service/timesheet"
)

type TimesheetHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService *timesheet.TimesheetServiceImpl
}

func NewTimesheetHandler(timesheetService *timesheet.TimesheetServiceImpl) TimesheetHandler {
	return &timesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}

// Get implements TimesheetHandler.
func (h *timesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start_date"))
	if err != nil {
		response.BadRequest(w, "Start date must be in YYYY-MM-DD format", nil)
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end_date"))
	if err != nil {
		response.BadRequest(w, "End date must be in YYYY-MM-DD format", nil)
		return
	}
	if end.Before(start) {
		response.BadRequest(w, "End date precedes start date", nil)
		return
	}

	sheet, err := h.timesheetService.BuildTimesheet(r.Context(),
		middleware.TenantID(r), chi.URLParam(r, "contractorID"), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sheet)
}
