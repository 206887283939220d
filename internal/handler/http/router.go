package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	timeEntryHandler TimeEntryHandler,
	approvalHandler ApprovalHandler,
	exceptionHandler ExceptionHandler,
	timesheetHandler TimesheetHandler,
	contractorHandler ContractorHandler,
	autoClockHandler AutoClockHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timetrack"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/time-entries", func(r chi.Router) {
				r.Post("/clock-in", timeEntryHandler.ClockIn)
				r.Post("/clock-out", timeEntryHandler.ClockOut)
				r.Get("/", timeEntryHandler.List)
				r.Get("/{id}", timeEntryHandler.Get)

				// Approvers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireApprover)
					r.Post("/{id}/decision", approvalHandler.Decide)
					r.Post("/bulk-decision", approvalHandler.BulkDecide)
				})
			})

			r.Route("/exceptions", func(r chi.Router) {
				r.Post("/", exceptionHandler.Report)
				r.Get("/", exceptionHandler.List)

				// Managers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/decision", exceptionHandler.Decide)
				})
			})

			r.Route("/contractors/{contractorID}", func(r chi.Router) {
				r.Get("/timesheet", timesheetHandler.Get)

				// Managers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/auto-clocking", contractorHandler.GetProfile)
					r.Put("/auto-clocking", contractorHandler.UpdateProfile)
				})
			})

			// Admin only
			r.Route("/admin/autoclock", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/trigger/{contractorID}", autoClockHandler.Trigger)
				r.Post("/regenerate/{contractorID}", autoClockHandler.Regenerate)
				r.Get("/status", autoClockHandler.Status)
			})
		})
	})
	return r
}
