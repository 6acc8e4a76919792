package http

import (
	"log/slog"
	"os"

	"github.com/atlashr/personnel-backend-go/internal/handler/http/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokenAuth *jwtauth.JWTAuth,
	leaveHandler LeaveHandler,
	absenceHandler AbsenceHandler,
	categoryHandler CategoryHandler,
	reportHandler ReportHandler,
	reconcileHandler ReconcileHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "personnel-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
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

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(middleware.AuthRequired(tokenAuth))

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", leaveHandler.ListRequests)
				r.Post("/", leaveHandler.CreateRequest)
				r.Get("/allowance", leaveHandler.GetAllowance)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Delete("/", leaveHandler.DeleteRequest)
					r.Post("/approve", leaveHandler.ApproveRequest)
					r.Post("/reject", leaveHandler.RejectRequest)
					r.Post("/cancel", leaveHandler.CancelRequest)
					r.Patch("/reason", leaveHandler.UpdateReason)
				})
			})

			r.Route("/absences", func(r chi.Router) {
				r.Get("/", absenceHandler.ListRecords)
				r.Post("/", absenceHandler.CreateRecord)
				r.Get("/remaining", absenceHandler.GetRemaining)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", absenceHandler.GetRecord)
					r.Delete("/", absenceHandler.DeleteRecord)
					r.Post("/validate", absenceHandler.ValidateRecord)
					r.Post("/reject", absenceHandler.RejectRecord)
					r.Post("/cancel", absenceHandler.CancelRecord)
				})
			})

			r.Route("/leave-categories", func(r chi.Router) {
				r.Get("/", categoryHandler.ListLeaveCategories)
				r.Get("/{id}", categoryHandler.GetLeaveCategory)
			})

			r.Route("/absence-types", func(r chi.Router) {
				r.Get("/", categoryHandler.ListAbsenceTypes)
				r.Get("/{id}", categoryHandler.GetAbsenceType)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/leaves", reportHandler.LeaveStatistics)
				r.Get("/absences", reportHandler.AbsenceStatistics)
				r.Get("/starting-soon", reportHandler.StartingSoon)
				r.Get("/on-leave", reportHandler.CurrentlyOnLeave)
			})

			r.Route("/reconcile", func(r chi.Router) {
				r.Post("/", reconcileHandler.RunBatch)
				r.Post("/persons/{id}", reconcileHandler.RunPerson)
			})

			r.Route("/persons/{id}", func(r chi.Router) {
				r.Get("/can-take-leave", leaveHandler.CheckAvailability)
				r.Get("/is-absent", absenceHandler.CheckAbsentOn)
			})
		})
	})
	return r
}
