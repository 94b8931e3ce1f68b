package rest

import (
	"database/sql"
	"log/slog"

	"github.com/crossdept/feedback-platform/internal/analytics"
	"github.com/crossdept/feedback-platform/internal/auth"
	"github.com/crossdept/feedback-platform/internal/category"
	"github.com/crossdept/feedback-platform/internal/department"
	"github.com/crossdept/feedback-platform/internal/mapping"
	"github.com/crossdept/feedback-platform/internal/session"
	"github.com/crossdept/feedback-platform/internal/survey"
	"github.com/crossdept/feedback-platform/internal/transport/middleware"
	"github.com/crossdept/feedback-platform/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Department *department.Handler
	Mapping    *mapping.Handler
	Category   *category.Handler
	Session    *session.Handler
	Survey     *survey.Handler
	Analytics  *analytics.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below requires a valid session.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)

			pr.Route("/session", func(sr chi.Router) {
				sr.Get("/department", h.Session.GetActingDepartment)
				sr.Put("/department", h.Session.SwitchDepartment)
				sr.Delete("/department", h.Session.ResetDepartment)
			})

			pr.Get("/departments", h.Department.GetDepartments)
			pr.Get("/departments/{id}", h.Department.GetDepartment)
			pr.Get("/departments/{id}/targets", h.Mapping.GetPermittedTargets)

			pr.Get("/categories", h.Category.GetCategories)

			pr.Route("/surveys", func(sr chi.Router) {
				sr.Post("/", h.Survey.SubmitSurvey)
				sr.Get("/{id}", h.Survey.GetSurvey)
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.Get("/departments/{id}/score", h.Analytics.GetDepartmentScore)
				rr.Get("/departments/{id}/surveys", h.Analytics.ListSurveys)
				rr.Get("/categories/score", h.Analytics.GetCategoryScore)
			})

			// Catalog and account management is admin territory.
			pr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireAdmin)

				ar.Post("/departments", h.Department.CreateDepartment)
				ar.Put("/departments/{id}", h.Department.UpdateDepartment)
				ar.Delete("/departments/{id}", h.Department.DeleteDepartment)

				ar.Get("/mappings", h.Mapping.GetGrants)
				ar.Post("/mappings", h.Mapping.GrantMapping)
				ar.Delete("/mappings/{fromID}/{toID}", h.Mapping.RevokeMapping)

				ar.Post("/categories", h.Category.CreateCategory)
				ar.Put("/categories/{id}", h.Category.UpdateCategory)
				ar.Delete("/categories/{id}", h.Category.DeleteCategory)

				ar.Get("/users", h.User.GetUsers)
				ar.Post("/users", h.User.CreateUser)
				ar.Put("/users/{id}/affiliations", h.User.SetAffiliations)
				ar.Delete("/users/{id}", h.User.DeactivateUser)
			})
		})
	})
}
