package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	assignhttp "github.com/Gorgija/ehour/internal/assignments/http"
	audithttp "github.com/Gorgija/ehour/internal/audit/http"
	"github.com/Gorgija/ehour/internal/auth"
	authhttp "github.com/Gorgija/ehour/internal/auth/http"
	authmw "github.com/Gorgija/ehour/internal/auth/middleware"
	projecthttp "github.com/Gorgija/ehour/internal/projects/http"
	reporthttp "github.com/Gorgija/ehour/internal/reports/http"
	timesheethttp "github.com/Gorgija/ehour/internal/timesheets/http"
	userdomain "github.com/Gorgija/ehour/internal/users/domain"
	userhttp "github.com/Gorgija/ehour/internal/users/http"
)

// Users covers both the user handlers and request authentication.
type Users interface {
	userhttp.Users
	auth.UserLookup
}

// Audit serves the audit queries and records mutating requests.
type Audit interface {
	audithttp.Audits
	audithttp.Recorder
}

type V1Deps struct {
	Users       Users
	Projects    projecthttp.Projects
	Assignments assignhttp.Assignments
	Timesheets  timesheethttp.Timesheets
	Reports     reporthttp.Reports
	Audit       Audit
	Logger      *slog.Logger
}

// RegisterV1 mounts the API under /api/v1. Every route needs a resolved
// user; management routes are further gated by role.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	logger := dep.Logger
	api := r.Group("/api/v1")
	api.Use(auth.WithUser(dep.Users, logger), audithttp.Middleware(dep.Audit, logger))

	authhttp.New(dep.Users, logger).Register(api)
	timesheethttp.New(dep.Timesheets, logger).Register(api.Group("/timesheets"))

	assignments := assignhttp.New(dep.Assignments, logger)

	userAdmin := authmw.RequireRole(userdomain.RoleAdmin, userdomain.RoleManager)
	users := userhttp.New(dep.Users, logger)
	usersGroup := api.Group("/users", userAdmin)
	users.Register(usersGroup)
	assignments.RegisterUserRoutes(usersGroup)
	users.RegisterDepartments(api.Group("/departments", userAdmin))

	projectAdmin := authmw.RequireRole(userdomain.RoleAdmin, userdomain.RoleManager, userdomain.RoleProjectManager)
	projectsGroup := api.Group("/projects", projectAdmin)
	projecthttp.New(dep.Projects, logger).Register(projectsGroup)
	assignments.RegisterProjectRoutes(projectsGroup)
	assignments.Register(api.Group("/assignments", projectAdmin))

	reporthttp.New(dep.Reports, logger).Register(api.Group("/reports",
		authmw.RequireRole(userdomain.RoleAdmin, userdomain.RoleReport, userdomain.RoleProjectManager)))
	audithttp.New(dep.Audit, logger).Register(api.Group("/audit", authmw.RequireRole(userdomain.RoleAdmin)))
}
