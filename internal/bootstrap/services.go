package bootstrap

import (
	"log/slog"
	"time"

	"github.com/Gorgija/ehour/config"
	assignrepo "github.com/Gorgija/ehour/internal/assignments/repository"
	assignservice "github.com/Gorgija/ehour/internal/assignments/service"
	"github.com/Gorgija/ehour/internal/assignments/status"
	auditrepo "github.com/Gorgija/ehour/internal/audit/repository"
	auditservice "github.com/Gorgija/ehour/internal/audit/service"
	projectrepo "github.com/Gorgija/ehour/internal/projects/repository"
	projectservice "github.com/Gorgija/ehour/internal/projects/service"
	"github.com/Gorgija/ehour/internal/reference"
	reportrepo "github.com/Gorgija/ehour/internal/reports/repository"
	reportservice "github.com/Gorgija/ehour/internal/reports/service"
	timesheetrepo "github.com/Gorgija/ehour/internal/timesheets/repository"
	timesheetservice "github.com/Gorgija/ehour/internal/timesheets/service"
	userrepo "github.com/Gorgija/ehour/internal/users/repository"
	userservice "github.com/Gorgija/ehour/internal/users/service"
)

// Services is the wired application layer shared by the API and the worker.
type Services struct {
	Reference   *reference.Cache
	Users       *userservice.UserService
	Projects    *projectservice.ProjectService
	Assignments *assignservice.AssignmentService
	Timesheets  *timesheetservice.TimesheetService
	Reports     *reportservice.ReportService
	Audit       *auditservice.AuditService
}

func NewServices(st *Stores, cfg *config.Config, logger *slog.Logger) *Services {
	cache := reference.NewCache(st.Redis, cfg.Redis.TTL, logger)
	hours := reportrepo.NewAggregationRepository(st.SQL)
	assignments := assignrepo.NewAssignmentRepository(st.SQL, cache)
	evaluator := status.NewEvaluator(hours)

	assignmentSvc := assignservice.NewAssignmentService(assignments, hours, evaluator, time.Now, logger)

	return &Services{
		Reference: cache,
		Users: userservice.NewUserService(
			userrepo.NewUserRepository(st.Gorm), assignments, hours, cache, cfg.App.SplitAdminRole, logger,
		),
		Projects:    projectservice.NewProjectService(projectrepo.NewProjectRepository(st.SQL), assignments, hours, logger),
		Assignments: assignmentSvc,
		Timesheets:  timesheetservice.NewTimesheetService(timesheetrepo.NewEntryRepository(st.SQL), assignmentSvc, evaluator, logger),
		Reports:     reportservice.NewReportService(hours, cfg.App.ShowTurnover, logger),
		Audit:       auditservice.NewAuditService(auditrepo.NewAuditRepository(st.Gorm), logger),
	}
}
