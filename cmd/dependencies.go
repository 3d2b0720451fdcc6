package cmd

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/frahmantamala/timesheet-management/internal/assignment"
	assignmentPostgres "github.com/frahmantamala/timesheet-management/internal/assignment/postgres"
	"github.com/frahmantamala/timesheet-management/internal/auth"
	"github.com/frahmantamala/timesheet-management/internal/core/events"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"github.com/frahmantamala/timesheet-management/internal/report"
	reportPostgres "github.com/frahmantamala/timesheet-management/internal/report/postgres"
	"github.com/frahmantamala/timesheet-management/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/timesheet-management/internal/timesheet/postgres"
	"github.com/frahmantamala/timesheet-management/internal/user"
	userPostgres "github.com/frahmantamala/timesheet-management/internal/user/postgres"
	"github.com/frahmantamala/timesheet-management/pkg/logger"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config      *internal.Config
	DB          *gorm.DB
	SQLX        *sqlx.DB
	EventBus    *events.EventBus
	Roles       *userPostgres.RoleRepository
	UserService *user.Service
	Logger      *slog.Logger
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := database.Open(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sqlxDB, err := database.NewSQLX(db, config.Database.Driver)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sqlx: %w", err)
	}

	hasher, err := auth.NewHasher(config.Security.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	eventBus := events.NewEventBus(log)
	events.RegisterAuditLog(eventBus, log)

	roleRepo := userPostgres.NewRoleRepository(db)

	userService := user.NewService(user.Dependencies{
		Users:       userPostgres.NewUserRepository(db),
		Departments: userPostgres.NewDepartmentRepository(db),
		Roles:       roleRepo,
		Reports:     report.NewService(reportPostgres.NewReportRepository(sqlxDB), log),
		Assignments: assignment.NewService(assignmentPostgres.NewAssignmentRepository(db), log),
		Timesheets:  timesheet.NewService(timesheetPostgres.NewTimesheetRepository(db), log),
		Hasher:      hasher,
		Transactor:  database.NewTransactor(db),
		Events:      eventBus,
		Logger:      log,
	})

	return &Dependencies{
		Config:      config,
		DB:          db,
		SQLX:        sqlxDB,
		EventBus:    eventBus,
		Roles:       roleRepo,
		UserService: userService,
		Logger:      log,
	}, nil
}

// Close flushes pending event handlers and releases the connection pool.
func (d *Dependencies) Close() {
	d.EventBus.Wait()
	if err := database.Close(d.DB); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}
