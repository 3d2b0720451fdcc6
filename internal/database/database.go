package database

import (
	"fmt"

	"github.com/frahmantamala/timesheet-management/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	timesheetDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/timesheet"
	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects gorm to the configured database. Constraint violations are
// translated into gorm errors such as gorm.ErrDuplicatedKey.
func Open(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.GetDSN())
	case DriverSQLite:
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewSQLX wraps the pool owned by gorm so hand-written queries share its connections.
func NewSQLX(db *gorm.DB, driver string) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlx.NewDb(sqlDB, SQLXDriverName(driver)), nil
}

// SQLXDriverName maps a config driver to the database/sql driver name sqlx
// uses to pick its bind style.
func SQLXDriverName(driver string) string {
	if driver == DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// AutoMigrate creates the schema from the datamodels. It backs development
// sqlite databases and tests; postgres goes through the goose migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&userDatamodel.User{}, "Roles", &userDatamodel.UserToUserRole{}); err != nil {
		return fmt.Errorf("failed to setup user role join table: %w", err)
	}

	models := []interface{}{
		&userDatamodel.UserDepartment{},
		&userDatamodel.UserRole{},
		&userDatamodel.User{},
		&userDatamodel.UserToUserRole{},
		&projectDatamodel.Project{},
		&projectDatamodel.ProjectAssignment{},
		&timesheetDatamodel.TimesheetEntry{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
