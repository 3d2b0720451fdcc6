package postgres

import (
	"context"

	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	timesheetDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"github.com/frahmantamala/timesheet-management/internal/timesheet"
	"gorm.io/gorm"
)

type TimesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) timesheet.RepositoryAPI {
	return &TimesheetRepository{db: db}
}

func (r *TimesheetRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	db := database.Conn(ctx, r.db)

	assignments := db.Model(&projectDatamodel.ProjectAssignment{}).
		Select("assignment_id").
		Where("user_id = ?", userID)

	result := db.Where("assignment_id IN (?)", assignments).Delete(&timesheetDatamodel.TimesheetEntry{})
	return result.RowsAffected, result.Error
}
