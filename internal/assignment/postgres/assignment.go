package postgres

import (
	"context"

	"github.com/frahmantamala/timesheet-management/internal/assignment"
	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) assignment.RepositoryAPI {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) GetDefaultProjects(ctx context.Context) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	err := database.Conn(ctx, r.db).
		Where("default_project = ? AND active = ?", true, true).
		Order("name ASC").
		Find(&projects).Error
	return projects, err
}
