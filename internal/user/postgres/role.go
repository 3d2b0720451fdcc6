package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"github.com/frahmantamala/timesheet-management/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ user.RoleRepositoryAPI = (*RoleRepository)(nil)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*userDatamodel.UserRole, error) {
	var role userDatamodel.UserRole
	err := database.Conn(ctx, r.db).Where("role = ?", id).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) GetAll(ctx context.Context) ([]*userDatamodel.UserRole, error) {
	var roles []*userDatamodel.UserRole
	err := database.Conn(ctx, r.db).Order("role ASC").Find(&roles).Error
	return roles, err
}

// EnsureRoles inserts any missing catalog role; existing rows are left as they are.
func (r *RoleRepository) EnsureRoles(ctx context.Context, roles []userDatamodel.UserRole) error {
	if len(roles) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error
}
