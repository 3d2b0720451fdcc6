package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/timesheet-management/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"github.com/frahmantamala/timesheet-management/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

// withRelations preloads everything the user service reads from a user.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Department").
		Preload("Roles").
		Preload("ProjectAssignments").
		Preload("ProjectAssignments.Project")
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := withRelations(database.Conn(ctx, r.db)).Where("user_id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := withRelations(database.Conn(ctx, r.db)).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetAll(ctx context.Context, includeInactive bool) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	query := withRelations(database.Conn(ctx, r.db))
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	err := query.Order("last_name ASC, first_name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetActive(ctx context.Context) ([]*userDatamodel.User, error) {
	return r.GetAll(ctx, false)
}

func (r *UserRepository) GetActiveWithEmailSet(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := withRelations(database.Conn(ctx, r.db)).
		Where("active = ? AND email IS NOT NULL AND email <> ''", true).
		Order("last_name ASC, first_name ASC").
		Find(&users).Error
	return users, err
}

// GetActiveByRole resolves the role filter through the indexed join table.
func (r *UserRepository) GetActiveByRole(ctx context.Context, roleID string) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := withRelations(database.Conn(ctx, r.db)).
		Joins("JOIN user_to_userrole ur ON ur.user_id = users.user_id").
		Where("ur.role = ? AND users.active = ?", roleID, true).
		Order("users.last_name ASC, users.first_name ASC").
		Find(&users).Error
	return users, err
}

// Save inserts or updates the user row, replaces its role set and inserts
// assignments that have no id yet.
func (r *UserRepository) Save(ctx context.Context, u *userDatamodel.User) error {
	db := database.Conn(ctx, r.db)

	if err := db.Omit(clause.Associations).Save(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrUsernameNotUnique
		}
		return err
	}

	roles := db.Model(u).Association("Roles")
	if len(u.Roles) == 0 {
		if err := roles.Clear(); err != nil {
			return err
		}
	} else if err := roles.Replace(u.Roles); err != nil {
		return err
	}

	for i := range u.ProjectAssignments {
		assignment := &u.ProjectAssignments[i]
		if assignment.ID != 0 {
			continue
		}
		assignment.UserID = u.ID
		if err := db.Omit(clause.Associations).Create(assignment).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the user together with its role grants and assignments, and
// clears it as manager of any project.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	db := database.Conn(ctx, r.db)

	if err := db.Where("user_id = ?", id).Delete(&userDatamodel.UserToUserRole{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).Delete(&projectDatamodel.ProjectAssignment{}).Error; err != nil {
		return err
	}
	if err := db.Model(&projectDatamodel.Project{}).
		Where("project_manager = ?", id).
		Update("project_manager", nil).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", id).Delete(&userDatamodel.User{}).Error
}

// DeletePMRolesWithoutProject revokes the project manager role from users who
// manage no active project.
func (r *UserRepository) DeletePMRolesWithoutProject(ctx context.Context) (int64, error) {
	db := database.Conn(ctx, r.db)

	managers := db.Model(&projectDatamodel.Project{}).
		Select("project_manager").
		Where("active = ? AND project_manager IS NOT NULL", true)

	result := db.
		Where("role = ? AND user_id NOT IN (?)", userDatamodel.RoleProjectManager, managers).
		Delete(&userDatamodel.UserToUserRole{})
	return result.RowsAffected, result.Error
}
