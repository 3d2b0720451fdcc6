package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/timesheet-management/internal"
	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"github.com/frahmantamala/timesheet-management/internal/user"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) user.DepartmentRepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.UserDepartment, error) {
	var dept userDatamodel.UserDepartment
	err := database.Conn(ctx, r.db).Preload("Users").Where("department_id = ?", id).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*userDatamodel.UserDepartment, error) {
	var departments []*userDatamodel.UserDepartment
	err := database.Conn(ctx, r.db).Preload("Users").Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByNameAndCode(ctx context.Context, name, code string) (*userDatamodel.UserDepartment, error) {
	var dept userDatamodel.UserDepartment
	err := database.Conn(ctx, r.db).Where("name = ? AND code = ?", name, code).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) Save(ctx context.Context, dept *userDatamodel.UserDepartment) error {
	err := database.Conn(ctx, r.db).Omit("Users").Save(dept).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDepartmentNotUnique
	}
	return err
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return database.Conn(ctx, r.db).Where("department_id = ?", id).Delete(&userDatamodel.UserDepartment{}).Error
}
