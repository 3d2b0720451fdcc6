package user

import (
	"time"

	"github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
)

const (
	RoleAdmin          = "ROLE_ADMIN"
	RoleConsultant     = "ROLE_CONSULTANT"
	RoleReport         = "ROLE_REPORT"
	RoleProjectManager = "ROLE_PROJECTMANAGER"
)

// RoleCatalog is the fixed set of roles; roles are never created by users.
var RoleCatalog = []UserRole{
	{ID: RoleAdmin, Name: "Administrator"},
	{ID: RoleConsultant, Name: "User"},
	{ID: RoleReport, Name: "Report role"},
	{ID: RoleProjectManager, Name: "PM"},
}

type User struct {
	ID           int64           `gorm:"column:user_id;primaryKey"`
	Username     string          `gorm:"column:username;size:64;uniqueIndex;not null"`
	Password     string          `gorm:"column:password;size:256;not null"`
	Salt         string          `gorm:"column:salt;size:64"`
	Email        *string         `gorm:"column:email;size:128"`
	FirstName    string          `gorm:"column:first_name;size:64"`
	LastName     string          `gorm:"column:last_name;size:64;not null"`
	Active       bool            `gorm:"column:active;not null"`
	DepartmentID *int64          `gorm:"column:department_id;index"`
	Department   *UserDepartment `gorm:"foreignKey:DepartmentID;references:ID"`
	Roles        []UserRole      `gorm:"many2many:user_to_userrole;joinForeignKey:UserID;joinReferences:Role"`

	ProjectAssignments []project.ProjectAssignment `gorm:"foreignKey:UserID;references:ID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserDepartment struct {
	ID    int64  `gorm:"column:department_id;primaryKey"`
	Name  string `gorm:"column:name;size:128;not null;uniqueIndex:idx_department_name_code"`
	Code  string `gorm:"column:code;size:64;not null;uniqueIndex:idx_department_name_code"`
	Users []User `gorm:"foreignKey:DepartmentID;references:ID"`
}

func (UserDepartment) TableName() string {
	return "user_departments"
}

type UserRole struct {
	ID   string `gorm:"column:role;primaryKey;size:128"`
	Name string `gorm:"column:role_name;size:128;not null"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// UserToUserRole is the join row behind User.Roles. It is declared so the role
// column carries its own index for role-filtered lookups.
type UserToUserRole struct {
	UserID int64  `gorm:"column:user_id;primaryKey"`
	Role   string `gorm:"column:role;primaryKey;size:128;index"`
}

func (UserToUserRole) TableName() string {
	return "user_to_userrole"
}
