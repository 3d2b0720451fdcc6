package user

import (
	"strings"
	"time"

	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"
)

const (
	RoleAdmin          = userDatamodel.RoleAdmin
	RoleConsultant     = userDatamodel.RoleConsultant
	RoleReport         = userDatamodel.RoleReport
	RoleProjectManager = userDatamodel.RoleProjectManager
)

type User struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Salt         string      `json:"-"`
	Email        string      `json:"email,omitempty"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Active       bool        `json:"active"`
	Department   *Department `json:"department,omitempty"`
	Roles        []Role      `json:"roles"`

	// ProjectAssignments holds the active assignments once the user went through
	// GetUser; InactiveProjectAssignments holds the rest.
	ProjectAssignments         []Assignment `json:"project_assignments"`
	InactiveProjectAssignments []Assignment `json:"inactive_project_assignments"`

	Deletable bool      `json:"deletable"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Department struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Users     []User `json:"users,omitempty"`
	Deletable bool   `json:"deletable"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Active         bool   `json:"active"`
	DefaultProject bool   `json:"default_project"`
}

type Assignment struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	ProjectID int64      `json:"project_id"`
	Project   *Project   `json:"project,omitempty"`
	DateStart *time.Time `json:"date_start,omitempty"`
	DateEnd   *time.Time `json:"date_end,omitempty"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) HasRole(roleID string) bool {
	for _, r := range u.Roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

// AddRole grants role unless the user already holds it.
func (u *User) AddRole(role Role) {
	if u.HasRole(role.ID) {
		return
	}
	u.Roles = append(u.Roles, role)
}

func (u *User) IsProjectManager() bool {
	return u.HasRole(RoleProjectManager)
}

func (u *User) HasAssignments() bool {
	return len(u.ProjectAssignments) > 0 || len(u.InactiveProjectAssignments) > 0
}

// AssignmentIDs returns the ids of active and inactive assignments.
func (u *User) AssignmentIDs() []int64 {
	ids := make([]int64, 0, len(u.ProjectAssignments)+len(u.InactiveProjectAssignments))
	for _, a := range u.ProjectAssignments {
		ids = append(ids, a.ID)
	}
	for _, a := range u.InactiveProjectAssignments {
		ids = append(ids, a.ID)
	}
	return ids
}

func (u *User) IsAssignedTo(projectID int64) bool {
	for _, a := range u.ProjectAssignments {
		if a.ProjectID == projectID {
			return true
		}
	}
	for _, a := range u.InactiveProjectAssignments {
		if a.ProjectID == projectID {
			return true
		}
	}
	return false
}

func (d *Department) HasUsers() bool {
	return len(d.Users) > 0
}

func ToDataModel(u *User) *userDatamodel.User {
	dm := &userDatamodel.User{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.PasswordHash,
		Salt:      u.Salt,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Email != "" {
		email := u.Email
		dm.Email = &email
	}
	if u.Department != nil {
		deptID := u.Department.ID
		dm.DepartmentID = &deptID
	}
	for _, r := range u.Roles {
		dm.Roles = append(dm.Roles, RoleToDataModel(r))
	}
	for _, a := range u.ProjectAssignments {
		dm.ProjectAssignments = append(dm.ProjectAssignments, AssignmentToDataModel(a))
	}
	for _, a := range u.InactiveProjectAssignments {
		dm.ProjectAssignments = append(dm.ProjectAssignments, AssignmentToDataModel(a))
	}
	return dm
}

// FromDataModel maps a stored user to the domain. Every assignment lands in
// ProjectAssignments; partitioning is up to the caller.
func FromDataModel(u *userDatamodel.User) *User {
	domainUser := &User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.Password,
		Salt:         u.Salt,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Active:       u.Active,
		Roles:        []Role{},
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.Email != nil {
		domainUser.Email = *u.Email
	}
	if u.Department != nil {
		domainUser.Department = &Department{
			ID:   u.Department.ID,
			Name: u.Department.Name,
			Code: u.Department.Code,
		}
	} else if u.DepartmentID != nil {
		domainUser.Department = &Department{ID: *u.DepartmentID}
	}
	for _, r := range u.Roles {
		domainUser.Roles = append(domainUser.Roles, RoleFromDataModel(&r))
	}
	for i := range u.ProjectAssignments {
		domainUser.ProjectAssignments = append(domainUser.ProjectAssignments, AssignmentFromDataModel(&u.ProjectAssignments[i]))
	}
	return domainUser
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}

func DepartmentToDataModel(d *Department) *userDatamodel.UserDepartment {
	return &userDatamodel.UserDepartment{
		ID:   d.ID,
		Name: d.Name,
		Code: d.Code,
	}
}

func DepartmentFromDataModel(d *userDatamodel.UserDepartment) *Department {
	dept := &Department{
		ID:   d.ID,
		Name: d.Name,
		Code: d.Code,
	}
	for i := range d.Users {
		dept.Users = append(dept.Users, *FromDataModel(&d.Users[i]))
	}
	return dept
}

func RoleToDataModel(r Role) userDatamodel.UserRole {
	return userDatamodel.UserRole{ID: r.ID, Name: r.Name}
}

func RoleFromDataModel(r *userDatamodel.UserRole) Role {
	return Role{ID: r.ID, Name: r.Name}
}

func AssignmentToDataModel(a Assignment) projectDatamodel.ProjectAssignment {
	return projectDatamodel.ProjectAssignment{
		ID:        a.ID,
		UserID:    a.UserID,
		ProjectID: a.ProjectID,
		DateStart: a.DateStart,
		DateEnd:   a.DateEnd,
	}
}

func AssignmentFromDataModel(a *projectDatamodel.ProjectAssignment) Assignment {
	assignment := Assignment{
		ID:        a.ID,
		UserID:    a.UserID,
		ProjectID: a.ProjectID,
		DateStart: a.DateStart,
		DateEnd:   a.DateEnd,
	}
	if a.Project != nil {
		assignment.Project = ProjectFromDataModel(a.Project)
	}
	return assignment
}

func ProjectFromDataModel(p *projectDatamodel.Project) *Project {
	return &Project{
		ID:             p.ID,
		Name:           p.Name,
		Code:           p.Code,
		Active:         p.Active,
		DefaultProject: p.DefaultProject,
	}
}
