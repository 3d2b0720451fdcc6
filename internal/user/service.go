package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/frahmantamala/timesheet-management/internal/auth"
	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-management/internal/core/events"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"github.com/frahmantamala/timesheet-management/internal/metrics"
	"github.com/frahmantamala/timesheet-management/internal/report"
)

// RepositoryAPI returns (nil, nil) from single-record lookups that find nothing.
type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	GetAll(ctx context.Context, includeInactive bool) ([]*userDatamodel.User, error)
	GetActive(ctx context.Context) ([]*userDatamodel.User, error)
	GetActiveWithEmailSet(ctx context.Context) ([]*userDatamodel.User, error)
	GetActiveByRole(ctx context.Context, roleID string) ([]*userDatamodel.User, error)
	Save(ctx context.Context, user *userDatamodel.User) error
	Delete(ctx context.Context, id int64) error
	DeletePMRolesWithoutProject(ctx context.Context) (int64, error)
}

type DepartmentRepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.UserDepartment, error)
	GetAll(ctx context.Context) ([]*userDatamodel.UserDepartment, error)
	GetByNameAndCode(ctx context.Context, name, code string) (*userDatamodel.UserDepartment, error)
	Save(ctx context.Context, department *userDatamodel.UserDepartment) error
	Delete(ctx context.Context, id int64) error
}

type RoleRepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.UserRole, error)
	GetAll(ctx context.Context) ([]*userDatamodel.UserRole, error)
}

// AggregateReporter sums booked hours per assignment.
type AggregateReporter interface {
	GetHoursPerAssignment(ctx context.Context, assignmentIDs []int64) ([]report.AssignmentAggregate, error)
}

// AssignmentManager attaches the default project assignments to a new user.
type AssignmentManager interface {
	AssignUserToDefaultProjects(ctx context.Context, user *User) error
}

type TimesheetRemover interface {
	DeleteTimesheetEntries(ctx context.Context, userID int64) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Dependencies struct {
	Users       RepositoryAPI
	Departments DepartmentRepositoryAPI
	Roles       RoleRepositoryAPI
	Reports     AggregateReporter
	Assignments AssignmentManager
	Timesheets  TimesheetRemover
	Hasher      auth.PasswordHasher
	Transactor  database.Transactor
	Events      EventPublisher
	Logger      *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	users       RepositoryAPI
	departments DepartmentRepositoryAPI
	roles       RoleRepositoryAPI
	reports     AggregateReporter
	assignments AssignmentManager
	timesheets  TimesheetRemover
	hasher      auth.PasswordHasher
	tx          database.Transactor
	events      EventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(deps Dependencies) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		users:       deps.Users,
		departments: deps.Departments,
		roles:       deps.Roles,
		reports:     deps.Reports,
		assignments: deps.Assignments,
		timesheets:  deps.Timesheets,
		hasher:      deps.Hasher,
		tx:          deps.Transactor,
		events:      deps.Events,
		logger:      deps.Logger,
		now:         now,
	}
}

// GetUser loads a user and splits its assignments into active and inactive ones
// as of today.
func (s *Service) GetUser(ctx context.Context, userID int64) (_ *User, err error) {
	defer metrics.Observe("get_user", time.Now(), &err)

	dbUser, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, internal.ErrUserNotFound
	}

	return s.toDomain(dbUser), nil
}

// GetUserAndCheckDeletability marks the user deletable when it has no
// assignments, or when no hours were ever booked on any of them.
func (s *Service) GetUserAndCheckDeletability(ctx context.Context, userID int64) (_ *User, err error) {
	defer metrics.Observe("get_user_deletability", time.Now(), &err)

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !u.HasAssignments() {
		u.Deletable = true
	} else {
		aggregates, err := s.reports.GetHoursPerAssignment(ctx, u.AssignmentIDs())
		if err != nil {
			s.logger.Error("failed to aggregate hours", "user_id", userID, "error", err)
			return nil, fmt.Errorf("failed to aggregate hours: %w", err)
		}
		u.Deletable = report.IsEmptyAggregateList(aggregates)
	}

	s.logger.Info("retrieved user", "username", u.Username, "deletable", u.Deletable)
	return u, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (_ *User, err error) {
	defer metrics.Observe("get_user_by_username", time.Now(), &err)

	dbUser, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	if dbUser == nil {
		return nil, internal.ErrUserNotFound
	}
	return s.toDomain(dbUser), nil
}

// EditUser creates or updates the user owning u.Username. A zero u.ID matches
// whichever record holds the username; a non-zero u.ID owned by another
// username renames that record. Password and salt are never touched here.
func (s *Service) EditUser(ctx context.Context, u *User) (_ *User, err error) {
	defer metrics.Observe("edit_user", time.Now(), &err)

	if err := u.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("persisting user", "username", u.Username, "user_id", u.ID)

	var (
		dbUser  *userDatamodel.User
		created bool
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByUsername(ctx, u.Username)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}

		switch {
		case existing != nil && u.ID != 0 && existing.ID != u.ID:
			return internal.ErrUsernameNotUnique
		case existing != nil:
			dbUser = existing
		case u.ID != 0:
			dbUser, err = s.users.GetByID(ctx, u.ID)
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}
			if dbUser == nil {
				return internal.ErrUserNotFound
			}
		default:
			dbUser = &userDatamodel.User{}
			created = true
		}

		roles, err := s.resolveRoles(ctx, u.Roles)
		if err != nil {
			return err
		}
		departmentID, err := s.resolveDepartment(ctx, u.Department)
		if err != nil {
			return err
		}

		dbUser.Active = u.Active
		dbUser.Email = optionalString(u.Email)
		dbUser.FirstName = u.FirstName
		dbUser.LastName = u.LastName
		dbUser.DepartmentID = departmentID
		dbUser.Department = nil
		dbUser.Username = u.Username
		dbUser.Roles = roles

		if err := s.users.Save(ctx, dbUser); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to edit user", "username", u.Username, "error", err)
		return nil, err
	}

	eventType := events.EventTypeUserUpdated
	if created {
		eventType = events.EventTypeUserCreated
	}
	s.publish(ctx, events.NewUserEvent(eventType, dbUser.ID, dbUser.Username, internal.ActorFromContext(ctx)))

	return s.toDomain(dbUser), nil
}

// NewUser stores a new user with a freshly salted password hash and its
// default project assignments.
func (s *Service) NewUser(ctx context.Context, u *User, password string) (_ *User, err error) {
	defer metrics.Observe("new_user", time.Now(), &err)

	if err := u.Validate(); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, internal.ErrPasswordEmpty
	}

	var dbUser *userDatamodel.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByUsername(ctx, u.Username)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil && existing.ID != u.ID {
			return internal.ErrUsernameNotUnique
		}

		roles, err := s.resolveRoles(ctx, u.Roles)
		if err != nil {
			return err
		}
		if _, err := s.resolveDepartment(ctx, u.Department); err != nil {
			return err
		}

		salt, err := s.hasher.NewSalt()
		if err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
		hash, err := s.hasher.Hash(password, salt)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		u.Salt = salt
		u.PasswordHash = hash

		if err := s.assignments.AssignUserToDefaultProjects(ctx, u); err != nil {
			return fmt.Errorf("failed to assign default projects: %w", err)
		}

		dbUser = ToDataModel(u)
		dbUser.Roles = roles
		if err := s.users.Save(ctx, dbUser); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create user", "username", u.Username, "error", err)
		return nil, err
	}

	u.ID = dbUser.ID
	for i := range u.ProjectAssignments {
		if i < len(dbUser.ProjectAssignments) {
			u.ProjectAssignments[i].ID = dbUser.ProjectAssignments[i].ID
			u.ProjectAssignments[i].UserID = dbUser.ID
		}
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "default_assignments", len(u.ProjectAssignments))
	s.publish(ctx, events.NewUserEvent(events.EventTypeUserCreated, u.ID, u.Username, internal.ActorFromContext(ctx)))

	return u, nil
}

// ChangePassword re-salts and re-hashes the password of username. An unknown
// username yields false without error.
func (s *Service) ChangePassword(ctx context.Context, username, password string) (_ bool, err error) {
	defer metrics.Observe("change_password", time.Now(), &err)

	if password == "" {
		return false, internal.ErrPasswordEmpty
	}

	var dbUser *userDatamodel.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		dbUser, err = s.users.GetByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("failed to get user by username: %w", err)
		}
		if dbUser == nil {
			return nil
		}

		salt, err := s.hasher.NewSalt()
		if err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
		hash, err := s.hasher.Hash(password, salt)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		dbUser.Salt = salt
		dbUser.Password = hash

		if err := s.users.Save(ctx, dbUser); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to change password", "username", username, "error", err)
		return false, err
	}

	if dbUser == nil {
		s.logger.Warn("trying to change password but user not found", "username", username)
		return false, nil
	}

	s.publish(ctx, events.NewUserEvent(events.EventTypeUserPasswordChanged, dbUser.ID, dbUser.Username, internal.ActorFromContext(ctx)))
	return true, nil
}

// ValidateProjectManagementRoles grants the project manager role to userID when
// given, then drops project manager grants no longer backed by a managed project.
func (s *Service) ValidateProjectManagementRoles(ctx context.Context, userID *int64) (_ *User, err error) {
	defer metrics.Observe("validate_pm_roles", time.Now(), &err)

	var dbUser *userDatamodel.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if userID != nil {
			dbUser, err = s.users.GetByID(ctx, *userID)
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}
			if dbUser == nil {
				return internal.ErrUserNotFound
			}

			pmRole, err := s.roles.GetByID(ctx, RoleProjectManager)
			if err != nil {
				return fmt.Errorf("failed to get project manager role: %w", err)
			}
			if pmRole == nil {
				return internal.ErrRoleNotFound
			}

			if !hasRole(dbUser.Roles, pmRole.ID) {
				dbUser.Roles = append(dbUser.Roles, *pmRole)
			}
			if err := s.users.Save(ctx, dbUser); err != nil {
				return fmt.Errorf("failed to save user: %w", err)
			}
		}

		removed, err := s.users.DeletePMRolesWithoutProject(ctx)
		if err != nil {
			return fmt.Errorf("failed to clean up project manager roles: %w", err)
		}
		if removed > 0 {
			s.logger.Info("removed stale project manager roles", "count", removed)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to validate project management roles", "error", err)
		return nil, err
	}

	if dbUser == nil {
		return nil, nil
	}

	s.publish(ctx, events.NewUserEvent(events.EventTypeUserPMRoleGranted, dbUser.ID, dbUser.Username, internal.ActorFromContext(ctx)))
	return s.toDomain(dbUser), nil
}

func (s *Service) GetUsers(ctx context.Context, includeInactive bool) (_ []*User, err error) {
	defer metrics.Observe("get_users", time.Now(), &err)

	dbUsers, err := s.users.GetAll(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return s.toDomainSlice(dbUsers), nil
}

func (s *Service) GetActiveUsers(ctx context.Context) (_ []*User, err error) {
	defer metrics.Observe("get_active_users", time.Now(), &err)

	dbUsers, err := s.users.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active users: %w", err)
	}
	return s.toDomainSlice(dbUsers), nil
}

func (s *Service) GetUsersWithEmailSet(ctx context.Context) (_ []*User, err error) {
	defer metrics.Observe("get_users_with_email", time.Now(), &err)

	dbUsers, err := s.users.GetActiveWithEmailSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users with email: %w", err)
	}
	return s.toDomainSlice(dbUsers), nil
}

// GetUsersByRole returns the active users holding roleID.
func (s *Service) GetUsersByRole(ctx context.Context, roleID string) (_ []*User, err error) {
	defer metrics.Observe("get_users_by_role", time.Now(), &err)

	dbUsers, err := s.users.GetActiveByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by role: %w", err)
	}
	return s.toDomainSlice(dbUsers), nil
}

// DeleteUser removes the user's timesheet entries and then the user.
func (s *Service) DeleteUser(ctx context.Context, userID int64) (err error) {
	defer metrics.Observe("delete_user", time.Now(), &err)

	var deleted *userDatamodel.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		deleted, err = s.deleteUser(ctx, userID)
		return err
	})
	if err != nil {
		s.logger.Error("failed to delete user", "user_id", userID, "error", err)
		return err
	}

	s.publish(ctx, events.NewUserEvent(events.EventTypeUserDeleted, deleted.ID, deleted.Username, internal.ActorFromContext(ctx)))
	return nil
}

func (s *Service) deleteUser(ctx context.Context, userID int64) (*userDatamodel.User, error) {
	dbUser, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, internal.ErrUserNotFound
	}

	removed, err := s.timesheets.DeleteTimesheetEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete timesheet entries: %w", err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("deleted user", "user_id", userID, "username", dbUser.Username, "timesheet_entries", removed)
	return dbUser, nil
}

// PersistUserDepartment creates or updates a department. The (name, code) pair
// may only belong to the department being saved.
func (s *Service) PersistUserDepartment(ctx context.Context, d *Department) (_ *Department, err error) {
	defer metrics.Observe("persist_department", time.Now(), &err)

	if err := d.Validate(); err != nil {
		return nil, err
	}

	dbDept := DepartmentToDataModel(d)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		other, err := s.departments.GetByNameAndCode(ctx, d.Name, d.Code)
		if err != nil {
			return fmt.Errorf("failed to check department: %w", err)
		}
		if other != nil && other.ID != d.ID {
			return internal.ErrDepartmentNotUnique
		}

		if err := s.departments.Save(ctx, dbDept); err != nil {
			return fmt.Errorf("failed to save department: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to persist department", "name", d.Name, "code", d.Code, "error", err)
		return nil, err
	}

	d.ID = dbDept.ID
	s.publish(ctx, events.NewDepartmentEvent(events.EventTypeDepartmentSaved, d.ID, d.Code, internal.ActorFromContext(ctx)))
	return d, nil
}

// GetUserDepartment loads a department; it is deletable when it has no users.
func (s *Service) GetUserDepartment(ctx context.Context, departmentID int64) (_ *Department, err error) {
	defer metrics.Observe("get_department", time.Now(), &err)

	dbDept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	if dbDept == nil {
		return nil, internal.ErrDepartmentNotFound
	}

	d := DepartmentFromDataModel(dbDept)
	d.Deletable = !d.HasUsers()
	return d, nil
}

func (s *Service) GetUserDepartments(ctx context.Context) (_ []*Department, err error) {
	defer metrics.Observe("get_departments", time.Now(), &err)

	dbDepts, err := s.departments.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get departments: %w", err)
	}

	departments := make([]*Department, len(dbDepts))
	for i, dbDept := range dbDepts {
		departments[i] = DepartmentFromDataModel(dbDept)
		departments[i].Deletable = !departments[i].HasUsers()
	}
	return departments, nil
}

// DeleteDepartment deletes every member user, then the department.
func (s *Service) DeleteDepartment(ctx context.Context, departmentID int64) (err error) {
	defer metrics.Observe("delete_department", time.Now(), &err)

	var (
		dbDept       *userDatamodel.UserDepartment
		deletedUsers []*userDatamodel.User
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		dbDept, err = s.departments.GetByID(ctx, departmentID)
		if err != nil {
			return fmt.Errorf("failed to get department: %w", err)
		}
		if dbDept == nil {
			return internal.ErrDepartmentNotFound
		}

		s.logger.Info("deleting department", "department_id", dbDept.ID, "code", dbDept.Code, "users", len(dbDept.Users))

		for _, member := range dbDept.Users {
			deleted, err := s.deleteUser(ctx, member.ID)
			if err != nil {
				return err
			}
			deletedUsers = append(deletedUsers, deleted)
		}

		if err := s.departments.Delete(ctx, departmentID); err != nil {
			return fmt.Errorf("failed to delete department: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to delete department", "department_id", departmentID, "error", err)
		return err
	}

	actor := internal.ActorFromContext(ctx)
	for _, deleted := range deletedUsers {
		s.publish(ctx, events.NewUserEvent(events.EventTypeUserDeleted, deleted.ID, deleted.Username, actor))
	}
	s.publish(ctx, events.NewDepartmentEvent(events.EventTypeDepartmentDeleted, dbDept.ID, dbDept.Code, actor))
	return nil
}

func (s *Service) GetUserRole(ctx context.Context, roleID string) (_ *Role, err error) {
	defer metrics.Observe("get_role", time.Now(), &err)

	dbRole, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if dbRole == nil {
		return nil, internal.ErrRoleNotFound
	}
	role := RoleFromDataModel(dbRole)
	return &role, nil
}

// GetUserRoles returns the freely assignable roles. The project manager role is
// only granted through ValidateProjectManagementRoles.
func (s *Service) GetUserRoles(ctx context.Context) (_ []Role, err error) {
	defer metrics.Observe("get_roles", time.Now(), &err)

	dbRoles, err := s.roles.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}

	roles := make([]Role, 0, len(dbRoles))
	for _, r := range dbRoles {
		if r.ID == RoleProjectManager {
			continue
		}
		roles = append(roles, RoleFromDataModel(r))
	}
	return roles, nil
}

func (s *Service) resolveRoles(ctx context.Context, roles []Role) ([]userDatamodel.UserRole, error) {
	resolved := make([]userDatamodel.UserRole, 0, len(roles))
	for _, r := range roles {
		if hasRole(resolved, r.ID) {
			continue
		}
		dbRole, err := s.roles.GetByID(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get role %s: %w", r.ID, err)
		}
		if dbRole == nil {
			return nil, internal.ErrRoleNotFound
		}
		resolved = append(resolved, *dbRole)
	}
	return resolved, nil
}

func (s *Service) resolveDepartment(ctx context.Context, d *Department) (*int64, error) {
	if d == nil || d.ID == 0 {
		return nil, nil
	}
	dbDept, err := s.departments.GetByID(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	if dbDept == nil {
		return nil, internal.ErrDepartmentNotFound
	}
	id := dbDept.ID
	return &id, nil
}

func (s *Service) toDomain(dbUser *userDatamodel.User) *User {
	u := FromDataModel(dbUser)
	u.ProjectAssignments, u.InactiveProjectAssignments = PartitionAssignments(u.ProjectAssignments, s.now())
	return u
}

func (s *Service) toDomainSlice(dbUsers []*userDatamodel.User) []*User {
	users := make([]*User, len(dbUsers))
	for i, dbUser := range dbUsers {
		users[i] = s.toDomain(dbUser)
	}
	return users
}

// publish hands the event to the bus once the transaction has committed.
// Delivery failures never fail the operation.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func hasRole(roles []userDatamodel.UserRole, roleID string) bool {
	for _, r := range roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
