package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frahmantamala/timesheet-management/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"github.com/frahmantamala/timesheet-management/internal/user"
	userPostgres "github.com/frahmantamala/timesheet-management/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

func openTestDB() *gorm.DB {
	// a single connection keeps every query on the same in-memory database
	db, err := database.Open(internal.DatabaseConfig{
		Driver:       database.DriverSQLite,
		Source:       ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	Expect(err).NotTo(HaveOccurred())
	Expect(database.AutoMigrate(db)).To(Succeed())
	DeferCleanup(func() {
		_ = database.Close(db)
	})
	return db
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}

var _ = Describe("User PostgreSQL Repository", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		repo     user.RepositoryAPI
		roleRepo *userPostgres.RoleRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = openTestDB()
		repo = userPostgres.NewUserRepository(db)
		roleRepo = userPostgres.NewRoleRepository(db)
		Expect(roleRepo.EnsureRoles(ctx, userDatamodel.RoleCatalog)).To(Succeed())
	})

	role := func(id string) userDatamodel.UserRole {
		r, err := roleRepo.GetByID(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(r).NotTo(BeNil())
		return *r
	}

	newUser := func(username string, active bool, roles ...string) *userDatamodel.User {
		u := &userDatamodel.User{
			Username: username,
			Password: "hash",
			Salt:     "salt",
			LastName: username,
			Active:   active,
		}
		for _, id := range roles {
			u.Roles = append(u.Roles, role(id))
		}
		Expect(repo.Save(ctx, u)).To(Succeed())
		return u
	}

	Describe("Save", func() {
		It("should insert a user with roles and read it back", func() {
			u := newUser("thies", true, userDatamodel.RoleConsultant, userDatamodel.RoleAdmin)
			Expect(u.ID).To(BeNumerically(">", 0))

			found, err := repo.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Username).To(Equal("thies"))
			Expect(found.Roles).To(HaveLen(2))
			Expect(found.CreatedAt).NotTo(BeZero())
		})

		It("should persist a false active flag", func() {
			u := newUser("inactive", false)

			found, err := repo.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Active).To(BeFalse())
		})

		It("should replace the role set on update", func() {
			u := newUser("roles", true, userDatamodel.RoleConsultant, userDatamodel.RoleReport)

			u.Roles = []userDatamodel.UserRole{role(userDatamodel.RoleAdmin)}
			Expect(repo.Save(ctx, u)).To(Succeed())

			found, err := repo.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Roles).To(HaveLen(1))
			Expect(found.Roles[0].ID).To(Equal(userDatamodel.RoleAdmin))

			u.Roles = nil
			Expect(repo.Save(ctx, u)).To(Succeed())
			found, err = repo.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Roles).To(BeEmpty())
		})

		It("should translate a duplicate username", func() {
			newUser("dup", true)

			err := repo.Save(ctx, &userDatamodel.User{Username: "dup", Password: "x", LastName: "Dup"})
			Expect(errors.Is(err, internal.ErrUsernameNotUnique)).To(BeTrue())
		})

		It("should insert new assignments with their project", func() {
			project := &projectDatamodel.Project{Name: "Holiday", Code: "HOL", Active: true, DefaultProject: true}
			Expect(db.Create(project).Error).NotTo(HaveOccurred())

			u := &userDatamodel.User{
				Username:           "assigned",
				Password:           "hash",
				LastName:           "Assigned",
				Active:             true,
				ProjectAssignments: []projectDatamodel.ProjectAssignment{{ProjectID: project.ID}},
			}
			Expect(repo.Save(ctx, u)).To(Succeed())
			Expect(u.ProjectAssignments[0].ID).To(BeNumerically(">", 0))

			found, err := repo.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ProjectAssignments).To(HaveLen(1))
			Expect(found.ProjectAssignments[0].Project).NotTo(BeNil())
			Expect(found.ProjectAssignments[0].Project.Code).To(Equal("HOL"))
		})
	})

	Describe("Lookups", func() {
		It("should return nil for unknown users", func() {
			u, err := repo.GetByID(ctx, 999)
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(BeNil())

			u, err = repo.GetByUsername(ctx, "nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(BeNil())
		})

		It("should filter by activity, email and role", func() {
			pm := newUser("pm", true, userDatamodel.RoleProjectManager)
			pm.Email = strPtr("pm@example.com")
			Expect(repo.Save(ctx, pm)).To(Succeed())
			newUser("old-pm", false, userDatamodel.RoleProjectManager)
			newUser("consultant", true, userDatamodel.RoleConsultant)

			all, err := repo.GetAll(ctx, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))

			active, err := repo.GetActive(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(HaveLen(2))

			withEmail, err := repo.GetActiveWithEmailSet(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(withEmail).To(HaveLen(1))
			Expect(withEmail[0].Username).To(Equal("pm"))

			managers, err := repo.GetActiveByRole(ctx, userDatamodel.RoleProjectManager)
			Expect(err).NotTo(HaveOccurred())
			Expect(managers).To(HaveLen(1))
			Expect(managers[0].ID).To(Equal(pm.ID))
			Expect(managers[0].Roles).To(HaveLen(1))
		})
	})

	Describe("Delete", func() {
		It("should remove the user, its role grants and assignments", func() {
			u := newUser("leaving", true, userDatamodel.RoleConsultant)
			project := &projectDatamodel.Project{Name: "P", Code: "P", Active: true, ProjectManagerID: int64Ptr(u.ID)}
			Expect(db.Create(project).Error).NotTo(HaveOccurred())
			Expect(db.Create(&projectDatamodel.ProjectAssignment{UserID: u.ID, ProjectID: project.ID}).Error).NotTo(HaveOccurred())

			Expect(repo.Delete(ctx, u.ID)).To(Succeed())

			found, err := repo.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())

			var grants, assignments int64
			Expect(db.Model(&userDatamodel.UserToUserRole{}).Where("user_id = ?", u.ID).Count(&grants).Error).NotTo(HaveOccurred())
			Expect(db.Model(&projectDatamodel.ProjectAssignment{}).Where("user_id = ?", u.ID).Count(&assignments).Error).NotTo(HaveOccurred())
			Expect(grants).To(BeZero())
			Expect(assignments).To(BeZero())

			var reloaded projectDatamodel.Project
			Expect(db.First(&reloaded, project.ID).Error).NotTo(HaveOccurred())
			Expect(reloaded.ProjectManagerID).To(BeNil())
		})
	})

	Describe("DeletePMRolesWithoutProject", func() {
		It("should keep the role only for managers of active projects", func() {
			managing := newUser("managing", true, userDatamodel.RoleProjectManager, userDatamodel.RoleConsultant)
			closed := newUser("closed", true, userDatamodel.RoleProjectManager)
			idle := newUser("idle", true, userDatamodel.RoleProjectManager)

			Expect(db.Create(&projectDatamodel.Project{Name: "Live", Code: "LIV", Active: true, ProjectManagerID: int64Ptr(managing.ID)}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&projectDatamodel.Project{Name: "Done", Code: "DON", Active: false, ProjectManagerID: int64Ptr(closed.ID)}).Error).NotTo(HaveOccurred())

			removed, err := repo.DeletePMRolesWithoutProject(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(int64(2)))

			managers, err := repo.GetActiveByRole(ctx, userDatamodel.RoleProjectManager)
			Expect(err).NotTo(HaveOccurred())
			Expect(managers).To(HaveLen(1))
			Expect(managers[0].ID).To(Equal(managing.ID))

			found, err := repo.GetByID(ctx, idle.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Roles).To(BeEmpty())

			found, err = repo.GetByID(ctx, managing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Roles).To(HaveLen(2))
		})
	})
})

var _ = Describe("Department PostgreSQL Repository", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		repo     user.DepartmentRepositoryAPI
		userRepo user.RepositoryAPI
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = openTestDB()
		repo = userPostgres.NewDepartmentRepository(db)
		userRepo = userPostgres.NewUserRepository(db)
	})

	It("should save, find and list departments with their users", func() {
		dept := &userDatamodel.UserDepartment{Name: "Engineering", Code: "ENG"}
		Expect(repo.Save(ctx, dept)).To(Succeed())
		Expect(dept.ID).To(BeNumerically(">", 0))

		Expect(userRepo.Save(ctx, &userDatamodel.User{
			Username:     "dev",
			Password:     "hash",
			LastName:     "Dev",
			Active:       true,
			DepartmentID: int64Ptr(dept.ID),
		})).To(Succeed())

		found, err := repo.GetByID(ctx, dept.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Users).To(HaveLen(1))

		byName, err := repo.GetByNameAndCode(ctx, "Engineering", "ENG")
		Expect(err).NotTo(HaveOccurred())
		Expect(byName.ID).To(Equal(dept.ID))

		all, err := repo.GetAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(1))
	})

	It("should return nil for unknown departments", func() {
		found, err := repo.GetByID(ctx, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeNil())

		found, err = repo.GetByNameAndCode(ctx, "None", "NONE")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeNil())
	})

	It("should translate a duplicate name and code pair", func() {
		Expect(repo.Save(ctx, &userDatamodel.UserDepartment{Name: "Ops", Code: "OPS"})).To(Succeed())
		Expect(repo.Save(ctx, &userDatamodel.UserDepartment{Name: "Ops", Code: "OPS2"})).To(Succeed())

		err := repo.Save(ctx, &userDatamodel.UserDepartment{Name: "Ops", Code: "OPS"})
		Expect(errors.Is(err, internal.ErrDepartmentNotUnique)).To(BeTrue())
	})

	It("should delete a department", func() {
		dept := &userDatamodel.UserDepartment{Name: "Gone", Code: "GON"}
		Expect(repo.Save(ctx, dept)).To(Succeed())

		Expect(repo.Delete(ctx, dept.ID)).To(Succeed())
		found, err := repo.GetByID(ctx, dept.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeNil())
	})
})

var _ = Describe("Role PostgreSQL Repository", func() {
	var (
		ctx  context.Context
		repo *userPostgres.RoleRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = userPostgres.NewRoleRepository(openTestDB())
	})

	It("should seed the catalog idempotently", func() {
		Expect(repo.EnsureRoles(ctx, userDatamodel.RoleCatalog)).To(Succeed())
		Expect(repo.EnsureRoles(ctx, userDatamodel.RoleCatalog)).To(Succeed())

		roles, err := repo.GetAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(roles).To(HaveLen(len(userDatamodel.RoleCatalog)))
	})

	It("should return nil for an unknown role", func() {
		r, err := repo.GetByID(ctx, "ROLE_GHOST")
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(BeNil())
	})
})
