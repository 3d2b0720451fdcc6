package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/timesheet-management/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	timesheetDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/timesheet"
	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-management/internal/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedAdminUsername string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the role catalog, a default department and project, and an administrator account.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		defer deps.Close()

		ctx := internal.ContextWithActor(context.Background(), internal.SystemActor)

		if clearData {
			if err := clearSeedData(deps.DB); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := deps.Roles.EnsureRoles(ctx, userDatamodel.RoleCatalog); err != nil {
			log.Fatalf("failed to seed roles: %v", err)
		}
		fmt.Println("Seeded role catalog")

		dept, err := deps.UserService.PersistUserDepartment(ctx, &user.Department{Name: "Internal", Code: "INT"})
		if err != nil && !internal.IsConflict(err) {
			log.Fatalf("failed to seed department: %v", err)
		}
		if err == nil {
			fmt.Println("Seeded department:", dept.Code)
		}

		defaultProject := projectDatamodel.Project{
			Name:           "Holiday",
			Code:           "HOL",
			Active:         true,
			DefaultProject: true,
		}
		if err := deps.DB.WithContext(ctx).
			Where("project_code = ?", defaultProject.Code).
			FirstOrCreate(&defaultProject).Error; err != nil {
			log.Fatalf("failed to seed default project: %v", err)
		}
		fmt.Println("Seeded default project:", defaultProject.Code)

		if _, err := deps.UserService.GetUserByUsername(ctx, seedAdminUsername); err == nil {
			fmt.Println("admin user already exists:", seedAdminUsername)
			return
		} else if !internal.IsNotFound(err) {
			log.Fatalf("failed to look up admin user: %v", err)
		}

		admin := &user.User{
			Username:  seedAdminUsername,
			FirstName: "eHour",
			LastName:  "Admin",
			Active:    true,
			Roles: []user.Role{
				{ID: user.RoleAdmin},
				{ID: user.RoleConsultant},
				{ID: user.RoleReport},
			},
		}
		if dept != nil {
			admin.Department = dept
		}

		if _, err := deps.UserService.NewUser(ctx, admin, seedAdminPassword); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
		fmt.Println("Seeded admin user:", seedAdminUsername)
	},
}

// clearSeedData empties every table in dependency order.
func clearSeedData(db *gorm.DB) error {
	models := []interface{}{
		&timesheetDatamodel.TimesheetEntry{},
		&projectDatamodel.ProjectAssignment{},
		&projectDatamodel.Project{},
		&userDatamodel.UserToUserRole{},
		&userDatamodel.User{},
		&userDatamodel.UserDepartment{},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range models {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminUsername, "admin-username", "admin", "Username of the seeded administrator")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "admin", "Password of the seeded administrator")
}
