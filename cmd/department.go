package cmd

import (
	"fmt"

	"github.com/frahmantamala/timesheet-management/internal/user"
	"github.com/spf13/cobra"
)

var departmentCmd = &cobra.Command{
	Use:   "department",
	Short: "Department management commands",
}

var (
	departmentID   int64
	departmentName string
	departmentCode string
)

var listDepartmentsCmd = &cobra.Command{
	Use:   "list",
	Short: "List departments",
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(deps *Dependencies) error {
			departments, err := deps.UserService.GetUserDepartments(commandContext(cmd))
			if err != nil {
				return err
			}
			for _, d := range departments {
				fmt.Printf("%d\t%s\t%s\tusers=%d\tdeletable=%t\n", d.ID, d.Code, d.Name, len(d.Users), d.Deletable)
			}
			return nil
		})
	},
}

var saveDepartmentCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a department",
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(deps *Dependencies) error {
			d, err := deps.UserService.PersistUserDepartment(commandContext(cmd), &user.Department{
				ID:   departmentID,
				Name: departmentName,
				Code: departmentCode,
			})
			if err != nil {
				return err
			}
			fmt.Printf("saved department %d (%s)\n", d.ID, d.Code)
			return nil
		})
	},
}

var deleteDepartmentCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a department together with its users",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		withDeps(func(deps *Dependencies) error {
			if err := deps.UserService.DeleteDepartment(commandContext(cmd), id); err != nil {
				return err
			}
			fmt.Printf("deleted department %d\n", id)
			return nil
		})
	},
}

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Role catalog commands",
}

var listRolesCmd = &cobra.Command{
	Use:   "list",
	Short: "List the assignable roles",
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(deps *Dependencies) error {
			roles, err := deps.UserService.GetUserRoles(commandContext(cmd))
			if err != nil {
				return err
			}
			for _, r := range roles {
				fmt.Printf("%s\t%s\n", r.ID, r.Name)
			}
			return nil
		})
	},
}

var showRoleCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a role and the active users holding it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(deps *Dependencies) error {
			ctx := commandContext(cmd)
			role, err := deps.UserService.GetUserRole(ctx, args[0])
			if err != nil {
				return err
			}
			users, err := deps.UserService.GetUsersByRole(ctx, role.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\tactive users=%d\n", role.ID, role.Name, len(users))
			return nil
		})
	},
}

func init() {
	saveDepartmentCmd.Flags().Int64Var(&departmentID, "id", 0, "Id of the department to update")
	saveDepartmentCmd.Flags().StringVar(&departmentName, "name", "", "Department name")
	saveDepartmentCmd.Flags().StringVar(&departmentCode, "code", "", "Department code")
	_ = saveDepartmentCmd.MarkFlagRequired("name")
	_ = saveDepartmentCmd.MarkFlagRequired("code")

	departmentCmd.AddCommand(listDepartmentsCmd, saveDepartmentCmd, deleteDepartmentCmd)
	roleCmd.AddCommand(listRolesCmd, showRoleCmd)

	rootCmd.AddCommand(departmentCmd)
	rootCmd.AddCommand(roleCmd)
}
