package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/frahmantamala/timesheet-management/internal/user"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
	Long:  `Create, edit, inspect and delete users`,
}

var (
	userIncludeInactive bool
	userRole            string
	userWithEmail       bool

	userUsername     string
	userEmail        string
	userFirstName    string
	userLastName     string
	userDepartmentID int64
	userRoles        []string
	userInactive     bool
	userPassword     string
	userID           int64
)

var showUserCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a user and whether it can be deleted",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		withDeps(func(deps *Dependencies) error {
			u, err := deps.UserService.GetUserAndCheckDeletability(commandContext(cmd), id)
			if err != nil {
				return err
			}
			return printJSON(u)
		})
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(deps *Dependencies) error {
			ctx := commandContext(cmd)

			var (
				users []*user.User
				err   error
			)
			switch {
			case userRole != "":
				users, err = deps.UserService.GetUsersByRole(ctx, userRole)
			case userWithEmail:
				users, err = deps.UserService.GetUsersWithEmailSet(ctx)
			case userIncludeInactive:
				users, err = deps.UserService.GetUsers(ctx, true)
			default:
				users, err = deps.UserService.GetActiveUsers(ctx)
			}
			if err != nil {
				return err
			}

			for _, u := range users {
				fmt.Printf("%d\t%s\t%s\tactive=%t\n", u.ID, u.Username, u.FullName(), u.Active)
			}
			return nil
		})
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user with a password and default project assignments",
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(deps *Dependencies) error {
			u, err := deps.UserService.NewUser(commandContext(cmd), userFromFlags(), userPassword)
			if err != nil {
				return err
			}
			fmt.Printf("created user %d (%s)\n", u.ID, u.Username)
			return nil
		})
	},
}

var editUserCmd = &cobra.Command{
	Use:   "edit",
	Short: "Create or update a user by username",
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(deps *Dependencies) error {
			u := userFromFlags()
			u.ID = userID
			saved, err := deps.UserService.EditUser(commandContext(cmd), u)
			if err != nil {
				return err
			}
			fmt.Printf("saved user %d (%s)\n", saved.ID, saved.Username)
			return nil
		})
	},
}

var passwdUserCmd = &cobra.Command{
	Use:   "passwd [username]",
	Short: "Change the password of a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(deps *Dependencies) error {
			changed, err := deps.UserService.ChangePassword(commandContext(cmd), args[0], userPassword)
			if err != nil {
				return err
			}
			if !changed {
				return fmt.Errorf("user %s not found", args[0])
			}
			fmt.Println("password changed")
			return nil
		})
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a user and its timesheet entries",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		withDeps(func(deps *Dependencies) error {
			ctx := commandContext(cmd)
			u, err := deps.UserService.GetUserAndCheckDeletability(ctx, id)
			if err != nil {
				return err
			}
			if !u.Deletable {
				return fmt.Errorf("user %s has booked hours and cannot be deleted", u.Username)
			}
			if err := deps.UserService.DeleteUser(ctx, id); err != nil {
				return err
			}
			fmt.Printf("deleted user %d\n", id)
			return nil
		})
	},
}

var promoteUserCmd = &cobra.Command{
	Use:   "promote [id]",
	Short: "Grant the project manager role and drop stale project manager grants",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var id *int64
		if len(args) == 1 {
			parsed := parseID(args[0])
			id = &parsed
		}
		withDeps(func(deps *Dependencies) error {
			u, err := deps.UserService.ValidateProjectManagementRoles(commandContext(cmd), id)
			if err != nil {
				return err
			}
			if u != nil {
				fmt.Printf("granted project manager role to %s\n", u.Username)
			}
			return nil
		})
	},
}

func userFromFlags() *user.User {
	u := &user.User{
		Username:  userUsername,
		Email:     userEmail,
		FirstName: userFirstName,
		LastName:  userLastName,
		Active:    !userInactive,
	}
	if userDepartmentID != 0 {
		u.Department = &user.Department{ID: userDepartmentID}
	}
	for _, r := range userRoles {
		u.Roles = append(u.Roles, user.Role{ID: strings.TrimSpace(r)})
	}
	return u
}

// withDeps runs fn against freshly wired dependencies and exits non-zero on error.
func withDeps(fn func(deps *Dependencies) error) {
	deps, err := initializeDependencies()
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}

	err = fn(deps)
	deps.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Fatalf("invalid id %q: %v", arg, err)
	}
	return id
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	listUsersCmd.Flags().BoolVar(&userIncludeInactive, "all", false, "Include inactive users")
	listUsersCmd.Flags().StringVar(&userRole, "role", "", "Only active users holding this role")
	listUsersCmd.Flags().BoolVar(&userWithEmail, "with-email", false, "Only active users with an email address")

	for _, c := range []*cobra.Command{createUserCmd, editUserCmd} {
		c.Flags().StringVar(&userUsername, "username", "", "Username")
		c.Flags().StringVar(&userEmail, "email", "", "Email address")
		c.Flags().StringVar(&userFirstName, "first-name", "", "First name")
		c.Flags().StringVar(&userLastName, "last-name", "", "Last name")
		c.Flags().Int64Var(&userDepartmentID, "department", 0, "Department id")
		c.Flags().StringSliceVar(&userRoles, "roles", []string{user.RoleConsultant}, "Role ids")
		c.Flags().BoolVar(&userInactive, "inactive", false, "Store the user as inactive")
		_ = c.MarkFlagRequired("username")
	}
	editUserCmd.Flags().Int64Var(&userID, "id", 0, "Id of the user to update")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "Initial password")
	passwdUserCmd.Flags().StringVar(&userPassword, "password", "", "New password")
	_ = createUserCmd.MarkFlagRequired("password")
	_ = passwdUserCmd.MarkFlagRequired("password")

	userCmd.AddCommand(showUserCmd, listUsersCmd, createUserCmd, editUserCmd, passwdUserCmd, deleteUserCmd, promoteUserCmd)
	rootCmd.AddCommand(userCmd)
}
