package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start long running maintenance workers`,
}

var pmRolesWorkerCmd = &cobra.Command{
	Use:   "pm-roles",
	Short: "Periodically revoke stale project manager roles",
	Long:  `Revoke the project manager role from users that no longer manage an active project, on a fixed interval`,
	Run: func(cmd *cobra.Command, args []string) {
		startPMRolesWorker()
	},
}

var pmRolesInterval time.Duration

func startPMRolesWorker() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = internal.ContextWithActor(ctx, "pm-roles-worker")

	deps.Logger.Info("pm roles worker started", "interval", pmRolesInterval)

	ticker := time.NewTicker(pmRolesInterval)
	defer ticker.Stop()

	for {
		runCtx, cancel := internal.WithTimeout(ctx, time.Minute)
		if _, err := deps.UserService.ValidateProjectManagementRoles(runCtx, nil); err != nil {
			deps.Logger.Error("pm roles cleanup failed", "error", err)
		}
		cancel()

		select {
		case <-ctx.Done():
			deps.Logger.Info("received signal, shutting down pm roles worker")
			return
		case <-ticker.C:
		}
	}
}

func init() {
	pmRolesWorkerCmd.Flags().DurationVar(&pmRolesInterval, "interval", time.Hour, "Time between cleanup runs")

	workerCmd.AddCommand(pmRolesWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
