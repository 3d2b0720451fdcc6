package cmd

import (
	"context"

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/frahmantamala/timesheet-management/internal/core/events"
	"github.com/frahmantamala/timesheet-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events and inspect the audit handler`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a lifecycle event to an in-process bus with the audit handler attached`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(commandContext(cmd), args[0])
	},
}

var (
	eventUserID   int64
	eventUsername string
)

func publishTestEvent(ctx context.Context, eventType string) {
	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)
	events.RegisterAuditLog(eventBus, logger)

	testEvent := events.NewUserEvent(eventType, eventUserID, eventUsername, internal.ActorFromContext(ctx))

	logger.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	if err := eventBus.PublishSync(ctx, testEvent); err != nil {
		logger.Error("failed to publish event", "error", err)
		return
	}

	logger.Info("test event published successfully")
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user-id", 0, "User id carried by the event")
	publishEventCmd.Flags().StringVar(&eventUsername, "username", "test-user", "Username carried by the event")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
