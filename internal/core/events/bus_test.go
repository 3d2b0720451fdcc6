package events_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"

	"github.com/frahmantamala/timesheet-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var (
		bus    *events.EventBus
		logger *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
	})

	It("should run every subscribed handler before Wait returns", func() {
		var calls int32
		for i := 0; i < 3; i++ {
			bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}

		Expect(bus.Publish(context.Background(), events.NewUserEvent(events.EventTypeUserCreated, 1, "u", "admin"))).To(Succeed())
		bus.Wait()
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
	})

	It("should hand handlers a context that outlives the publisher", func() {
		var handlerErr atomic.Value
		bus.Subscribe(events.EventTypeUserDeleted, func(ctx context.Context, event events.Event) error {
			handlerErr.Store(fmt.Sprint(ctx.Err()))
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewUserEvent(events.EventTypeUserDeleted, 1, "u", "admin"))).To(Succeed())
		bus.Wait()
		Expect(handlerErr.Load()).To(Equal("<nil>"))
	})

	It("should ignore events nobody subscribed to", func() {
		Expect(bus.Publish(context.Background(), events.NewDepartmentEvent(events.EventTypeDepartmentSaved, 1, "ENG", "admin"))).To(Succeed())
		bus.Wait()
	})

	It("should surface handler failures from PublishSync", func() {
		bus.Subscribe(events.EventTypeUserUpdated, func(ctx context.Context, event events.Event) error {
			return errors.New("sink down")
		})

		err := bus.PublishSync(context.Background(), events.NewUserEvent(events.EventTypeUserUpdated, 1, "u", "admin"))
		Expect(err).To(MatchError(ContainSubstring("sink down")))
	})

	It("should carry the actor on lifecycle events", func() {
		event := events.NewUserEvent(events.EventTypeUserPasswordChanged, 9, "rosalie", "admin")
		Expect(event.EventID()).NotTo(BeEmpty())
		Expect(event.Payload()).To(HaveKeyWithValue("actor", "admin"))
		Expect(event.Payload()).To(HaveKeyWithValue("user_id", int64(9)))
	})

	It("should audit every lifecycle event type", func() {
		events.RegisterAuditLog(bus, logger)
		for _, eventType := range events.UserEventTypes {
			Expect(bus.PublishSync(context.Background(), events.NewUserEvent(eventType, 1, "u", "system"))).To(Succeed())
		}
	})
})
