package timesheet_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/timesheet-management/internal/timesheet"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTimesheetService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Timesheet Service Suite")
}

type MockRepository struct {
	entries    map[int64]int64
	shouldFail bool
	failError  error
}

func (m *MockRepository) DeleteByUserID(_ context.Context, userID int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	removed := m.entries[userID]
	delete(m.entries, userID)
	return removed, nil
}

var _ = Describe("Timesheet Service", func() {
	var (
		repo    *MockRepository
		service *timesheet.Service
	)

	BeforeEach(func() {
		repo = &MockRepository{entries: map[int64]int64{7: 12}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = timesheet.NewService(repo, logger)
	})

	It("should report how many entries were removed", func() {
		removed, err := service.DeleteTimesheetEntries(context.Background(), 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(Equal(int64(12)))

		removed, err = service.DeleteTimesheetEntries(context.Background(), 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(BeZero())
	})

	It("should wrap repository failures", func() {
		repo.shouldFail = true
		repo.failError = errors.New("locked")

		_, err := service.DeleteTimesheetEntries(context.Background(), 7)
		Expect(err).To(MatchError(ContainSubstring("locked")))
	})
})
