package report_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/timesheet-management/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReportService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Service Suite")
}

type MockRepository struct {
	aggregates []report.AssignmentAggregate
	calls      int
	shouldFail bool
	failError  error
}

func (m *MockRepository) GetHoursPerAssignment(_ context.Context, _ []int64) ([]report.AssignmentAggregate, error) {
	m.calls++
	if m.shouldFail {
		return nil, m.failError
	}
	return m.aggregates, nil
}

var _ = Describe("Report Service", func() {
	var (
		repo    *MockRepository
		service *report.Service
	)

	BeforeEach(func() {
		repo = &MockRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(repo, logger)
	})

	It("should skip the repository for an empty id list", func() {
		aggregates, err := service.GetHoursPerAssignment(context.Background(), []int64{})
		Expect(err).NotTo(HaveOccurred())
		Expect(aggregates).To(BeEmpty())
		Expect(repo.calls).To(Equal(0))
	})

	It("should return the repository aggregates", func() {
		repo.aggregates = []report.AssignmentAggregate{{AssignmentID: 1, Hours: 3, EntryCount: 1}}

		aggregates, err := service.GetHoursPerAssignment(context.Background(), []int64{1})
		Expect(err).NotTo(HaveOccurred())
		Expect(aggregates).To(HaveLen(1))
		Expect(report.IsEmptyAggregateList(aggregates)).To(BeFalse())
	})

	It("should wrap repository failures", func() {
		repo.shouldFail = true
		repo.failError = errors.New("timeout")

		_, err := service.GetHoursPerAssignment(context.Background(), []int64{1})
		Expect(err).To(MatchError(ContainSubstring("timeout")))
	})

	Describe("IsEmptyAggregateList", func() {
		It("should treat zero-hour entries as empty", func() {
			Expect(report.IsEmptyAggregateList(nil)).To(BeTrue())
			Expect(report.IsEmptyAggregateList([]report.AssignmentAggregate{{AssignmentID: 1, Hours: 0, EntryCount: 3}})).To(BeTrue())
			Expect(report.IsEmptyAggregateList([]report.AssignmentAggregate{{AssignmentID: 1, Hours: 0.25}})).To(BeFalse())
		})
	})
})
