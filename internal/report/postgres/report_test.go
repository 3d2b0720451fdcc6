package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/timesheet-management/internal"
	timesheetDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/timesheet-management/internal/database"
	"github.com/frahmantamala/timesheet-management/internal/report"
	reportPostgres "github.com/frahmantamala/timesheet-management/internal/report/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestReportPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Postgres Suite")
}

var _ = Describe("Report Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo report.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = database.Open(internal.DatabaseConfig{
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

		sqlxDB, err := database.NewSQLX(db, database.DriverSQLite)
		Expect(err).NotTo(HaveOccurred())
		repo = reportPostgres.NewReportRepository(sqlxDB)
	})

	book := func(assignmentID int64, day int, hours float64) {
		entry := &timesheetDatamodel.TimesheetEntry{
			AssignmentID: assignmentID,
			EntryDate:    time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
			Hours:        hours,
		}
		Expect(db.Create(entry).Error).NotTo(HaveOccurred())
	}

	It("should sum hours per requested assignment", func() {
		book(1, 1, 8)
		book(1, 2, 4.5)
		book(2, 1, 0)
		book(3, 1, 6)

		aggregates, err := repo.GetHoursPerAssignment(ctx, []int64{1, 2, 99})
		Expect(err).NotTo(HaveOccurred())
		Expect(aggregates).To(Equal([]report.AssignmentAggregate{
			{AssignmentID: 1, Hours: 12.5, EntryCount: 2},
			{AssignmentID: 2, Hours: 0, EntryCount: 1},
		}))
		Expect(report.TotalHours(aggregates)).To(Equal(12.5))
	})

	It("should return an empty list for assignments without entries", func() {
		aggregates, err := repo.GetHoursPerAssignment(ctx, []int64{42})
		Expect(err).NotTo(HaveOccurred())
		Expect(aggregates).To(BeEmpty())
		Expect(report.IsEmptyAggregateList(aggregates)).To(BeTrue())
	})

	It("should not query for an empty id list", func() {
		aggregates, err := repo.GetHoursPerAssignment(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(aggregates).To(BeEmpty())
	})
})
