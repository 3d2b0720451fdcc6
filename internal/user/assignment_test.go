package user_test

import (
	"time"

	"github.com/frahmantamala/timesheet-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Assignment activity", func() {
	var (
		now    time.Time
		active *user.Project
	)

	BeforeEach(func() {
		now = time.Date(2024, time.June, 15, 16, 45, 0, 0, time.UTC)
		active = &user.Project{ID: 1, Active: true}
	})

	day := func(offset int) *time.Time {
		t := time.Date(2024, time.June, 15+offset, 0, 0, 0, 0, time.UTC)
		return &t
	}

	It("should treat missing bounds as open-ended", func() {
		Expect(user.Assignment{Project: active}.IsActiveOn(now)).To(BeTrue())
		Expect(user.Assignment{Project: active, DateStart: day(-30)}.IsActiveOn(now)).To(BeTrue())
		Expect(user.Assignment{Project: active, DateEnd: day(30)}.IsActiveOn(now)).To(BeTrue())
	})

	It("should include both boundary days", func() {
		Expect(user.Assignment{Project: active, DateStart: day(0), DateEnd: day(0)}.IsActiveOn(now)).To(BeTrue())
	})

	It("should exclude assignments outside their date range", func() {
		Expect(user.Assignment{Project: active, DateStart: day(1)}.IsActiveOn(now)).To(BeFalse())
		Expect(user.Assignment{Project: active, DateEnd: day(-1)}.IsActiveOn(now)).To(BeFalse())
	})

	It("should exclude assignments on inactive or unknown projects", func() {
		Expect(user.Assignment{Project: &user.Project{ID: 2}}.IsActiveOn(now)).To(BeFalse())
		Expect(user.Assignment{}.IsActiveOn(now)).To(BeFalse())
	})

	It("should partition without losing or duplicating assignments", func() {
		input := []user.Assignment{
			{ID: 1, Project: active},
			{ID: 2, Project: active, DateEnd: day(-3)},
			{ID: 3, Project: &user.Project{ID: 3}},
			{ID: 4, Project: active, DateStart: day(-3), DateEnd: day(3)},
		}

		activeOnes, inactiveOnes := user.PartitionAssignments(input, now)
		Expect(activeOnes).To(HaveLen(2))
		Expect(inactiveOnes).To(HaveLen(2))
		Expect(activeOnes[0].ID).To(Equal(int64(1)))
		Expect(activeOnes[1].ID).To(Equal(int64(4)))
		Expect(input).To(HaveLen(4))
	})
})
