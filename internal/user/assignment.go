package user

import "time"

// IsActiveOn reports whether the assignment is usable on the calendar day of t:
// the day must fall inside [DateStart, DateEnd] and the project must be active.
// A missing bound is open-ended.
func (a Assignment) IsActiveOn(t time.Time) bool {
	if a.Project == nil || !a.Project.Active {
		return false
	}

	day := truncateToDay(t, t.Location())
	if a.DateStart != nil && day.Before(truncateToDay(*a.DateStart, t.Location())) {
		return false
	}
	if a.DateEnd != nil && day.After(truncateToDay(*a.DateEnd, t.Location())) {
		return false
	}
	return true
}

// PartitionAssignments splits assignments into the ones active on now and the rest.
// The input slice is left untouched.
func PartitionAssignments(assignments []Assignment, now time.Time) (active, inactive []Assignment) {
	active = make([]Assignment, 0, len(assignments))
	inactive = make([]Assignment, 0)

	for _, a := range assignments {
		if a.IsActiveOn(now) {
			active = append(active, a)
		} else {
			inactive = append(inactive, a)
		}
	}
	return active, inactive
}

func truncateToDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
