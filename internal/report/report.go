package report

// AssignmentAggregate is the booked total of one project assignment.
type AssignmentAggregate struct {
	AssignmentID int64   `db:"assignment_id" json:"assignment_id"`
	Hours        float64 `db:"hours" json:"hours"`
	EntryCount   int64   `db:"entry_count" json:"entry_count"`
}

func TotalHours(aggregates []AssignmentAggregate) float64 {
	var total float64
	for _, a := range aggregates {
		total += a.Hours
	}
	return total
}

// IsEmptyAggregateList reports whether no hours were booked across the aggregates.
func IsEmptyAggregateList(aggregates []AssignmentAggregate) bool {
	return TotalHours(aggregates) == 0
}
