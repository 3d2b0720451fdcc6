package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/timesheet-management/internal/report"
	"github.com/jmoiron/sqlx"
)

const hoursPerAssignmentQuery = `
SELECT assignment_id, COALESCE(SUM(hours), 0) AS hours, COUNT(*) AS entry_count
FROM timesheet_entries
WHERE assignment_id IN (?)
GROUP BY assignment_id
ORDER BY assignment_id
`

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) GetHoursPerAssignment(ctx context.Context, assignmentIDs []int64) ([]report.AssignmentAggregate, error) {
	aggregates := []report.AssignmentAggregate{}
	if len(assignmentIDs) == 0 {
		return aggregates, nil
	}

	query, args, err := sqlx.In(hoursPerAssignmentQuery, assignmentIDs)
	if err != nil {
		return nil, fmt.Errorf("hours per assignment query: %w", err)
	}

	if err := r.db.SelectContext(ctx, &aggregates, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("hours per assignment query: %w", err)
	}
	return aggregates, nil
}
