package report

import (
	"context"
	"fmt"
	"log/slog"
)

type RepositoryAPI interface {
	GetHoursPerAssignment(ctx context.Context, assignmentIDs []int64) ([]AssignmentAggregate, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetHoursPerAssignment aggregates booked hours for the given assignments. Only
// assignments with at least one entry show up in the result.
func (s *Service) GetHoursPerAssignment(ctx context.Context, assignmentIDs []int64) ([]AssignmentAggregate, error) {
	if len(assignmentIDs) == 0 {
		return []AssignmentAggregate{}, nil
	}

	aggregates, err := s.repo.GetHoursPerAssignment(ctx, assignmentIDs)
	if err != nil {
		s.logger.Error("failed to aggregate hours", "assignments", len(assignmentIDs), "error", err)
		return nil, fmt.Errorf("failed to aggregate hours: %w", err)
	}

	s.logger.Debug("aggregated hours", "assignments", len(assignmentIDs), "booked", len(aggregates), "total_hours", TotalHours(aggregates))
	return aggregates, nil
}
