package timesheet

import (
	"context"
	"fmt"
	"log/slog"
)

type RepositoryAPI interface {
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
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

// DeleteTimesheetEntries removes every entry booked on any assignment of the
// user and returns how many rows were removed.
func (s *Service) DeleteTimesheetEntries(ctx context.Context, userID int64) (int64, error) {
	removed, err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to delete timesheet entries", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to delete timesheet entries: %w", err)
	}

	s.logger.Info("deleted timesheet entries", "user_id", userID, "count", removed)
	return removed, nil
}
