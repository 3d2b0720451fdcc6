package assignment

import (
	"context"
	"fmt"
	"log/slog"

	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	"github.com/frahmantamala/timesheet-management/internal/user"
)

type RepositoryAPI interface {
	GetDefaultProjects(ctx context.Context) ([]*projectDatamodel.Project, error)
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

// AssignUserToDefaultProjects appends an open-ended assignment to every active
// default project the user is not assigned to yet. Nothing is persisted here.
func (s *Service) AssignUserToDefaultProjects(ctx context.Context, u *user.User) error {
	projects, err := s.repo.GetDefaultProjects(ctx)
	if err != nil {
		s.logger.Error("failed to get default projects", "error", err)
		return fmt.Errorf("failed to get default projects: %w", err)
	}

	assigned := 0
	for _, p := range projects {
		if u.IsAssignedTo(p.ID) {
			continue
		}
		u.ProjectAssignments = append(u.ProjectAssignments, user.Assignment{
			UserID:    u.ID,
			ProjectID: p.ID,
			Project:   user.ProjectFromDataModel(p),
		})
		assigned++
	}

	s.logger.Debug("assigned default projects", "username", u.Username, "count", assigned)
	return nil
}
