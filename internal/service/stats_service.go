package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/dto"
	"github.com/noah-isme/aie-portal-api/internal/models"
)

const timelineLimit = 100

type statsRepository interface {
	Overview(ctx context.Context) (*dto.OverviewStats, error)
	Assignments(ctx context.Context) (*dto.AssignmentStats, error)
	Academic(ctx context.Context) (*dto.AcademicStats, error)
	Resources(ctx context.Context) (*dto.ResourceStats, error)
	Projects(ctx context.Context) (*dto.ProjectStats, error)
}

type activityReader interface {
	Activity(ctx context.Context, userID string, limit int) ([]models.Row, error)
}

// StatsService serves portal-wide aggregates. Every report degrades to zero values.
type StatsService struct {
	repo     statsRepository
	activity activityReader
	logger   *zap.Logger
}

func NewStatsService(repo statsRepository, activity activityReader, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, activity: activity, logger: logger}
}

func (s *StatsService) Overview(ctx context.Context) *dto.OverviewStats {
	stats, err := s.repo.Overview(ctx)
	return degradeToEmpty(s.logger, "stats_overview", stats, err, &dto.OverviewStats{})
}

func (s *StatsService) Assignments(ctx context.Context) *dto.AssignmentStats {
	stats, err := s.repo.Assignments(ctx)
	return degradeToEmpty(s.logger, "stats_assignments", stats, err, &dto.AssignmentStats{})
}

func (s *StatsService) Academic(ctx context.Context) *dto.AcademicStats {
	stats, err := s.repo.Academic(ctx)
	return degradeToEmpty(s.logger, "stats_academic", stats, err, &dto.AcademicStats{})
}

func (s *StatsService) Resources(ctx context.Context) *dto.ResourceStats {
	stats, err := s.repo.Resources(ctx)
	return degradeToEmpty(s.logger, "stats_resources", stats, err, &dto.ResourceStats{
		ByType:     map[string]int{},
		ByCategory: map[string]int{},
	})
}

func (s *StatsService) Projects(ctx context.Context) *dto.ProjectStats {
	stats, err := s.repo.Projects(ctx)
	return degradeToEmpty(s.logger, "stats_projects", stats, err, &dto.ProjectStats{ByStatus: map[string]int{}})
}

// Timeline returns the newest portal-wide activity rows.
func (s *StatsService) Timeline(ctx context.Context) []models.Row {
	rows, err := s.activity.Activity(ctx, "", timelineLimit)
	return degradeToEmpty(s.logger, "stats_timeline", rows, err, []models.Row{})
}
