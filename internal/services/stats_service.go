package services

import (
	"context"
	"fmt"

	"github.com/teamsync/teamsync-api/internal/models"
	"github.com/teamsync/teamsync-api/internal/repository"
)

// Statistics is the aggregate snapshot served by /api/statistics.
type Statistics struct {
	TotalTasks      int64 `json:"total_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	OverdueTasks    int64 `json:"overdue_tasks"`
	WorkspaceCount  int64 `json:"workspace_count"`
	TeamMemberCount int64 `json:"team_member_count"`
}

// StatsService aggregates workspace and task counts.
type StatsService struct {
	taskRepo      repository.TaskRepository
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(taskRepo repository.TaskRepository, workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository) *StatsService {
	return &StatsService{
		taskRepo:      taskRepo,
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
	}
}

// Snapshot returns the current counts. There is no due-date column, so
// tasks still pending stand in for the overdue count.
func (s *StatsService) Snapshot(ctx context.Context) (*Statistics, error) {
	total, err := s.taskRepo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	completedStatus := models.TaskStatusCompleted
	completed, err := s.taskRepo.CountByStatus(ctx, &completedStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	pendingStatus := models.TaskStatusPending
	overdue, err := s.taskRepo.CountByStatus(ctx, &pendingStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}

	workspaces, err := s.workspaceRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count workspaces: %w", err)
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &Statistics{
		TotalTasks:      total,
		CompletedTasks:  completed,
		PendingTasks:    total - completed,
		OverdueTasks:    overdue,
		WorkspaceCount:  workspaces,
		TeamMemberCount: users,
	}, nil
}
