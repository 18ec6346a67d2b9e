package repository

import (
	"context"

	"github.com/teamsync/teamsync-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindInWorkspace finds a task scoped to a workspace
func (r *GormTaskRepository) FindInWorkspace(ctx context.Context, workspaceID, taskID string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ? AND workspace_id = ?", taskID, workspaceID).First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByWorkspace lists a workspace's tasks with assignee and creator loaded
func (r *GormTaskRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAssignedTo lists a user's tasks with workspace and subtasks loaded
func (r *GormTaskRepository) ListAssignedTo(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Workspace").
		Preload("Assignee").
		Preload("Creator").
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("subtasks.created_at ASC")
		}).
		Where("assigned_to = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateStatus overwrites a task's status directly. The derived-status rule
// does not apply here; only subtask mutations re-derive.
func (r *GormTaskRepository) UpdateStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", taskID).
		Update("status", status).Error
}

// CreateSubtask creates a new subtask
func (r *GormTaskRepository) CreateSubtask(ctx context.Context, subtask *models.Subtask) error {
	return r.db.WithContext(ctx).Create(subtask).Error
}

// SetSubtaskStatus updates a subtask and re-derives the parent task's status
// from the full current subtask set. The whole sequence runs in one
// transaction with the task row locked so concurrent toggles on the same
// task serialize instead of tearing the derived status.
func (r *GormTaskRepository) SetSubtaskStatus(ctx context.Context, taskID, subtaskID string, status models.SubtaskStatus) (*models.Task, error) {
	var updated *models.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, subtasks, err := r.mutateSubtask(tx, taskID, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&models.Subtask{}).
				Where("id = ? AND task_id = ?", subtaskID, taskID).
				Update("status", status)
		})
		if err != nil {
			return err
		}

		task.Subtasks = subtasks
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteSubtask removes a subtask and re-derives the parent task's status in
// the same transaction.
func (r *GormTaskRepository) DeleteSubtask(ctx context.Context, taskID, subtaskID string) (*models.Task, error) {
	var updated *models.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, subtasks, err := r.mutateSubtask(tx, taskID, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("id = ? AND task_id = ?", subtaskID, taskID).
				Delete(&models.Subtask{})
		})
		if err != nil {
			return err
		}

		task.Subtasks = subtasks
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// CountByStatus counts tasks, optionally filtered to one status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, status *models.TaskStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Task{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Count(&count).Error
	return count, err
}

// mutateSubtask locks the parent task row, applies the subtask write, then
// recomputes and persists the task status from the remaining subtask set.
// The mutation must affect exactly one row or the pair is treated as absent.
func (r *GormTaskRepository) mutateSubtask(tx *gorm.DB, taskID string, mutate func(tx *gorm.DB) *gorm.DB) (*models.Task, []models.Subtask, error) {
	var task models.Task
	if err := lockForUpdate(tx).First(&task, "id = ?", taskID).Error; err != nil {
		return nil, nil, err
	}

	res := mutate(tx)
	if res.Error != nil {
		return nil, nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil, gorm.ErrRecordNotFound
	}

	var subtasks []models.Subtask
	if err := tx.Where("task_id = ?", taskID).Order("created_at ASC").Find(&subtasks).Error; err != nil {
		return nil, nil, err
	}

	next := models.DeriveTaskStatus(subtasks, task.Status)
	if err := tx.Model(&models.Task{}).Where("id = ?", taskID).Update("status", next).Error; err != nil {
		return nil, nil, err
	}
	task.Status = next

	return &task, subtasks, nil
}

// lockForUpdate takes a row-level lock where the dialect supports it.
// SQLite serializes writers on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
