package dto

import (
	"time"

	"github.com/teamsync/teamsync-api/internal/models"
)

// SubtaskDTO represents a subtask in API responses
type SubtaskDTO struct {
	ID        string               `json:"id"`
	TaskID    string               `json:"task_id"`
	Title     string               `json:"title"`
	Status    models.SubtaskStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// TaskDTO represents a task in API responses. The assignee/creator names
// and workspace name are denormalized the way the UI consumes them.
type TaskDTO struct {
	ID             string            `json:"id"`
	WorkspaceID    string            `json:"workspace_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	AssignedTo     string            `json:"assigned_to"`
	CreatedBy      string            `json:"created_by"`
	Status         models.TaskStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	AssignedToName string            `json:"assignedToName,omitempty"`
	CreatedByName  string            `json:"createdByName,omitempty"`
	WorkspaceName  string            `json:"workspace_name,omitempty"`
	Subtasks       []SubtaskDTO      `json:"subtasks"`
}

// ToSubtaskDTO converts a Subtask model to SubtaskDTO
func ToSubtaskDTO(subtask models.Subtask) SubtaskDTO {
	return SubtaskDTO{
		ID:        subtask.ID,
		TaskID:    subtask.TaskID,
		Title:     subtask.Title,
		Status:    subtask.Status,
		CreatedAt: subtask.CreatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		WorkspaceID: task.WorkspaceID,
		Title:       task.Title,
		Description: task.Description,
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		Subtasks:    []SubtaskDTO{},
	}

	// Names appear only when the relations were preloaded.
	if task.Assignee.ID != "" {
		dto.AssignedToName = task.Assignee.Name
	}
	if task.Creator.ID != "" {
		dto.CreatedByName = task.Creator.Name
	}
	if task.Workspace.ID != "" {
		dto.WorkspaceName = task.Workspace.Name
	}

	return dto
}

// ToTaskWithSubtasksDTO converts a task and includes its subtask list, empty
// slice when the task has none.
func ToTaskWithSubtasksDTO(task models.Task) TaskDTO {
	dto := ToTaskDTO(task)
	dto.Subtasks = make([]SubtaskDTO, len(task.Subtasks))
	for i, s := range task.Subtasks {
		dto.Subtasks[i] = ToSubtaskDTO(s)
	}
	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}

// ToTaskWithSubtasksDTOs converts a slice of tasks including subtasks
func ToTaskWithSubtasksDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskWithSubtasksDTO(t)
	}
	return dtos
}
