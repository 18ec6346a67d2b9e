package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamsync/teamsync-api/internal/dto"
	apierrors "github.com/teamsync/teamsync-api/internal/errors"
	"github.com/teamsync/teamsync-api/internal/middleware"
	"github.com/teamsync/teamsync-api/internal/models"
	"github.com/teamsync/teamsync-api/internal/services"
)

// subtaskTxTimeout bounds the subtask-mutation transaction, which holds a
// row lock on the parent task.
const subtaskTxTimeout = 5 * time.Second

// TaskHandler coordinates task and subtask HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListWorkspaceTasks returns the tasks of one workspace.
func (h *TaskHandler) ListWorkspaceTasks(c *gin.Context) {
	tasks, err := h.taskService.ListWorkspaceTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// CreateWorkspaceTask creates a task inside a workspace.
func (h *TaskHandler) CreateWorkspaceTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		AssignedTo  string `json:"assignedTo" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Title and assignedTo are required")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		WorkspaceID: c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": dto.ToTaskDTO(*task)})
}

// UpdateTaskStatus overwrites a task's status directly.
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid status")
		return
	}

	task, err := h.taskService.SetTaskStatus(c.Request.Context(), c.Param("id"), c.Param("taskId"), req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// ListAssignedTasks returns the authenticated user's tasks with subtasks.
func (h *TaskHandler) ListAssignedTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListAssignedTasks(c.Request.Context(), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskWithSubtasksDTOs(tasks)})
}

// AddSubtask creates a subtask under a task.
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	type AddSubtaskRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req AddSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Title is required")
		return
	}

	subtask, err := h.taskService.AddSubtask(c.Request.Context(), c.Param("taskId"), req.Title)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subtask": dto.ToSubtaskDTO(*subtask)})
}

// UpdateSubtaskByPath updates a subtask addressed by the URL and propagates
// the derived status to the parent task.
func (h *TaskHandler) UpdateSubtaskByPath(c *gin.Context) {
	type UpdateSubtaskRequest struct {
		Status models.SubtaskStatus `json:"status" binding:"required"`
	}

	var req UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), subtaskTxTimeout)
	defer cancel()

	task, err := h.taskService.SetSubtaskStatus(ctx, c.Param("taskId"), c.Param("subtaskId"), req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskWithSubtasksDTO(*task)})
}

// UpdateSubtaskByBody updates a subtask addressed by the request body.
func (h *TaskHandler) UpdateSubtaskByBody(c *gin.Context) {
	type UpdateSubtaskRequest struct {
		TaskID string               `json:"taskId" binding:"required"`
		Status models.SubtaskStatus `json:"status" binding:"required"`
	}

	var req UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "taskId and status are required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), subtaskTxTimeout)
	defer cancel()

	task, err := h.taskService.SetSubtaskStatus(ctx, req.TaskID, c.Param("subtaskId"), req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskWithSubtasksDTO(*task)})
}

// DeleteSubtask removes a subtask and returns the task with its status
// re-derived from the remaining subtasks.
func (h *TaskHandler) DeleteSubtask(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), subtaskTxTimeout)
	defer cancel()

	task, err := h.taskService.DeleteSubtask(ctx, c.Param("taskId"), c.Param("subtaskId"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subtask deleted successfully",
		"task":    dto.ToTaskWithSubtasksDTO(*task),
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskFieldsRequired),
		errors.Is(err, services.ErrSubtaskTitleEmpty),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidSubtaskStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrSubtaskNotFound):
		apierrors.NotFound(c, "Subtask not found")
	case errors.Is(err, services.ErrWorkspaceNotFound):
		apierrors.NotFound(c, "Workspace not found")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
