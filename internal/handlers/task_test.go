package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/teamsync/teamsync-api/internal/constants"
	"github.com/teamsync/teamsync-api/internal/dto"
	"github.com/teamsync/teamsync-api/internal/models"
	"github.com/teamsync/teamsync-api/internal/repository"
	"github.com/teamsync/teamsync-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
	router  *gin.Engine
	userID  string
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Task{},
		&models.Subtask{},
	)
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db)
	workspaceRepo := repository.NewWorkspaceRepository(suite.db)
	suite.handler = NewTaskHandler(services.NewTaskService(taskRepo, workspaceRepo))

	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, suite.userID)
	})

	ws := suite.router.Group("/api/workspaces")
	ws.GET("/:id/tasks", suite.handler.ListWorkspaceTasks)
	ws.POST("/:id/tasks", suite.handler.CreateWorkspaceTask)
	ws.PATCH("/:id/tasks/:taskId", suite.handler.UpdateTaskStatus)

	tasks := suite.router.Group("/api/tasks")
	tasks.GET("/assigned", suite.handler.ListAssignedTasks)
	tasks.PATCH("/subtasks/:subtaskId", suite.handler.UpdateSubtaskByBody)
	tasks.POST("/:taskId/subtasks", suite.handler.AddSubtask)
	tasks.PATCH("/:taskId/subtasks/:subtaskId", suite.handler.UpdateSubtaskByPath)
	tasks.DELETE("/:taskId/subtasks/:subtaskId", suite.handler.DeleteSubtask)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *TaskHandlerTestSuite) createTestUser(email, name string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Salt:         "salt",
		Name:         name,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskHandlerTestSuite) createTestWorkspace(name, managerID string) *models.Workspace {
	workspace := &models.Workspace{
		Name:      name,
		ManagerID: managerID,
	}
	suite.Require().NoError(suite.db.Create(workspace).Error)
	return workspace
}

func (suite *TaskHandlerTestSuite) createTestTask(workspaceID, title, assignedTo, createdBy string) *models.Task {
	task := &models.Task{
		WorkspaceID: workspaceID,
		Title:       title,
		AssignedTo:  assignedTo,
		CreatedBy:   createdBy,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *TaskHandlerTestSuite) createTestSubtask(taskID, title string, status models.SubtaskStatus) *models.Subtask {
	subtask := &models.Subtask{
		TaskID: taskID,
		Title:  title,
		Status: status,
	}
	suite.Require().NoError(suite.db.Create(subtask).Error)
	return subtask
}

func (suite *TaskHandlerTestSuite) performRequest(method, url string, payload any) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) decodeTask(w *httptest.ResponseRecorder) dto.TaskDTO {
	var response struct {
		Task dto.TaskDTO `json:"task"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response.Task
}

func (suite *TaskHandlerTestSuite) taskStatusInDB(taskID string) models.TaskStatus {
	var task models.Task
	suite.Require().NoError(suite.db.First(&task, "id = ?", taskID).Error)
	return task.Status
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	alice := suite.createTestUser("alice@example.com", "Alice")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	suite.userID = manager.ID

	w := suite.performRequest("POST", "/api/workspaces/"+workspace.ID+"/tasks", map[string]string{
		"title":       "Write report",
		"description": "Quarterly report",
		"assignedTo":  alice.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	task := suite.decodeTask(w)
	assert.Equal(suite.T(), "Write report", task.Title)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
	assert.Equal(suite.T(), alice.ID, task.AssignedTo)
	assert.Equal(suite.T(), "Alice", task.AssignedToName)
	assert.Equal(suite.T(), "Manager", task.CreatedByName)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingFields() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	suite.userID = manager.ID

	w := suite.performRequest("POST", "/api/workspaces/"+workspace.ID+"/tasks", map[string]string{
		"title": "No assignee",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_WorkspaceNotFound() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	suite.userID = manager.ID

	w := suite.performRequest("POST", "/api/workspaces/does-not-exist/tasks", map[string]string{
		"title":      "Orphan",
		"assignedTo": manager.ID,
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus_Success() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	suite.userID = manager.ID

	w := suite.performRequest("PATCH", "/api/workspaces/"+workspace.ID+"/tasks/"+task.ID, map[string]string{
		"status": "completed",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.decodeTask(w).Status)
	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.taskStatusInDB(task.ID))
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus_InvalidStatus() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	suite.userID = manager.ID

	w := suite.performRequest("PATCH", "/api/workspaces/"+workspace.ID+"/tasks/"+task.ID, map[string]string{
		"status": "done",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus_TaskNotFound() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	suite.userID = manager.ID

	w := suite.performRequest("PATCH", "/api/workspaces/"+workspace.ID+"/tasks/does-not-exist", map[string]string{
		"status": "completed",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAddSubtask_Success() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	suite.userID = manager.ID

	w := suite.performRequest("POST", "/api/tasks/"+task.ID+"/subtasks", map[string]string{
		"title": "Draft outline",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var response struct {
		Subtask dto.SubtaskDTO `json:"subtask"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Draft outline", response.Subtask.Title)
	assert.Equal(suite.T(), models.SubtaskStatusTodo, response.Subtask.Status)

	// Adding a subtask never rewrites the parent status.
	assert.Equal(suite.T(), models.TaskStatusPending, suite.taskStatusInDB(task.ID))
}

func (suite *TaskHandlerTestSuite) TestAddSubtask_KeepsCompletedParent() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	suite.userID = manager.ID

	suite.Require().NoError(suite.db.Model(task).Update("status", models.TaskStatusCompleted).Error)

	w := suite.performRequest("POST", "/api/tasks/"+task.ID+"/subtasks", map[string]string{
		"title": "Follow-up",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.taskStatusInDB(task.ID))
}

func (suite *TaskHandlerTestSuite) TestAddSubtask_TaskNotFound() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	suite.userID = manager.ID

	w := suite.performRequest("POST", "/api/tasks/does-not-exist/subtasks", map[string]string{
		"title": "Orphan",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSubtaskProgression() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	suite.userID = manager.ID

	s1 := suite.createTestSubtask(task.ID, "Outline", models.SubtaskStatusTodo)
	s2 := suite.createTestSubtask(task.ID, "Draft", models.SubtaskStatusTodo)
	s3 := suite.createTestSubtask(task.ID, "Review", models.SubtaskStatusTodo)

	// One of three completed puts the task in progress.
	w := suite.performRequest("PATCH", "/api/tasks/"+task.ID+"/subtasks/"+s1.ID, map[string]string{
		"status": "completed",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	updated := suite.decodeTask(w)
	assert.Equal(suite.T(), models.TaskStatusInProgress, updated.Status)
	assert.Len(suite.T(), updated.Subtasks, 3)

	// All three completed completes the task.
	for _, id := range []string{s2.ID, s3.ID} {
		w = suite.performRequest("PATCH", "/api/tasks/"+task.ID+"/subtasks/"+id, map[string]string{
			"status": "completed",
		})
		suite.Require().Equal(http.StatusOK, w.Code)
	}
	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.taskStatusInDB(task.ID))

	// Reverting one subtask pulls the task back to in progress.
	w = suite.performRequest("PATCH", "/api/tasks/"+task.ID+"/subtasks/"+s2.ID, map[string]string{
		"status": "todo",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), models.TaskStatusInProgress, suite.decodeTask(w).Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateSubtaskByBody() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	subtask := suite.createTestSubtask(task.ID, "Outline", models.SubtaskStatusTodo)
	suite.userID = manager.ID

	w := suite.performRequest("PATCH", "/api/tasks/subtasks/"+subtask.ID, map[string]string{
		"taskId": task.ID,
		"status": "completed",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.decodeTask(w).Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateSubtask_InvalidStatus() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	subtask := suite.createTestSubtask(task.ID, "Outline", models.SubtaskStatusTodo)
	suite.userID = manager.ID

	w := suite.performRequest("PATCH", "/api/tasks/"+task.ID+"/subtasks/"+subtask.ID, map[string]string{
		"status": "in-progress",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateSubtask_NotFound() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	suite.userID = manager.ID

	w := suite.performRequest("PATCH", "/api/tasks/"+task.ID+"/subtasks/does-not-exist", map[string]string{
		"status": "completed",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteSubtask_RecomputesStatus() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	done := suite.createTestSubtask(task.ID, "Outline", models.SubtaskStatusCompleted)
	todo := suite.createTestSubtask(task.ID, "Draft", models.SubtaskStatusTodo)
	suite.userID = manager.ID

	// Deleting the only incomplete subtask leaves everything completed.
	w := suite.performRequest("DELETE", "/api/tasks/"+task.ID+"/subtasks/"+todo.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Message string      `json:"message"`
		Task    dto.TaskDTO `json:"task"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Subtask deleted successfully", response.Message)
	assert.Equal(suite.T(), models.TaskStatusCompleted, response.Task.Status)
	suite.Require().Len(response.Task.Subtasks, 1)
	assert.Equal(suite.T(), done.ID, response.Task.Subtasks[0].ID)

	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.taskStatusInDB(task.ID))
}

func (suite *TaskHandlerTestSuite) TestDeleteSubtask_LastSubtaskKeepsStatus() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	subtask := suite.createTestSubtask(task.ID, "Outline", models.SubtaskStatusTodo)
	suite.userID = manager.ID

	// Complete the task through its only subtask, then remove that subtask.
	w := suite.performRequest("PATCH", "/api/tasks/"+task.ID+"/subtasks/"+subtask.ID, map[string]string{
		"status": "completed",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().Equal(models.TaskStatusCompleted, suite.taskStatusInDB(task.ID))

	w = suite.performRequest("DELETE", "/api/tasks/"+task.ID+"/subtasks/"+subtask.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	// With no subtasks left the task keeps its last derived status.
	deleted := suite.decodeTask(w)
	assert.Equal(suite.T(), models.TaskStatusCompleted, deleted.Status)
	assert.Empty(suite.T(), deleted.Subtasks)
}

func (suite *TaskHandlerTestSuite) TestDeleteSubtask_NotFound() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	task := suite.createTestTask(workspace.ID, "Write report", manager.ID, manager.ID)
	suite.userID = manager.ID

	w := suite.performRequest("DELETE", "/api/tasks/"+task.ID+"/subtasks/does-not-exist", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListWorkspaceTasks() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	suite.createTestTask(workspace.ID, "First", manager.ID, manager.ID)
	suite.createTestTask(workspace.ID, "Second", manager.ID, manager.ID)
	suite.userID = manager.ID

	w := suite.performRequest("GET", "/api/workspaces/"+workspace.ID+"/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Tasks, 2)
}

func (suite *TaskHandlerTestSuite) TestListAssignedTasks() {
	manager := suite.createTestUser("manager@example.com", "Manager")
	alice := suite.createTestUser("alice@example.com", "Alice")
	workspace := suite.createTestWorkspace("Engineering", manager.ID)
	mine := suite.createTestTask(workspace.ID, "Mine", alice.ID, manager.ID)
	suite.createTestTask(workspace.ID, "Someone else's", manager.ID, manager.ID)
	suite.createTestSubtask(mine.ID, "Outline", models.SubtaskStatusTodo)
	suite.userID = alice.ID

	w := suite.performRequest("GET", "/api/tasks/assigned", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "Mine", response.Tasks[0].Title)
	assert.Equal(suite.T(), "Engineering", response.Tasks[0].WorkspaceName)
	assert.Len(suite.T(), response.Tasks[0].Subtasks, 1)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
