package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/teamsync/teamsync-api/internal/models"
	"github.com/teamsync/teamsync-api/internal/repository"
	"github.com/teamsync/teamsync-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestStatsHandler_GetStatistics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Task{},
		&models.Subtask{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	user := &models.User{Email: "owner@example.com", PasswordHash: "h", Salt: "s", Name: "Owner"}
	require.NoError(t, db.Create(user).Error)

	workspace := &models.Workspace{Name: "Engineering", ManagerID: user.ID}
	require.NoError(t, db.Create(workspace).Error)

	for _, status := range []models.TaskStatus{
		models.TaskStatusPending,
		models.TaskStatusInProgress,
		models.TaskStatusCompleted,
	} {
		task := &models.Task{
			WorkspaceID: workspace.ID,
			Title:       "Task " + string(status),
			AssignedTo:  user.ID,
			CreatedBy:   user.ID,
			Status:      status,
		}
		require.NoError(t, db.Create(task).Error)
	}

	taskRepo := repository.NewTaskRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	userRepo := repository.NewUserRepository(db)
	handler := NewStatsHandler(services.NewStatsService(taskRepo, workspaceRepo, userRepo))

	r := gin.New()
	r.GET("/api/statistics", handler.GetStatistics)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats services.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, int64(3), stats.TotalTasks)
	require.Equal(t, int64(1), stats.CompletedTasks)
	require.Equal(t, int64(2), stats.PendingTasks)
	require.Equal(t, int64(1), stats.OverdueTasks)
	require.Equal(t, int64(1), stats.WorkspaceCount)
	require.Equal(t, int64(1), stats.TeamMemberCount)
}
