package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
	"github.com/gitclassrooms/classroom-provisioner/internal/reporter"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, storage.Storage) {
	t.Helper()
	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	handler := NewHandler(store, reporter.NewReporter(store), nil)
	return SetupRoutes(handler), store
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", apperrors.NewNotFoundError("assignment"), http.StatusNotFound},
		{"unauthorized", apperrors.NewUnauthorizedError("bad token"), http.StatusUnauthorized},
		{"forbidden", apperrors.NewForbiddenError("missing scope"), http.StatusForbidden},
		{"bad request", apperrors.NewBadRequestError("invalid name"), http.StatusBadRequest},
		{"quota exceeded", apperrors.NewQuotaExceededError("no headroom"), http.StatusUnprocessableEntity},
		{"conflict", apperrors.NewConflictError("duplicate"), http.StatusConflict},
		{"rate limited", apperrors.NewRateLimitedError("slow down"), http.StatusTooManyRequests},
		{"internal", apperrors.NewInternalError("boom", nil), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)
			assert.Equal(t, tt.expected, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateAssignmentRepo_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("missing user_id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/assignment-1/repos",
			strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/missing/repos",
			strings.NewReader(`{"user_id":"student-1"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteAssignmentRepo_UnknownRecord(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/assignment-repos/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAssignmentRoster(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAssignment(ctx, &domain.Assignment{
		ID:             "assignment-1",
		Title:          "Homework 1",
		Slug:           "hw1",
		OrganizationID: 100,
		CreatorID:      "teacher-1",
	}))
	require.NoError(t, store.SaveUser(ctx, &domain.User{
		ID:           "student-1",
		GithubUserID: 9,
		Login:        "octocat",
		Token:        "token",
	}))
	require.NoError(t, store.SaveAssignmentRepo(ctx, &domain.AssignmentRepo{
		ID:           "record-1",
		AssignmentID: "assignment-1",
		UserID:       "student-1",
		GithubRepoID: 7,
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments/assignment-1/repos", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"login":"octocat"`)
	assert.Contains(t, w.Body.String(), `"github_repo_id":7`)
}

func TestGetAssignmentReport(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAssignment(ctx, &domain.Assignment{
		ID:             "assignment-1",
		Title:          "Homework 1",
		Slug:           "hw1",
		OrganizationID: 100,
		CreatorID:      "teacher-1",
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments/assignment-1/report", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"hw1"`)
	assert.Contains(t, w.Body.String(), `"submissions":0`)
}

func TestListAssignments_Empty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}
