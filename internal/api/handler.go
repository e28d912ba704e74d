package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
	"github.com/gitclassrooms/classroom-provisioner/internal/github"
	"github.com/gitclassrooms/classroom-provisioner/internal/provisioner"
	"github.com/gitclassrooms/classroom-provisioner/internal/reporter"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage"
)

// ClientFactory builds a GitHub API client authenticated with the given
// OAuth token. Provisioning calls run as the assignment creator, so the
// handler resolves the creator's token per request.
type ClientFactory func(token string) github.APIClient

// Handler handles API requests
type Handler struct {
	store    storage.Storage
	reporter reporter.Reporter
	clients  ClientFactory
}

// NewHandler creates a new API handler
func NewHandler(store storage.Storage, rep reporter.Reporter, clients ClientFactory) *Handler {
	if clients == nil {
		clients = func(token string) github.APIClient {
			return github.NewClient(token)
		}
	}
	return &Handler{
		store:    store,
		reporter: rep,
		clients:  clients,
	}
}

type createAssignmentRepoRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type createGroupAssignmentRepoRequest struct {
	GroupID string `json:"group_id" binding:"required"`
}

// CreateAssignmentRepo provisions a submission repository for one user
// POST /api/v1/assignments/:id/repos
func (h *Handler) CreateAssignmentRepo(c *gin.Context) {
	var req createAssignmentRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("user_id is required"))
		return
	}

	ctx := c.Request.Context()

	assignment, err := h.store.GetAssignment(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	invitee, err := h.store.GetUser(ctx, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	api, err := h.creatorClient(c, assignment.CreatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	builder := provisioner.NewAssignmentRepoBuilder(h.store, api)
	record, err := builder.Build(ctx, assignment, invitee)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": record,
	})
}

// DeleteAssignmentRepo tears down a submission repository
// DELETE /api/v1/assignment-repos/:id
func (h *Handler) DeleteAssignmentRepo(c *gin.Context) {
	ctx := c.Request.Context()

	record, err := h.store.GetAssignmentRepo(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	assignment, err := h.store.GetAssignment(ctx, record.AssignmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	api, err := h.creatorClient(c, assignment.CreatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	builder := provisioner.NewAssignmentRepoBuilder(h.store, api)
	if err := builder.Destroy(ctx, record); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateGroupAssignmentRepo provisions a submission repository for one group
// POST /api/v1/group-assignments/:id/repos
func (h *Handler) CreateGroupAssignmentRepo(c *gin.Context) {
	var req createGroupAssignmentRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("group_id is required"))
		return
	}

	ctx := c.Request.Context()

	assignment, err := h.store.GetGroupAssignment(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	group, err := h.store.GetGroup(ctx, req.GroupID)
	if err != nil {
		respondError(c, err)
		return
	}

	api, err := h.creatorClient(c, assignment.CreatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	builder := provisioner.NewGroupAssignmentRepoBuilder(h.store, api)
	record, err := builder.Build(ctx, assignment, group)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": record,
	})
}

// DeleteGroupAssignmentRepo tears down a group submission repository
// DELETE /api/v1/group-assignment-repos/:id
func (h *Handler) DeleteGroupAssignmentRepo(c *gin.Context) {
	ctx := c.Request.Context()

	record, err := h.store.GetGroupAssignmentRepo(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	assignment, err := h.store.GetGroupAssignment(ctx, record.GroupAssignmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	api, err := h.creatorClient(c, assignment.CreatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	builder := provisioner.NewGroupAssignmentRepoBuilder(h.store, api)
	if err := builder.Destroy(ctx, record); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAssignments returns submission summaries for all assignments
// GET /api/v1/assignments
func (h *Handler) ListAssignments(c *gin.Context) {
	summaries, err := h.reporter.ListAssignmentSummaries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if summaries == nil {
		summaries = []*domain.AssignmentSummary{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": summaries,
	})
}

// GetAssignmentReport returns the submission summary for one assignment
// GET /api/v1/assignments/:id/report
func (h *Handler) GetAssignmentReport(c *gin.Context) {
	summary, err := h.reporter.AssignmentSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": summary,
	})
}

// GetAssignmentRoster returns one entry per provisioned submission
// GET /api/v1/assignments/:id/repos
func (h *Handler) GetAssignmentRoster(c *gin.Context) {
	roster, err := h.reporter.AssignmentRoster(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if roster == nil {
		roster = []*domain.RosterEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": roster,
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// creatorClient builds an API client authenticated as the assignment creator
func (h *Handler) creatorClient(c *gin.Context, creatorID string) (github.APIClient, error) {
	creator, err := h.store.GetUser(c.Request.Context(), creatorID)
	if err != nil {
		return nil, err
	}
	if creator.Token == "" {
		return nil, apperrors.NewUnauthorizedError("assignment creator has no access token")
	}
	return h.clients(creator.Token), nil
}

// respondError maps application errors to HTTP responses
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError

		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeUnauthorized:
			status = http.StatusUnauthorized
		case apperrors.ErrCodeForbidden:
			status = http.StatusForbidden
		case apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		case apperrors.ErrCodeQuotaExceeded:
			status = http.StatusUnprocessableEntity
		case apperrors.ErrCodeConflict:
			status = http.StatusConflict
		case apperrors.ErrCodeRateLimited:
			status = http.StatusTooManyRequests
		}

		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrCodeInternal,
			"message": err.Error(),
		},
	})
}
