package auth

import (
	"log"
	"net/http"
	"strconv"

	"backoffice/internal/v0/common"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-only user management endpoints
type AdminHandler struct {
	repo *Repository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(repo *Repository) *AdminHandler {
	return &AdminHandler{repo: repo}
}

// ListUsers returns all users
// GET /admin/users?limit&offset
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.repo.GetAllUsers(limit, offset)
	if err != nil {
		log.Printf("auth: list users failed: %v", err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to list users"}))
		return
	}
	if users == nil {
		users = []User{}
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(users))
}

// GetUser returns a single user
// GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid user id"}))
		return
	}

	user, err := h.repo.GetUserByID(id)
	if err != nil {
		log.Printf("auth: get user %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to get user"}))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{"user not found"}))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(user))
}

// UpdateUser updates a user's role or status
// PATCH /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid user id"}))
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	if req.Role != nil && *req.Role != RoleUser && *req.Role != RoleAdmin {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid role"}))
		return
	}
	if req.Status != nil && *req.Status != StatusActive && *req.Status != StatusSuspended {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid status"}))
		return
	}

	existing, err := h.repo.GetUserByID(id)
	if err != nil {
		log.Printf("auth: get user %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to get user"}))
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{"user not found"}))
		return
	}

	if err := h.repo.UpdateUser(id, req.Role, req.Status); err != nil {
		log.Printf("auth: update user %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to update user"}))
		return
	}

	updated, err := h.repo.GetUserByID(id)
	if err != nil {
		log.Printf("auth: reload user %d failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to load user"}))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(updated))
}
