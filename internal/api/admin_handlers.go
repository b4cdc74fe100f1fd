package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/logging"
	"github.com/momoworks/webos/internal/model"
	"github.com/momoworks/webos/internal/service"
	"github.com/momoworks/webos/internal/storage"
)

type AdminHandler struct {
	repo storage.Repository
}

func NewAdminHandler(repo storage.Repository) *AdminHandler {
	return &AdminHandler{repo: repo}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.repo.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser removes a non-admin account with all of its notes and files,
// including the uploaded files on disk.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	user, err := h.repo.GetUserByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
		return
	}
	if user.Role == model.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrCannotDeleteAdmin})
		return
	}

	// Remove disk files before their metadata rows go away.
	files, err := h.repo.GetFilesByUser(user.ID)
	if err == nil {
		for _, f := range files {
			if _, statErr := os.Stat(f.Path); statErr == nil {
				if rmErr := os.Remove(f.Path); rmErr != nil {
					logging.Error("failed to remove file during user deletion", rmErr, logging.Fields{"path": f.Path})
				}
			}
		}
	}

	if err := h.repo.DeleteUserCascade(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	logging.Info("user deleted", logging.Fields{constants.LogFieldUserID: user.ID})
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "User deleted successfully"})
}

func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := service.AdminDashboard(h.repo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, stats)
}
