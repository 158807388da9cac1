package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gracepointe/engage/internal/service"
	"github.com/gracepointe/engage/pkg/response"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

type promoteInput struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AdminHandler) Promote(c *gin.Context) {
	var input promoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	user, err := h.adminService.PromoteToAdmin(c.Request.Context(), input.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
