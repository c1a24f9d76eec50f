// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/phelcone/phelcone-backend/internal/services"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
	userService  *services.UserService
}

func NewAdminHandler(adminService *services.AdminService, userService *services.UserService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		userService:  userService,
	}
}

// GET /v1/admin/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /v1/users (admin)
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}
