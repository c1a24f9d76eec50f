// internal/handlers/user.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phelcone/phelcone-backend/internal/models"
	"github.com/phelcone/phelcone-backend/internal/services"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

type UserHandler struct {
	userService    *services.UserService
	storageService *services.StorageService
}

func NewUserHandler(userService *services.UserService, storageService *services.StorageService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		storageService: storageService,
	}
}

// resolveUserID enforces that a buyer can only touch their own profile;
// admins may pass any ID.
func (h *UserHandler) resolveUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	requesterID, _ := utils.GetUserIDFromContext(c)
	requesterType, _ := utils.GetUserTypeFromContext(c)
	if requesterType != string(models.UserTypeAdmin) && requesterID != id.String() {
		utils.ForbiddenResponse(c, "")
		return uuid.Nil, false
	}

	return id, true
}

// GET /v1/users/:id/details
//
// A user without a saved profile row is not an error; the settings page
// renders an empty form from a null payload.
func (h *UserHandler) GetDetails(c *gin.Context) {
	id, ok := h.resolveUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfileByUserID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			utils.SuccessResponse(c, gin.H{
				"details": nil,
			})
			return
		}
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"details": profile,
	})
}

// PUT /v1/users/:id/details
func (h *UserHandler) UpdateDetails(c *gin.Context) {
	id, ok := h.resolveUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"details": profile,
	})
}

// PUT /v1/users/:id/wishlist
func (h *UserHandler) UpdateWishlist(c *gin.Context) {
	id, ok := h.resolveUserID(c)
	if !ok {
		return
	}

	var req struct {
		Wishlist []string `json:"wishlist"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.userService.UpdateWishlist(c.Request.Context(), id, req.Wishlist); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User")
			return
		}
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"wishlist": req.Wishlist,
	})
}

// POST /v1/users/:id/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id, ok := h.resolveUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		utils.BadRequestResponse(c, "Avatar file is required", nil)
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	result, err := h.storageService.UploadFile(file, header, h.storageService.GetDefaultUploadOptions("avatars"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := h.userService.SetAvatar(c.Request.Context(), id, result.URL); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User")
			return
		}
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"avatar": result.URL,
	})
}
