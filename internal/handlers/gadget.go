// internal/handlers/gadget.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phelcone/phelcone-backend/internal/models"
	"github.com/phelcone/phelcone-backend/internal/services"
	"github.com/phelcone/phelcone-backend/internal/utils"
)

type GadgetHandler struct {
	gadgetService  *services.GadgetService
	storageService *services.StorageService
}

func NewGadgetHandler(gadgetService *services.GadgetService, storageService *services.StorageService) *GadgetHandler {
	return &GadgetHandler{
		gadgetService:  gadgetService,
		storageService: storageService,
	}
}

// GET /v1/gadgets
func (h *GadgetHandler) List(c *gin.Context) {
	gadgets, err := h.gadgetService.List(c.Request.Context(), c.Query("brand"))
	if err != nil {
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"gadgets": gadgets,
	})
}

// GET /v1/gadgets/:id
func (h *GadgetHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid gadget ID", nil)
		return
	}

	gadget, err := h.gadgetService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrGadgetNotFound) {
			utils.NotFoundResponse(c, "Gadget")
			return
		}
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"gadget": gadget,
	})
}

// POST /v1/gadgets (admin)
func (h *GadgetHandler) Create(c *gin.Context) {
	var req services.CreateGadgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	gadget, err := h.gadgetService.Create(c.Request.Context(), &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"gadget": gadget,
	})
}

// PUT /v1/gadgets/:id (admin)
func (h *GadgetHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid gadget ID", nil)
		return
	}

	var req services.CreateGadgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	gadget, err := h.gadgetService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, models.ErrGadgetNotFound) {
			utils.NotFoundResponse(c, "Gadget")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"gadget": gadget,
	})
}

// DELETE /v1/gadgets/:id (admin)
func (h *GadgetHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid gadget ID", nil)
		return
	}

	if err := h.gadgetService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrGadgetNotFound) {
			utils.NotFoundResponse(c, "Gadget")
			return
		}
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Gadget deleted",
	})
}

// POST /v1/gadgets/:id/images (admin)
func (h *GadgetHandler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid gadget ID", nil)
		return
	}

	if _, err := h.gadgetService.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrGadgetNotFound) {
			utils.NotFoundResponse(c, "Gadget")
			return
		}
		utils.InternalErrorResponse(c, "Internal server error")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required", nil)
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	result, err := h.storageService.UploadFile(file, header, h.storageService.GetDefaultUploadOptions("gadgets"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"upload": result,
	})
}
