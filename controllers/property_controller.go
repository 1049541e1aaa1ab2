package controllers

import (
	"net/http"
	"os"
	"strconv"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/middleware"
	"rentals-api/services"
	"rentals-api/utils"

	"github.com/gin-gonic/gin"
)

// PropertyController handles the property endpoints.
type PropertyController struct {
	service services.PropertyService
}

// NewPropertyController creates a PropertyController.
func NewPropertyController(service services.PropertyService) *PropertyController {
	return &PropertyController{service: service}
}

// GetAll handles GET /api/properties.
func (ctrl *PropertyController) GetAll(c *gin.Context) {
	var filter dto.PropertyFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		fail(c, utils.NewValidationError(err.Error()))
		return
	}

	properties, total, err := ctrl.service.List(filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(properties, total))
}

// Get handles GET /api/properties/:id.
func (ctrl *PropertyController) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}

	property, err := ctrl.service.Get(id)
	if err != nil {
		fail(c, err)
		return
	}

	resp := dto.PropertyResponse{Status: "success"}
	resp.Data.Property = *property
	c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/properties (multipart).
func (ctrl *PropertyController) Create(c *gin.Context) {
	media := middleware.MediaFromContext(c)

	var form dto.CreatePropertyForm
	if err := c.ShouldBind(&form); err != nil {
		// The upload middleware already wrote these files; a rejected
		// form must not leave them behind.
		removeUploads(media)
		fail(c, utils.NewValidationError(err.Error()))
		return
	}

	property, err := ctrl.service.Create(form, media)
	if err != nil {
		fail(c, err)
		return
	}

	resp := dto.PropertyResponse{Status: "success"}
	resp.Data.Property = *property
	c.JSON(http.StatusCreated, resp)
}

// Update handles PATCH /api/properties/:id (multipart).
func (ctrl *PropertyController) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}

	media := middleware.MediaFromContext(c)

	var form dto.UpdatePropertyForm
	if err := c.ShouldBind(&form); err != nil {
		removeUploads(media)
		fail(c, utils.NewValidationError(err.Error()))
		return
	}

	property, err := ctrl.service.Update(id, form, media)
	if err != nil {
		fail(c, err)
		return
	}

	resp := dto.PropertyResponse{Status: "success"}
	resp.Data.Property = *property
	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/properties/:id.
func (ctrl *PropertyController) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := ctrl.service.Delete(id); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Like handles POST /api/properties/:id/like.
func (ctrl *PropertyController) Like(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, utils.NewAuthError("You must be logged in"))
		return
	}

	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := ctrl.service.Like(user.ID, id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Status:  "success",
		Message: "Property liked successfully",
	})
}

// Unlike handles DELETE /api/properties/:id/unlike.
func (ctrl *PropertyController) Unlike(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, utils.NewAuthError("You must be logged in"))
		return
	}

	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := ctrl.service.Unlike(user.ID, id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Status:  "success",
		Message: "Property unliked successfully",
	})
}

// GetLiked handles GET /api/properties/likedProperties.
func (ctrl *PropertyController) GetLiked(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, utils.NewAuthError("You must be logged in"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	properties, total, err := ctrl.service.ListLiked(user.ID, page, limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(properties, total))
}

func listResponse(properties []domain.Property, total int64) dto.PropertiesResponse {
	if properties == nil {
		properties = []domain.Property{}
	}
	return dto.PropertiesResponse{
		Status:  "success",
		Results: total,
		Data:    dto.PropertyListData{Properties: properties},
	}
}

// removeUploads drops files written by the upload middleware when the rest
// of the request turns out to be invalid.
func removeUploads(media dto.UploadedMedia) {
	for _, path := range media.Paths() {
		_ = os.Remove(path)
	}
}
