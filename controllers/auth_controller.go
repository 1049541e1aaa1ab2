package controllers

import (
	"net/http"
	"strconv"

	"rentals-api/dto"
	"rentals-api/middleware"
	"rentals-api/services"
	"rentals-api/utils"

	"github.com/gin-gonic/gin"
)

// AuthController handles the auth and user management endpoints.
type AuthController struct {
	service services.AuthService
}

// NewAuthController creates an AuthController.
func NewAuthController(service services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /api/auth/register.
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, utils.NewValidationError(err.Error()))
		return
	}

	resp, err := ctrl.service.Register(req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RegisterAdmin handles POST /api/auth/register-admin. Like the customer
// registration it carries no authorization guard.
func (ctrl *AuthController) RegisterAdmin(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, utils.NewValidationError(err.Error()))
		return
	}

	resp, err := ctrl.service.RegisterAdmin(req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, utils.NewValidationError(err.Error()))
		return
	}

	resp, err := ctrl.service.Login(req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles GET /api/auth/logout. Tokens are stateless, so this only
// tells the client to drop its copy.
func (ctrl *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"token":  nil,
	})
}

// Me handles GET /api/auth/me.
func (ctrl *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, utils.NewAuthError("You must be logged in"))
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{Status: "success", User: *user})
}

// UpdateProfile handles PATCH /api/auth/update-profile.
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, utils.NewAuthError("You must be logged in"))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, utils.NewValidationError(err.Error()))
		return
	}

	resp, err := ctrl.service.UpdateProfile(user.ID, req, user.IsAdmin())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAllUsers handles GET /api/auth/users (admin only).
func (ctrl *AuthController) GetAllUsers(c *gin.Context) {
	users, err := ctrl.service.GetAllUsers()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UsersResponse{
		Status:  "success",
		Results: len(users),
		Users:   users,
	})
}

// GetUser handles GET /api/auth/users/:id (admin only).
func (ctrl *AuthController) GetUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := ctrl.service.GetUser(id)
	if err != nil {
		fail(c, err)
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, dto.UserResponse{Status: "success", User: *user})
}

// DeleteUser handles DELETE /api/auth/users/:id (admin only).
func (ctrl *AuthController) DeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := ctrl.service.DeleteUser(id); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, utils.NewValidationError("Invalid id: " + c.Param("id"))
	}
	return uint(id), nil
}

// fail records an error for the central error handler and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
