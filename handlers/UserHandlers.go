package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"precastcatalog/middleware"
	"precastcatalog/models"
	"precastcatalog/services"
	"precastcatalog/utils"
)

// ListUsersHandler lists every account
// @Summary List users
// @Description Requires manage_users.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CountResponse{data=[]models.UserResponse}
// @Failure 403 {object} models.ErrorResponse
// @Router /api/admin/users [get]
func ListUsersHandler(users *services.UserAdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.ListUsers(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.CountResponse{Total: len(list), Data: userResponses(list)})
	}
}

// GetUserHandler returns one account
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/users/{email} [get]
func GetUserHandler(users *services.UserAdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetUser(c.Request.Context(), middleware.CurrentUser(c), c.Param("email"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, u.Response())
	}
}

// CreateAdminHandler adds an administrator
// @Summary Create admin
// @Description Requires add_admins. The new account is an admin with the chosen permissions.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateAdminRequest true "Admin details"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/admin/users [post]
func CreateAdminHandler(users *services.UserAdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateAdminRequest
		if !bindJSON(c, &req) {
			return
		}
		u, err := users.CreateAdmin(c.Request.Context(), middleware.CurrentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u.Response())
	}
}

// UpdateUserHandler edits an account
// @Summary Update user
// @Description Permissions change only for callers with add_admins, and never for the super admin.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Param request body models.UpdateUserRequest true "User details"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/admin/users/{email} [put]
func UpdateUserHandler(users *services.UserAdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateUserRequest
		if !bindJSON(c, &req) {
			return
		}
		u, err := users.UpdateUser(c.Request.Context(), middleware.CurrentUser(c), c.Param("email"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, u.Response())
	}
}

// DeleteUserHandler removes an account and its sessions
// @Summary Delete user
// @Description Requires manage_users. The super admin cannot be deleted.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/users/{email} [delete]
func DeleteUserHandler(users *services.UserAdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.DeleteUser(c.Request.Context(), middleware.CurrentUser(c), c.Param("email")); err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "User deleted successfully")
	}
}
