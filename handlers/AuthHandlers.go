package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"precastcatalog/middleware"
	"precastcatalog/models"
	"precastcatalog/services"
	"precastcatalog/utils"
)

// MeResponse is the current user with the screens and actions available to them.
type MeResponse struct {
	User         models.UserResponse   `json:"user"`
	Capabilities services.Capabilities `json:"capabilities"`
}

func loginResponse(res *services.LoginResult) models.LoginResponse {
	return models.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
		User:      res.User.Response(),
	}
}

// SignupHandler registers a client account and logs it in
// @Summary Sign up
// @Description Create a client account. All fields are required and the password must be at least 6 characters.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Account details"
// @Success 201 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /api/auth/signup [post]
func SignupHandler(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if !bindJSON(c, &req) {
			return
		}
		res, err := auth.Signup(c.Request.Context(), req, sessionMeta(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, loginResponse(res))
	}
}

// LoginHandler authenticates a user
// @Summary Login user
// @Description Authenticate with email and password and return a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /api/auth/login [post]
func LoginHandler(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		res, err := auth.Login(c.Request.Context(), req.Email, req.Password, sessionMeta(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, loginResponse(res))
	}
}

// LogoutHandler ends the current session
// @Summary Logout
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/logout [post]
func LogoutHandler(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Logout(c.Request.Context(), middleware.CurrentSession(c).ID); err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Logged out successfully")
	}
}

// MeHandler returns the current user
// @Summary Current user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/me [get]
func MeHandler(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := auth.Me(c.Request.Context(), middleware.CurrentUser(c).Email)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, MeResponse{User: u.Response(), Capabilities: services.CapabilitiesOf(u)})
	}
}

// UpdateProfileHandler edits the current user's own details
// @Summary Update profile
// @Description Changing the email moves the cart, projects and sessions to the new address.
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Profile"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/auth/profile [put]
func UpdateProfileHandler(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateProfileRequest
		if !bindJSON(c, &req) {
			return
		}
		u, err := auth.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, u.Response())
	}
}

// ChangePasswordHandler replaces the current user's password
// @Summary Change password
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/auth/password [put]
func ChangePasswordHandler(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ChangePasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := auth.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), req); err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Password updated successfully")
	}
}
