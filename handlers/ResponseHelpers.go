package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"precastcatalog/middleware"
	"precastcatalog/models"
	"precastcatalog/services"
	"precastcatalog/utils"
)

// respondError answers with the status, message and code mapped from err.
func respondError(c *gin.Context, err error) {
	middleware.Abort(c, err)
}

// bindJSON binds the request body and answers 400 with a user-facing message on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, services.BindingMessage(err), "VALIDATION_ERROR")
		return false
	}
	return true
}

func sessionMeta(c *gin.Context) services.SessionMeta {
	return services.SessionMeta{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

func userResponses(users []models.User) []models.UserResponse {
	out := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.Response())
	}
	return out
}
