package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"precastcatalog/middleware"
	"precastcatalog/models"
	"precastcatalog/services"
	"precastcatalog/utils"
)

// ListProjectsHandler lists the current user's projects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Project
// @Router /api/projects [get]
func ListProjectsHandler(projects *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := projects.List(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// CreateProjectHandler creates a project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProjectRequest true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Router /api/projects [post]
func CreateProjectHandler(projects *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ProjectRequest
		if !bindJSON(c, &req) {
			return
		}
		p, err := projects.Create(c.Request.Context(), middleware.CurrentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// GetProjectHandler returns a project with the cart items assigned to it
// @Summary Get project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} services.ProjectDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /api/projects/{id} [get]
func GetProjectHandler(projects *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := projects.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// UpdateProjectHandler edits a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body models.ProjectRequest true "Project"
// @Success 200 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/projects/{id} [put]
func UpdateProjectHandler(projects *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ProjectRequest
		if !bindJSON(c, &req) {
			return
		}
		p, err := projects.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// DeleteProjectHandler deletes a project; its cart items return to the unassigned group
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/projects/{id} [delete]
func DeleteProjectHandler(projects *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := projects.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Project deleted successfully")
	}
}
