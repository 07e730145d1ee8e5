package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"precastcatalog/configurator"
	"precastcatalog/services"
)

// ShapeInfo describes one configurable product.
type ShapeInfo struct {
	Type    string                   `json:"type" example:"culvert"`
	Product string                   `json:"product" example:"Box Culvert"`
	Params  []configurator.ParamSpec `json:"params"`
}

// CatalogResponse lists the shapes and the commercial options shared by them.
type CatalogResponse struct {
	Shapes  []ShapeInfo           `json:"shapes"`
	Catalog *configurator.Catalog `json:"catalog"`
}

// GetCatalogHandler returns the product catalog
// @Summary Product catalog
// @Tags Configurator
// @Produce json
// @Success 200 {object} CatalogResponse
// @Router /api/catalog [get]
func GetCatalogHandler(cfg *configurator.Configurator) gin.HandlerFunc {
	return func(c *gin.Context) {
		shapes := cfg.Shapes()
		out := CatalogResponse{Shapes: make([]ShapeInfo, 0, len(shapes)), Catalog: cfg.Catalog()}
		for _, s := range shapes {
			out.Shapes = append(out.Shapes, ShapeInfo{Type: s.Type(), Product: s.Product(), Params: s.Params()})
		}
		c.JSON(http.StatusOK, out)
	}
}

// ConfigureHandler computes a configuration without storing it
// @Summary Configure product
// @Description Out-of-range dimensions are clamped and reported in warnings.
// @Tags Configurator
// @Accept json
// @Produce json
// @Param shape path string true "Shape type" Enums(culvert, elbow, manhole, straight)
// @Param request body configurator.Request true "Options and dimensions"
// @Success 200 {object} configurator.Result
// @Failure 400 {object} models.ErrorResponse
// @Router /api/configure/{shape} [post]
func ConfigureHandler(cfg *configurator.Configurator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req configurator.Request
		if !bindJSON(c, &req) {
			return
		}
		res, err := cfg.Configure(c.Param("shape"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ListCitiesHandler returns the city list used by every location select
// @Summary Cities
// @Tags Configurator
// @Produce json
// @Success 200 {array} string
// @Router /api/cities [get]
func ListCitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, services.SaudiCities)
	}
}

// HealthHandler reports that the server is up
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router /api/health [get]
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}
