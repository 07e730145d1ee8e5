package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"precastcatalog/middleware"
	"precastcatalog/models"
	"precastcatalog/services"
	"precastcatalog/utils"
)

// AddToCartResponse is the stored snapshot with any clamping warnings.
type AddToCartResponse struct {
	Item     models.CartItem `json:"item"`
	Warnings []string        `json:"warnings"`
}

// ClearGroupResponse reports how many items left the cart.
type ClearGroupResponse struct {
	Removed int `json:"removed" example:"3"`
}

// GetCartHandler lists the cart grouped by project
// @Summary Get cart
// @Description Groups follow the order their first item was added; the unassigned group comes last.
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CartGroup
// @Router /api/cart [get]
func GetCartHandler(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups, err := cart.List(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, groups)
	}
}

// AddToCartHandler configures a product and adds the snapshot to the cart
// @Summary Add to cart
// @Description Administrators cannot add items.
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AddToCartRequest true "Configuration"
// @Success 201 {object} AddToCartResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cart/items [post]
func AddToCartHandler(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddToCartRequest
		if !bindJSON(c, &req) {
			return
		}
		item, warnings, err := cart.Add(c.Request.Context(), middleware.CurrentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		if warnings == nil {
			warnings = []string{}
		}
		c.JSON(http.StatusCreated, AddToCartResponse{Item: *item, Warnings: warnings})
	}
}

// RemoveCartItemHandler removes one item
// @Summary Remove cart item
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cart item ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cart/items/{id} [delete]
func RemoveCartItemHandler(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cart.Remove(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Item removed")
	}
}

// ReassignCartItemHandler moves an item to another project group
// @Summary Reassign cart item
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cart item ID"
// @Param request body models.ReassignCartItemRequest true "Target project; empty or __later unassigns"
// @Success 200 {object} models.CartItem
// @Failure 404 {object} models.ErrorResponse
// @Router /api/cart/items/{id}/project [put]
func ReassignCartItemHandler(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReassignCartItemRequest
		if !bindJSON(c, &req) {
			return
		}
		item, err := cart.Reassign(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.ProjectID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// ClearCartHandler empties the cart
// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Router /api/cart [delete]
func ClearCartHandler(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cart.Clear(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Cart cleared")
	}
}

// ClearCartGroupHandler removes every item of one project group
// @Summary Clear cart group
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param project_id path string true "Project ID or __later"
// @Success 200 {object} ClearGroupResponse
// @Router /api/cart/groups/{project_id} [delete]
func ClearCartGroupHandler(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := cart.ClearGroup(c.Request.Context(), middleware.CurrentUser(c), c.Param("project_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ClearGroupResponse{Removed: n})
	}
}
