package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"precastcatalog/middleware"
	"precastcatalog/models"
	"precastcatalog/services"
	"precastcatalog/utils"
)

// CreateQuotationHandler requests a quotation for one cart project group
// @Summary Request quotation
// @Description Copies the group's items into a new Pending quotation and removes them from the cart.
// @Tags Quotations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateQuotationRequest true "Project group"
// @Success 201 {object} models.Quotation
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/quotations [post]
func CreateQuotationHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateQuotationRequest
		if !bindJSON(c, &req) {
			return
		}
		q, err := quotes.CreateFromCartGroup(c.Request.Context(), middleware.CurrentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, q)
	}
}

// ListMyQuotationsHandler lists the caller's quotations
// @Summary My quotations
// @Tags Quotations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Quotation
// @Router /api/quotations [get]
func ListMyQuotationsHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := quotes.ListMine(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetMyQuotationHandler returns one of the caller's quotations and marks it read
// @Summary Get my quotation
// @Tags Quotations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {object} models.Quotation
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotations/{id} [get]
func GetMyQuotationHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := quotes.GetMine(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// ApproveMyQuotationHandler accepts the quoted price
// @Summary Approve quotation
// @Tags Quotations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {object} models.Quotation
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotations/{id}/approve [post]
func ApproveMyQuotationHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := quotes.ClientApprove(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// RequestRevisionHandler sends the client's change request
// @Summary Request changes
// @Tags Quotations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Param request body models.QuoteMessageRequest true "Requested changes"
// @Success 200 {object} models.Quotation
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotations/{id}/revision [post]
func RequestRevisionHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.QuoteMessageRequest
		if !bindJSON(c, &req) {
			return
		}
		q, err := quotes.ClientRequestRevision(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// AdminListQuotationsHandler lists every quotation
// @Summary List quotations (admin)
// @Description Requires view_reply_quotes.
// @Tags Admin Quotations
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter; empty or all for every status"
// @Success 200 {object} models.CountResponse{data=[]models.Quotation}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/admin/quotations [get]
func AdminListQuotationsHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := quotes.AdminList(c.Request.Context(), middleware.CurrentUser(c), c.Query("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.CountResponse{Total: len(list), Data: list})
	}
}

// AdminGetQuotationHandler opens a quotation for review
// @Summary Get quotation (admin)
// @Description A Pending quotation moves to In Review.
// @Tags Admin Quotations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {object} models.Quotation
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/quotations/{id} [get]
func AdminGetQuotationHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := quotes.AdminGet(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// AdminReplyHandler prices a quotation and sends it to the client
// @Summary Reply with prices
// @Tags Admin Quotations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Param request body models.AdminReplyRequest true "Prices"
// @Success 200 {object} models.Quotation
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/quotations/{id}/reply [post]
func AdminReplyHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AdminReplyRequest
		if !bindJSON(c, &req) {
			return
		}
		q, err := quotes.AdminReply(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// AskClarificationHandler asks the client a question
// @Summary Ask for clarification
// @Tags Admin Quotations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Param request body models.QuoteMessageRequest false "Question"
// @Success 200 {object} models.Quotation
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/quotations/{id}/clarify [post]
func AskClarificationHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.QuoteMessageRequest
		if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
			return
		}
		q, err := quotes.AskClarification(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// ApproveFinalHandler gives the final approval
// @Summary Final approval
// @Description Requires approve_final_quote.
// @Tags Admin Quotations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {object} models.Quotation
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/quotations/{id}/approve [post]
func ApproveFinalHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := quotes.ApproveFinal(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// ChangeQuotationStatusHandler sets any status
// @Summary Change status
// @Tags Admin Quotations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Param request body models.ChangeStatusRequest true "New status"
// @Success 200 {object} models.Quotation
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/quotations/{id}/status [put]
func ChangeQuotationStatusHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ChangeStatusRequest
		if !bindJSON(c, &req) {
			return
		}
		q, err := quotes.ChangeStatus(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// DeleteQuotationHandler deletes a quotation
// @Summary Delete quotation
// @Tags Admin Quotations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/quotations/{id} [delete]
func DeleteQuotationHandler(quotes *services.QuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := quotes.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Quote deleted successfully")
	}
}
