package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"precastcatalog/middleware"
	"precastcatalog/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QuotationPDFHandler downloads a quotation as PDF
// @Summary Quotation PDF
// @Description Available to the quotation's client and to admins with view_reply_quotes.
// @Tags Documents
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {file} file
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotations/{id}/pdf [get]
func QuotationPDFHandler(quotes *services.QuoteService, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := quotes.Visible(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		var buf bytes.Buffer
		if err := docs.WriteQuotePDF(&buf, *q); err != nil {
			respondError(c, fmt.Errorf("rendering pdf for %s: %w", q.ID, err))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, q.ID))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

// QuotationLabelHandler returns a QR label for a quotation
// @Summary Quotation QR label
// @Tags Documents
// @Produce image/jpeg
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {file} file
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotations/{id}/label [get]
func QuotationLabelHandler(quotes *services.QuoteService, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := quotes.Visible(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		img, err := docs.QuoteLabelJPEG(*q)
		if err != nil {
			respondError(c, fmt.Errorf("rendering label for %s: %w", q.ID, err))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.jpg"`, q.ID))
		c.Data(http.StatusOK, "image/jpeg", img)
	}
}

// ExportQuotationsHandler downloads the quotations workbook
// @Summary Export quotations
// @Description Requires view_reply_quotes. Accepts the same status filter as the list.
// @Tags Documents
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {file} file
// @Failure 403 {object} models.ErrorResponse
// @Router /api/admin/quotations/export [get]
func ExportQuotationsHandler(quotes *services.QuoteService, docs *services.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := quotes.AdminList(c.Request.Context(), middleware.CurrentUser(c), c.Query("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		var buf bytes.Buffer
		if err := docs.WriteQuotesXLSX(&buf, list); err != nil {
			respondError(c, fmt.Errorf("exporting quotations: %w", err))
			return
		}
		name := "quotations-" + time.Now().UTC().Format("20060102") + ".xlsx"
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
