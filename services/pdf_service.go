package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/mozillazg/go-unidecode"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"precastcatalog/models"
)

// DocumentService renders quotations as PDF documents, JPEG labels and XLSX workbooks.
type DocumentService struct {
	appURL   string
	currency string
	company  string
}

func NewDocumentService(appURL, currency string) *DocumentService {
	return &DocumentService{appURL: strings.TrimRight(appURL, "/"), currency: currency, company: "T.Nagadi Precast"}
}

// QuoteURL is the link encoded in QR codes and emails.
func (d *DocumentService) QuoteURL(id string) string {
	return d.appURL + "/quotations/" + id
}

var titleCaser = cases.Title(language.English)

// ascii makes text safe for the core PDF fonts.
func ascii(s string) string {
	return unidecode.Unidecode(s)
}

// WriteQuotePDF writes the quotation document to w.
func (d *DocumentService) WriteQuotePDF(w io.Writer, q models.Quotation) error {
	qrPNG, err := qrcode.Encode(d.QuoteURL(q.ID), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encoding qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, "This is a computer-generated quotation and does not require a signature.", "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 165, 10, 35, 35, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(150, 10, "QUOTATION")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(150, 6, ascii(d.company))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(75, 6, "Quote No: "+q.ID)
	pdf.Cell(75, 6, "Status: "+string(q.Status))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(75, 6, "Date: "+q.CreatedAt.Format("02-Jan-2006"))
	if q.AdminReply != nil && q.AdminReply.ValidUntil != "" {
		pdf.Cell(75, 6, "Valid until: "+ascii(q.AdminReply.ValidUntil))
	}
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(95, 8, "Client")
	pdf.Cell(95, 8, "Project")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	y := pdf.GetY()
	client := fmt.Sprintf("%s %s\n%s\n%s\n%s", q.ClientFirstName, q.ClientLastName, q.CompanyName, q.ClientEmail, q.Phone)
	pdf.MultiCell(90, 6, ascii(client), "", "", false)
	yAfter := pdf.GetY()
	pdf.SetXY(105, y)
	pdf.MultiCell(90, 6, ascii(fmt.Sprintf("%s\n%s", q.ProjectName, titleCaser.String(q.ProjectLocation))), "", "", false)
	if pdf.GetY() < yAfter {
		pdf.SetY(yAfter)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(10, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(85, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 8, "Subtotal", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i, it := range q.Items {
		unit, sub := "-", "-"
		if r := q.AdminReply; r != nil {
			for _, p := range r.PerItem {
				if p.ID == it.ID {
					unit = money(p.UnitPrice)
				}
			}
			if i < len(r.Subtotals) {
				sub = money(r.Subtotals[i])
			}
		}
		pdf.CellFormat(10, 8, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(85, 8, ascii(it.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", it.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, unit, "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, sub, "1", 1, "R", false, 0, "")

		if specs := SpecsText(it.Specs); specs != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(190, 5, ascii(specs), "LRB", "L", false)
			pdf.SetFont("Arial", "", 9)
		}
	}
	pdf.Ln(5)

	if r := q.AdminReply; r != nil {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(150, 8, "Delivery")
		pdf.CellFormat(40, 8, money(r.DeliveryCost), "1", 1, "R", false, 0, "")
		pdf.Cell(150, 8, "Discount")
		pdf.CellFormat(40, 8, money(r.Discount), "1", 1, "R", false, 0, "")
		pdf.Cell(150, 8, "Grand Total ("+d.currency+")")
		pdf.CellFormat(40, 8, money(r.GrandTotal), "1", 1, "R", false, 0, "")
		if r.OverallNotes != "" {
			pdf.Ln(6)
			pdf.Cell(190, 8, "Notes:")
			pdf.Ln(6)
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(190, 6, ascii(r.OverallNotes), "", "L", false)
		}
	} else {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(190, 8, "Pricing pending.")
		pdf.Ln(8)
	}

	if q.ClientNotes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(190, 8, "Client notes:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 6, ascii(q.ClientNotes), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("building pdf: %w", err)
	}
	return pdf.Output(w)
}

// SpecsText flattens an item's HTML summary into one line of "key=value" text.
func SpecsText(specs string) string {
	text := convertHTMLToText(specs)
	return strings.Join(strings.Fields(text), " ")
}
