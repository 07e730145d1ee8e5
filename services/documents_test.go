package services

import (
	"bytes"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"precastcatalog/models"
)

func documentQuote() models.Quotation {
	return models.Quotation{
		ID:              "Q20240615-4821",
		ClientEmail:     "client@example.com",
		ClientFirstName: "Sara",
		ClientLastName:  "Alharbi",
		CompanyName:     "Acme Contracting",
		ProjectName:     "Ring road – Phase 2",
		ProjectLocation: "riyadh",
		Status:          models.StatusQuoted,
		CreatedAt:       time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
		Items: []models.QuoteItem{
			{ID: "culvert:1", Name: "Box Culvert", Qty: 2, Unit: "mm", Specs: "<ul><li>Material=Reinforced concrete</li><li>W=2000</li></ul>"},
			{ID: "manhole:1", Name: "Manhole", Qty: 1, Unit: "mm"},
		},
		AdminReply: &models.AdminReply{
			PerItem:      []models.ItemPrice{{ID: "culvert:1", UnitPrice: 1000}, {ID: "manhole:1", UnitPrice: 500}},
			DeliveryCost: 300,
			Discount:     100,
			Subtotals:    []float64{2000, 500},
			GrandTotal:   2700,
			ValidUntil:   "2024-07-15",
		},
	}
}

func TestDocumentService_QuoteURL(t *testing.T) {
	d := NewDocumentService("https://shop.example.com/", "SAR")
	assert.Equal(t, "https://shop.example.com/quotations/Q1", d.QuoteURL("Q1"))
}

func TestSpecsText(t *testing.T) {
	assert.Equal(t, "- Material=Reinforced concrete - W=2000", SpecsText("<ul><li>Material=Reinforced concrete</li>\n<li>W=2000</li></ul>"))
	assert.Empty(t, SpecsText(""))
}

func TestDocumentService_WriteQuotePDF(t *testing.T) {
	d := NewDocumentService("https://shop.example.com", "SAR")

	var buf bytes.Buffer
	require.NoError(t, d.WriteQuotePDF(&buf, documentQuote()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	pending := documentQuote()
	pending.AdminReply = nil
	buf.Reset()
	require.NoError(t, d.WriteQuotePDF(&buf, pending))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestDocumentService_QuoteLabelJPEG(t *testing.T) {
	d := NewDocumentService("https://shop.example.com", "SAR")

	data, err := d.QuoteLabelJPEG(documentQuote())
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, 512, b.Dx())
	assert.Greater(t, b.Dy(), b.Dx())
}

func TestDocumentService_QuotesWorkbook(t *testing.T) {
	d := NewDocumentService("https://shop.example.com", "SAR")
	pending := documentQuote()
	pending.ID = "Q20240616-0001"
	pending.AdminReply = nil
	pending.Items = pending.Items[:1]

	f, err := d.QuotesWorkbook([]models.Quotation{documentQuote(), pending})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{quotesSheet, itemsSheet}, f.GetSheetList())

	rows, err := f.GetRows(quotesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, quoteColumns, rows[0])

	v, err := f.GetCellValue(quotesSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Q20240615-4821", v)
	v, err = f.GetCellValue(quotesSheet, "M2")
	require.NoError(t, err)
	assert.Equal(t, "2700", v)
	v, err = f.GetCellValue(quotesSheet, "M3")
	require.NoError(t, err)
	assert.Empty(t, v)

	items, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, []string{"Q20240615-4821", "culvert:1", "Box Culvert", "2", "mm", "1000", "2000", "- Material=Reinforced concrete - W=2000"}, items[1])

	var buf bytes.Buffer
	require.NoError(t, d.WriteQuotesXLSX(&buf, []models.Quotation{documentQuote()}))
	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()
	v, err = reopened.GetCellValue(itemsSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "Manhole", v)
}
