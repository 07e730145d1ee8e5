package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"precastcatalog/models"
)

const (
	quotesSheet = "Quotations"
	itemsSheet  = "Items"
)

var (
	quoteColumns = []string{"Quote ID", "Created", "Status", "Client", "Email", "Phone", "Company", "Project", "Location", "Items", "Delivery", "Discount", "Grand Total", "Valid Until", "Unread"}
	itemColumns  = []string{"Quote ID", "Item ID", "Name", "Qty", "Unit", "Unit Price", "Subtotal", "Specs"}
)

// QuotesWorkbook builds a workbook with one row per quotation and one row per quoted item.
func (d *DocumentService) QuotesWorkbook(quotes []models.Quotation) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(quotesSheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := writeRow(f, quotesSheet, 1, toAny(quoteColumns)); err != nil {
		return nil, err
	}
	if err := writeRow(f, itemsSheet, 1, toAny(itemColumns)); err != nil {
		return nil, err
	}

	itemRow := 2
	for i, q := range quotes {
		var delivery, discount, grand any = "", "", ""
		validUntil := ""
		if r := q.AdminReply; r != nil {
			delivery, discount, grand = r.DeliveryCost, r.Discount, r.GrandTotal
			validUntil = r.ValidUntil
		}
		row := []any{
			q.ID, q.CreatedAt.Format("2006-01-02 15:04"), string(q.Status),
			q.ClientFirstName + " " + q.ClientLastName, q.ClientEmail, q.Phone, q.CompanyName,
			q.ProjectName, q.ProjectLocation, len(q.Items), delivery, discount, grand, validUntil, q.ClientUnread,
		}
		if err := writeRow(f, quotesSheet, i+2, row); err != nil {
			return nil, err
		}

		for j, it := range q.Items {
			var unit, sub any = "", ""
			if r := q.AdminReply; r != nil {
				for _, p := range r.PerItem {
					if p.ID == it.ID {
						unit = p.UnitPrice
					}
				}
				if j < len(r.Subtotals) {
					sub = r.Subtotals[j]
				}
			}
			if err := writeRow(f, itemsSheet, itemRow, []any{q.ID, it.ID, it.Name, it.Qty, it.Unit, unit, sub, SpecsText(it.Specs)}); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	if err := f.SetColWidth(quotesSheet, "A", "O", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(itemsSheet, "H", "H", 80); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteQuotesXLSX writes the quotations workbook to w.
func (d *DocumentService) WriteQuotesXLSX(w io.Writer, quotes []models.Quotation) error {
	f, err := d.QuotesWorkbook(quotes)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
