package services

import (
	"math"
	"strconv"

	"precastcatalog/configurator"
	"precastcatalog/models"
)

// PriceQuote prices every item at qty times its unit price. Items without a price count as zero,
// and the grand total never goes below zero.
func PriceQuote(items []models.QuoteItem, req models.AdminReplyRequest) models.AdminReply {
	prices := make(map[string]float64, len(req.PerItem))
	for _, p := range req.PerItem {
		prices[p.ID] = sanitizeAmount(p.UnitPrice)
	}

	perItem := make([]models.ItemPrice, 0, len(items))
	subtotals := make([]float64, 0, len(items))
	notes := make(map[string]string, len(req.PerItem))
	for _, p := range req.PerItem {
		notes[p.ID] = SanitizeText(p.Notes)
	}

	sum := 0.0
	for _, it := range items {
		price := prices[it.ID]
		sub := configurator.Round(float64(it.Qty)*price, 2)
		subtotals = append(subtotals, sub)
		perItem = append(perItem, models.ItemPrice{ID: it.ID, UnitPrice: price, Notes: notes[it.ID]})
		sum += sub
	}

	delivery := sanitizeAmount(req.DeliveryCost)
	discount := sanitizeAmount(req.Discount)
	return models.AdminReply{
		PerItem:      perItem,
		DeliveryCost: delivery,
		Discount:     discount,
		OverallNotes: SanitizeText(req.OverallNotes),
		ValidUntil:   req.ValidUntil,
		Subtotals:    subtotals,
		GrandTotal:   configurator.Round(math.Max(0, sum+delivery-discount), 2),
	}
}

func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// money renders an amount with two decimals.
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
