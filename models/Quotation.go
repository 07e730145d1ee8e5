package models

import (
	"time"
)

// QuoteStatus is the lifecycle state of a quotation request.
type QuoteStatus string

const (
	StatusPending       QuoteStatus = "Pending"
	StatusInReview      QuoteStatus = "In Review"
	StatusQuoted        QuoteStatus = "Quoted"
	StatusNeedsRevision QuoteStatus = "Needs Revision"
	StatusApproved      QuoteStatus = "Approved"
	StatusRejected      QuoteStatus = "Closed / Rejected"
)

// QuoteStatuses lists every status in display order.
var QuoteStatuses = []QuoteStatus{
	StatusPending, StatusInReview, StatusQuoted, StatusNeedsRevision, StatusApproved, StatusRejected,
}

// Valid reports whether s is one of QuoteStatuses.
func (s QuoteStatus) Valid() bool {
	for _, v := range QuoteStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Message authors.
const (
	AuthorAdmin  = "admin"
	AuthorClient = "client"
)

// Quotation is a quote request raised from one cart project group.
type Quotation struct {
	ID              string         `json:"id" example:"Q20240615-4821"`
	ClientEmail     string         `json:"client_email" example:"client@example.com"`
	ClientFirstName string         `json:"client_first_name" example:"Sara"`
	ClientLastName  string         `json:"client_last_name" example:"Alharbi"`
	Phone           string         `json:"phone" example:"0551234567"`
	CompanyName     string         `json:"company_name" example:"Acme Contracting"`
	CompanyType     string         `json:"company_type" example:"Contractor"`
	ProjectID       string         `json:"project_id" example:"p_1718000000000"`
	ProjectName     string         `json:"project_name" example:"King Fahd Road drainage"`
	ProjectLocation string         `json:"project_location" example:"Riyadh"`
	Items           []QuoteItem    `json:"items"`
	ClientNotes     string         `json:"client_notes"`
	Status          QuoteStatus    `json:"status" example:"Pending"`
	StatusHistory   []StatusChange `json:"status_history"`
	AdminReply      *AdminReply    `json:"admin_reply"`
	Messages        []Message      `json:"messages"`
	ClientUnread    bool           `json:"client_unread" example:"false"`
	CreatedAt       time.Time      `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt       time.Time      `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// QuoteItem is one requested line, copied from a cart item.
type QuoteItem struct {
	ID    string `json:"id" example:"culvert:2f1e0c2a-9b1d-4c55-8c1b-0f3f0b7e6a11"`
	Name  string `json:"name" example:"Box Culvert"`
	Qty   int    `json:"qty" example:"2"`
	Unit  string `json:"unit" example:"mm"`
	Specs string `json:"specs"`
}

// StatusChange records one transition. From is nil for the initial Pending entry.
type StatusChange struct {
	From *QuoteStatus `json:"from"`
	To   QuoteStatus  `json:"to"`
	At   time.Time    `json:"at"`
	By   string       `json:"by"`
}

// ItemPrice is the admin's price for one quote item.
type ItemPrice struct {
	ID        string  `json:"id" binding:"required" example:"culvert:2f1e0c2a-9b1d-4c55-8c1b-0f3f0b7e6a11"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0" example:"1250.5"`
	Notes     string  `json:"notes"`
}

// AdminReply is the priced answer to a quotation.
type AdminReply struct {
	PerItem      []ItemPrice `json:"per_item"`
	DeliveryCost float64     `json:"delivery_cost" example:"300"`
	Discount     float64     `json:"discount" example:"100"`
	OverallNotes string      `json:"overall_notes"`
	ValidUntil   string      `json:"valid_until,omitempty" example:"2024-07-15"`
	Subtotals    []float64   `json:"subtotals"`
	GrandTotal   float64     `json:"grand_total" example:"2701"`
}

// Message is one entry of the admin/client thread.
type Message struct {
	Author  string    `json:"author" example:"admin"`
	ByEmail string    `json:"by_email" example:"admin@gmail.com"`
	Text    string    `json:"text" example:"Quotation sent."`
	At      time.Time `json:"at"`
}
