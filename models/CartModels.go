package models

import (
	"time"

	"precastcatalog/configurator"
)

// UnassignedProjectID groups cart items not yet assigned to a project.
const UnassignedProjectID = "__later"

// CartItem is a frozen product configuration.
type CartItem struct {
	ID           string               `json:"id" example:"culvert:2f1e0c2a-9b1d-4c55-8c1b-0f3f0b7e6a11"`
	Product      string               `json:"product" example:"Box Culvert"`
	Type         string               `json:"type" example:"culvert"`
	Params       configurator.Options `json:"params"`
	Dims         map[string]float64   `json:"dims"`
	Derived      configurator.Derived `json:"derived"`
	KPIs         []configurator.KPI   `json:"kpis,omitempty"`
	SummaryHTML  string               `json:"summary_html"`
	SummaryHTML2 string               `json:"summary_html2"`
	ProjectID    string               `json:"project_id" example:"__later"`
	AddedAt      time.Time            `json:"added_at" example:"2024-01-15T10:30:00Z"`
}

// Group returns the project group the item belongs to.
func (c CartItem) Group() string {
	if c.ProjectID == "" {
		return UnassignedProjectID
	}
	return c.ProjectID
}

// CartGroup is one project bucket of a cart listing.
type CartGroup struct {
	ProjectID   string     `json:"project_id" example:"p_1718000000000"`
	ProjectName string     `json:"project_name" example:"King Fahd Road drainage"`
	Items       []CartItem `json:"items"`
}
