package models

import "precastcatalog/configurator"

type SignupRequest struct {
	FirstName       string `json:"first_name" binding:"required" example:"Sara"`
	LastName        string `json:"last_name" binding:"required" example:"Alharbi"`
	IDNumber        string `json:"id_number" binding:"required" example:"1098765432"`
	Phone           string `json:"phone" binding:"required,digits" example:"0551234567"`
	Email           string `json:"email" binding:"required,email" example:"client@example.com"`
	CompanyName     string `json:"company_name" binding:"required" example:"Acme Contracting"`
	CompanyType     string `json:"company_type" binding:"required" example:"Contractor"`
	Location        string `json:"location" binding:"omitempty,city" example:"Riyadh"`
	Password        string `json:"password" binding:"required,min=6" example:"secret123"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"secret123"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"client@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required" example:"Sara"`
	LastName  string `json:"last_name" binding:"required" example:"Alharbi"`
	Email     string `json:"email" binding:"required,email" example:"client@example.com"`
	Phone     string `json:"phone" binding:"omitempty,digits" example:"0551234567"`
	Location  string `json:"location" binding:"omitempty,city" example:"Jeddah"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type CreateAdminRequest struct {
	FirstName   string      `json:"first_name" binding:"required" example:"Lina"`
	LastName    string      `json:"last_name" binding:"required" example:"Saleh"`
	Email       string      `json:"email" binding:"required,email" example:"lina@tnagadi.com"`
	Password    string      `json:"password" binding:"required,min=6" example:"secret123"`
	IDNumber    string      `json:"id_number" binding:"required" example:"ADM-0002"`
	Phone       string      `json:"phone" binding:"omitempty,digits" example:"0557654321"`
	CompanyName string      `json:"company_name" example:"T.Nagadi"`
	Location    string      `json:"location" binding:"required,city" example:"Riyadh"`
	Permissions Permissions `json:"permissions"`
}

type UpdateUserRequest struct {
	FirstName   string       `json:"first_name" binding:"required" example:"Lina"`
	LastName    string       `json:"last_name" binding:"required" example:"Saleh"`
	Email       string       `json:"email" binding:"required,email" example:"lina@tnagadi.com"`
	Phone       string       `json:"phone" binding:"omitempty,digits" example:"0557654321"`
	IDNumber    string       `json:"id_number" example:"ADM-0002"`
	CompanyName string       `json:"company_name" example:"T.Nagadi"`
	CompanyType string       `json:"company_type" example:"Admin-Created"`
	Location    string       `json:"location" binding:"omitempty,city" example:"Riyadh"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

type ProjectRequest struct {
	Name     string `json:"name" binding:"required" example:"King Fahd Road drainage"`
	Company  string `json:"company" example:"Acme Contracting"`
	Date     string `json:"date" example:"2024-06-10"`
	Location string `json:"location" binding:"omitempty,city" example:"Riyadh"`
	Image    string `json:"image"`
}

// AddToCartRequest configures a product and stores the snapshot.
type AddToCartRequest struct {
	Type string `json:"type" binding:"required" example:"culvert"`
	configurator.Request
	ProjectID string `json:"project_id" example:"__later"`
}

type ReassignCartItemRequest struct {
	ProjectID string `json:"project_id" example:"p_1718000000000"`
}

type CreateQuotationRequest struct {
	ProjectID   string `json:"project_id" binding:"required" example:"__later"`
	ClientNotes string `json:"client_notes" example:"Delivery to site gate 3"`
}

type QuoteMessageRequest struct {
	Text string `json:"text" example:"Please reduce the wall thickness to 150 mm."`
}

type AdminReplyRequest struct {
	PerItem      []ItemPrice `json:"per_item" binding:"dive"`
	DeliveryCost float64     `json:"delivery_cost" binding:"gte=0" example:"300"`
	Discount     float64     `json:"discount" binding:"gte=0" example:"100"`
	OverallNotes string      `json:"overall_notes"`
	ValidUntil   string      `json:"valid_until" example:"2024-07-15"`
}

type ChangeStatusRequest struct {
	Status QuoteStatus `json:"status" binding:"required" example:"Closed / Rejected"`
}
