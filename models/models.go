package models

import (
	"time"
)

// SuperAdminEmail identifies the single permission-immutable administrator.
const SuperAdminEmail = "admin@gmail.com"

// Permissions are the admin capability flags.
type Permissions struct {
	ManageUsers       bool `json:"manage_users" example:"false"`
	AddAdmins         bool `json:"add_admins" example:"false"`
	ViewReplyQuotes   bool `json:"view_reply_quotes" example:"true"`
	ApproveFinalQuote bool `json:"approve_final_quote" example:"false"`
}

// AllPermissions is the permission set the super admin always holds.
func AllPermissions() Permissions {
	return Permissions{ManageUsers: true, AddAdmins: true, ViewReplyQuotes: true, ApproveFinalQuote: true}
}

// User is a stored account. Password holds the bcrypt hash and is never rendered.
type User struct {
	FirstName   string      `json:"first_name" example:"Omar"`
	LastName    string      `json:"last_name" example:"Zakarneh"`
	IDNumber    string      `json:"id_number" example:"1098765432"`
	Phone       string      `json:"phone" example:"0551234567"`
	Email       string      `json:"email" example:"client@example.com"`
	CompanyName string      `json:"company_name" example:"Acme Contracting"`
	CompanyType string      `json:"company_type" example:"Contractor"`
	Location    string      `json:"location" example:"Riyadh"`
	Password    string      `json:"password"`
	IsAdmin     bool        `json:"is_admin" example:"false"`
	Permissions Permissions `json:"permissions"`
	CreatedAt   time.Time   `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   time.Time   `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// UserResponse is a User without its credential.
type UserResponse struct {
	FirstName    string      `json:"first_name" example:"Omar"`
	LastName     string      `json:"last_name" example:"Zakarneh"`
	IDNumber     string      `json:"id_number" example:"1098765432"`
	Phone        string      `json:"phone" example:"0551234567"`
	Email        string      `json:"email" example:"client@example.com"`
	CompanyName  string      `json:"company_name" example:"Acme Contracting"`
	CompanyType  string      `json:"company_type" example:"Contractor"`
	Location     string      `json:"location" example:"Riyadh"`
	IsAdmin      bool        `json:"is_admin" example:"false"`
	IsSuperAdmin bool        `json:"is_super_admin" example:"false"`
	Permissions  Permissions `json:"permissions"`
	CreatedAt    time.Time   `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// Response renders the user for API output.
func (u User) Response() UserResponse {
	return UserResponse{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IDNumber:     u.IDNumber,
		Phone:        u.Phone,
		Email:        u.Email,
		CompanyName:  u.CompanyName,
		CompanyType:  u.CompanyType,
		Location:     u.Location,
		IsAdmin:      u.IsAdmin,
		IsSuperAdmin: u.Email == SuperAdminEmail,
		Permissions:  u.Permissions,
		CreatedAt:    u.CreatedAt,
	}
}

// Session is a logged-in device. The JWT handed to the client carries its ID.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Project groups cart items before a quotation is requested.
type Project struct {
	ID        string    `json:"id" example:"p_1718000000000"`
	Name      string    `json:"name" example:"King Fahd Road drainage"`
	Company   string    `json:"company" example:"Acme Contracting"`
	Date      string    `json:"date" example:"2024-06-10"`
	Location  string    `json:"location" example:"Riyadh"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}
