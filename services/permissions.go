package services

import (
	"strings"

	"precastcatalog/models"
)

// Permission names one admin capability flag.
type Permission string

const (
	PermManageUsers       Permission = "manage_users"
	PermAddAdmins         Permission = "add_admins"
	PermViewReplyQuotes   Permission = "view_reply_quotes"
	PermApproveFinalQuote Permission = "approve_final_quote"
)

func IsSuperAdmin(u *models.User) bool {
	return u != nil && strings.EqualFold(u.Email, models.SuperAdminEmail)
}

func IsAdmin(u *models.User) bool {
	return u != nil && (u.IsAdmin || IsSuperAdmin(u))
}

// HasPermission is false for non-admins, true for the super admin, and the stored flag otherwise.
func HasPermission(u *models.User, p Permission) bool {
	if !IsAdmin(u) {
		return false
	}
	if IsSuperAdmin(u) {
		return true
	}
	switch p {
	case PermManageUsers:
		return u.Permissions.ManageUsers
	case PermAddAdmins:
		return u.Permissions.AddAdmins
	case PermViewReplyQuotes:
		return u.Permissions.ViewReplyQuotes
	case PermApproveFinalQuote:
		return u.Permissions.ApproveFinalQuote
	default:
		return false
	}
}

// CanSeeUsersMenu reports whether the admin users screen is available to u.
func CanSeeUsersMenu(u *models.User) bool {
	return IsSuperAdmin(u) || HasPermission(u, PermManageUsers) || HasPermission(u, PermAddAdmins)
}

// Capabilities is the permission summary returned with the current user.
type Capabilities struct {
	IsAdmin           bool `json:"is_admin"`
	IsSuperAdmin      bool `json:"is_super_admin"`
	CanSeeUsersMenu   bool `json:"can_see_users_menu"`
	ManageUsers       bool `json:"manage_users"`
	AddAdmins         bool `json:"add_admins"`
	ViewReplyQuotes   bool `json:"view_reply_quotes"`
	ApproveFinalQuote bool `json:"approve_final_quote"`
}

func CapabilitiesOf(u *models.User) Capabilities {
	return Capabilities{
		IsAdmin:           IsAdmin(u),
		IsSuperAdmin:      IsSuperAdmin(u),
		CanSeeUsersMenu:   CanSeeUsersMenu(u),
		ManageUsers:       HasPermission(u, PermManageUsers),
		AddAdmins:         HasPermission(u, PermAddAdmins),
		ViewReplyQuotes:   HasPermission(u, PermViewReplyQuotes),
		ApproveFinalQuote: HasPermission(u, PermApproveFinalQuote),
	}
}

func requirePermission(u *models.User, p Permission) error {
	if !HasPermission(u, p) {
		return forbidden("You do not have permission to perform this action.")
	}
	return nil
}
