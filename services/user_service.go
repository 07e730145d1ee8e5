package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/repository"
	"precastcatalog/utils"
)

// AdminCreatedCompanyType marks accounts created from the admin users screen.
const AdminCreatedCompanyType = "Admin-Created"

// UserAdminService backs the admin users screen.
type UserAdminService struct {
	repos      *Repositories
	bcryptCost int
	log        *zap.Logger
	clock      clock
}

func NewUserAdminService(repos *Repositories, bcryptCost int, log *zap.Logger) *UserAdminService {
	return &UserAdminService{repos: repos, bcryptCost: bcryptCost, log: log}
}

// ListUsers returns every account, oldest first.
func (s *UserAdminService) ListUsers(ctx context.Context, caller *models.User) ([]models.User, error) {
	if err := requirePermission(caller, PermManageUsers); err != nil {
		return nil, err
	}
	all, err := s.repos.Users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	users := make([]models.User, 0, len(all))
	for _, u := range all {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].Email < users[j].Email
	})
	return users, nil
}

func (s *UserAdminService) GetUser(ctx context.Context, caller *models.User, email string) (*models.User, error) {
	if !IsAdmin(caller) {
		return nil, forbidden("You do not have permission to perform this action.")
	}
	u, err := s.repos.Users.Get(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User not found.")
	}
	return u, err
}

// CreateAdmin adds an administrator with the chosen permissions.
func (s *UserAdminService) CreateAdmin(ctx context.Context, caller *models.User, req models.CreateAdminRequest) (*models.User, error) {
	if err := requirePermission(caller, PermAddAdmins); err != nil {
		return nil, err
	}

	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := normEmail(req.Email)
	idNumber := strings.TrimSpace(req.IDNumber)
	phone := strings.TrimSpace(req.Phone)
	if first == "" || last == "" || email == "" || req.Password == "" || idNumber == "" || strings.TrimSpace(req.Location) == "" {
		return nil, invalid("Please fill all required fields.")
	}
	if !validEmail(email) {
		return nil, invalid("Please enter a valid email.")
	}
	if len(req.Password) < 6 {
		return nil, invalid("Password must be at least 6 characters.")
	}
	if phone != "" && !isDigits(phone) {
		return nil, invalid("Phone number must be digits only.")
	}
	location, err := optionalCity(req.Location)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.clock.now()
	admin := models.User{
		FirstName:   first,
		LastName:    last,
		IDNumber:    idNumber,
		Phone:       phone,
		Email:       email,
		CompanyName: strings.TrimSpace(req.CompanyName),
		CompanyType: AdminCreatedCompanyType,
		Location:    location,
		Password:    hash,
		IsAdmin:     true,
		Permissions: req.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if IsSuperAdmin(&admin) {
		admin.Permissions = models.AllPermissions()
	}
	err = s.repos.Users.Update(ctx, func(users map[string]models.User) error {
		if _, taken := users[email]; taken {
			return conflict("This email is already registered.")
		}
		users[email] = admin
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("[Users] admin created", zap.String("email", email), zap.String("by", caller.Email))
	return &admin, nil
}

// UpdateUser edits another account. Permissions change only when the caller may add admins and
// the target is not the super admin.
func (s *UserAdminService) UpdateUser(ctx context.Context, caller *models.User, email string, req models.UpdateUserRequest) (*models.User, error) {
	if !IsAdmin(caller) {
		return nil, forbidden("You do not have permission to perform this action.")
	}

	oldEmail := normEmail(email)
	newEmail := normEmail(req.Email)
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	phone := strings.TrimSpace(req.Phone)
	if first == "" || last == "" || newEmail == "" {
		return nil, invalid("Please fill all required fields.")
	}
	if !validEmail(newEmail) {
		return nil, invalid("Please enter a valid email.")
	}
	if phone != "" && !isDigits(phone) {
		return nil, invalid("Phone number must be digits only.")
	}
	location, err := optionalCity(req.Location)
	if err != nil {
		return nil, err
	}
	mayGrant := HasPermission(caller, PermAddAdmins)

	var before, updated models.User
	err = s.repos.Users.Update(ctx, func(users map[string]models.User) error {
		u, ok := users[oldEmail]
		if !ok {
			return notFound("User not found.")
		}
		before = u
		super := IsSuperAdmin(&u)
		if newEmail != oldEmail {
			if super {
				return forbidden("The super admin email cannot be changed.")
			}
			if _, taken := users[newEmail]; taken {
				return conflict("This email is already registered.")
			}
		}

		u.FirstName = first
		u.LastName = last
		u.Email = newEmail
		u.Phone = phone
		if v := strings.TrimSpace(req.IDNumber); v != "" {
			u.IDNumber = v
		}
		if v := strings.TrimSpace(req.CompanyName); v != "" {
			u.CompanyName = v
		}
		if v := strings.TrimSpace(req.CompanyType); v != "" {
			u.CompanyType = v
		}
		if location != "" {
			u.Location = location
		}
		switch {
		case super:
			u.IsAdmin = true
			u.Permissions = models.AllPermissions()
		case req.Permissions != nil && mayGrant:
			u.Permissions = *req.Permissions
		}
		u.UpdatedAt = s.clock.now()

		delete(users, oldEmail)
		users[newEmail] = u
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := moveUserData(ctx, s.repos, before, updated); err != nil {
		return nil, err
	}
	s.log.Info("[Users] user updated", zap.String("email", newEmail), zap.String("by", caller.Email))
	return &updated, nil
}

// DeleteUser removes an account and its sessions. The super admin cannot be deleted.
func (s *UserAdminService) DeleteUser(ctx context.Context, caller *models.User, email string) error {
	if err := requirePermission(caller, PermManageUsers); err != nil {
		return err
	}
	email = normEmail(email)
	if strings.EqualFold(email, models.SuperAdminEmail) {
		return forbidden("you cant delete this admin")
	}
	err := s.repos.Users.Update(ctx, func(users map[string]models.User) error {
		if _, ok := users[email]; !ok {
			return notFound("User not found.")
		}
		delete(users, email)
		return nil
	})
	if err != nil {
		return err
	}
	if _, err := s.repos.Sessions.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("deleting sessions: %w", err)
	}
	s.log.Info("[Users] user deleted", zap.String("email", email), zap.String("by", caller.Email))
	return nil
}
