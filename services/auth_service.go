package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/repository"
	"precastcatalog/utils"
)

// DefaultSuperAdminPassword is used when the super admin is seeded without an explicit password.
const DefaultSuperAdminPassword = "admin12345"

type AuthConfig struct {
	SessionTTL time.Duration
	BcryptCost int
}

// SessionMeta describes the client a session is created for.
type SessionMeta struct {
	IPAddress string
	UserAgent string
}

// LoginResult is what Signup and Login hand back to the client.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
	Session   models.Session
}

type AuthService struct {
	repos  *Repositories
	tokens *utils.TokenIssuer
	cfg    AuthConfig
	log    *zap.Logger
	clock  clock
}

func NewAuthService(repos *Repositories, tokens *utils.TokenIssuer, cfg AuthConfig, log *zap.Logger) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 72 * time.Hour
	}
	return &AuthService{repos: repos, tokens: tokens, cfg: cfg, log: log}
}

// EnsureSuperAdmin creates the super admin when it is missing and restores its admin flag and
// permissions when they have drifted. It reports whether the account was created.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, password string) (bool, error) {
	if password == "" {
		password = DefaultSuperAdminPassword
	}
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return false, fmt.Errorf("hashing super admin password: %w", err)
	}

	now := s.clock.now()
	created := false
	err = s.repos.Users.Update(ctx, func(users map[string]models.User) error {
		if u, ok := users[models.SuperAdminEmail]; ok {
			if u.IsAdmin && u.Permissions == models.AllPermissions() {
				return nil
			}
			u.IsAdmin = true
			u.Permissions = models.AllPermissions()
			u.UpdatedAt = now
			users[models.SuperAdminEmail] = u
			return nil
		}
		users[models.SuperAdminEmail] = models.User{
			FirstName:   "Omar",
			LastName:    "Zakarneh",
			IDNumber:    "ADM-0001",
			Phone:       "0000000000",
			Email:       models.SuperAdminEmail,
			CompanyName: "T.Nagadi",
			CompanyType: "Admin",
			Location:    "Riyadh",
			Password:    hash,
			IsAdmin:     true,
			Permissions: models.AllPermissions(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seeding super admin: %w", err)
	}
	if created {
		s.log.Info("[Auth] super admin seeded", zap.String("email", models.SuperAdminEmail))
	}
	return created, nil
}

// Signup registers a client account and logs it in.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest, meta SessionMeta) (*LoginResult, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	idNumber := strings.TrimSpace(req.IDNumber)
	phone := strings.TrimSpace(req.Phone)
	email := normEmail(req.Email)
	company := strings.TrimSpace(req.CompanyName)
	companyType := strings.TrimSpace(req.CompanyType)

	if first == "" || last == "" || idNumber == "" || phone == "" || email == "" ||
		company == "" || companyType == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, invalid("Please fill all required fields.")
	}
	if len(req.Password) < 6 {
		return nil, invalid("Password must be at least 6 characters.")
	}
	if req.Password != req.ConfirmPassword {
		return nil, invalid("Passwords do not match.")
	}
	if !validEmail(email) {
		return nil, invalid("Please enter a valid email.")
	}
	if !isDigits(phone) {
		return nil, invalid("Phone number must be digits only.")
	}
	location, err := optionalCity(req.Location)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.clock.now()
	user := models.User{
		FirstName:   first,
		LastName:    last,
		IDNumber:    idNumber,
		Phone:       phone,
		Email:       email,
		CompanyName: company,
		CompanyType: companyType,
		Location:    location,
		Password:    hash,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.repos.Users.Update(ctx, func(users map[string]models.User) error {
		if _, taken := users[email]; taken {
			return conflict("This email is already registered.")
		}
		users[email] = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("[Auth] client registered", zap.String("email", email))
	return s.startSession(ctx, user, meta)
}

// Login checks the credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, email, password string, meta SessionMeta) (*LoginResult, error) {
	email = normEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.repos.Users.Get(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !utils.ValidatePassword(user.Password, password) {
		s.log.Info("[Auth] login rejected", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, *user, meta)
}

func (s *AuthService) startSession(ctx context.Context, user models.User, meta SessionMeta) (*LoginResult, error) {
	now := s.clock.now()
	sess := models.Session{
		ID:        repository.GenerateSessionID(),
		Email:     user.Email,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	token, err := s.tokens.GenerateJWT(sess.ID, sess.Email, now, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	if err := s.repos.Sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, User: user, Session: sess}, nil
}

// Logout ends one session. Ending an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	err := s.repos.Sessions.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its live session and user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error) {
	if token == "" {
		return nil, nil, newError(ErrUnauthenticated, "Please log in.")
	}
	claims, err := s.tokens.ValidateJWT(token, s.clock.now())
	if err != nil {
		return nil, nil, newError(ErrUnauthenticated, "Invalid or expired token.")
	}

	sess, err := s.repos.Sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, newError(ErrUnauthenticated, "Session expired. Please log in again.")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading session: %w", err)
	}
	if sess.Expired(s.clock.now()) {
		_ = s.repos.Sessions.Delete(ctx, sess.ID)
		return nil, nil, newError(ErrUnauthenticated, "Session expired. Please log in again.")
	}

	user, err := s.repos.Users.Get(ctx, sess.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, newError(ErrUnauthenticated, "Account record not found.")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading user: %w", err)
	}
	return user, sess, nil
}

// Me re-reads the stored account of the current user.
func (s *AuthService) Me(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repos.Users.Get(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Account record not found.")
	}
	return user, err
}

// UpdateProfile edits the caller's own identity fields. A changed email re-keys the account and
// carries the cart, email-keyed projects and open sessions along.
func (s *AuthService) UpdateProfile(ctx context.Context, current *models.User, req models.UpdateProfileRequest) (*models.User, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := normEmail(req.Email)
	phone := strings.TrimSpace(req.Phone)

	if first == "" || last == "" || email == "" {
		return nil, invalid("Please fill all required fields.")
	}
	if !validEmail(email) {
		return nil, invalid("Please enter a valid email.")
	}
	if phone != "" && !isDigits(phone) {
		return nil, invalid("Phone number must be digits only.")
	}
	location, err := optionalCity(req.Location)
	if err != nil {
		return nil, err
	}

	oldEmail := normEmail(current.Email)
	if oldEmail != email && IsSuperAdmin(current) {
		return nil, forbidden("The super admin email cannot be changed.")
	}

	var before, updated models.User
	err = s.repos.Users.Update(ctx, func(users map[string]models.User) error {
		u, ok := users[oldEmail]
		if !ok {
			return notFound("Account record not found.")
		}
		before = u
		if email != oldEmail {
			if _, taken := users[email]; taken {
				return conflict("This email is already registered.")
			}
		}
		u.FirstName = first
		u.LastName = last
		u.Email = email
		if phone != "" {
			u.Phone = phone
		}
		if location != "" {
			u.Location = location
		}
		if IsSuperAdmin(&u) {
			u.IsAdmin = true
			u.Permissions = models.AllPermissions()
		}
		u.UpdatedAt = s.clock.now()
		delete(users, oldEmail)
		users[email] = u
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if email != oldEmail {
		if err := moveUserData(ctx, s.repos, before, updated); err != nil {
			return nil, err
		}
		s.log.Info("[Auth] account re-keyed", zap.String("from", oldEmail), zap.String("to", email))
	}
	return &updated, nil
}

// ChangePassword replaces the caller's credential after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, current *models.User, req models.ChangePasswordRequest) error {
	if req.CurrentPassword == "" {
		return invalid("Please enter current password.")
	}
	if len(req.NewPassword) < 6 {
		return invalid("Password must be at least 6 characters.")
	}
	if req.NewPassword != req.ConfirmPassword {
		return invalid("New passwords do not match.")
	}
	hash, err := utils.HashPassword(req.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	email := normEmail(current.Email)
	return s.repos.Users.Update(ctx, func(users map[string]models.User) error {
		u, ok := users[email]
		if !ok {
			return notFound("Account record not found.")
		}
		if !utils.ValidatePassword(u.Password, req.CurrentPassword) {
			return invalid("Current password is incorrect.")
		}
		u.Password = hash
		u.UpdatedAt = s.clock.now()
		users[email] = u
		return nil
	})
}

// PurgeExpiredSessions drops every session past its expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.repos.Sessions.PurgeExpired(ctx, s.clock.now())
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	return n, nil
}

func optionalCity(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	c, ok := NormalizeCity(s)
	if !ok {
		return "", invalid("Please choose a city from the list.")
	}
	return c, nil
}

// moveUserData follows a change of email or ID number. The cart and open sessions move with
// the email, and the projects blob moves whenever its key changes.
func moveUserData(ctx context.Context, repos *Repositories, before, after models.User) error {
	from, to := normEmail(before.Email), normEmail(after.Email)
	if from != to {
		if err := repos.Carts.Move(ctx, from, to); err != nil {
			return fmt.Errorf("moving cart: %w", err)
		}
	}
	oldKey := repository.ProjectsKey(strings.TrimSpace(before.IDNumber), from)
	newKey := repository.ProjectsKey(strings.TrimSpace(after.IDNumber), to)
	if oldKey != newKey {
		if err := repos.Projects.Move(ctx, oldKey, newKey); err != nil {
			return fmt.Errorf("moving projects: %w", err)
		}
	}
	if from != to {
		if _, err := repos.Sessions.Rekey(ctx, from, to); err != nil {
			return fmt.Errorf("moving sessions: %w", err)
		}
	}
	return nil
}
