package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/storage"
)

// UserRepository persists the user map under tn_users, keyed by lowercased email.
type UserRepository interface {
	All(ctx context.Context) (map[string]models.User, error)
	Get(ctx context.Context, email string) (*models.User, error)
	// Update runs fn on the current map and saves it when fn returns nil.
	Update(ctx context.Context, fn func(users map[string]models.User) error) error
}

type userRepository struct {
	mu   sync.Mutex
	blob jsonBlob[map[string]models.User]
}

func NewUserRepository(kv storage.KV, timeout time.Duration, log *zap.Logger) UserRepository {
	return &userRepository{blob: jsonBlob[map[string]models.User]{kv: kv, log: log, timeout: timeout}}
}

func (r *userRepository) All(ctx context.Context) (map[string]models.User, error) {
	users, err := r.blob.read(ctx, UsersKey)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = map[string]models.User{}
	}
	return users, nil
}

func (r *userRepository) Get(ctx context.Context, email string) (*models.User, error) {
	users, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, fn func(users map[string]models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.All(ctx)
	if err != nil {
		return err
	}
	if err := fn(users); err != nil {
		return err
	}
	return r.blob.write(ctx, UsersKey, users)
}
