package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/storage"
)

// CartRepository persists one cart blob per user.
type CartRepository interface {
	Get(ctx context.Context, email string) ([]models.CartItem, error)
	// Update replaces the cart with what fn returns, unless fn fails.
	Update(ctx context.Context, email string, fn func(items []models.CartItem) ([]models.CartItem, error)) error
	// Move re-keys a cart when its owner changes email.
	Move(ctx context.Context, fromEmail, toEmail string) error
}

type cartRepository struct {
	mu   sync.Mutex
	blob jsonBlob[[]models.CartItem]
}

func NewCartRepository(kv storage.KV, timeout time.Duration, log *zap.Logger) CartRepository {
	return &cartRepository{blob: jsonBlob[[]models.CartItem]{kv: kv, log: log, timeout: timeout}}
}

func (r *cartRepository) Get(ctx context.Context, email string) ([]models.CartItem, error) {
	items, err := r.blob.read(ctx, CartKey(email))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func (r *cartRepository) Update(ctx context.Context, email string, fn func(items []models.CartItem) ([]models.CartItem, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.Get(ctx, email)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return r.blob.write(ctx, CartKey(email), items)
}

func (r *cartRepository) Move(ctx context.Context, fromEmail, toEmail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blob.move(ctx, CartKey(fromEmail), CartKey(toEmail))
}
