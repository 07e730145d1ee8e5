package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"precastcatalog/storage"
	"precastcatalog/utils"
)

// ErrNotFound is returned when a record is absent from its blob.
var ErrNotFound = errors.New("record not found")

// Storage keys. Every blob is plain JSON without a version field.
const (
	UsersKey    = "tn_users"
	SessionsKey = "tn_sessions"
	QuotesKey   = "tn_quotes"
)

// CartKey is the per-user cart blob, keyed by lowercased email.
func CartKey(email string) string {
	return "tn_cart:" + strings.ToLower(strings.TrimSpace(email))
}

// ProjectsKey is the per-user projects blob, keyed by ID number or, when empty, by email.
func ProjectsKey(idNumber, email string) string {
	if idNumber != "" {
		return "projects_" + idNumber
	}
	return "projects_" + email
}

// jsonBlob reads and writes one JSON document of type T. Missing keys and documents that
// fail to parse both read as the zero value; the latter is logged. Each store call is bounded
// by timeout (utils.DefaultStoreTimeout when zero).
type jsonBlob[T any] struct {
	kv      storage.KV
	log     *zap.Logger
	timeout time.Duration
}

func (b jsonBlob[T]) read(ctx context.Context, key string) (T, error) {
	var v T
	ctx, cancel := utils.GetStoreContext(ctx, b.timeout)
	defer cancel()
	data, err := b.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("loading %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		b.log.Warn("[Repository] discarding unreadable blob", zap.String("key", key), zap.Error(err))
		var zero T
		return zero, nil
	}
	return v, nil
}

func (b jsonBlob[T]) write(ctx context.Context, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	ctx, cancel := utils.GetStoreContext(ctx, b.timeout)
	defer cancel()
	if err := b.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// move copies the blob at from to to and deletes from. Nothing happens when from is absent.
func (b jsonBlob[T]) move(ctx context.Context, from, to string) error {
	if from == to {
		return nil
	}
	ctx, cancel := utils.GetStoreContext(ctx, b.timeout)
	defer cancel()
	data, err := b.kv.Get(ctx, from)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", from, err)
	}
	if err := b.kv.Set(ctx, to, data); err != nil {
		return fmt.Errorf("saving %s: %w", to, err)
	}
	if err := b.kv.Delete(ctx, from); err != nil {
		return fmt.Errorf("deleting %s: %w", from, err)
	}
	return nil
}
