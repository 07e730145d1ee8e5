package services

import (
	"time"

	"go.uber.org/zap"

	"precastcatalog/repository"
	"precastcatalog/storage"
)

// Repositories bundles the blob repositories every service works against.
type Repositories struct {
	Users    repository.UserRepository
	Sessions repository.SessionRepository
	Carts    repository.CartRepository
	Projects repository.ProjectRepository
	Quotes   repository.QuoteRepository
}

// NewRepositories builds every repository on kv. timeout bounds each store call.
func NewRepositories(kv storage.KV, timeout time.Duration, log *zap.Logger) *Repositories {
	return &Repositories{
		Users:    repository.NewUserRepository(kv, timeout, log),
		Sessions: repository.NewSessionRepository(kv, timeout, log),
		Carts:    repository.NewCartRepository(kv, timeout, log),
		Projects: repository.NewProjectRepository(kv, timeout, log),
		Quotes:   repository.NewQuoteRepository(kv, timeout, log),
	}
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}
