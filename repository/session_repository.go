package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/storage"
)

// SessionRepository persists login sessions under tn_sessions, keyed by session ID.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Delete(ctx context.Context, id string) error
	// DeleteByEmail removes every session of a user and returns how many were removed.
	DeleteByEmail(ctx context.Context, email string) (int, error)
	// Rekey points every session of fromEmail at toEmail.
	Rekey(ctx context.Context, fromEmail, toEmail string) (int, error)
	// PurgeExpired removes sessions that expired at or before now.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

type sessionRepository struct {
	mu   sync.Mutex
	blob jsonBlob[map[string]models.Session]
}

func NewSessionRepository(kv storage.KV, timeout time.Duration, log *zap.Logger) SessionRepository {
	return &sessionRepository{blob: jsonBlob[map[string]models.Session]{kv: kv, log: log, timeout: timeout}}
}

func (r *sessionRepository) load(ctx context.Context) (map[string]models.Session, error) {
	sessions, err := r.blob.read(ctx, SessionsKey)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = map[string]models.Session{}
	}
	return sessions, nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	sessions, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, s models.Session) error {
	return r.mutate(ctx, func(sessions map[string]models.Session) int {
		sessions[s.ID] = s
		return 1
	})
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.mutate(ctx, func(sessions map[string]models.Session) int {
		if _, ok := sessions[id]; !ok {
			return 0
		}
		delete(sessions, id)
		return 1
	})
}

func (r *sessionRepository) DeleteByEmail(ctx context.Context, email string) (int, error) {
	var n int
	err := r.mutate(ctx, func(sessions map[string]models.Session) int {
		for id, s := range sessions {
			if s.Email == email {
				delete(sessions, id)
				n++
			}
		}
		return n
	})
	return n, err
}

func (r *sessionRepository) Rekey(ctx context.Context, fromEmail, toEmail string) (int, error) {
	var n int
	err := r.mutate(ctx, func(sessions map[string]models.Session) int {
		for id, s := range sessions {
			if s.Email == fromEmail {
				s.Email = toEmail
				sessions[id] = s
				n++
			}
		}
		return n
	})
	return n, err
}

func (r *sessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.mutate(ctx, func(sessions map[string]models.Session) int {
		for id, s := range sessions {
			if s.Expired(now) {
				delete(sessions, id)
				n++
			}
		}
		return n
	})
	return n, err
}

// mutate saves the map only when fn reports a change.
func (r *sessionRepository) mutate(ctx context.Context, fn func(map[string]models.Session) int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.load(ctx)
	if err != nil {
		return err
	}
	if fn(sessions) == 0 {
		return nil
	}
	return r.blob.write(ctx, SessionsKey, sessions)
}
