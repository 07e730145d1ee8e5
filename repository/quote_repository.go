package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/storage"
)

// QuoteRepository persists every quotation in the single tn_quotes array.
type QuoteRepository interface {
	List(ctx context.Context) ([]models.Quotation, error)
	Get(ctx context.Context, id string) (*models.Quotation, error)
	// Insert assigns a fresh, unique ID and appends the quotation.
	Insert(ctx context.Context, q *models.Quotation) error
	// Update runs fn on the stored quotation, stamps UpdatedAt and saves it.
	Update(ctx context.Context, id string, fn func(q *models.Quotation) error) (*models.Quotation, error)
	Delete(ctx context.Context, id string) error
}

// maxQuoteIDAttempts bounds id regeneration; a day has only 9000 ids.
const maxQuoteIDAttempts = 200

// ErrQuoteIDsExhausted is returned when no free quotation id was found.
var ErrQuoteIDsExhausted = errors.New("no free quotation id")

type quoteRepository struct {
	mu    sync.Mutex
	blob  jsonBlob[[]models.Quotation]
	now   func() time.Time
	newID func(time.Time) string
}

func NewQuoteRepository(kv storage.KV, timeout time.Duration, log *zap.Logger) QuoteRepository {
	return &quoteRepository{
		blob:  jsonBlob[[]models.Quotation]{kv: kv, log: log, timeout: timeout},
		now:   time.Now,
		newID: GenerateQuoteID,
	}
}

func (r *quoteRepository) List(ctx context.Context) ([]models.Quotation, error) {
	quotes, err := r.blob.read(ctx, QuotesKey)
	if err != nil {
		return nil, err
	}
	if quotes == nil {
		quotes = []models.Quotation{}
	}
	return quotes, nil
}

func (r *quoteRepository) Get(ctx context.Context, id string) (*models.Quotation, error) {
	quotes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		if quotes[i].ID == id {
			return &quotes[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *quoteRepository) Insert(ctx context.Context, q *models.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quotes, err := r.List(ctx)
	if err != nil {
		return err
	}
	taken := make(map[string]bool, len(quotes))
	for _, existing := range quotes {
		taken[existing.ID] = true
	}
	q.ID = ""
	for i := 0; i < maxQuoteIDAttempts; i++ {
		if id := r.newID(r.now()); !taken[id] {
			q.ID = id
			break
		}
	}
	if q.ID == "" {
		return ErrQuoteIDsExhausted
	}

	quotes = append(quotes, *q)
	return r.blob.write(ctx, QuotesKey, quotes)
}

func (r *quoteRepository) Update(ctx context.Context, id string, fn func(q *models.Quotation) error) (*models.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quotes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range quotes {
		if quotes[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	updated := quotes[idx]
	if err := fn(&updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = r.now().UTC()
	quotes[idx] = updated
	if err := r.blob.write(ctx, QuotesKey, quotes); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *quoteRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quotes, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := quotes[:0]
	for _, q := range quotes {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(quotes) {
		return ErrNotFound
	}
	return r.blob.write(ctx, QuotesKey, kept)
}
