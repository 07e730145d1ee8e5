package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/repository"
)

const (
	msgQuotationSent      = "Quotation sent."
	msgNeedClarification  = "Need clarification."
	msgApprovedByClient   = "Approved by client."
	msgQuoteNotFound      = "Quote not found"
	msgEmptyProjectGroup  = "No items in this project group."
)

// Messages shown to admins on client-only actions.
const (
	MsgAdminCannotAdd     = "you are admin you cant add items"
	MsgAdminCannotRequest = "Admins cannot request quotations."
)

// QuoteService runs the quotation workflow for clients and admins.
type QuoteService struct {
	repos    *Repositories
	notifier Notifier
	log      *zap.Logger
	clock    clock
}

// NewQuoteService wires the workflow. A nil notifier disables client emails.
func NewQuoteService(repos *Repositories, notifier Notifier, log *zap.Logger) *QuoteService {
	return &QuoteService{repos: repos, notifier: notifier, log: log}
}

// changeStatus moves q to status and records the transition. Setting the current status records nothing.
func changeStatus(q *models.Quotation, to models.QuoteStatus, by string, at time.Time) bool {
	if q.Status == to {
		return false
	}
	from := q.Status
	q.StatusHistory = append(q.StatusHistory, models.StatusChange{From: &from, To: to, At: at, By: by})
	q.Status = to
	return true
}

func addMessage(q *models.Quotation, author, by, text string, at time.Time) {
	q.Messages = append(q.Messages, models.Message{Author: author, ByEmail: by, Text: text, At: at})
}

// CreateFromCartGroup turns one project group of the client's cart into a Pending quotation and
// removes that group from the cart.
func (s *QuoteService) CreateFromCartGroup(ctx context.Context, u *models.User, req models.CreateQuotationRequest) (*models.Quotation, error) {
	if IsAdmin(u) {
		return nil, forbidden(MsgAdminCannotRequest)
	}
	groupID := strings.TrimSpace(req.ProjectID)
	if groupID == "" {
		groupID = models.UnassignedProjectID
	}

	cart, err := s.repos.Carts.Get(ctx, u.Email)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	var items []models.QuoteItem
	for _, it := range cart {
		if it.Group() != groupID {
			continue
		}
		qty := it.Params.Qty
		if qty < 1 {
			qty = 1
		}
		items = append(items, models.QuoteItem{
			ID:    it.ID,
			Name:  it.Product,
			Qty:   qty,
			Unit:  it.Params.Units,
			Specs: strings.TrimSpace(it.SummaryHTML + " " + it.SummaryHTML2),
		})
	}
	if len(items) == 0 {
		return nil, invalid(msgEmptyProjectGroup)
	}

	projects, err := s.repos.Projects.List(ctx, projectsKey(u))
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	location := u.Location
	if p := repository.FindProject(projects, groupID); p != nil && p.Location != "" {
		location = p.Location
	}

	now := s.clock.now()
	q := &models.Quotation{
		ClientEmail:     u.Email,
		ClientFirstName: u.FirstName,
		ClientLastName:  u.LastName,
		Phone:           u.Phone,
		CompanyName:     u.CompanyName,
		CompanyType:     u.CompanyType,
		ProjectID:       groupID,
		ProjectName:     projectName(projects, groupID),
		ProjectLocation: location,
		Items:           items,
		ClientNotes:     SanitizeText(req.ClientNotes),
		Status:          models.StatusPending,
		StatusHistory:   []models.StatusChange{{To: models.StatusPending, At: now, By: u.Email}},
		Messages:        []models.Message{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repos.Quotes.Insert(ctx, q); err != nil {
		return nil, fmt.Errorf("saving quotation: %w", err)
	}
	if _, err := clearGroup(ctx, s.repos, u.Email, groupID); err != nil {
		return nil, fmt.Errorf("clearing cart group: %w", err)
	}

	s.log.Info("[Quotes] quotation requested", zap.String("id", q.ID), zap.String("client", u.Email), zap.Int("items", len(items)))
	return q, nil
}

// ListMine returns the caller's quotations, newest first.
func (s *QuoteService) ListMine(ctx context.Context, u *models.User) ([]models.Quotation, error) {
	all, err := s.repos.Quotes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading quotations: %w", err)
	}
	mine := []models.Quotation{}
	for _, q := range all {
		if strings.EqualFold(q.ClientEmail, u.Email) {
			mine = append(mine, q)
		}
	}
	sortNewestFirst(mine)
	return mine, nil
}

// GetMine returns one of the caller's quotations and marks it read.
func (s *QuoteService) GetMine(ctx context.Context, u *models.User, id string) (*models.Quotation, error) {
	q, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(q.ClientEmail, u.Email) {
		return nil, notFound(msgQuoteNotFound)
	}
	if !q.ClientUnread {
		return q, nil
	}
	return s.updateMine(ctx, u, id, func(q *models.Quotation) error {
		q.ClientUnread = false
		return nil
	})
}

// ClientApprove accepts the quoted price.
func (s *QuoteService) ClientApprove(ctx context.Context, u *models.User, id string) (*models.Quotation, error) {
	return s.updateMine(ctx, u, id, func(q *models.Quotation) error {
		now := s.clock.now()
		addMessage(q, models.AuthorClient, u.Email, msgApprovedByClient, now)
		changeStatus(q, models.StatusApproved, u.Email, now)
		return nil
	})
}

// ClientRequestRevision sends the client's change request back to the admins.
func (s *QuoteService) ClientRequestRevision(ctx context.Context, u *models.User, id, text string) (*models.Quotation, error) {
	text = SanitizeText(text)
	if text == "" {
		return nil, invalid("Please describe the changes you need.")
	}
	return s.updateMine(ctx, u, id, func(q *models.Quotation) error {
		now := s.clock.now()
		addMessage(q, models.AuthorClient, u.Email, text, now)
		changeStatus(q, models.StatusNeedsRevision, u.Email, now)
		return nil
	})
}

// AdminList returns every quotation, newest first, optionally filtered by status.
func (s *QuoteService) AdminList(ctx context.Context, caller *models.User, status string) ([]models.Quotation, error) {
	if err := requirePermission(caller, PermViewReplyQuotes); err != nil {
		return nil, err
	}
	var filter models.QuoteStatus
	if status = strings.TrimSpace(status); status != "" && !strings.EqualFold(status, "all") {
		filter = models.QuoteStatus(status)
		if !filter.Valid() {
			return nil, invalid(fmt.Sprintf("Unknown status %q.", status))
		}
	}

	all, err := s.repos.Quotes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading quotations: %w", err)
	}
	out := []models.Quotation{}
	for _, q := range all {
		if filter == "" || q.Status == filter {
			out = append(out, q)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// AdminGet opens a quotation for an admin. Opening a Pending quotation puts it In Review.
func (s *QuoteService) AdminGet(ctx context.Context, caller *models.User, id string) (*models.Quotation, error) {
	if err := requirePermission(caller, PermViewReplyQuotes); err != nil {
		return nil, err
	}
	q, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != models.StatusPending {
		return q, nil
	}
	return s.update(ctx, id, func(q *models.Quotation) error {
		changeStatus(q, models.StatusInReview, caller.Email, s.clock.now())
		return nil
	})
}

// AdminReply prices the quotation and sends it to the client.
func (s *QuoteService) AdminReply(ctx context.Context, caller *models.User, id string, req models.AdminReplyRequest) (*models.Quotation, error) {
	if err := requirePermission(caller, PermViewReplyQuotes); err != nil {
		return nil, err
	}
	q, err := s.update(ctx, id, func(q *models.Quotation) error {
		now := s.clock.now()
		reply := PriceQuote(q.Items, req)
		q.AdminReply = &reply
		addMessage(q, models.AuthorAdmin, caller.Email, msgQuotationSent, now)
		q.ClientUnread = true
		changeStatus(q, models.StatusQuoted, caller.Email, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("[Quotes] quotation priced", zap.String("id", q.ID), zap.Float64("grand_total", q.AdminReply.GrandTotal), zap.String("by", caller.Email))
	s.notify(ctx, *q, EventQuoteReplied)
	return q, nil
}

// AskClarification posts an admin question and hands the quotation back to the client.
func (s *QuoteService) AskClarification(ctx context.Context, caller *models.User, id, text string) (*models.Quotation, error) {
	if err := requirePermission(caller, PermViewReplyQuotes); err != nil {
		return nil, err
	}
	text = SanitizeText(text)
	if text == "" {
		text = msgNeedClarification
	}
	q, err := s.update(ctx, id, func(q *models.Quotation) error {
		now := s.clock.now()
		addMessage(q, models.AuthorAdmin, caller.Email, text, now)
		q.ClientUnread = true
		changeStatus(q, models.StatusNeedsRevision, caller.Email, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, *q, EventClarification)
	return q, nil
}

// ApproveFinal gives the final admin approval.
func (s *QuoteService) ApproveFinal(ctx context.Context, caller *models.User, id string) (*models.Quotation, error) {
	if err := requirePermission(caller, PermApproveFinalQuote); err != nil {
		return nil, err
	}
	var changed bool
	q, err := s.update(ctx, id, func(q *models.Quotation) error {
		changed = changeStatus(q, models.StatusApproved, caller.Email, s.clock.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.notify(ctx, *q, EventQuoteFinalized)
	}
	return q, nil
}

// ChangeStatus sets any status. Transitions are recorded but not restricted.
func (s *QuoteService) ChangeStatus(ctx context.Context, caller *models.User, id string, status models.QuoteStatus) (*models.Quotation, error) {
	if err := requirePermission(caller, PermViewReplyQuotes); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid(fmt.Sprintf("Unknown status %q.", status))
	}
	return s.update(ctx, id, func(q *models.Quotation) error {
		changeStatus(q, status, caller.Email, s.clock.now())
		return nil
	})
}

func (s *QuoteService) Delete(ctx context.Context, caller *models.User, id string) error {
	if err := requirePermission(caller, PermViewReplyQuotes); err != nil {
		return err
	}
	err := s.repos.Quotes.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msgQuoteNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting quotation: %w", err)
	}
	s.log.Info("[Quotes] quotation deleted", zap.String("id", id), zap.String("by", caller.Email))
	return nil
}

// AllQuotes returns every quotation for exports run outside a request.
func (s *QuoteService) AllQuotes(ctx context.Context) ([]models.Quotation, error) {
	all, err := s.repos.Quotes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading quotations: %w", err)
	}
	sortNewestFirst(all)
	return all, nil
}

// Visible returns a quotation the caller may see: its own, or any when the caller reviews quotes.
func (s *QuoteService) Visible(ctx context.Context, caller *models.User, id string) (*models.Quotation, error) {
	q, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if HasPermission(caller, PermViewReplyQuotes) || strings.EqualFold(q.ClientEmail, caller.Email) {
		return q, nil
	}
	return nil, notFound(msgQuoteNotFound)
}

func (s *QuoteService) get(ctx context.Context, id string) (*models.Quotation, error) {
	q, err := s.repos.Quotes.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgQuoteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading quotation: %w", err)
	}
	return q, nil
}

func (s *QuoteService) update(ctx context.Context, id string, fn func(q *models.Quotation) error) (*models.Quotation, error) {
	q, err := s.repos.Quotes.Update(ctx, id, fn)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgQuoteNotFound)
	}
	return q, err
}

func (s *QuoteService) updateMine(ctx context.Context, u *models.User, id string, fn func(q *models.Quotation) error) (*models.Quotation, error) {
	return s.update(ctx, id, func(q *models.Quotation) error {
		if !strings.EqualFold(q.ClientEmail, u.Email) {
			return notFound(msgQuoteNotFound)
		}
		return fn(q)
	})
}

// notify never fails the workflow; delivery problems are only logged.
func (s *QuoteService) notify(ctx context.Context, q models.Quotation, event QuoteEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyQuote(ctx, q, event); err != nil {
		s.log.Warn("[Quotes] client notification failed", zap.String("id", q.ID), zap.String("event", string(event)), zap.Error(err))
	}
}

func sortNewestFirst(quotes []models.Quotation) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})
}
