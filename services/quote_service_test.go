package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"precastcatalog/models"
)

func TestChangeStatusRecordsOnlyRealChanges(t *testing.T) {
	q := &models.Quotation{Status: models.StatusPending}
	at := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	assert.False(t, changeStatus(q, models.StatusPending, "a@x.io", at))
	assert.Empty(t, q.StatusHistory)

	assert.True(t, changeStatus(q, models.StatusQuoted, "a@x.io", at))
	require.Len(t, q.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, *q.StatusHistory[0].From)
	assert.Equal(t, models.StatusQuoted, q.StatusHistory[0].To)
	assert.Equal(t, "a@x.io", q.StatusHistory[0].By)
}

func TestQuoteService_CreateFromCartGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.client(t, "client@example.com")
	p, err := env.projects.Create(ctx, u, models.ProjectRequest{Name: "Ring road", Location: "Tabuk"})
	require.NoError(t, err)

	inProject := env.addCulvert(t, u, p.ID, 3)
	env.addCulvert(t, u, "", 1)

	q, err := env.quotes.CreateFromCartGroup(ctx, u, models.CreateQuotationRequest{ProjectID: p.ID, ClientNotes: "Gate <b>3</b>"})
	require.NoError(t, err)

	assert.Regexp(t, `^Q\d{8}-\d{4}$`, q.ID)
	assert.Equal(t, models.StatusPending, q.Status)
	require.Len(t, q.StatusHistory, 1)
	assert.Nil(t, q.StatusHistory[0].From)
	assert.Equal(t, u.Email, q.StatusHistory[0].By)
	assert.Equal(t, "Ring road", q.ProjectName)
	assert.Equal(t, "Tabuk", q.ProjectLocation)
	assert.Equal(t, "Gate 3", q.ClientNotes)
	assert.False(t, q.ClientUnread)

	require.Len(t, q.Items, 1)
	assert.Equal(t, inProject.ID, q.Items[0].ID)
	assert.Equal(t, "Box Culvert", q.Items[0].Name)
	assert.Equal(t, 3, q.Items[0].Qty)
	assert.Equal(t, "mm", q.Items[0].Unit)
	assert.Contains(t, q.Items[0].Specs, "Material=")

	// Only the submitted group leaves the cart.
	groups, err := env.cart.List(ctx, u)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, models.UnassignedProjectID, groups[0].ProjectID)

	_, err = env.quotes.CreateFromCartGroup(ctx, u, models.CreateQuotationRequest{ProjectID: p.ID})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "No items in this project group.", err.Error())
}

func TestQuoteService_UnassignedGroupUsesClientLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.client(t, "client@example.com")
	env.addCulvert(t, u, "", 1)

	q, err := env.quotes.CreateFromCartGroup(ctx, u, models.CreateQuotationRequest{ProjectID: models.UnassignedProjectID})
	require.NoError(t, err)
	assert.Equal(t, "(Unassigned)", q.ProjectName)
	assert.Equal(t, "Riyadh", q.ProjectLocation)

	_, err = env.quotes.CreateFromCartGroup(ctx, env.superAdmin(t), models.CreateQuotationRequest{ProjectID: models.UnassignedProjectID})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestQuoteService_AdminWorkflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.client(t, "client@example.com")
	reviewer := env.admin(t, "rev@tnagadi.com", models.Permissions{ViewReplyQuotes: true})
	approver := env.admin(t, "boss@tnagadi.com", models.Permissions{ApproveFinalQuote: true})
	item := env.addCulvert(t, client, "", 2)

	q, err := env.quotes.CreateFromCartGroup(ctx, client, models.CreateQuotationRequest{})
	require.NoError(t, err)

	_, err = env.quotes.AdminList(ctx, client, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// Opening a Pending quotation puts it In Review, once.
	got, err := env.quotes.AdminGet(ctx, reviewer, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInReview, got.Status)
	got, err = env.quotes.AdminGet(ctx, reviewer, q.ID)
	require.NoError(t, err)
	assert.Len(t, got.StatusHistory, 2)

	env.notifier.On("NotifyQuote", mock.Anything, mock.AnythingOfType("models.Quotation"), EventQuoteReplied).Return(nil).Once()
	got, err = env.quotes.AdminReply(ctx, reviewer, q.ID, models.AdminReplyRequest{
		PerItem:      []models.ItemPrice{{ID: item.ID, UnitPrice: 1000}},
		DeliveryCost: 300,
		Discount:     100,
		ValidUntil:   "2024-07-15",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusQuoted, got.Status)
	assert.True(t, got.ClientUnread)
	require.NotNil(t, got.AdminReply)
	assert.Equal(t, []float64{2000}, got.AdminReply.Subtotals)
	assert.Equal(t, 2200.0, got.AdminReply.GrandTotal)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, models.Message{Author: models.AuthorAdmin, ByEmail: reviewer.Email, Text: "Quotation sent.", At: env.now}, got.Messages[0])

	list, err := env.quotes.AdminList(ctx, reviewer, "Quoted")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = env.quotes.AdminList(ctx, reviewer, "Approved")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = env.quotes.AdminList(ctx, reviewer, "Lost")
	assert.ErrorIs(t, err, ErrValidation)

	// The client reads the reply.
	mine, err := env.quotes.GetMine(ctx, client, q.ID)
	require.NoError(t, err)
	assert.False(t, mine.ClientUnread)

	env.notifier.On("NotifyQuote", mock.Anything, mock.AnythingOfType("models.Quotation"), EventClarification).Return(errors.New("smtp down")).Once()
	got, err = env.quotes.AskClarification(ctx, reviewer, q.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNeedsRevision, got.Status)
	assert.Equal(t, "Need clarification.", got.Messages[len(got.Messages)-1].Text)
	assert.True(t, got.ClientUnread)

	_, err = env.quotes.ApproveFinal(ctx, reviewer, q.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	env.notifier.On("NotifyQuote", mock.Anything, mock.AnythingOfType("models.Quotation"), EventQuoteFinalized).Return(nil).Once()
	got, err = env.quotes.ApproveFinal(ctx, approver, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	got, err = env.quotes.ChangeStatus(ctx, reviewer, q.ID, models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
	last := got.StatusHistory[len(got.StatusHistory)-1]
	assert.Equal(t, models.StatusApproved, *last.From)
	assert.Equal(t, reviewer.Email, last.By)

	before := len(got.StatusHistory)
	got, err = env.quotes.ChangeStatus(ctx, reviewer, q.ID, models.StatusRejected)
	require.NoError(t, err)
	assert.Len(t, got.StatusHistory, before)

	_, err = env.quotes.ChangeStatus(ctx, reviewer, q.ID, "Shipped")
	assert.ErrorIs(t, err, ErrValidation)

	env.notifier.AssertExpectations(t)

	require.NoError(t, env.quotes.Delete(ctx, reviewer, q.ID))
	assert.ErrorIs(t, env.quotes.Delete(ctx, reviewer, q.ID), ErrNotFound)
}

func TestQuoteService_ClientActions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client := env.client(t, "client@example.com")
	other := env.client(t, "other@example.com")
	env.addCulvert(t, client, "", 1)

	q, err := env.quotes.CreateFromCartGroup(ctx, client, models.CreateQuotationRequest{})
	require.NoError(t, err)

	_, err = env.quotes.GetMine(ctx, other, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.quotes.ClientApprove(ctx, other, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.quotes.ClientRequestRevision(ctx, client, q.ID, " ")
	assert.ErrorIs(t, err, ErrValidation)

	got, err := env.quotes.ClientRequestRevision(ctx, client, q.ID, "Use 150 mm walls")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNeedsRevision, got.Status)
	assert.Equal(t, models.AuthorClient, got.Messages[0].Author)

	got, err = env.quotes.ClientApprove(ctx, client, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "Approved by client.", got.Messages[len(got.Messages)-1].Text)

	mine, err := env.quotes.ListMine(ctx, client)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := env.quotes.ListMine(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = env.quotes.Visible(ctx, other, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.quotes.Visible(ctx, client, q.ID)
	assert.NoError(t, err)
}

func TestPriceQuote(t *testing.T) {
	items := []models.QuoteItem{{ID: "a", Qty: 2}, {ID: "b", Qty: 5}}

	reply := PriceQuote(items, models.AdminReplyRequest{
		PerItem:      []models.ItemPrice{{ID: "a", UnitPrice: 10.5, Notes: "<i>rush</i>"}, {ID: "zzz", UnitPrice: 99}},
		DeliveryCost: 4,
		Discount:     1,
	})
	assert.Equal(t, []float64{21, 0}, reply.Subtotals)
	assert.Equal(t, 24.0, reply.GrandTotal)
	require.Len(t, reply.PerItem, 2)
	assert.Equal(t, "rush", reply.PerItem[0].Notes)
	assert.Equal(t, 0.0, reply.PerItem[1].UnitPrice)

	reply = PriceQuote(items, models.AdminReplyRequest{Discount: 1000})
	assert.Equal(t, 0.0, reply.GrandTotal)

	reply = PriceQuote(items, models.AdminReplyRequest{DeliveryCost: -50})
	assert.Equal(t, 0.0, reply.DeliveryCost)
}
