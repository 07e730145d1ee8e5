package services

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"precastcatalog/models"
)

func quotedQuote() models.Quotation {
	return models.Quotation{
		ID:              "Q20240615-4821",
		ClientEmail:     "client@example.com",
		ClientFirstName: "Sara",
		ClientLastName:  "Alharbi",
		ProjectName:     "Ring road",
		AdminReply:      &models.AdminReply{GrandTotal: 2200, ValidUntil: "2024-07-15", OverallNotes: "Price includes lifting anchors."},
		Messages:        []models.Message{{Author: models.AuthorAdmin, Text: "Quotation sent."}},
	}
}

func TestEmailService_RenderQuoteEmail(t *testing.T) {
	es := NewEmailService(SMTPConfig{AppURL: "https://shop.example.com/", Currency: "SAR"}, zap.NewNop())

	subject, htmlBody, textBody, err := es.RenderQuoteEmail(quotedQuote(), EventQuoteReplied)
	require.NoError(t, err)

	assert.Equal(t, "Quotation Q20240615-4821 is ready", subject)
	assert.Contains(t, htmlBody, "<strong>2200.00 SAR</strong>")
	assert.Contains(t, htmlBody, `href="https://shop.example.com/quotations/Q20240615-4821"`)
	assert.Contains(t, textBody, "Hello Sara Alharbi,")
	assert.Contains(t, textBody, "- Valid until: 2024-07-15")
	assert.NotContains(t, textBody, "<")

	_, _, _, err = es.RenderQuoteEmail(quotedQuote(), QuoteEvent("unknown"))
	assert.Error(t, err)
}

func TestEmailService_MarkupInValuesIsNotRendered(t *testing.T) {
	es := NewEmailService(SMTPConfig{}, zap.NewNop())
	q := quotedQuote()
	q.ClientFirstName = "<script>alert(1)</script>"

	_, htmlBody, _, err := es.RenderQuoteEmail(q, EventQuoteReplied)
	require.NoError(t, err)
	assert.NotContains(t, htmlBody, "<script>")
}

func TestEmailService_NotifyQuote(t *testing.T) {
	q := quotedQuote()

	disabled := NewEmailService(SMTPConfig{}, zap.NewNop())
	disabled.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send called while smtp is disabled")
		return nil
	}
	require.NoError(t, disabled.NotifyQuote(context.Background(), q, EventQuoteReplied))

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	es := NewEmailService(SMTPConfig{Host: "smtp.example.com", From: "no-reply@example.com", Currency: "SAR"}, zap.NewNop())
	es.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}
	require.NoError(t, es.NotifyQuote(context.Background(), q, EventClarification))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"client@example.com"}, gotTo)
	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Quotation Q20240615-4821 needs your input")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "text/plain")
	assert.Contains(t, msg, "text/html")
}

func TestValidateTemplate(t *testing.T) {
	for event, tpl := range quoteTemplates {
		assert.NoError(t, ValidateTemplate(tpl.Subject), event)
		assert.NoError(t, ValidateTemplate(tpl.Body), event)
	}
	assert.EqualError(t, ValidateTemplate("Hi {{client_name}"), "unmatched braces in template")
	assert.EqualError(t, ValidateTemplate("Hi {{password}}"), "invalid variable: password")
}

func TestConvertHTMLToText(t *testing.T) {
	got := convertHTMLToText(`<p>Hello</p><ul><li>one</li><li>two</li></ul><p><a href="https://x.io">link</a></p>`)
	assert.Equal(t, "Hello\n\n- one\n- two\nlink (https://x.io)", got)
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("a@x.io", "b@x.io", "Hi", "plain", "<p>html</p>", time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "From: a@x.io\r\nTo: b@x.io\r\nSubject: Hi\r\n"))
	assert.Equal(t, 3, strings.Count(s, "--b-"))
}
