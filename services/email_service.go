package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/quotedprintable"
	"net/smtp"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"precastcatalog/models"
)

// QuoteEvent names the quotation changes a client is emailed about.
type QuoteEvent string

const (
	EventQuoteReplied   QuoteEvent = "quote_replied"
	EventClarification  QuoteEvent = "clarification_requested"
	EventQuoteFinalized QuoteEvent = "quote_approved"
)

// Notifier tells clients about changes to their quotations.
type Notifier interface {
	NotifyQuote(ctx context.Context, q models.Quotation, event QuoteEvent) error
}

type emailTemplate struct {
	Subject string
	Body    string // Markdown
}

var quoteTemplates = map[QuoteEvent]emailTemplate{
	EventQuoteReplied: {
		Subject: "Quotation {{quote_id}} is ready",
		Body: `Hello {{client_name}},

Your quotation **{{quote_id}}** for *{{project_name}}* has been priced.

- Grand total: **{{grand_total}} {{currency}}**
- Valid until: {{valid_until}}

{{overall_notes}}

[Open your quotation]({{quote_url}})
`,
	},
	EventClarification: {
		Subject: "Quotation {{quote_id}} needs your input",
		Body: `Hello {{client_name}},

Our team has a question about quotation **{{quote_id}}** for *{{project_name}}*:

> {{message}}

[Reply from your quotations page]({{quote_url}})
`,
	},
	EventQuoteFinalized: {
		Subject: "Quotation {{quote_id}} approved",
		Body: `Hello {{client_name}},

Quotation **{{quote_id}}** for *{{project_name}}* has been approved. Our team will contact you about delivery.

[Open your quotation]({{quote_url}})
`,
	},
}

var templateVariables = map[string]bool{
	"quote_id":      true,
	"client_name":   true,
	"project_name":  true,
	"grand_total":   true,
	"currency":      true,
	"valid_until":   true,
	"overall_notes": true,
	"message":       true,
	"quote_url":     true,
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppURL   string
	Currency string
}

// EmailService sends quotation notifications over SMTP. It does nothing when no host is configured.
type EmailService struct {
	cfg  SMTPConfig
	log  *zap.Logger
	md   goldmark.Markdown
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg SMTPConfig, log *zap.Logger) *EmailService {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &EmailService{cfg: cfg, log: log, md: goldmark.New(), send: smtp.SendMail}
}

func (es *EmailService) Enabled() bool { return es.cfg.Host != "" }

// NotifyQuote emails the quotation's client about event.
func (es *EmailService) NotifyQuote(ctx context.Context, q models.Quotation, event QuoteEvent) error {
	if !es.Enabled() {
		es.log.Debug("[Email] smtp disabled, skipping notification", zap.String("quote", q.ID), zap.String("event", string(event)))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, htmlBody, textBody, err := es.RenderQuoteEmail(q, event)
	if err != nil {
		return err
	}
	if err := es.sendEmail(q.ClientEmail, subject, textBody, htmlBody); err != nil {
		return fmt.Errorf("sending %s email for %s: %w", event, q.ID, err)
	}
	es.log.Info("[Email] notification sent", zap.String("quote", q.ID), zap.String("to", q.ClientEmail), zap.String("event", string(event)))
	return nil
}

// RenderQuoteEmail fills the event template and returns the subject with HTML and plain-text bodies.
func (es *EmailService) RenderQuoteEmail(q models.Quotation, event QuoteEvent) (string, string, string, error) {
	tpl, ok := quoteTemplates[event]
	if !ok {
		return "", "", "", fmt.Errorf("no email template for %q", event)
	}
	if err := ValidateTemplate(tpl.Body); err != nil {
		return "", "", "", err
	}

	vars := es.quoteVariables(q)
	subject := processTemplate(tpl.Subject, vars)
	markdown := processTemplate(tpl.Body, vars)

	var buf bytes.Buffer
	if err := es.md.Convert([]byte(markdown), &buf); err != nil {
		return "", "", "", fmt.Errorf("rendering markdown: %w", err)
	}
	htmlBody := buf.String()
	return subject, htmlBody, convertHTMLToText(htmlBody), nil
}

func (es *EmailService) quoteVariables(q models.Quotation) map[string]string {
	vars := map[string]string{
		"quote_id":     q.ID,
		"client_name":  strings.TrimSpace(q.ClientFirstName + " " + q.ClientLastName),
		"project_name": q.ProjectName,
		"currency":     es.cfg.Currency,
		"quote_url":    strings.TrimRight(es.cfg.AppURL, "/") + "/quotations/" + q.ID,
		"valid_until":  "-",
	}
	if r := q.AdminReply; r != nil {
		vars["grand_total"] = money(r.GrandTotal)
		vars["overall_notes"] = r.OverallNotes
		if r.ValidUntil != "" {
			vars["valid_until"] = r.ValidUntil
		}
	}
	for i := len(q.Messages) - 1; i >= 0; i-- {
		if q.Messages[i].Author == models.AuthorAdmin {
			vars["message"] = q.Messages[i].Text
			break
		}
	}
	return vars
}

// processTemplate replaces {{name}} placeholders. Unknown names become empty.
func processTemplate(tpl string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tpl, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-2])
		return vars[key]
	})
}

var placeholderRe = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ValidateTemplate checks that braces balance and that every placeholder is a known variable.
func ValidateTemplate(tpl string) error {
	if strings.Count(tpl, "{{") != strings.Count(tpl, "}}") {
		return fmt.Errorf("unmatched braces in template")
	}
	for _, match := range placeholderRe.FindAllStringSubmatch(tpl, -1) {
		if v := strings.TrimSpace(match[1]); !templateVariables[v] {
			return fmt.Errorf("invalid variable: %s", v)
		}
	}
	return nil
}

// convertHTMLToText flattens HTML to plain text for the text/plain part and for documents.
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "table", "tr", "blockquote", "ul", "ol":
				text.WriteString("\n")
			case "li":
				text.WriteString("\n- ")
			case "td", "th":
				text.WriteString(" | ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" {
					text.WriteString(" (" + a.Val + ")")
				}
			}
		}
	}
	extractText(doc)

	lines := strings.Split(text.String(), "\n")
	out := lines[:0]
	blank := false
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func (es *EmailService) sendEmail(to, subject, textBody, htmlBody string) error {
	var auth smtp.Auth
	if es.cfg.Username != "" {
		auth = smtp.PlainAuth("", es.cfg.Username, es.cfg.Password, es.cfg.Host)
	}
	msg, err := buildMessage(es.cfg.From, to, subject, textBody, htmlBody, time.Now())
	if err != nil {
		return err
	}
	addr := es.cfg.Host + ":" + strconv.Itoa(es.cfg.Port)
	return es.send(addr, auth, es.cfg.From, []string{to}, msg)
}

// buildMessage assembles a multipart/alternative message with text and HTML parts.
func buildMessage(from, to, subject, textBody, htmlBody string, now time.Time) ([]byte, error) {
	boundary := "b-" + uuid.NewString()
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"Date: " + now.Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + boundary,
		"",
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(headers, "\r\n") + "\r\n")
	for _, part := range []struct{ ctype, body string }{
		{"text/plain; charset=UTF-8", textBody},
		{"text/html; charset=UTF-8", htmlBody},
	} {
		buf.WriteString("--" + boundary + "\r\n")
		buf.WriteString("Content-Type: " + part.ctype + "\r\n")
		buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		qp := quotedprintable.NewWriter(&buf)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("\r\n")
	}
	buf.WriteString("--" + boundary + "--\r\n")
	return buf.Bytes(), nil
}
