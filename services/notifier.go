package services

import (
	"context"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jordan-wright/email"

	"aircraft-scraper/config"
)

// Notifier delivers the run summary to a human.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// NewNotifier picks SendGrid when an API key is configured and SMTP
// otherwise. It returns nil when notifications are not configured.
func NewNotifier(cfg *config.Config) Notifier {
	if !cfg.EmailEnabled() {
		return nil
	}
	if cfg.SendGridAPIKey != "" {
		return NewSendGridNotifier(cfg.SendGridAPIKey, cfg.EmailFrom, recipients(cfg.EmailTo))
	}
	return NewSMTPNotifier(cfg)
}

func recipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ── SMTP ─────────────────────────────────────────────────────────────────

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// SMTPNotifier sends plain-text mail with PLAIN auth over STARTTLS.
type SMTPNotifier struct {
	addr string
	host string
	user string
	pass string
	from string
	to   []string
	send sendFunc
}

func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		addr: cfg.SMTPAddr(),
		host: cfg.SMTPHost,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.EmailFrom,
		to:   recipients(cfg.EmailTo),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Message builds the mail without sending it.
func (n *SMTPNotifier) Message(subject, body string) *email.Email {
	mail := email.NewEmail()
	mail.From = n.from
	mail.To = n.to
	mail.Subject = subject
	mail.Text = []byte(body)
	return mail
}

// Notify sends the mail. net/smtp has no context support, so ctx is only
// checked before dialing.
func (n *SMTPNotifier) Notify(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	auth := smtp.PlainAuth("", n.user, n.pass, n.host)
	if err := n.send(n.Message(subject, body), n.addr, auth); err != nil {
		return fmt.Errorf("notifier: smtp send via %s: %w", n.addr, err)
	}
	return nil
}

// ── SendGrid ─────────────────────────────────────────────────────────────

const sendGridBaseURL = "https://api.sendgrid.com"

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMessage struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// SendGridNotifier posts to the SendGrid v3 mail API.
type SendGridNotifier struct {
	client *resty.Client
	from   string
	to     []string
}

func NewSendGridNotifier(apiKey, from string, to []string) *SendGridNotifier {
	client := resty.New().
		SetBaseURL(sendGridBaseURL).
		SetTimeout(30*time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &SendGridNotifier{client: client, from: from, to: to}
}

// SetBaseURL redirects the API calls, e.g. to a test server.
func (n *SendGridNotifier) SetBaseURL(u string) {
	n.client.SetBaseURL(u)
}

func (n *SendGridNotifier) Notify(ctx context.Context, subject, body string) error {
	to := make([]sendGridAddress, 0, len(n.to))
	for _, addr := range n.to {
		to = append(to, sendGridAddress{Email: addr})
	}
	msg := sendGridMessage{
		Personalizations: []sendGridPersonalization{{To: to}},
		From:             sendGridAddress{Email: n.from},
		Subject:          subject,
		Content:          []sendGridContent{{Type: "text/plain", Value: body}},
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post("/v3/mail/send")
	if err != nil {
		return fmt.Errorf("notifier: sendgrid request: %w", err)
	}
	if resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("notifier: sendgrid error %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}
