package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/ajstars1/0unveiled-leaderboard/internal/model"
	"github.com/microcosm-cc/bluemonday"
	"github.com/resend/resend-go/v2"
)

// Mailer sends the templated rank-change email. Nil disables email entirely.
type Mailer interface {
	SendRankChange(ctx context.Context, to, username, kind, message string) error
}

var rankEmailTemplate = template.Must(template.New("rank_change").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1a1a1a;">
    <h2>Hey {{.Username}},</h2>
    <p>{{.Message}}</p>
    <p><a href="{{.LeaderboardURL}}">See where you stand</a></p>
    <p style="color: #888; font-size: 12px;">You can mute leaderboard emails in your notification settings.</p>
  </body>
</html>`))

var rankEmailSubjects = map[string]string{
	model.NotificationWelcome:  "You made the 0unveiled leaderboard 🎉",
	model.NotificationRankUp:   "You're climbing the 0unveiled leaderboard",
	model.NotificationRankDown: "Your 0unveiled leaderboard rank changed",
}

type resendMailer struct {
	client         *resend.Client
	from           string
	leaderboardURL string
	sanitizer      *bluemonday.Policy
}

// NewResendMailer returns a Mailer backed by the Resend API, or nil when no
// API key is configured.
func NewResendMailer(apiKey, from, leaderboardURL string) Mailer {
	if apiKey == "" {
		return nil
	}
	return &resendMailer{
		client:         resend.NewClient(apiKey),
		from:           from,
		leaderboardURL: leaderboardURL,
		sanitizer:      bluemonday.StrictPolicy(),
	}
}

func (m *resendMailer) SendRankChange(ctx context.Context, to, username, kind, message string) error {
	subject, ok := rankEmailSubjects[kind]
	if !ok {
		subject = "Your 0unveiled leaderboard update"
	}

	var body bytes.Buffer
	err := rankEmailTemplate.Execute(&body, struct {
		Username       string
		Message        string
		LeaderboardURL string
	}{
		// Usernames are user-supplied; strip any markup before they
		// enter the email body.
		Username:       m.sanitizer.Sanitize(username),
		Message:        message,
		LeaderboardURL: m.leaderboardURL,
	})
	if err != nil {
		return fmt.Errorf("render rank change email: %w", err)
	}

	_, err = m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}

	return nil
}
