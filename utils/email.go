// utils/email.go
package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"bistro-boss/models"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Email is a single outbound message
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender delivers one email
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// SendGridSender sends email through the SendGrid v3 API
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridSender initializes a SendGrid backed sender
func NewSendGridSender(apiKey, from string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Bistro Boss", from),
	}
}

// Send sends the email and treats any non-2xx answer as a failure
func (s *SendGridSender) Send(ctx context.Context, email Email) error {
	message := mail.NewSingleEmail(s.from, email.Subject, mail.NewEmail("", email.To), email.TextBody, email.HTMLBody)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: sendgrid status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	return nil
}

// PostmarkSender sends email using Postmark
type PostmarkSender struct {
	client *postmark.Client
	from   string
}

// NewPostmarkSender initializes a Postmark backed sender
func NewPostmarkSender(serverToken, from string) *PostmarkSender {
	return &PostmarkSender{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

// Send sends the email. The Postmark client takes no context, so ctx is only
// checked before the call.
func (s *PostmarkSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.client.SendEmail(postmark.Email{
		From:     s.from,
		To:       email.To,
		Subject:  email.Subject,
		HtmlBody: email.HTMLBody,
		TextBody: email.TextBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.ErrorCode != 0 {
		return fmt.Errorf("failed to send email: postmark error %d: %s", res.ErrorCode, res.Message)
	}
	return nil
}

// LogSender only logs emails. Used when no email API key is configured.
type LogSender struct {
	Log logrus.FieldLogger
}

func (s LogSender) Send(_ context.Context, email Email) error {
	s.Log.WithFields(logrus.Fields{"to": email.To, "subject": email.Subject}).Info("email delivery disabled, message dropped")
	return nil
}

// NewEmailSender picks the sender for the configured provider
func NewEmailSender(provider, apiKey, from string, log logrus.FieldLogger) EmailSender {
	if apiKey == "" {
		log.Warn("EMAIL_API_KEY is not set, order confirmations will only be logged")
		return LogSender{Log: log}
	}
	if provider == "postmark" {
		return NewPostmarkSender(apiKey, from)
	}
	return NewSendGridSender(apiKey, from)
}

// OrderConfirmationEmail builds the confirmation sent after checkout
func OrderConfirmationEmail(order models.Order) Email {
	subject := "Bistro Boss Order Confirmation"
	text := fmt.Sprintf(
		"Thank you for your order!\n\nTransaction ID: %s\nItems: %d\nTotal Amount: $%.2f\n\nWe will let you know when it is on the way.\n",
		order.TransactionID,
		len(order.MenuItemIDs),
		order.Total,
	)
	htmlContent := fmt.Sprintf(
		"<strong>Thank you for your order!</strong><br><br>Transaction ID: <strong>%s</strong><br>Items: <strong>%d</strong><br>Total Amount: <strong>$%.2f</strong><br><br>We will let you know when it is on the way.",
		html.EscapeString(order.TransactionID),
		len(order.MenuItemIDs),
		order.Total,
	)
	return Email{
		To:       order.Email,
		Subject:  subject,
		HTMLBody: htmlContent,
		TextBody: text,
	}
}
