package services

import (
	"context"
	"fmt"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// EmailSender sends the partner-facing transactional emails. Abstracted so
// handlers can run without a live Brevo account in tests.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
	SendTokenReceipt(ctx context.Context, to, token, units, meterNumber string) error
}

// BrevoEmailService implements EmailSender over the Brevo transactional API
type BrevoEmailService struct {
	client    *brevo.APIClient
	fromEmail string
	fromName  string
}

// NewBrevoEmailService creates a new Brevo email service
func NewBrevoEmailService(apiKey, fromEmail, fromName string) *BrevoEmailService {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)

	return &BrevoEmailService{
		client:    brevo.NewAPIClient(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendVerificationEmail mails the email-verification bearer token
func (s *BrevoEmailService) SendVerificationEmail(ctx context.Context, to, token string) error {
	subject := "Verify your email"
	html := fmt.Sprintf(`
		<p>Welcome! Use the token below to verify your email address.</p>
		<pre style="background:#f8f9fa;padding:16px;border-radius:8px;">%s</pre>
		<p>The token expires shortly. If this was not you, ignore this email.</p>
	`, token)
	text := fmt.Sprintf("Verify your email with this token:\n\n%s\n", token)

	return s.send(ctx, to, subject, html, text)
}

// SendPasswordResetEmail mails the password-reset bearer token
func (s *BrevoEmailService) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	subject := "Reset your password"
	html := fmt.Sprintf(`
		<p>A password reset was requested for your account. Use the token below.</p>
		<pre style="background:#f8f9fa;padding:16px;border-radius:8px;">%s</pre>
		<p>Requesting a new reset invalidates this token. If this was not you, ignore this email.</p>
	`, token)
	text := fmt.Sprintf("Reset your password with this token:\n\n%s\n", token)

	return s.send(ctx, to, subject, html, text)
}

// SendTokenReceipt mails an issued electricity token to the meter owner
func (s *BrevoEmailService) SendTokenReceipt(ctx context.Context, to, token, units, meterNumber string) error {
	subject := fmt.Sprintf("Your electricity token for meter %s", meterNumber)
	html := fmt.Sprintf(`
		<p>Your electricity purchase was successful.</p>
		<p>Meter: <b>%s</b><br>Units: <b>%s</b></p>
		<pre style="background:#f8f9fa;padding:16px;border-radius:8px;font-size:20px;">%s</pre>
	`, meterNumber, units, token)
	text := fmt.Sprintf("Electricity token for meter %s (%s units):\n\n%s\n", meterNumber, units, token)

	return s.send(ctx, to, subject, html, text)
}

func (s *BrevoEmailService) send(ctx context.Context, to, subject, html, text string) error {
	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  s.fromName,
			Email: s.fromEmail,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: to},
		},
		Subject:     subject,
		HtmlContent: html,
		TextContent: text,
	}

	if _, _, err := s.client.TransactionalEmailsApi.SendTransacEmail(ctx, email); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
