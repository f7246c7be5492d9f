// Package mailer delivers the transactional email for registration,
// password reset and admin notification. Delivery failures are reported to
// the caller; whether they are fatal is the caller's decision.
package mailer

import (
	"fmt"
	"net/url"

	"github.com/labstack/gommon/log"
	"github.com/wneessen/go-mail"
	"uk.co.dudmesh.noticeboard/internal/boot"
)

type Mailer interface {
	SendVerification(email, username, token string) error
	SendPasswordReset(email, username, token string) error
	SendAdminNotification(subject, body string) error
}

// New selects the SMTP implementation when a relay host is configured and a
// log-only implementation otherwise.
func New(config *boot.Config) (Mailer, error) {
	templates, err := NewTemplates(config.Mail.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("loading mail templates: %w", err)
	}
	if config.IsDevelopment() {
		templates.Watch()
	}

	if config.Mail.SMTPHost == "" {
		return &logMailer{baseURL: config.BaseURL}, nil
	}

	client, err := mail.NewClient(config.Mail.SMTPHost,
		mail.WithPort(config.Mail.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(config.Mail.Username),
		mail.WithPassword(config.Mail.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &smtpMailer{
		client:     client,
		templates:  templates,
		baseURL:    config.BaseURL,
		from:       config.Mail.From,
		adminEmail: config.Mail.AdminEmail,
	}, nil
}

type smtpMailer struct {
	client     *mail.Client
	templates  *Templates
	baseURL    string
	from       string
	adminEmail string
}

func (s *smtpMailer) SendVerification(email, username, token string) error {
	body, err := s.templates.Render(TemplateVerification, VerificationData{
		Username: username,
		Link:     s.link("/auth/verify", token),
	})
	if err != nil {
		return err
	}
	return s.send(email, "Confirm your email address", body)
}

func (s *smtpMailer) SendPasswordReset(email, username, token string) error {
	body, err := s.templates.Render(TemplatePasswordReset, PasswordResetData{
		Username: username,
		Link:     s.link("/auth/reset-password", token),
	})
	if err != nil {
		return err
	}
	return s.send(email, "Password reset", body)
}

func (s *smtpMailer) SendAdminNotification(subject, body string) error {
	if s.adminEmail == "" {
		log.Warnf("admin notification dropped, ADMIN_EMAIL is not set")
		return nil
	}
	rendered, err := s.templates.Render(TemplateAdminNotification, AdminNotificationData{
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}
	return s.send(s.adminEmail, "Admin notification: "+subject, rendered)
}

func (s *smtpMailer) link(route, token string) string {
	return s.baseURL + route + "?token=" + url.QueryEscape(token)
}

func (s *smtpMailer) send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := s.client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// logMailer stands in when no SMTP relay is configured. It only logs the
// links so local flows can still be exercised by hand.
type logMailer struct {
	baseURL string
}

func (l *logMailer) SendVerification(email, username, token string) error {
	log.Infof("verification mail for %s (%s): %s/auth/verify?token=%s", username, email, l.baseURL, token)
	return nil
}

func (l *logMailer) SendPasswordReset(email, username, token string) error {
	log.Infof("password reset mail for %s (%s): %s/auth/reset-password?token=%s", username, email, l.baseURL, token)
	return nil
}

func (l *logMailer) SendAdminNotification(subject, body string) error {
	log.Infof("admin notification: %s: %s", subject, body)
	return nil
}
