package services

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"bloodline/internal/config"
)

// IMailService covers every outbound mail the platform sends. Sending is
// always fire-and-forget from the caller's point of view; failures are
// logged, never surfaced to the customer.
type IMailService interface {
	SendWelcomeMail(to, fullName string) error
	SendPasswordChangedMail(to, fullName string) error
	NotifyResultAvailable(to, fullName, serviceName, requestID string) error
}

type mailData struct {
	Title     string
	Greeting  string
	Intro     string
	ButtonURL string
	ButtonTxt string
	Year      int
}

const mailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background:#f4f6f8; margin:0; padding:24px;">
  <div style="max-width:560px; margin:0 auto; background:#ffffff; border-radius:8px; padding:32px;">
    <h2 style="color:#1a3c6e; margin-top:0;">{{.Title}}</h2>
    <p>{{.Greeting}}</p>
    <p>{{.Intro}}</p>
    {{if .ButtonURL}}
    <p style="text-align:center; margin:32px 0;">
      <a href="{{.ButtonURL}}" style="background:#1a3c6e; color:#ffffff; padding:12px 28px; border-radius:6px; text-decoration:none;">{{.ButtonTxt}}</a>
    </p>
    {{end}}
    <hr style="border:none; border-top:1px solid #e3e8ee; margin:24px 0;">
    <p style="color:#8898aa; font-size:12px;">&copy; {{.Year}} Bloodline DNA Testing Service</p>
  </div>
</body>
</html>`

type smtpMailService struct {
	cfg    config.SMTPConfig
	front  string
	tpl    *template.Template
	logger *zap.Logger
}

// NewMailService returns a gomail-backed sender, or a logging no-op when the
// SMTP host is not configured so local development works without a relay.
func NewMailService(cfg config.SMTPConfig, frontendURL string, logger *zap.Logger) IMailService {
	if cfg.Host == "" {
		logger.Warn("smtp host not configured, outbound mail disabled")
		return &noopMailService{logger: logger}
	}
	return &smtpMailService{
		cfg:    cfg,
		front:  frontendURL,
		tpl:    template.Must(template.New("mail").Parse(mailTemplate)),
		logger: logger,
	}
}

func (s *smtpMailService) SendWelcomeMail(to, fullName string) error {
	return s.send(to, "Welcome to Bloodline", mailData{
		Title:     "Welcome to Bloodline",
		Greeting:  greet(fullName),
		Intro:     "Your account has been created. You can now browse our DNA testing services and book an appointment.",
		ButtonURL: s.front,
		ButtonTxt: "Browse services",
		Year:      time.Now().Year(),
	})
}

func (s *smtpMailService) SendPasswordChangedMail(to, fullName string) error {
	return s.send(to, "Your password was changed", mailData{
		Title:    "Password changed",
		Greeting: greet(fullName),
		Intro:    "The password for your Bloodline account was just changed. If this was not you, contact support immediately.",
		Year:     time.Now().Year(),
	})
}

func (s *smtpMailService) NotifyResultAvailable(to, fullName, serviceName, requestID string) error {
	return s.send(to, "Your test result is ready", mailData{
		Title:     "Your test result is ready",
		Greeting:  greet(fullName),
		Intro:     fmt.Sprintf("The result for your %s test has been verified and is now available in your account.", serviceName),
		ButtonURL: fmt.Sprintf("%s/requests/%s", s.front, requestID),
		ButtonTxt: "View result",
		Year:      time.Now().Year(),
	})
}

func (s *smtpMailService) send(to, subject string, data mailData) error {
	var body bytes.Buffer
	if err := s.tpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render mail template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	s.logger.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func greet(fullName string) string {
	if fullName == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hello %s,", fullName)
}

// mailNotifier adapts IMailService to the lifecycle's fire-and-forget
// notification hook.
type mailNotifier struct {
	mail   IMailService
	logger *zap.Logger
}

func NewResultNotifier(mail IMailService, logger *zap.Logger) ResultNotifier {
	return &mailNotifier{mail: mail, logger: logger}
}

func (m *mailNotifier) NotifyResultAvailable(email, fullName, serviceName string, requestID uuid.UUID) {
	go func() {
		if err := m.mail.NotifyResultAvailable(email, fullName, serviceName, requestID.String()); err != nil {
			m.logger.Warn("result notification failed",
				zap.String("email", email),
				zap.String("request_id", requestID.String()),
				zap.Error(err))
		}
	}()
}

type noopMailService struct {
	logger *zap.Logger
}

func (n *noopMailService) SendWelcomeMail(to, _ string) error {
	n.logger.Info("mail skipped (no smtp)", zap.String("to", to), zap.String("kind", "welcome"))
	return nil
}

func (n *noopMailService) SendPasswordChangedMail(to, _ string) error {
	n.logger.Info("mail skipped (no smtp)", zap.String("to", to), zap.String("kind", "password_changed"))
	return nil
}

func (n *noopMailService) NotifyResultAvailable(to, _, _, _ string) error {
	n.logger.Info("mail skipped (no smtp)", zap.String("to", to), zap.String("kind", "result_available"))
	return nil
}
