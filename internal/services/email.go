package services

import (
	"crypto/tls"
	"fmt"

	"github.com/estatehub/realestate-backend/internal/config"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(config *config.Config) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	return d.DialAndSend(m)
}

func (s *EmailService) SendWelcomeEmail(email, name string) error {
	subject := "Welcome to EstateHub"
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your EstateHub account is ready. Start browsing listings, save your
		favorites and reach out to agents directly.</p>
		<p><a href="%s">Go to EstateHub</a></p>
		<p>Best regards,<br>The EstateHub Team</p>
	`, name, s.config.BaseURL)

	return s.SendEmail(email, subject, body)
}

func (s *EmailService) SendPasswordResetEmail(email, resetToken string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.config.BaseURL, resetToken)

	subject := "Password Reset Request"
	body := fmt.Sprintf(`
		<h2>Password Reset Request</h2>
		<p>We received a request to reset the password for <strong>%s</strong>.</p>
		<p><a href="%s">Reset your password</a></p>
		<p>Or copy this link into your browser:</p>
		<p>%s</p>
		<p>The link expires in 1 hour. If you didn't request this, ignore this
		email.</p>
	`, email, resetLink, resetLink)

	return s.SendEmail(email, subject, body)
}
