package services

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends password-reset mail over plain SMTP.
type Mailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

var ErrMailNotConfigured = errors.New("mail is not configured")

func (m *Mailer) configured() bool {
	return m.Host != "" && m.User != "" && m.Pass != "" && m.From != ""
}

// SendPasswordReset mails a reset link carrying the token.
func (m *Mailer) SendPasswordReset(to, token, baseURL string) error {
	if !m.configured() {
		return ErrMailNotConfigured
	}

	baseURL = strings.TrimRight(baseURL, "/")
	resetLink := fmt.Sprintf("%s/reset?token=%s", baseURL, token)

	subject := "SpookIn password reset"
	body := fmt.Sprintf("Use this link to reset your password:\n\n%s\n\nIf you did not request a reset, you can ignore this email.", resetLink)

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}
