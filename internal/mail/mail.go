// Package mail sends account-verification codes over SMTP.
// The sender is optional infrastructure: when SMTP credentials are not
// configured, the auth service skips email verification entirely.
package mail

import (
	"fmt"
	"net/smtp"
)

// Sender delivers mail through a single SMTP account.
type Sender struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

// NewSender constructs a Sender. from falls back to username when empty.
func NewSender(host, port, username, password, from, fromName string) *Sender {
	if from == "" {
		from = username
	}
	return &Sender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

// SendVerificationCode emails a one-time verification code to a new account.
func (s *Sender) SendVerificationCode(to, code string) error {
	subject := "Verify your TripWeaver account"
	body := fmt.Sprintf(`Hello,

Welcome to TripWeaver! Your verification code is: %s

This code will expire in 15 minutes.

If you didn't create an account, please ignore this email.
`, code)

	return s.send(to, subject, body)
}

// send delivers one plain-text message.
func (s *Sender) send(to, subject, body string) error {
	if s.username == "" || s.password == "" {
		return fmt.Errorf("mail.Sender.send: credentials not configured")
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	message := fmt.Appendf(nil,
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.fromName, s.from, to, subject, body)

	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("mail.Sender.send: %w", err)
	}
	return nil
}
