package notify

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPTransport delivers emails over SMTP, optionally with STARTTLS.
type SMTPTransport struct {
	host        string
	port        string
	username    string
	password    string
	fromAddress string
	fromName    string
	useTLS      bool
}

// SMTPConfig configures the SMTP transport.
type SMTPConfig struct {
	Host        string // SMTP server hostname
	Port        string // SMTP server port (typically 587 for TLS, 25 for plaintext)
	Username    string // SMTP username (optional)
	Password    string // SMTP password (optional)
	FromAddress string // From email address
	FromName    string // From display name
	UseTLS      bool   // Use STARTTLS (recommended for port 587)
}

// NewSMTPTransport creates a new SMTP transport.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	return &SMTPTransport{
		host:        cfg.Host,
		port:        cfg.Port,
		username:    cfg.Username,
		password:    cfg.Password,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		useTLS:      cfg.UseTLS,
	}
}

// Send delivers one HTML email to all recipients.
func (t *SMTPTransport) Send(recipients []string, subject, htmlBody string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients given")
	}

	from := t.fromAddress
	if t.fromName != "" {
		from = fmt.Sprintf("%s <%s>", t.fromName, t.fromAddress)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		from, strings.Join(recipients, ", "), subject, htmlBody,
	))

	addr := fmt.Sprintf("%s:%s", t.host, t.port)

	var auth smtp.Auth
	if t.username != "" && t.password != "" {
		auth = smtp.PlainAuth("", t.username, t.password, t.host)
	}

	if t.useTLS {
		return t.sendMailTLS(addr, auth, recipients, msg)
	}
	return smtp.SendMail(addr, auth, t.fromAddress, recipients, msg)
}

// sendMailTLS sends the message over a connection upgraded with STARTTLS.
func (t *SMTPTransport) sendMailTLS(addr string, auth smtp.Auth, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{
		ServerName: t.host,
	}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(t.fromAddress); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
