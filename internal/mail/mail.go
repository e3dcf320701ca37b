package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/KathiraveluLab/BHV/internal/model"
)

// Mailer delivers a single message. Delivery failure is advisory: it
// must never roll back state the caller has already persisted.
type Mailer interface {
	Deliver(ctx context.Context, recipient string, subject string, body string) error
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	sender   string
	timeout  time.Duration
}

func NewSMTP(host string, port int, username string, password string, sender string) *smtpMailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
		timeout:  10 * time.Second,
	}
}

func (m *smtpMailer) Deliver(ctx context.Context, recipient string, subject string, body string) error {
	if m.username == "" || m.password == "" {
		return fmt.Errorf("%w: mail credentials not configured", model.ErrorDeliveryFailed)
	}

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	addr := net.JoinHostPort(m.host, fmt.Sprintf("%d", m.port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("%w: dialing %s: %v", model.ErrorDeliveryFailed, addr, err)
	}
	conn.SetDeadline(time.Now().Add(timeout))

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: smtp handshake: %v", model.ErrorDeliveryFailed, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("%w: starttls: %v", model.ErrorDeliveryFailed, err)
		}
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("%w: smtp auth: %v", model.ErrorDeliveryFailed, err)
	}

	if err := client.Mail(m.sender); err != nil {
		return fmt.Errorf("%w: mail from: %v", model.ErrorDeliveryFailed, err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("%w: rcpt to: %v", model.ErrorDeliveryFailed, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%w: smtp data: %v", model.ErrorDeliveryFailed, err)
	}

	message := strings.Join([]string{
		"From: " + m.sender,
		"To: " + recipient,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	if _, err := w.Write([]byte(message)); err != nil {
		return fmt.Errorf("%w: writing message: %v", model.ErrorDeliveryFailed, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: closing message: %v", model.ErrorDeliveryFailed, err)
	}

	return client.Quit()
}
