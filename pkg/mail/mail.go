package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/arielsonkoue/mboashop-backend/pkg/config"
)

// Message is a plain-text transactional email.
type Message struct {
	To      []string
	Bcc     []string
	Subject string
	Body    string
}

// Sender delivers transactional mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client is a thin SMTP sender.
type Client struct {
	cfg config.MailConfig
}

func NewClient(cfg config.MailConfig) *Client {
	return &Client{cfg: cfg}
}

// Send delivers the message through the configured SMTP relay.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.cfg.Host == "" || c.cfg.From == "" {
		return errors.New("smtp host and from address are required")
	}
	if len(msg.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	recipients := append([]string{}, msg.To...)
	recipients = append(recipients, msg.Bcc...)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", c.cfg.From))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}
	return smtp.SendMail(addr, auth, c.cfg.From, recipients, []byte(sb.String()))
}
