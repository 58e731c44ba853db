package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Server   string
	Port     int
	User     string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTP sends plain-text mail, upgrading with STARTTLS when the server offers it.
type SMTP struct {
	cfg  SMTPConfig
	opts []mail.Option
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}
	return &SMTP{cfg: cfg, opts: opts}
}

var errHeaderInjection = errors.New("invalid characters in mail header")

func newMessage(from, to, subject, body string) (*mail.Msg, error) {
	if strings.ContainsAny(to+subject, "\r\n") {
		return nil, errHeaderInjection
	}
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)
	return m, nil
}

func (s *SMTP) Send(ctx context.Context, destination, subject, body string) error {
	m, err := newMessage(s.cfg.From, destination, subject, body)
	if err != nil {
		return err
	}
	c, err := mail.NewClient(s.cfg.Server, s.opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
