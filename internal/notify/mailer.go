package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/baharkarakas/inventory-backend/internal/metrics"
	"github.com/baharkarakas/inventory-backend/internal/worker"
	"github.com/wneessen/go-mail"
)

type Message struct {
	Kind    string // metrics label: activation or reset
	To      string
	Subject string
	HTML    string
}

// Mailer is the outbound transport.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // sender address; Username when empty
	FromName string
}

func (c SMTPConfig) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

type SMTPMailer struct {
	cfg    SMTPConfig
	client *mail.Client
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.sender() == "" {
		return nil, errors.New("smtp: EMAIL_FROM or EMAIL_USER must be set")
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{cfg: cfg, client: c}, nil
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.sender()); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer only logs; used when no SMTP host is configured.
type LogMailer struct {
	Log *slog.Logger
}

func (l LogMailer) Send(_ context.Context, m Message) error {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("mail (not delivered, no smtp host)", "to", m.To, "subject", m.Subject)
	// body carries a live token
	log.Debug("mail body", "to", m.To, "body", m.HTML)
	return nil
}

// AsyncMailer hands messages to the worker pool. Send only fails when the
// job cannot be queued; delivery errors are logged by the worker, and the
// delivery result is counted there.
type AsyncMailer struct {
	next Mailer
	pool *worker.Pool
	log  *slog.Logger
}

func NewAsyncMailer(next Mailer, pool *worker.Pool, log *slog.Logger) *AsyncMailer {
	if log == nil {
		log = slog.Default()
	}
	return &AsyncMailer{next: next, pool: pool, log: log}
}

func (a *AsyncMailer) Send(_ context.Context, m Message) error {
	return a.pool.Submit(func() {
		// request context is gone by now
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := a.next.Send(ctx, m)
		if err != nil {
			a.log.Error("async mail failed", "to", m.To, "subject", m.Subject, "err", err)
		}
		if m.Kind != "" {
			metrics.MailSent.WithLabelValues(m.Kind, deliveryResult(err)).Inc()
		}
	})
}

func deliveryResult(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
