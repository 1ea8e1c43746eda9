package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"hackmap/internal/config"
	"hackmap/internal/infrastructure/metrics"
)

const breakerName = "smtp"

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks SMTP delivery when credentials are configured and falls
// back to logging the message otherwise.
func NewMailer(cfg config.SMTPConfig, logger zerolog.Logger, m *metrics.Metrics) Mailer {
	if strings.TrimSpace(cfg.User) == "" || strings.TrimSpace(cfg.Host) == "" {
		logger.Warn().Msg("smtp credentials not configured, emails will only be logged")
		return &LogMailer{logger: logger, metrics: m}
	}
	return NewSMTPMailer(cfg, logger, m)
}

type LogMailer struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Send(_ context.Context, msg Message) error {
	l.logger.Info().
		Str("to", msg.To).
		Str("template", msg.Template).
		Str("subject", msg.Subject).
		Msg("email not delivered, smtp disabled")
	l.metrics.EmailSent(msg.Template, nil)
	return nil
}

type SMTPMailer struct {
	cfg     config.SMTPConfig
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  zerolog.Logger
	metrics *metrics.Metrics

	send func(ctx context.Context, msg Message) error
}

func NewSMTPMailer(cfg config.SMTPConfig, logger zerolog.Logger, m *metrics.Metrics) *SMTPMailer {
	s := &SMTPMailer{
		cfg:     cfg,
		timeout: 30 * time.Second,
		logger:  logger,
		metrics: m,
	}
	s.send = s.deliver
	m.SetBreakerState(breakerName, 0)

	s.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			m.SetBreakerState(name, stateValue(to))
		},
	})
	return s
}

func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.send(ctx, msg)
	})
	s.metrics.EmailSent(msg.Template, err)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("smtp unavailable: %w", err)
		}
		return err
	}
	s.logger.Debug().Str("to", msg.To).Str("template", msg.Template).Msg("email sent")
	return nil
}

func (s *SMTPMailer) deliver(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	dialer := &net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect smtp: %w", err)
	}
	defer func() { _ = conn.Close() }()
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if s.cfg.Pass != "" {
		if err := client.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.User); err != nil {
		return fmt.Errorf("smtp sender: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(buildMIME(s.cfg.User, msg))); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	_ = client.Quit()
	return nil
}

func buildMIME(from string, msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: \"HackMap\" <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", encodeHeader(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return b.String()
}

// encodeHeader applies RFC 2047 encoding when the subject is not plain ASCII.
func encodeHeader(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.QEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

func stateValue(st gobreaker.State) float64 {
	switch st {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
