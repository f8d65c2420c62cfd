package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/aidar/crm-notify/internal/config"
)

// Mailer определяет интерфейс отправки писем
type Mailer interface {
	// Send отправляет письмо с HTML телом указанным получателям
	Send(ctx context.Context, subject, htmlBody, from string, to []string) error
}

// SMTPMailer реализует Mailer поверх SMTP сервера
type SMTPMailer struct {
	addr     string
	username string
	password string
	host     string
}

// NewSMTPMailer создает новый SMTPMailer
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		addr:     cfg.Addr(),
		username: cfg.Username,
		password: cfg.Password,
		host:     cfg.Host,
	}
}

// Send отправляет письмо через SMTP.
// net/smtp не поддерживает контекст, поэтому ctx проверяется только до отправки.
func (m *SMTPMailer) Send(ctx context.Context, subject, htmlBody, from string, to []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	msg := buildMessage(subject, htmlBody, from, to)
	if err := smtp.SendMail(m.addr, auth, from, to, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

// buildMessage собирает MIME сообщение с HTML телом
func buildMessage(subject, htmlBody, from string, to []string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return []byte(sb.String())
}

// LogMailer реализует Mailer логированием вместо отправки.
// Используется в разработке и тестах, когда SMTP сервер не настроен.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer создает новый LogMailer
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send логирует письмо вместо отправки
func (m *LogMailer) Send(_ context.Context, subject, htmlBody, from string, to []string) error {
	m.logger.Info("email suppressed (no SMTP host configured)",
		"subject", subject,
		"from", from,
		"to", to,
		"body_len", len(htmlBody),
	)
	return nil
}

// NewFromConfig выбирает реализацию Mailer по конфигурации
func NewFromConfig(cfg config.SMTPConfig, logger *slog.Logger) Mailer {
	if cfg.Host == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg)
}
