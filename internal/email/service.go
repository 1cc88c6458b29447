package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/cadastro-saude/patient-registry/internal/config"
)

type Service interface {
	SendWelcome(ctx context.Context, email string, name string) error
}

// NewService returns an SMTP sender, or a sender that only logs when SMTP is not configured
func NewService(cfg config.SMTPConfig, logger zerolog.Logger) Service {
	if !cfg.Enabled() {
		return &logService{logger: logger}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	dialer sender
	from   string
	logger zerolog.Logger
}

func (s *smtpService) SendWelcome(ctx context.Context, email string, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Bem-vindo ao cadastro de pacientes")
	m.SetBody("text/plain", welcomeBody(name))

	// gomail has no context support; an abandoned dial finishes in the background
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send welcome email: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("failed to send welcome email: %w", ctx.Err())
	}
	s.logger.Debug().Str("to", email).Msg("welcome email sent")
	return nil
}

type logService struct {
	logger zerolog.Logger
}

func (s *logService) SendWelcome(_ context.Context, email string, _ string) error {
	s.logger.Debug().Str("to", email).Msg("smtp not configured, skipping welcome email")
	return nil
}

func welcomeBody(name string) string {
	return fmt.Sprintf("Olá %s,\n\nSua conta no cadastro de pacientes foi criada.\n", name)
}
