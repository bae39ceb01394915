package infra

import (
	"fmt"
	"net/smtp"

	"dukapos/internal/config"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"
)

// Mailer sends transactional mail (shift summaries, receipts) over SMTP.
type Mailer struct {
	cfg *config.Config
	log zerolog.Logger
}

func NewMailer(cfg *config.Config, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log.With().Str("component", "mailer").Logger()}
}

// Send delivers a plain-text message, optionally attaching files by path.
func (m *Mailer) Send(to, subject, body string, attachments ...string) error {
	if m.cfg.SMTPHost == "" {
		m.log.Warn().Str("to", to).Str("subject", subject).Msg("smtp not configured, dropping mail")
		return nil
	}

	e := email.NewEmail()
	e.From = m.cfg.SMTPUser
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)
	for _, path := range attachments {
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("attaching %s: %w", path, err)
		}
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	return e.Send(addr, auth)
}
