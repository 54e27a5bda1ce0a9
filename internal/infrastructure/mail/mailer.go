// Package mail renders the run report to HTML and delivers it over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"SecurityNewsMonitor/internal/config"
	"SecurityNewsMonitor/internal/domain"
	"SecurityNewsMonitor/internal/ports"
)

// Mailer dispatches one report per run, at most once; the caller logs
// failures and never retries.
type Mailer struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

var _ ports.ReportDispatcher = (*Mailer)(nil)

// NewMailer registers SMTP connection details.
func NewMailer(cfg config.SMTPConfig, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Dispatch renders and sends the report email.
func (m *Mailer) Dispatch(ctx context.Context, report domain.RunReport) error {
	if !m.cfg.Configured() {
		return fmt.Errorf("smtp settings not configured")
	}

	body, err := renderReport(report)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(fmt.Sprintf("Security Alert: %d Vulnerabilities Affecting Your Vendors", len(report.Articles)))
	msg.SetBodyString(gomail.TypeTextHTML, body)

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
	}
	if m.cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.NoTLS))
	}

	client, err := gomail.NewClient(m.cfg.Server, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("report email sent", "to", m.cfg.To, "articles", len(report.Articles))
	}
	return nil
}
