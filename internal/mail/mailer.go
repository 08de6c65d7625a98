package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/quickdesk/helpdesk-service/internal/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers email. Delivery is best-effort throughout the service:
// failures are logged by callers and never abort the triggering operation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type smtpSender struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPSender builds a sender over plain SMTP. When SMTP credentials are
// absent it logs the message instead of delivering it.
func NewSMTPSender(cfg config.MailConfig, logger *zap.Logger) Sender {
	return &smtpSender{cfg: cfg, logger: logger}
}

func (s *smtpSender) Send(_ context.Context, msg Message) error {
	if s.cfg.Host == "" || s.cfg.User == "" {
		s.logger.Info("smtp not configured; logging email instead",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return nil
	}

	raw := fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n%s",
		s.cfg.FromName, s.cfg.From, msg.To, msg.Subject, msg.Body)

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, []byte(raw))
}
