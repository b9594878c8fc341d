// Package mail sends notification messages to site administrators.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/domodwyer/mailyak/v3"

	"riffmates/internal/config"
	"riffmates/internal/logging"
)

// Notifier delivers administrator notifications.
type Notifier interface {
	NotifyComment(ctx context.Context, name, comment string) error
}

// New returns an SMTP notifier, or one that only logs when no mail host is
// configured.
func New(cfg config.MailConfig) Notifier {
	if cfg.Host == "" {
		return LogNotifier{}
	}
	return &SMTPNotifier{cfg: cfg}
}

// SMTPNotifier sends mail through the configured relay.
type SMTPNotifier struct {
	cfg config.MailConfig
}

// NotifyComment mails the administrator about a submitted comment.
func (n *SMTPNotifier) NotifyComment(ctx context.Context, name, comment string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := n.compose(name, comment)
	if err := msg.Send(); err != nil {
		return fmt.Errorf("send comment mail: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) compose(name, comment string) *mailyak.MailYak {
	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}

	msg := mailyak.New(n.cfg.Host+":"+strconv.Itoa(n.cfg.Port), auth)
	msg.From(n.cfg.From)
	msg.To(n.cfg.AdminEmail)
	msg.Subject("Received comment")
	msg.Plain().Set(commentBody(name, comment))
	return msg
}

func commentBody(name, comment string) string {
	return fmt.Sprintf("Received comment from %s\n\n%s\n", name, comment)
}

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct{}

func (LogNotifier) NotifyComment(ctx context.Context, name, comment string) error {
	logging.WithContext(ctx).Info().
		Str("name", name).
		Int("length", len(comment)).
		Msg("comment received (mail disabled)")
	return nil
}
