package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/exam-manager/exam-system/internal/core/ports"
)

// SMTPNotifier delivers mail over a plain SMTP endpoint.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPNotifier creates a notifier for the given SMTP address
// (host:port). user and pass are optional; when set, PLAIN auth is used.
func NewSMTPNotifier(addr, from, user, pass string) *SMTPNotifier {
	n := &SMTPNotifier{addr: addr, from: from}
	if user != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		n.auth = smtp.PlainAuth("", user, pass, host)
	}
	return n
}

func (n *SMTPNotifier) Send(_ context.Context, mail ports.Mail) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.from, mail.To, mail.Subject, mail.Body)

	if err := smtp.SendMail(n.addr, n.auth, n.from, []string{mail.To}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogNotifier writes mail to the log instead of delivering it. Used in
// development where no SMTP endpoint is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, mail ports.Mail) error {
	n.log.Info().
		Str("to", mail.To).
		Str("subject", mail.Subject).
		Str("body", mail.Body).
		Msg("mail (log notifier)")
	return nil
}
