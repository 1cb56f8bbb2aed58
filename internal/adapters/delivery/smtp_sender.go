package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
)

// SMTPSender implements the EmailSender interface over an SMTP relay
type SMTPSender struct {
	addr     string
	from     string
	username string
	password string
	startTLS bool
	logger   *zap.Logger
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(addr, from, username, password string, startTLS bool, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		addr:     addr,
		from:     from,
		username: username,
		password: password,
		startTLS: startTLS,
		logger:   logger,
	}
}

// Send delivers a generated email to the given address via the relay
func (s *SMTPSender) Send(ctx context.Context, to string, email *core.GeneratedEmail) error {
	var client *smtp.Client
	var err error
	if s.startTLS {
		client, err = smtp.DialStartTLS(s.addr, nil)
	} else {
		client, err = smtp.Dial(s.addr)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay %s: %w", s.addr, err)
	}
	defer client.Close()

	if s.username != "" {
		auth := sasl.NewPlainClient("", s.username, s.password)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate with SMTP relay: %w", err)
		}
	}

	msg := s.buildMessage(to, email)
	if err := client.SendMail(s.from, []string{to}, strings.NewReader(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Delivered simulation email",
		zap.String("to", to),
		zap.String("subject", email.Subject),
		zap.String("template_type", email.TemplateType))

	return client.Quit()
}

func (s *SMTPSender) buildMessage(to string, email *core.GeneratedEmail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", email.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(email.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.String()
}
