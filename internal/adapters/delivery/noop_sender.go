package delivery

import (
	"context"

	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
)

// NoopSender implements the EmailSender interface without delivering
// anything. Used when SMTP delivery is disabled; generated emails are still
// logged to the store.
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a sender that only logs
func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// Send records the delivery attempt in the log and discards the email
func (s *NoopSender) Send(_ context.Context, to string, email *core.GeneratedEmail) error {
	s.logger.Debug("Email delivery disabled, skipping send",
		zap.String("to", to),
		zap.String("subject", email.Subject),
		zap.String("template_type", email.TemplateType))
	return nil
}
