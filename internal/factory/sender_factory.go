package factory

import (
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/adapters/delivery"
	"github.com/smx/phishsim/internal/config"
	"github.com/smx/phishsim/internal/core"
)

// SenderFactory creates email senders based on configuration
type SenderFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSenderFactory creates a new sender factory
func NewSenderFactory(cfg *config.Config, logger *zap.Logger) *SenderFactory {
	return &SenderFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSender creates an email sender based on the configuration
func (f *SenderFactory) CreateSender() (core.EmailSender, error) {
	smtpCfg := f.cfg.GetSMTP()

	if !smtpCfg.Enabled {
		return delivery.NewNoopSender(f.logger), nil
	}

	return delivery.NewSMTPSender(
		smtpCfg.Address,
		smtpCfg.From,
		smtpCfg.Username,
		smtpCfg.Password,
		smtpCfg.StartTLS,
		f.logger,
	), nil
}
