package notify

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

// ProviderConfig selects and configures an email transport.
type ProviderConfig struct {
	Provider       string
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// NewEmailSender picks a transport. "auto" prefers SendGrid when a key is set, then SES
// when a client is available, and otherwise falls back to the stub.
func NewEmailSender(cfg ProviderConfig, ses *sesv2.Client, logger *logging.Logger) EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	sendgridCfg := SendGridConfig{APIKey: cfg.SendGridAPIKey, FromEmail: cfg.FromEmail, FromName: cfg.FromName}
	sesCfg := SESConfig{FromEmail: cfg.FromEmail, FromName: cfg.FromName}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "stub":
		return NewStubEmailSender(logger)
	case "sendgrid":
		if sender := NewSendGridSender(sendgridCfg, logger); sender != nil {
			return sender
		}
		logger.Warn("sendgrid selected but SENDGRID_API_KEY is empty; using stub email sender")
		return NewStubEmailSender(logger)
	case "ses":
		if sender := NewSESSender(ses, sesCfg, logger); sender != nil {
			return sender
		}
		logger.Warn("ses selected but no SES client is available; using stub email sender")
		return NewStubEmailSender(logger)
	}

	if sender := NewSendGridSender(sendgridCfg, logger); sender != nil {
		return sender
	}
	if sender := NewSESSender(ses, sesCfg, logger); sender != nil && cfg.FromEmail != "" {
		return sender
	}
	return NewStubEmailSender(logger)
}
