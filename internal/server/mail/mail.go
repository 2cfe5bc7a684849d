// Package mail delivers transactional email: account verification links
// and invitations. The transport is chosen by configuration.
package mail

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
)

// Message is one HTML email to a single recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the Sender selected by cfg.MailTransport.
func New(cfg *config.Config, logger logging.Logger) (Sender, error) {
	switch cfg.MailTransport {
	case config.MailTransportSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom), nil
	case config.MailTransportResend:
		return NewResendSender(cfg.ResendAPIKey, cfg.MailFrom), nil
	case config.MailTransportLog:
		return NewLogSender(logger), nil
	}
	return nil, fmt.Errorf("unknown mail transport %q", cfg.MailTransport)
}
