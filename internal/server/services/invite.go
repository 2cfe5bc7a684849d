package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
	"github.com/dmitrijs2005/dailyroutine/internal/server/mail"
	"github.com/dmitrijs2005/dailyroutine/internal/server/metrics"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyroutine/internal/validatex"
)

// InviteInput describes an invitation. Link defaults to the app address.
type InviteInput struct {
	RecipientEmail string `json:"recipientEmail"`
	Message        string `json:"message"`
	Link           string `json:"navigateLink"`
}

// InviteService mails invitations and tracks their answers.
type InviteService struct {
	repomanager repomanager.RepositoryManager
	mailer      mail.Sender
	logger      logging.Logger
	now         func() time.Time
	appURL      string
}

// NewInviteService constructs an InviteService that links mails to cfg.AppURL.
func NewInviteService(m repomanager.RepositoryManager, cfg *config.Config, mailer mail.Sender, logger logging.Logger) *InviteService {
	return &InviteService{repomanager: m, mailer: mailer, logger: logger, now: time.Now, appURL: cfg.AppURL}
}

// Send mails an invitation from senderID and stores it as pending. The
// invite is stored only after the mail was accepted by the transport.
func (s *InviteService) Send(ctx context.Context, senderID string, in InviteInput) (*models.Invite, error) {
	recipient := validatex.NormalizeEmail(in.RecipientEmail)
	if !validatex.Email(recipient) {
		return nil, invalid("invalid recipient email")
	}

	sender, err := s.repomanager.Users().GetByID(ctx, senderID)
	if err != nil {
		return nil, internal(ctx, s.logger, "send invite", err)
	}

	link := strings.TrimSpace(in.Link)
	if link == "" {
		link = s.appURL
	}
	msg, err := mail.Invite(recipient, mail.InviteData{
		SenderName:  sender.Name,
		SenderImage: sender.Avatar.Small.URL,
		Message:     in.Message,
		Link:        link,
	})
	if err != nil {
		return nil, internal(ctx, s.logger, "render invite", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.MailFailures.WithLabelValues("invite").Inc()
		return nil, internal(ctx, s.logger, "mail invite", err)
	}

	now := s.now().UTC()
	inv := &models.Invite{
		ID:             uuid.NewString(),
		SenderEmail:    sender.Email,
		RecipientEmail: recipient,
		Message:        in.Message,
		Status:         models.InviteStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repomanager.Invites().Create(ctx, inv); err != nil {
		return nil, internal(ctx, s.logger, "store invite", err)
	}
	return inv, nil
}

// ListSent returns the invitations senderID has sent, newest first.
func (s *InviteService) ListSent(ctx context.Context, senderID string) ([]models.Invite, error) {
	sender, err := s.repomanager.Users().GetByID(ctx, senderID)
	if err != nil {
		return nil, internal(ctx, s.logger, "list invites", err)
	}
	out, err := s.repomanager.Invites().ListBySender(ctx, sender.Email)
	if err != nil {
		return nil, internal(ctx, s.logger, "list invites", err)
	}
	return out, nil
}

// Respond records the answer to an invitation.
func (s *InviteService) Respond(ctx context.Context, id string, status models.InviteStatus) (*models.Invite, error) {
	if status != models.InviteStatusAccepted && status != models.InviteStatusRejected {
		return nil, invalid("status must be %q or %q", models.InviteStatusAccepted, models.InviteStatusRejected)
	}
	repo := s.repomanager.Invites()
	if err := repo.UpdateStatus(ctx, id, status, s.now().UTC()); err != nil {
		return nil, internal(ctx, s.logger, "respond to invite", err)
	}
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(ctx, s.logger, "respond to invite", err)
	}
	return inv, nil
}
