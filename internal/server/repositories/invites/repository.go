// Package invites stores email invitations sent to prospective users.
package invites

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, inv *models.Invite) error
	GetByID(ctx context.Context, id string) (*models.Invite, error)
	// ListBySender returns invites sent from senderEmail, newest first.
	ListBySender(ctx context.Context, senderEmail string) ([]models.Invite, error)
	UpdateStatus(ctx context.Context, id string, status models.InviteStatus, at time.Time) error
}
