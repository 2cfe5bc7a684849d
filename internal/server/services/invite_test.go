package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/mail"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
)

func TestInviteService_Send(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")
	env.mailer.sent = nil

	inv, err := env.invites.Send(ctx, alice.ID, InviteInput{RecipientEmail: " Eve@Example.com ", Message: "join my board"})
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusPending, inv.Status)
	assert.Equal(t, "alice@example.com", inv.SenderEmail)
	assert.Equal(t, "eve@example.com", inv.RecipientEmail)

	sent := env.mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "eve@example.com", sent[0].To)
	assert.Equal(t, mail.InviteSubject, sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "Alice")
	assert.Contains(t, sent[0].HTML, env.cfg.AppURL)
	assert.Contains(t, sent[0].HTML, alice.Avatar.Small.URL)

	list, err := env.invites.ListSent(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inv.ID, list[0].ID)
}

func TestInviteService_SendErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")

	_, err := env.invites.Send(ctx, alice.ID, InviteInput{RecipientEmail: "eve"})
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.invites.Send(ctx, "missing", InviteInput{RecipientEmail: "eve@example.com"})
	require.ErrorIs(t, err, common.ErrorNotFound)

	env.mailer.err = errors.New("relay denied")
	_, err = env.invites.Send(ctx, alice.ID, InviteInput{RecipientEmail: "eve@example.com"})
	require.ErrorIs(t, err, common.ErrorInternal)

	list, err := env.invites.ListSent(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInviteService_Respond(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")
	inv, err := env.invites.Send(ctx, alice.ID, InviteInput{RecipientEmail: "eve@example.com", Link: "http://app.test/join"})
	require.NoError(t, err)

	_, err = env.invites.Respond(ctx, inv.ID, models.InviteStatusPending)
	require.ErrorIs(t, err, common.ErrorValidation)

	got, err := env.invites.Respond(ctx, inv.ID, models.InviteStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusAccepted, got.Status)

	_, err = env.invites.Respond(ctx, "missing", models.InviteStatusRejected)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
