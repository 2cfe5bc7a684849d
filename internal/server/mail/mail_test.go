package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
)

func TestNew_SelectsTransport(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	s, err := New(cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	cfg.MailTransport = config.MailTransportSMTP
	s, err = New(cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	cfg.MailTransport = config.MailTransportResend
	s, err = New(cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, s)

	cfg.MailTransport = "pigeon"
	_, err = New(cfg, logging.Nop())
	require.Error(t, err)
}

func TestSMTPSender_Send(t *testing.T) {
	orig := sendMail
	t.Cleanup(func() { sendMail = orig })

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
		gotAuth smtp.Auth
	)
	sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, string(msg)
		return nil
	}

	s := NewSMTPSender("smtp.example.com", 587, "user", "pass", "Daily Routine <no-reply@example.com>")
	err := s.Send(context.Background(), Message{To: "bob@example.com", Subject: "Hi", HTML: "<p>hello</p>"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "no-reply@example.com", gotFrom)
	assert.Equal(t, []string{"bob@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Hi\r\n")
	assert.Contains(t, gotMsg, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(gotMsg, "\r\n\r\n<p>hello</p>"))
}

func TestSMTPSender_NoAuthWithoutUser(t *testing.T) {
	orig := sendMail
	t.Cleanup(func() { sendMail = orig })

	sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Nil(t, a)
		return errors.New("connection refused")
	}

	s := NewSMTPSender("localhost", 25, "", "", "no-reply@example.com")
	err := s.Send(context.Background(), Message{To: "bob@example.com"})
	require.ErrorContains(t, err, "connection refused")
}

func TestResendSender_Send(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewResendSender("re_key", "no-reply@example.com")
	s.endpoint = srv.URL

	require.NoError(t, s.Send(context.Background(), Message{To: "bob@example.com", Subject: "S", HTML: "<b>x</b>"}))
	assert.Equal(t, resendRequest{From: "no-reply@example.com", To: []string{"bob@example.com"}, Subject: "S", HTML: "<b>x</b>"}, got)
}

func TestResendSender_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	s := NewResendSender("re_key", "no-reply@example.com")
	s.endpoint = srv.URL

	err := s.Send(context.Background(), Message{To: "bob@example.com"})
	require.ErrorContains(t, err, "status 422")
}

func TestTemplates(t *testing.T) {
	msg, err := Verification("bob@example.com", VerificationData{Name: "Bob", Link: "http://app/verify/tok"})
	require.NoError(t, err)
	assert.Equal(t, VerificationSubject, msg.Subject)
	assert.Contains(t, msg.HTML, `href="http://app/verify/tok"`)
	assert.Contains(t, msg.HTML, "Bob")

	msg, err = Invite("eve@example.com", InviteData{SenderName: "<Alice>", Message: "join us", Link: "http://app"})
	require.NoError(t, err)
	assert.Equal(t, "eve@example.com", msg.To)
	assert.Contains(t, msg.HTML, "&lt;Alice&gt;")
	assert.Contains(t, msg.HTML, "join us")
	assert.NotContains(t, msg.HTML, "<img")
}
