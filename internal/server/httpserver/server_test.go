package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/assets"
	"github.com/dmitrijs2005/dailyroutine/internal/server/auth"
	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
	"github.com/dmitrijs2005/dailyroutine/internal/server/mail"
	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyroutine/internal/server/services"
)

func TestMain(m *testing.M) {
	auth.UseMinCost()
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.HTTPAddress = "127.0.0.1:0"
	cfg.LoginRateLimit = 0
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*HTTPServer, *services.ActivityService) {
	t.Helper()
	logger := logging.Nop()
	m := repomanager.NewMemoryRepositoryManager(cfg.TagStorage)
	feed := services.NewActivityService(m, logger)
	mailer := mail.NewLogSender(logger)
	svc := Services{
		Users:      services.NewUserService(m, cfg, assets.NewAvatars(assets.NewMemoryStore("http://cdn.test")), mailer, feed, logger),
		Tags:       services.NewTagService(m, logger),
		Tasks:      services.NewTaskService(m, logger),
		Events:     services.NewEventService(m, feed, logger),
		Activities: feed,
		Invites:    services.NewInviteService(m, cfg, mailer, logger),
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = feed.Wait(ctx)
	})
	return NewHTTPServer(cfg, logger, svc), feed
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// signUp registers and logs in, returning the access token.
func signUp(t *testing.T, h http.Handler, name, email string) (string, models.Profile) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{"name": name, "email": email, "password": "secret123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[services.LoginResult](t, rec)
	return res.AccessToken, res.User
}

func TestAuthorized_ShortCircuits(t *testing.T) {
	// no services: reaching a handler would panic and answer 500
	s := NewHTTPServer(testConfig(), logging.Nop(), Services{})
	h := s.Handler()

	wrongPurpose, err := auth.GenerateVerifyToken("u1", s.jwtSecret, time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken("u1", s.jwtSecret, -time.Minute)
	require.NoError(t, err)

	for _, path := range []string{"/api/user/profile", "/api/task", "/api/event", "/api/tags", "/api/activates", "/api/send/invite"} {
		for name, token := range map[string]string{"missing": "", "garbage": "abc", "verify token": wrongPurpose, "expired": expired} {
			t.Run(path+" "+name, func(t *testing.T) {
				rec := do(t, h, http.MethodGet, path, token, nil)
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
			})
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set(common.AuthorizationHeaderName, "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", common.ErrorValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrAlreadyVerified), http.StatusBadRequest},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrRefreshTokenExpired, http.StatusUnauthorized},
		{fmt.Errorf("%w: task", common.ErrorNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: email", common.ErrorConflict), http.StatusConflict},
		{common.ErrorInternal, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	s := NewHTTPServer(testConfig(), logging.Nop(), Services{})
	rec := httptest.NewRecorder()
	s.writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[messageResponse](t, rec)
	assert.Equal(t, common.InternalErrorMessage, body.Message)
	assert.Equal(t, "error", body.Status)
}

func TestRecoverer(t *testing.T) {
	s := NewHTTPServer(testConfig(), logging.Nop(), Services{})
	h := s.recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.CORSOrigin = "http://localhost:3000"
	s := NewHTTPServer(cfg, logging.Nop(), Services{})

	rec := do(t, s.Handler(), http.MethodOptions, "/api/task", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestHealthAndMetrics(t *testing.T) {
	s := NewHTTPServer(testConfig(), logging.Nop(), Services{})
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dailyroutine_http_requests_total{method="GET",route="GET /healthz",status="200"}`)

	rec = do(t, h, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThrottledAuthRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateLimit = 0.001
	cfg.LoginRateBurst = 2
	s, _ := newTestServer(t, cfg)
	h := s.Handler()

	body := map[string]string{"email": "nobody@example.com", "password": "secret123"}
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodPost, "/api/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodPost, "/api/auth/login", "", body).Code)

	rec := do(t, h, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestIPLimiter_SweepsIdle(t *testing.T) {
	l := newIPLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))

	now = now.Add(limiterIdle + time.Second)
	assert.True(t, l.allow("10.0.0.2"))
	assert.Len(t, l.entries, 1)
}

func TestAuthFlow(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{"name": "Alice", "email": "bad", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/auth/register", "", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token, profile := signUp(t, h, "Alice", "alice@example.com")
	assert.Equal(t, "alice@example.com", profile.Email)

	rec = do(t, h, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "Alice", got["name"])
	assert.NotContains(t, got, "passwordHash")

	rec = do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	verify, err := auth.GenerateVerifyToken(profile.ID, s.jwtSecret, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/auth/verify/"+verify, "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/auth/verify/"+verify, "", nil).Code)
}

func TestRefreshEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()
	signUp(t, h, "Alice", "alice@example.com")

	rec := do(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
	res := decode[services.LoginResult](t, rec)

	rec = do(t, h, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": res.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decode[services.TokenPair](t, rec)
	assert.NotEmpty(t, pair.AccessToken)

	rec = do(t, h, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": res.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserEndpoints(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()
	aliceToken, alice := signUp(t, h, "Alice", "alice@example.com")
	_, bob := signUp(t, h, "Bob", "bob@example.com")

	rec := do(t, h, http.MethodPatch, "/api/user/update-profile", aliceToken, map[string]string{"email": "bob@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/user/update-profile", aliceToken, map[string]string{"name": "Alice C"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice C", decode[models.Profile](t, rec).Name)

	rec = do(t, h, http.MethodPatch, "/api/user/update-password", aliceToken, map[string]string{"oldPassword": "wrong", "newPassword": "another1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/user/sleipner", aliceToken, map[string]string{"id": bob.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/user/sleipner", aliceToken, map[string]string{"id": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/user/sleipner?page=1&perPage=5", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	contacts := decode[[]models.PublicUser](t, rec)
	require.Len(t, contacts, 1)
	assert.Equal(t, bob.ID, contacts[0].ID)

	rec = do(t, h, http.MethodDelete, "/api/user/sleipner/"+bob.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/user/search?nameOremail=BO&page=x", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]models.PublicUser](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, bob.ID, found[0].ID)
	assert.NotEqual(t, alice.ID, found[0].ID)
}

func TestAvatarUpload(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()
	token, _ := signUp(t, h, "Alice", "alice@example.com")

	upload := func(filename string, data []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile(avatarFormField, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPatch, "/api/user/profile-picture", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 20, 20))))

	assert.Equal(t, http.StatusBadRequest, upload("avatar.bmp", img.Bytes()).Code)

	rec := upload("avatar.png", img.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[models.Profile](t, rec)
	assert.Contains(t, p.Avatar.Small.URL, "http://cdn.test/avatars/")

	rec = do(t, h, http.MethodPatch, "/api/user/profile-picture", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskAndTagEndpoints(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()
	token, _ := signUp(t, h, "Alice", "alice@example.com")

	rec := do(t, h, http.MethodPatch, "/api/tags", token, map[string]string{"name": "Work", "color": "#f00"})
	require.Equal(t, http.StatusCreated, rec.Code)
	tag := decode[models.Tag](t, rec)

	rec = do(t, h, http.MethodPatch, "/api/tags", token, map[string]string{"id": tag.ID, "name": "Dup"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/task", token, map[string]any{"tags": []string{tag.ID}})
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode[models.Task](t, rec)
	assert.Equal(t, services.DefaultTaskName, task.Name)
	require.Len(t, task.Tags, 1)

	rec = do(t, h, http.MethodPatch, "/api/task/"+task.ID, token, map[string]string{"status": "Done"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TaskStatusDone, decode[models.Task](t, rec).Status)

	rec = do(t, h, http.MethodPatch, "/api/task/"+task.ID, token, map[string]string{"status": "Whenever"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/task", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Task](t, rec), 1)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/api/task/"+task.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/task/"+task.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/task/"+task.ID, token, nil).Code)

	rec = do(t, h, http.MethodDelete, "/api/tags/"+tag.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[services.DeleteResult](t, rec).Deleted)
	rec = do(t, h, http.MethodDelete, "/api/tags/"+tag.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[services.DeleteResult](t, rec).Deleted)
}

func TestEventEndpoints(t *testing.T) {
	s, feed := newTestServer(t, testConfig())
	h := s.Handler()
	token, _ := signUp(t, h, "Alice", "alice@example.com")
	_, bob := signUp(t, h, "Bob", "bob@example.com")

	rec := do(t, h, http.MethodPost, "/api/event", token, map[string]any{"title": "Sync", "date": "2024-13-01", "starttime": "10:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/event", token, map[string]any{
		"title": "Sync", "date": "2024-06-01", "starttime": "10:00", "sleipner": []string{bob.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decode[map[string]any](t, rec)
	id := event["id"].(string)
	assert.Len(t, event["sleipner"], 1)

	rec = do(t, h, http.MethodPatch, "/api/event/"+id, token, map[string]any{"sleipner": []string{bob.ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string]any](t, rec)["sleipner"], 2)

	rec = do(t, h, http.MethodGet, "/api/event", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	grouped := decode[map[string][]map[string]any](t, rec)
	assert.Len(t, grouped["2024-06-01"], 1)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/event/"+id, token, nil).Code)

	rec = do(t, h, http.MethodDelete, "/api/event/"+id, token, nil)
	assert.True(t, decode[services.DeleteResult](t, rec).Deleted)
	rec = do(t, h, http.MethodDelete, "/api/event/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[services.DeleteResult](t, rec).Deleted)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, feed.Wait(ctx))

	rec = do(t, h, http.MethodGet, "/api/activates?page=1&perPage=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	// one login, one create, one update
	assert.Len(t, decode[[]models.Activity](t, rec), 3)
}

func TestInviteEndpoints(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()
	token, _ := signUp(t, h, "Alice", "alice@example.com")

	rec := do(t, h, http.MethodPost, "/api/send/invite", token, map[string]string{"recipientEmail": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/send/invite", token, map[string]string{"recipientEmail": "eve@example.com", "message": "hi"})
	require.Equal(t, http.StatusCreated, rec.Code)
	inv := decode[models.Invite](t, rec)
	assert.Equal(t, models.InviteStatusPending, inv.Status)

	rec = do(t, h, http.MethodGet, "/api/send/invite", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Invite](t, rec), 1)

	rec = do(t, h, http.MethodPatch, "/api/send/invite/"+inv.ID, token, map[string]string{"status": "rejected"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.InviteStatusRejected, decode[models.Invite](t, rec).Status)
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := NewHTTPServer(testConfig(), logging.Nop(), Services{})

	listen, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, listen) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listen.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
