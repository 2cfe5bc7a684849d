package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/dailyroutine/internal/server/metrics"
)

func (s *HTTPServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.Handle("POST /api/auth/register", s.throttled(s.handleRegister))
	mux.Handle("POST /api/auth/login", s.throttled(s.handleLogin))
	mux.Handle("POST /api/auth/refresh", s.throttled(s.handleRefresh))
	mux.HandleFunc("GET /api/auth/verify/{token}", s.handleVerify)

	mux.Handle("GET /api/user/profile", s.authorized(s.handleProfile))
	mux.Handle("PATCH /api/user/update-profile", s.authorized(s.handleUpdateProfile))
	mux.Handle("PATCH /api/user/update-password", s.authorized(s.handleUpdatePassword))
	mux.Handle("PATCH /api/user/profile-picture", s.authorized(s.handleUpdateAvatar))
	mux.Handle("GET /api/user/search", s.authorized(s.handleSearchUsers))
	mux.Handle("POST /api/user/sleipner", s.authorized(s.handleAddContact))
	mux.Handle("GET /api/user/sleipner", s.authorized(s.handleListContacts))
	mux.Handle("DELETE /api/user/sleipner/{sleipnerId}", s.authorized(s.handleRemoveContact))

	mux.Handle("POST /api/task", s.authorized(s.handleCreateTask))
	mux.Handle("GET /api/task", s.authorized(s.handleListTasks))
	mux.Handle("GET /api/task/{taskId}", s.authorized(s.handleGetTask))
	mux.Handle("PATCH /api/task/{taskId}", s.authorized(s.handleUpdateTask))
	mux.Handle("DELETE /api/task/{taskId}", s.authorized(s.handleDeleteTask))

	mux.Handle("PATCH /api/tags", s.authorized(s.handleCreateTag))
	mux.Handle("GET /api/tags", s.authorized(s.handleListTags))
	mux.Handle("DELETE /api/tags/{tagId}", s.authorized(s.handleDeleteTag))

	mux.Handle("POST /api/event", s.authorized(s.handleCreateEvent))
	mux.Handle("GET /api/event", s.authorized(s.handleListEvents))
	mux.Handle("GET /api/event/{eventId}", s.authorized(s.handleGetEvent))
	mux.Handle("PATCH /api/event/{eventId}", s.authorized(s.handleUpdateEvent))
	mux.Handle("DELETE /api/event/{eventId}", s.authorized(s.handleDeleteEvent))

	mux.Handle("GET /api/activates", s.authorized(s.handleListActivities))

	mux.Handle("POST /api/send/invite", s.authorized(s.handleSendInvite))
	mux.Handle("GET /api/send/invite", s.authorized(s.handleListInvites))
	mux.Handle("PATCH /api/send/invite/{inviteId}", s.authorized(s.handleRespondInvite))

	return mux
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
