package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/dailyroutine/internal/server/models"
	"github.com/dmitrijs2005/dailyroutine/internal/server/services"
)

type inviteStatusRequest struct {
	Status models.InviteStatus `json:"status"`
}

func (s *HTTPServer) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req services.EventInput
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	event, err := s.svc.Events.Create(r.Context(), userIDFrom(r.Context()), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (s *HTTPServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	grouped, err := s.svc.Events.ListGroupedByDate(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

func (s *HTTPServer) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.svc.Events.Get(r.Context(), r.PathValue("eventId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *HTTPServer) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req services.EventUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	event, err := s.svc.Events.Update(r.Context(), r.PathValue("eventId"), userIDFrom(r.Context()), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *HTTPServer) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Events.Delete(r.Context(), r.PathValue("eventId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleListActivities(w http.ResponseWriter, r *http.Request) {
	page, perPage := paging(r)
	feed, err := s.svc.Activities.List(r.Context(), userIDFrom(r.Context()), page, perPage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *HTTPServer) handleSendInvite(w http.ResponseWriter, r *http.Request) {
	var req services.InviteInput
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	inv, err := s.svc.Invites.Send(r.Context(), userIDFrom(r.Context()), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *HTTPServer) handleListInvites(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Invites.ListSent(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) handleRespondInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	inv, err := s.svc.Invites.Respond(r.Context(), r.PathValue("inviteId"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
