package httpserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/dmitrijs2005/dailyroutine/internal/server/services"
)

const (
	avatarFormField = "profilePicture"
	maxAvatarBytes  = 5 << 20
)

type passwordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type contactRequest struct {
	ID string `json:"id"`
}

func (s *HTTPServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.svc.Users.Profile(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	profile, err := s.svc.Users.UpdateProfile(r.Context(), userIDFrom(r.Context()), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Users.UpdatePassword(r.Context(), userIDFrom(r.Context()), req.OldPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

func (s *HTTPServer) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+1<<10)
	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %s file is required", common.ErrorValidation, avatarFormField))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: unreadable upload", common.ErrorValidation))
		return
	}
	if len(data) > maxAvatarBytes {
		s.writeError(w, r, fmt.Errorf("%w: image must be at most %d bytes", common.ErrorValidation, maxAvatarBytes))
		return
	}

	profile, err := s.svc.Users.UpdateAvatar(r.Context(), userIDFrom(r.Context()), header.Filename, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	page, perPage := paging(r)
	users, err := s.svc.Users.Search(r.Context(), r.URL.Query().Get("nameOremail"), page, perPage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	profile, err := s.svc.Users.AddContact(r.Context(), userIDFrom(r.Context()), req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleListContacts(w http.ResponseWriter, r *http.Request) {
	page, perPage := paging(r)
	contacts, err := s.svc.Users.Contacts(r.Context(), userIDFrom(r.Context()), page, perPage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (s *HTTPServer) handleRemoveContact(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Users.RemoveContact(r.Context(), userIDFrom(r.Context()), r.PathValue("sleipnerId")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Sleipner removed successfully")
}
