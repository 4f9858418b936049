package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/bookworm/internal/common"
)

type updateUserRequest struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleUserData(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	profile, err := s.users.Profile(r.Context(), SessionFromContext(r.Context()), claims.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "User data successfully returned", profile)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}

	if err := s.users.UpdateAttribute(r.Context(), SessionFromContext(r.Context()), claims.Email, req.Attribute, req.Value); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "User updated successfully", nil)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		respondBadRequest(w, "oldPassword and newPassword are required")
		return
	}

	if err := s.users.ChangePassword(r.Context(), SessionFromContext(r.Context()), claims.Email, req.OldPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Password updated successfully", nil)
}
