package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/bookworm/internal/server/services"
)

// Wire names match the original clients; unknown fields (such as a
// client-supplied admin flag) are deliberately dropped on decode.
type registerRequest struct {
	Email       string `json:"email"`
	UserName    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	JWT          string `json:"jwt"`
	RefreshToken string `json:"refreshToken"`
}

func tokenData(pair *services.TokenPair) tokenResponse {
	return tokenResponse{JWT: pair.AccessToken, RefreshToken: pair.RefreshToken}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}
	if req.Email == "" || req.UserName == "" || req.Password == "" {
		respondBadRequest(w, "email, username, and password are required")
		return
	}

	pair, err := s.users.Register(r.Context(), SessionFromContext(r.Context()), services.RegisterParams{
		Email:       req.Email,
		UserName:    req.UserName,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Registration successful.", tokenData(pair))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "malformed request body")
		return
	}

	pair, err := s.users.Login(r.Context(), SessionFromContext(r.Context()), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Login successful.", tokenData(pair))
}

// handleLogout acknowledges the sign-out and revokes the presented refresh
// token, if any. The access token cannot be revoked; it expires on its own.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := s.users.Logout(r.Context(), SessionFromContext(r.Context()), req.RefreshToken); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Successfully signed out.", nil)
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondBadRequest(w, "refreshToken is required")
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), SessionFromContext(r.Context()), req.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Token refreshed.", tokenData(pair))
}
