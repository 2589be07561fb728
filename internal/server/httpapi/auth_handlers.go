package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophident/internal/server/services"
)

type createUserResponse struct {
	User  userResponse          `json:"user"`
	Token *services.AccessToken `json:"token"`
}

// token handles POST /auth/token (OAuth2 password grant shape; username
// carries the email).
func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	req, err := parseTokenRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	s.countOutcome("login", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, token)
}

// createUser handles POST /auth/create-user. The hashed_password field
// holds the plaintext password.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	req, err := parseCreateUserRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, token, err := s.auth.Register(r.Context(), services.Registration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	s.countOutcome("register", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusCreated, createUserResponse{User: newUserResponse(user), Token: token})
}
