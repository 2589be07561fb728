package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophident/internal/server/models"
)

// userResponse never includes the password digest.
type userResponse struct {
	ID        int64   `json:"id"`
	Activate  bool    `json:"activate"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     string  `json:"email"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Activate:  u.Activate,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func (s *Server) me(w http.ResponseWriter, r *http.Request, user *models.User) {
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request, user *models.User) {
	req, err := parseChangePasswordRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.accounts.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword)
	s.countOutcome("change_password", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(updated))
}

func (s *Server) changeFirstName(w http.ResponseWriter, r *http.Request, user *models.User) {
	req, err := parseChangeFirstNameRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.accounts.ChangeFirstName(r.Context(), user, req.FirstName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(updated))
}

func (s *Server) changeLastName(w http.ResponseWriter, r *http.Request, user *models.User) {
	req, err := parseChangeLastNameRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.accounts.ChangeLastName(r.Context(), user, req.LastName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(updated))
}
