package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophident/internal/server/auth"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Input arrives as query parameters or an urlencoded form body; both are
// merged by ParseForm.

var (
	nameRules = []validation.Rule{validation.Length(3, 64)}

	passwordRules = []validation.Rule{
		validation.Required,
		validation.Length(5, 0),
		validation.By(maxBytes(auth.MaxPasswordBytes)),
	}
)

func maxBytes(n int) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if len(s) > n {
			return errors.New("the length must be no more than 72 bytes")
		}
		return nil
	}
}

// optional returns nil for an absent or blank value.
func optional(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.Form.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

type tokenRequest struct {
	Username string
	Password string
}

func parseTokenRequest(r *http.Request) (tokenRequest, error) {
	if err := r.ParseForm(); err != nil {
		return tokenRequest{}, validation.Errors{"form": err}
	}
	req := tokenRequest{
		Username: strings.TrimSpace(r.Form.Get("username")),
		Password: r.Form.Get("password"),
	}
	return req, req.Validate()
}

func (r tokenRequest) Validate() error {
	return validation.Errors{
		"username": validation.Validate(r.Username, validation.Required),
		"password": validation.Validate(r.Password, validation.Required),
	}.Filter()
}

type createUserRequest struct {
	FirstName string
	LastName  *string
	Password  string
	Email     string
}

func parseCreateUserRequest(r *http.Request) (createUserRequest, error) {
	if err := r.ParseForm(); err != nil {
		return createUserRequest{}, validation.Errors{"form": err}
	}
	req := createUserRequest{
		FirstName: strings.TrimSpace(r.Form.Get("first_name")),
		LastName:  optional(r, "last_name"),
		Password:  r.Form.Get("hashed_password"),
		Email:     strings.TrimSpace(r.Form.Get("email")),
	}
	return req, req.Validate()
}

func (r createUserRequest) Validate() error {
	return validation.Errors{
		"first_name":      validation.Validate(r.FirstName, append([]validation.Rule{validation.Required}, nameRules...)...),
		"last_name":       validation.Validate(r.LastName, nameRules...),
		"hashed_password": validation.Validate(r.Password, passwordRules...),
		"email":           validation.Validate(r.Email, validation.Required, is.Email),
	}.Filter()
}

type changePasswordRequest struct {
	CurrentPassword string
	NewPassword     string
}

func parseChangePasswordRequest(r *http.Request) (changePasswordRequest, error) {
	if err := r.ParseForm(); err != nil {
		return changePasswordRequest{}, validation.Errors{"form": err}
	}
	req := changePasswordRequest{
		CurrentPassword: r.Form.Get("current_password"),
		NewPassword:     r.Form.Get("new_password"),
	}
	return req, req.Validate()
}

func (r changePasswordRequest) Validate() error {
	return validation.Errors{
		"current_password": validation.Validate(r.CurrentPassword, passwordRules...),
		"new_password":     validation.Validate(r.NewPassword, passwordRules...),
	}.Filter()
}

type changeFirstNameRequest struct {
	FirstName string
}

func parseChangeFirstNameRequest(r *http.Request) (changeFirstNameRequest, error) {
	if err := r.ParseForm(); err != nil {
		return changeFirstNameRequest{}, validation.Errors{"form": err}
	}
	req := changeFirstNameRequest{FirstName: strings.TrimSpace(r.Form.Get("first_name"))}
	return req, validation.Errors{
		"first_name": validation.Validate(req.FirstName, append([]validation.Rule{validation.Required}, nameRules...)...),
	}.Filter()
}

// changeLastNameRequest with a nil LastName clears the stored value.
type changeLastNameRequest struct {
	LastName *string
}

func parseChangeLastNameRequest(r *http.Request) (changeLastNameRequest, error) {
	if err := r.ParseForm(); err != nil {
		return changeLastNameRequest{}, validation.Errors{"form": err}
	}
	req := changeLastNameRequest{LastName: optional(r, "last_name")}
	return req, validation.Errors{
		"last_name": validation.Validate(req.LastName, nameRules...),
	}.Filter()
}
