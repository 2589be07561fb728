// Package httpapi exposes the identity services over HTTP under /api/v1.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophident/internal/common"
	"github.com/dmitrijs2005/gophident/internal/logging"
	"github.com/dmitrijs2005/gophident/internal/server/config"
	"github.com/dmitrijs2005/gophident/internal/server/models"
	"github.com/dmitrijs2005/gophident/internal/server/services"
	"github.com/gorilla/mux"
)

const APIPrefix = "/api/v1"

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*services.AccessToken, error)
	Register(ctx context.Context, reg services.Registration) (*models.User, *services.AccessToken, error)
}

type UserResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

type AccountManager interface {
	ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) (*models.User, error)
	ChangeFirstName(ctx context.Context, user *models.User, firstName string) (*models.User, error)
	ChangeLastName(ctx context.Context, user *models.User, lastName *string) (*models.User, error)
}

type Server struct {
	auth     Authenticator
	users    UserResolver
	accounts AccountManager
	metrics  *Metrics
	cors     config.CORSConfig
	log      logging.Logger
}

func NewServer(auth Authenticator, users UserResolver, accounts AccountManager, metrics *Metrics, cors config.CORSConfig, log logging.Logger) *Server {
	return &Server{
		auth:     auth,
		users:    users,
		accounts: accounts,
		metrics:  metrics,
		cors:     cors,
		log:      log.With("module", "http"),
	}
}

// Handler builds the routed handler with its middleware chain.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.metrics.middleware)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix(APIPrefix).Subrouter()
	for _, r := range []*mux.Router{router, api} {
		r.NotFoundHandler = http.HandlerFunc(notFound)
		r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}

	api.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api.HandleFunc("/auth/token", s.token).Methods(http.MethodPost)
	api.HandleFunc("/auth/create-user", s.createUser).Methods(http.MethodPost)

	api.HandleFunc("/user/me", s.withCurrentUser(s.me)).Methods(http.MethodGet)
	api.HandleFunc("/user/change-password", s.withCurrentUser(s.changePassword)).Methods(http.MethodPost)
	api.HandleFunc("/user/change-first-name", s.withCurrentUser(s.changeFirstName)).Methods(http.MethodPost)
	api.HandleFunc("/user/change-last-name", s.withCurrentUser(s.changeLastName)).Methods(http.MethodPost)

	var h http.Handler = router
	h = cors(s.cors)(h)
	h = s.logRequests(h)
	h = s.recoverPanics(h)
	h = requestID(h)
	return h
}

func (s *Server) loggerFor(r *http.Request) logging.Logger {
	if id := RequestIDFromContext(r.Context()); id != "" {
		return s.log.With("request_id", id)
	}
	return s.log
}

// bearerToken extracts the credentials of "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get(common.AuthorizationHeaderName), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

type userHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

// withCurrentUser resolves the bearer token and passes the live account to
// next. Missing credentials and unresolvable tokens both end in 401.
func (s *Server) withCurrentUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.writeError(w, r, common.ErrNotAuthenticated)
			return
		}

		user, err := s.users.Resolve(r.Context(), token)
		if err != nil {
			s.countOutcome("resolve", err)
			s.writeError(w, r, err)
			return
		}

		next(w, r, user)
	}
}

func (s *Server) countOutcome(operation string, err error) {
	switch {
	case err == nil:
		s.metrics.authOutcome(operation, outcomeSuccess)
	case common.KindOf(err) != 0:
		s.metrics.authOutcome(operation, outcomeRejected)
	default:
		s.metrics.authOutcome(operation, outcomeError)
	}
}

// Router-level failures use the same detail body as handler errors.
func notFound(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusNotFound, "Not Found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
