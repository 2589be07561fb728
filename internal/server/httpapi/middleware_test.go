package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/gophident/internal/server/config"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestCORS_Preflight(t *testing.T) {
	h := cors(config.CORSConfig{
		Origins:     []string{"https://app.example"},
		Methods:     []string{"GET", "POST"},
		Headers:     []string{"Authorization"},
		Credentials: true,
	})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/token", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	h := cors(config.CORSConfig{Origins: []string{"https://app.example"}})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardWithCredentialsEchoesOrigin(t *testing.T) {
	h := cors(config.CORSConfig{Origins: []string{"*"}, Methods: []string{"*"}, Headers: []string{"*"}, Credentials: true})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://any.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Custom")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://any.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, defaultCORSMethods, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Authorization, X-Custom", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	h := cors(config.CORSConfig{Origins: []string{"*"}})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://any.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	h := cors(config.CORSConfig{Origins: []string{"*"}})(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestBearerToken(t *testing.T) {
	tests := map[string]struct {
		header string
		want   string
		ok     bool
	}{
		"valid":       {"Bearer abc.def.ghi", "abc.def.ghi", true},
		"lower":       {"bearer abc", "abc", true},
		"empty":       {"", "", false},
		"basic":       {"Basic abc", "", false},
		"blank token": {"Bearer   ", "", false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := bearerToken(req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
