package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunal96k/tts-mock-test/internal/config"
	"github.com/kunal96k/tts-mock-test/pkg/auth"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.TokenVerifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier, err := auth.NewTokenVerifier("router-secret", "tts-mock-test", time.Hour)
	require.NoError(t, err)

	a := &app{cfg: &config.Config{
		RateLimit: config.RateLimitConfig{SubmitMax: 5, SubmitWindowSeconds: 60},
	}}
	return newRouter(a, verifier), verifier
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_AccessControl(t *testing.T) {
	router, verifier := newTestRouter(t)

	studentToken, err := verifier.GenerateToken(7, "alice", auth.RoleStudent)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"student route without token", http.MethodGet, "/api/attempts/me", "", http.StatusUnauthorized},
		{"start without token", http.MethodPost, "/api/tests/1/start", "", http.StatusUnauthorized},
		{"attempt by reference without token", http.MethodGet, "/api/attempts/ref/6f1c2d9e-1111-4a4a-9b9b-000000000001", "", http.StatusUnauthorized},
		{"admin route without token", http.MethodGet, "/api/admin/blueprints", "", http.StatusUnauthorized},
		{"admin route as student", http.MethodGet, "/api/admin/blueprints", studentToken, http.StatusForbidden},
		{"recount as student", http.MethodPost, "/api/admin/recount", studentToken, http.StatusForbidden},
		{"export as student", http.MethodGet, "/api/admin/tests/1/attempts/export", studentToken, http.StatusForbidden},
		{"invalid test id", http.MethodPost, "/api/tests/abc/start", studentToken, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := rootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"serve", "migrate", "export-attempts", "recount", "issue-token"})
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
}
