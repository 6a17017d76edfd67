package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/auth"
	"github.com/vovakirdan/msgboard/internal/service/messages"
	"github.com/vovakirdan/msgboard/internal/store"
	"github.com/vovakirdan/msgboard/internal/store/sqlite"
)

const testJWTSecret = "test-secret"

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", sqlite.ApplySchema)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store, jwtSecret string) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return auth.NewService(st, jwtConfig)
}

type testEnv struct {
	router *gin.Engine
	store  store.Store
	auth   *auth.Service
}

func newTestEnv(t *testing.T, opts messages.Options) *testEnv {
	t.Helper()

	st := createTestStore(t)
	authService := createTestAuthService(t, st, testJWTSecret)
	disabledLogger := zerolog.Nop()

	return &testEnv{
		router: NewRouter(authService, messages.New(st, opts), &disabledLogger),
		store:  st,
		auth:   authService,
	}
}

// register creates an account and returns its bearer token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Username: username, Password: "password123"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	decode(t, rec, &resp)
	return resp.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// createMessage posts a message and returns its response body.
func (e *testEnv) createMessage(t *testing.T, token, text string) MessageResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/messages", token, map[string]string{"text": text})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create message: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message MessageResponse `json:"message"`
	}
	decode(t, rec, &resp)
	return resp.Message
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
