package auth

import (
	"bytes"
	"encoding/json"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAuth(t *testing.T) (*Handler, Service) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	authService := NewAuthService(user.NewUserService(user.NewMemoryRepository()), NewJWTManager("test-secret", time.Hour))
	return NewHandler(authService, logger), authService
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body)))
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return w, response
}

func TestHandleSignUp(t *testing.T) {
	handler, _ := newTestAuth(t)

	w, response := postJSON(t, handler.HandleSignUp, `{"name":"Anna","email":"anna@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created successfully", response["message"])
	assert.NotEmpty(t, response["token"])
	created := response["user"].(map[string]interface{})
	assert.Equal(t, "anna@example.com", created["email"])
	assert.NotContains(t, created, "password")

	w, response = postJSON(t, handler.HandleSignUp, `{"name":"Anna","email":"anna@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", response["message"])

	w, _ = postJSON(t, handler.HandleSignUp, `{"name":"Bob","email":"bob@example.com","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSignIn(t *testing.T) {
	handler, _ := newTestAuth(t)
	postJSON(t, handler.HandleSignUp, `{"name":"Anna","email":"anna@example.com","password":"secret1"}`)

	w, response := postJSON(t, handler.HandleSignIn, `{"email":"anna@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Signed in successfully", response["message"])
	assert.NotEmpty(t, response["token"])

	w, response = postJSON(t, handler.HandleSignIn, `{"email":"anna@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", response["message"])

	w, _ = postJSON(t, handler.HandleSignIn, `{"email":"nobody@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAccessTokenMiddleware(t *testing.T) {
	handler, authService := newTestAuth(t)
	_, response := postJSON(t, handler.HandleSignUp, `{"name":"Anna","email":"anna@example.com","password":"secret1"}`)
	token := response["token"].(string)

	protected := authService.JWTAccessTokenMiddleware()(http.HandlerFunc(handler.HandleGetProfile))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", token, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestJWTAccessTokenMiddleware_UnknownUser(t *testing.T) {
	_, authService := newTestAuth(t)
	token, err := NewJWTManager("test-secret", time.Hour).GenerateAccessJWT("ghost")
	require.NoError(t, err)

	called := false
	protected := authService.JWTAccessTokenMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)

	id, ok := UserIDFromContext(WithUserID(req.Context(), "user-1"))
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)
}
