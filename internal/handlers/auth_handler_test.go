package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dentacare/booking-api/internal/config"
)

func newAuthRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/logout", h.Logout)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// These paths reject before any store access, so the handler runs without a
// database.
func TestLoginInputValidation(t *testing.T) {
	h := NewHandler(nil, &config.Config{JWTSecret: "s"}, nil)
	r := newAuthRouter(h)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing fields", `{}`, "Please provide an email and password"},
		{"missing password", `{"email":"alice@example.com"}`, "Please provide an email and password"},
		{"bad email shape", `{"email":"alice","password":"secret123"}`, "valid email"},
		{"short password", `{"email":"alice@example.com","password":"abc"}`, "at least 6 characters"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, "/auth/login", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
		})
	}
}

func TestRegisterInputValidation(t *testing.T) {
	h := NewHandler(nil, &config.Config{JWTSecret: "s"}, nil)
	r := newAuthRouter(h)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing fields", `{"name":"Alice"}`, "Please provide"},
		{"short password", `{"name":"Alice","telephone":"08012345678","email":"alice@example.com","password":"abc"}`, "at least 6 characters"},
		{"bad telephone", `{"name":"Alice","telephone":"12345","email":"alice@example.com","password":"secret123"}`, "valid telephone"},
		{"bad email", `{"name":"Alice","telephone":"08012345678","email":"alice","password":"secret123"}`, "valid email"},
		{"bad role", `{"name":"Alice","telephone":"08012345678","email":"alice@example.com","password":"secret123","role":"root"}`, "Role must be"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, "/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
		})
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	h := NewHandler(nil, &config.Config{JWTSecret: "s"}, nil)
	r := newAuthRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "token=none")
	assert.Contains(t, cookie, "Max-Age=10")
	assert.Contains(t, cookie, "HttpOnly")
}

func TestDuplicateFieldNaming(t *testing.T) {
	err := errDuplicate{`E11000 duplicate key error collection: dentacare.users index: email_1 dup key`}
	assert.Equal(t, "email", duplicateField(err))

	err = errDuplicate{`E11000 duplicate key error collection: dentacare.users index: telephone_1 dup key`}
	assert.Equal(t, "telephone", duplicateField(err))

	err = errDuplicate{`something else entirely`}
	assert.Equal(t, "field", duplicateField(err))
}

type errDuplicate struct{ msg string }

func (e errDuplicate) Error() string { return e.msg }
