package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gorgija/ehour/internal/auth"
	"github.com/Gorgija/ehour/internal/users/domain"
)

type stubPasswords struct {
	got string
	err error
}

func (s *stubPasswords) ChangePassword(_ context.Context, _ domain.User, _ int64, password string) error {
	s.got = password
	return s.err
}

func setupRouter(p Passwords) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetUser(c, domain.User{ID: 4, Username: "ada", LastName: "Lovelace", Active: true})
	})
	New(p, nil).Register(r.Group(""))
	return r
}

func TestGetProfile(t *testing.T) {
	rr := httptest.NewRecorder()
	setupRouter(&stubPasswords{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"ada"`)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestChangePassword(t *testing.T) {
	p := &stubPasswords{}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/me/password", strings.NewReader(`{"password":"long-enough"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(p).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "long-enough", p.got)
}

func TestChangePassword_Errors(t *testing.T) {
	tests := []struct {
		body string
		err  error
		code int
	}{
		{`{`, nil, http.StatusBadRequest},
		{`{"password":"x"}`, domain.ErrInvalidInput, http.StatusBadRequest},
		{`{"password":"long-enough"}`, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/me/password", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(&stubPasswords{err: tt.err}).ServeHTTP(rr, req)
		assert.Equal(t, tt.code, rr.Code, tt.body)
	}
}
