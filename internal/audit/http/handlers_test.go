package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gorgija/ehour/internal/api/http/middleware"
	"github.com/Gorgija/ehour/internal/audit/domain"
	"github.com/Gorgija/ehour/internal/auth"
	userdomain "github.com/Gorgija/ehour/internal/users/domain"
)

type stubAudits struct {
	err error
	got domain.AuditReportRequest
}

func (s *stubAudits) Page(_ context.Context, req domain.AuditReportRequest) (domain.AuditPage, error) {
	s.got = req
	return domain.AuditPage{Entries: []domain.AuditEntry{{ID: 1, Action: "POST /api/v1/users"}}, Total: 12}, s.err
}

func (s *stubAudits) All(_ context.Context, req domain.AuditReportRequest) ([]domain.AuditEntry, error) {
	s.got = req
	return []domain.AuditEntry{{ID: 1}, {ID: 2}}, s.err
}

func setupRouter(a Audits) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(a, nil).Register(r.Group("/audit"))
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestPage(t *testing.T) {
	stub := &stubAudits{}
	rr := get(setupRouter(stub), "/audit?action=delete&name=love&from=2024-01-01&to=2024-01-31&offset=20&max=10")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":12`)

	assert.Equal(t, "delete", stub.got.Action)
	assert.Equal(t, "love", stub.got.Name)
	require.NotNil(t, stub.got.Range.End)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *stub.got.Range.End)
	require.NotNil(t, stub.got.Offset)
	require.NotNil(t, stub.got.Max)
	assert.Equal(t, 20, *stub.got.Offset)
	assert.Equal(t, 10, *stub.got.Max)
}

func TestAll_IgnoresPaging(t *testing.T) {
	stub := &stubAudits{}
	rr := get(setupRouter(stub), "/audit/all?offset=20&max=10")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, stub.got.Offset)
	assert.Nil(t, stub.got.Max)
}

func TestPage_BadQuery(t *testing.T) {
	for _, target := range []string{"/audit?max=-1", "/audit?offset=x", "/audit?from=2024-02-01&to=2024-01-01"} {
		rr := get(setupRouter(&stubAudits{}), target)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestPage_ErrorMapping(t *testing.T) {
	rr := get(setupRouter(&stubAudits{err: domain.ErrInvalidRequest}), "/audit")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = get(setupRouter(&stubAudits{err: assert.AnError}), "/audit")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
}

type fakeRecorder struct {
	entries []*domain.AuditEntry
}

func (f *fakeRecorder) Record(_ context.Context, e *domain.AuditEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func auditedRouter(rec Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(middleware.WithRequestID(c.Request.Context(), "rid-1"))
		auth.SetUser(c, userdomain.User{ID: 4, FirstName: "Ada", LastName: "Lovelace"})
		c.Next()
	})
	r.Use(Middleware(rec, nil))
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/users/:id", func(c *gin.Context) { c.Status(http.StatusConflict) })
	r.POST("/users", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func TestMiddleware_RecordsWrites(t *testing.T) {
	rec := &fakeRecorder{}
	r := auditedRouter(rec)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/9?force=1", nil))
	require.Equal(t, http.StatusConflict, rr.Code)

	require.Len(t, rec.entries, 1)
	e := rec.entries[0]
	assert.Equal(t, "DELETE /users/9", e.Action)
	assert.Equal(t, "/users/:id", e.Page)
	assert.Equal(t, domain.ActionDelete, e.ActionType)
	assert.False(t, e.Success)
	assert.Equal(t, "rid-1", e.RequestID)
	require.NotNil(t, e.UserID)
	assert.Equal(t, int64(4), *e.UserID)
	assert.Equal(t, "Lovelace, Ada", e.UserFullName)

	var params map[string]any
	require.NoError(t, json.Unmarshal(e.Parameters, &params))
	assert.Equal(t, map[string]any{"id": "9", "force": "1"}, params)
}

func TestMiddleware_SkipsReads(t *testing.T) {
	rec := &fakeRecorder{}
	r := auditedRouter(rec)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/9", nil))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"password":"secret"}`)))

	require.Len(t, rec.entries, 1)
	assert.Equal(t, domain.ActionCreate, rec.entries[0].ActionType)
	assert.True(t, rec.entries[0].Success)
	assert.Nil(t, rec.entries[0].Parameters)
}
