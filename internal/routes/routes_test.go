package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poofware/handbook-service/internal/config"
	"github.com/poofware/handbook-service/internal/controllers"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(pingErr error) http.Handler {
	page := config.Pagination{DefaultLimit: 10, MaxLimit: 100}
	return NewRouter(Controllers{
		Health:   controllers.NewHealthController(stubPinger{err: pingErr}),
		Handbook: controllers.NewHandbookController(nil, page),
		Element:  controllers.NewElementController(nil, page),
	})
}

func TestHealthRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, Health, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	newTestRouter(errors.New("db down")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, Health, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsRoute(t *testing.T) {
	router := newTestRouter(nil)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, Health, nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, Metrics, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "handbook_http_requests_total"))
}

func TestNonNumericIDIsNotRouted(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/element/actual/abc/", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWrongMethod(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, PostHandbook, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
