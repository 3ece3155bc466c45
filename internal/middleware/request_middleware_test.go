package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poofware/handbook-service/internal/metrics"
)

func newTestRouter(seen *string) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, Instrument)
	r.HandleFunc("/element/actual/{handbook_id}/", func(w http.ResponseWriter, r *http.Request) {
		*seen = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}).Methods(http.MethodGet)
	return r
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	var seen string
	router := newTestRouter(&seen)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/element/actual/7/", nil))

	id := rr.Header().Get(HeaderRequestID)
	require.NotEmpty(t, id)
	assert.Equal(t, id, seen)
}

func TestRequestID_IncomingKept(t *testing.T) {
	var seen string
	router := newTestRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/element/actual/7/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", seen)
}

func TestInstrument_LabelsByRouteTemplate(t *testing.T) {
	var seen string
	router := newTestRouter(&seen)
	counter := metrics.HTTPRequestsTotal.WithLabelValues("/element/actual/{handbook_id}/", http.MethodGet, "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/element/actual/"+id+"/", nil))
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
}
