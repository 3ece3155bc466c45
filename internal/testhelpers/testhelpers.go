package testhelpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/poofware/handbook-service/internal/app"
	"github.com/poofware/handbook-service/internal/config"
	"github.com/poofware/handbook-service/internal/repositories"
)

// TestHelper runs the real router against the database named by TEST_DB_URL.
type TestHelper struct {
	T      *testing.T
	Ctx    context.Context
	App    *app.App
	Server *httptest.Server
}

// NewTestHelper applies the schema, empties every table and starts a server.
// The test is skipped when TEST_DB_URL is unset.
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	dbURL := os.Getenv("TEST_DB_URL")
	if dbURL == "" {
		t.Skip("TEST_DB_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, dbURL)
	require.NoError(t, err, "connect to test DB")

	require.NoError(t, repositories.ApplySchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE handbook_element_versions, handbook_elements, handbook_versions, handbooks RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "truncate tables")

	cfg := &config.Config{
		OrganizationName: config.OrganizationName,
		AppName:          config.AppName,
		Env:              "test",
		DBUrl:            dbURL,
		Pagination:       config.Pagination{DefaultLimit: 10, DefaultOffset: 0, MaxLimit: 100},
	}
	a := app.New(cfg, pool)
	srv := httptest.NewServer(a.Router())

	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return &TestHelper{T: t, Ctx: ctx, App: a, Server: srv}
}

// Do sends body (JSON-encoded unless nil) and returns status and raw response.
func (h *TestHelper) Do(method, path string, body any) (int, []byte) {
	h.T.Helper()
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(h.T, err)
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(h.Ctx, method, h.Server.URL+path, rdr)
	require.NoError(h.T, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.Server.Client().Do(req)
	require.NoError(h.T, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.T, err)
	return resp.StatusCode, raw
}

// DoJSON is Do followed by decoding the response into out.
func (h *TestHelper) DoJSON(method, path string, body, out any) int {
	h.T.Helper()
	status, raw := h.Do(method, path, body)
	if out != nil && len(raw) > 0 {
		require.NoError(h.T, json.Unmarshal(raw, out), string(raw))
	}
	return status
}
