package app

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-gym/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("APP_BASE_PATH", "/gym")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_SECRET_FILE", "")
	t.Setenv("MINESWEEPER_ROWS", "6")
	t.Setenv("MINESWEEPER_COLS", "6")
	t.Setenv("MINESWEEPER_MINES", "6")
	t.Setenv("MINESWEEPER_SEED", "")

	a := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, a.Init(context.Background(), false))
	t.Cleanup(a.Close)
	return a
}

func TestServeStdio(t *testing.T) {
	a := newTestApp(t)

	in := strings.Join([]string{
		`{"name": "setup", "arguments": {"seed": 5}}`,
		``,
		`{"name": "flag", "arguments": {"row": 0, "col": 0}}`,
		`{"name": "reveal", "arguments": {"row": 6, "col": 0}}`,
		`{"name": "evaluate"}`,
		`{"name": "dig", "arguments": {}}`,
		`not json`,
	}, "\n")
	var out strings.Builder
	require.NoError(t, a.ServeStdio(context.Background(), strings.NewReader(in), &out))

	var responses []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	for scanner.Scan() {
		var resp map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	require.Len(t, responses, 6)

	setup := responses[0]["result"].(map[string]any)
	assert.Equal(t, "ready", setup["status"])
	board := setup["board"].(map[string]any)
	assert.Equal(t, 6.0, board["rows"])
	assert.Equal(t, 6.0, board["num_mines"])

	assert.Equal(t, "flagged", responses[1]["result"].(map[string]any)["status"])
	assert.Equal(t, "out_of_bounds", responses[2]["kind"])
	assert.Equal(t, 0.0, responses[3]["result"].(map[string]any)["reward"])
	assert.Equal(t, "invalid_argument", responses[4]["kind"])
	assert.Equal(t, "dig", responses[4]["name"])
	assert.Equal(t, "invalid_argument", responses[5]["kind"])
}

func TestServeStdioStopsOnCancel(t *testing.T) {
	a := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out strings.Builder
	err := a.ServeStdio(ctx, strings.NewReader(`{"name": "get_board"}`), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestRoutesUnderBasePath(t *testing.T) {
	a := newTestApp(t)
	h := a.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gym/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/gym/v1/actions/setup", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"num_mines":6`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gym/v1/stats", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/board", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthEnabledWithSecret(t *testing.T) {
	a := newTestApp(t)
	a.jwt = config.NewJWTWithSecret([]byte("secret"))
	h := a.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gym/v1/actions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gym/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := a.Token("trainer")
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodGet, "/gym/v1/actions", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
