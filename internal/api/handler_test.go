package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EscapeThePaycheck/internal/content"
	"EscapeThePaycheck/internal/dice"
	"EscapeThePaycheck/internal/engine"
	"EscapeThePaycheck/internal/identity"
	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/reporter"
	"EscapeThePaycheck/internal/session"
	"EscapeThePaycheck/internal/store"
)

type fakeFeed struct{ posts []model.Post }

func (f *fakeFeed) CreatePost(_ context.Context, p model.Post) error {
	f.posts = append(f.posts, p)
	return nil
}

type fixture struct {
	srv   *httptest.Server
	store *store.MemoryStore
	feed  *fakeFeed
}

func tiles(types ...model.TileType) []model.Tile {
	out := make([]model.Tile, len(types))
	for i, t := range types {
		out[i] = model.Tile{Type: t, Label: string(t)}
	}
	return out
}

// newFixture serves a game on the given board where every die roll is a 1.
func newFixture(t *testing.T, board []model.Tile) *fixture {
	t.Helper()
	cat := content.Default()
	cat.Board = board

	st := store.NewMemoryStore()
	feed := &fakeFeed{}
	rep := reporter.New(st, st, nil, feed)
	reg := session.NewRegistry(func() *engine.Engine {
		return engine.New(cat, engine.DefaultRules(),
			engine.WithSource(dice.NewSequence(0)),
			engine.WithVictoryHook(rep))
	}, rep, 0)

	h := &Handler{
		Sessions: reg,
		Catalog:  cat,
		Identity: identity.HeaderResolver{Header: "X-Username"},
		History:  st,
		Sharer:   rep,
	}
	mux := http.NewServeMux()
	h.Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, store: st, feed: feed}
}

func (f *fixture) do(t *testing.T, method, path, user string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-Username", user)
	}
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func TestPublicEndpoints(t *testing.T) {
	f := newFixture(t, content.Default().Board)

	code, body := f.do(t, "GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"ok":true,"sessions":0}`, string(body))

	code, body = f.do(t, "GET", "/api/careers", "", nil)
	assert.Equal(t, http.StatusOK, code)
	careers := decode[struct{ Careers []model.Career }](t, body)
	assert.Len(t, careers.Careers, 4)

	code, body = f.do(t, "GET", "/api/board", "", nil)
	assert.Equal(t, http.StatusOK, code)
	board := decode[struct {
		Size  int
		Tiles []model.Tile
	}](t, body)
	assert.Equal(t, 16, board.Size)
	assert.Equal(t, model.TilePaycheck, board.Tiles[0].Type)
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t, content.Default().Board)
	code, body := f.do(t, "POST", "/api/games", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `{"success":false,"error":"sign in to play"}`, string(body))
}

func TestGameLifecycle(t *testing.T) {
	f := newFixture(t, tiles(model.TilePaycheck, model.TileBigDeal, model.TilePaycheck))

	code, _ := f.do(t, "GET", "/api/games/current", "ada", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, "POST", "/api/games", "ada", map[string]string{"career": "astronaut"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := f.do(t, "POST", "/api/games", "ada", map[string]string{"career": "developer"})
	require.Equal(t, http.StatusCreated, code, string(body))
	snap := decode[model.Snapshot](t, body)
	assert.Equal(t, "developer", snap.CareerKey)

	code, body = f.do(t, "POST", "/api/games/current/roll", "ada", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	res := decode[engine.TurnResult](t, body)
	assert.Equal(t, 1, res.DieValue)
	require.NotNil(t, res.Pending)

	code, _ = f.do(t, "POST", "/api/games/current/roll", "ada", nil)
	assert.Equal(t, http.StatusConflict, code, "rolling during a pending decision")

	code, _ = f.do(t, "POST", "/api/games/current/decision", "ada", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = f.do(t, "POST", "/api/games/current/decision", "ada", map[string]any{"accept": false})
	require.Equal(t, http.StatusOK, code, string(body))
	res = decode[engine.TurnResult](t, body)
	assert.Nil(t, res.Pending)
	assert.Equal(t, string(engine.PhaseIdle), res.State.Phase)

	code, _ = f.do(t, "POST", "/api/games/current/decision", "ada", map[string]any{"accept": true})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = f.do(t, "POST", "/api/games/current/share", "ada", nil)
	assert.Equal(t, http.StatusConflict, code, "only escaped games can be shared")

	code, _ = f.do(t, "DELETE", "/api/games/current", "ada", nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = f.do(t, "DELETE", "/api/games/current", "ada", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = f.do(t, "GET", "/api/history", "ada", nil)
	require.Equal(t, http.StatusOK, code)
	hist := decode[struct {
		History []model.HistoryRecord
		Profile model.Profile
	}](t, body)
	require.Len(t, hist.History, 1)
	assert.False(t, hist.History[0].Escaped)
	assert.Equal(t, "Novice", hist.Profile.Level)
}

func TestVictoryAndShare(t *testing.T) {
	f := newFixture(t, tiles(model.TileBoost, model.TileBoost))

	code, _ := f.do(t, "POST", "/api/games/current/share", "ada", nil)
	assert.Equal(t, http.StatusNotFound, code, "nothing to share before a game starts")

	code, _ = f.do(t, "POST", "/api/games", "ada", map[string]string{"career": "developer"})
	require.Equal(t, http.StatusCreated, code)

	// 60, 75, 94, ... passive income passes the 2600 salary after enough boosts.
	var escapedAt int
	for i := 1; i <= 40 && escapedAt == 0; i++ {
		code, body := f.do(t, "POST", "/api/games/current/roll", "ada", nil)
		require.Equal(t, http.StatusOK, code)
		if res := decode[engine.TurnResult](t, body); res.Victory {
			escapedAt = i
			assert.Contains(t, res.VictoryMessage, "You escaped the paycheck!")
		}
	}
	require.NotZero(t, escapedAt)

	code, body := f.do(t, "POST", "/api/games/current/share", "ada", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	require.Len(t, f.feed.posts, 1)
	assert.Contains(t, f.feed.posts[0].Content, "I just escaped the paycheck trap")

	code, body = f.do(t, "GET", "/api/history?limit=5", "ada", nil)
	require.Equal(t, http.StatusOK, code)
	hist := decode[struct {
		History []model.HistoryRecord
		Profile model.Profile
	}](t, body)
	require.Len(t, hist.History, 1)
	assert.True(t, hist.History[0].Escaped)
	assert.Equal(t, escapedAt, hist.History[0].Turns)
	assert.GreaterOrEqual(t, hist.Profile.ProfileScore, 60)

	code, _ = f.do(t, "GET", "/api/history?limit=zero", "ada", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCurrentSummary_NeverStarted(t *testing.T) {
	_, err := currentSummary(engine.New(content.Default(), engine.DefaultRules()))
	assert.ErrorIs(t, err, session.ErrNoGame)
}
