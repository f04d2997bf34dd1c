package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EscapeThePaycheck/internal/content"
	"EscapeThePaycheck/internal/dice"
	"EscapeThePaycheck/internal/engine"
	"EscapeThePaycheck/internal/identity"
	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/session"
)

// newTestServer serves a four-tile board where every roll is a 3.
func newTestServer(t *testing.T, types ...model.TileType) string {
	t.Helper()
	cat := content.Default()
	cat.Board = nil
	for _, tt := range types {
		cat.Board = append(cat.Board, model.Tile{Type: tt, Label: string(tt)})
	}
	reg := session.NewRegistry(func() *engine.Engine {
		return engine.New(cat, engine.DefaultRules(), engine.WithSource(dice.NewSequence(2)))
	}, nil, 0)
	srv := httptest.NewServer(NewServer(reg, identity.HeaderResolver{}, cat.Size(), time.Millisecond).Handler())
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMsg) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func read[T any](t *testing.T, conn *websocket.Conn) T {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestPlayOverWebsocket(t *testing.T) {
	url := newTestServer(t, model.TileBoost, model.TileBoost, model.TileBoost, model.TileBoost)
	conn := dial(t, url)

	send(t, conn, ClientMsg{Type: TypeHello, Token: "ada"})
	welcome := read[WelcomeMsg](t, conn)
	assert.Equal(t, TypeWelcome, welcome.Type)
	assert.Equal(t, "ada", welcome.Username)
	assert.Nil(t, welcome.State)

	send(t, conn, ClientMsg{Type: TypeRoll})
	errMsg := read[ErrorMsg](t, conn)
	assert.Equal(t, "no_game", errMsg.Code)

	send(t, conn, ClientMsg{Type: TypeStart, Career: "developer"})
	state := read[StateMsg](t, conn)
	assert.Equal(t, "developer", state.State.CareerKey)

	send(t, conn, ClientMsg{Type: TypeRoll})
	for _, want := range []int{1, 2, 3} {
		move := read[MoveMsg](t, conn)
		assert.Equal(t, TypeMove, move.Type)
		assert.Equal(t, want, move.Position)
	}
	turn := read[TurnMsg](t, conn)
	require.NotNil(t, turn.Result)
	assert.Equal(t, 3, turn.Result.DieValue)
	assert.Equal(t, 3, turn.Result.State.Position)

	send(t, conn, ClientMsg{Type: TypeRoll})
	for _, want := range []int{0, 1, 2} {
		move := read[MoveMsg](t, conn)
		assert.Equal(t, want, move.Position, "moves wrap around the board")
	}
	turn = read[TurnMsg](t, conn)
	assert.Equal(t, 2, turn.Result.Position)

	send(t, conn, ClientMsg{Type: TypeDecision})
	errMsg = read[ErrorMsg](t, conn)
	assert.Equal(t, "bad_request", errMsg.Code)

	accept := true
	send(t, conn, ClientMsg{Type: TypeDecision, Accept: &accept})
	errMsg = read[ErrorMsg](t, conn)
	assert.Equal(t, "no_pending_decision", errMsg.Code)

	send(t, conn, ClientMsg{Type: TypeState})
	state = read[StateMsg](t, conn)
	assert.Equal(t, 2, state.State.TurnCount)
}

func TestWelcomeCarriesExistingGame(t *testing.T) {
	url := newTestServer(t, model.TileBoost, model.TileBoost, model.TileBoost, model.TileBoost)

	first := dial(t, url)
	send(t, first, ClientMsg{Type: TypeHello, Token: "ada"})
	read[WelcomeMsg](t, first)
	send(t, first, ClientMsg{Type: TypeStart, Career: "nurse"})
	read[StateMsg](t, first)

	second := dial(t, url)
	send(t, second, ClientMsg{Type: TypeHello, Token: "ada"})
	welcome := read[WelcomeMsg](t, second)
	require.NotNil(t, welcome.State)
	assert.Equal(t, "nurse", welcome.State.CareerKey)
}

func TestHandshakeRejected(t *testing.T) {
	url := newTestServer(t, model.TileBoost)

	tests := []ClientMsg{
		{Type: TypeRoll},
		{Type: TypeHello, Token: "  "},
	}
	for _, msg := range tests {
		conn := dial(t, url)
		send(t, conn, msg)
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, _, err := conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "got %v", err)
	}
}
