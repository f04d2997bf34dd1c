// Package ws serves the game over a websocket, animating token movement with
// one frame per hop. The engine state is already final when the first move
// frame is sent.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"EscapeThePaycheck/internal/engine"
	"EscapeThePaycheck/internal/identity"
	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/session"
)

const (
	TypeHello    = "hello"
	TypeWelcome  = "welcome"
	TypeStart    = "start"
	TypeRoll     = "roll"
	TypeDecision = "decision"
	TypeState    = "state"
	TypeMove     = "move"
	TypeTurn     = "turn"
	TypeError    = "error"
)

// ClientMsg is any frame sent by the client.
type ClientMsg struct {
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`
	Career string `json:"career,omitempty"`
	Accept *bool  `json:"accept,omitempty"`
}

type WelcomeMsg struct {
	Type     string          `json:"type"`
	Username string          `json:"username"`
	State    *model.Snapshot `json:"state,omitempty"`
}

type MoveMsg struct {
	Type     string `json:"type"`
	Step     int    `json:"step"`
	Position int    `json:"position"`
}

type TurnMsg struct {
	Type   string             `json:"type"`
	Result *engine.TurnResult `json:"result"`
}

type StateMsg struct {
	Type  string         `json:"type"`
	State model.Snapshot `json:"state"`
}

type ErrorMsg struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type Server struct {
	sessions  *session.Registry
	identity  identity.Resolver
	boardSize int
	stepDelay time.Duration

	upgrader websocket.Upgrader
}

// NewServer creates a websocket server. stepDelay may be zero.
func NewServer(sessions *session.Registry, id identity.Resolver, boardSize int, stepDelay time.Duration) *Server {
	return &Server{
		sessions:  sessions,
		identity:  id,
		boardSize: boardSize,
		stepDelay: stepDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		username := s.handshake(conn)
		if username == "" {
			return
		}
		log.Printf("[INFO] ws connected: %s", username)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg ClientMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				_ = writeJSON(conn, errorFrame("bad_request", "invalid json"))
				continue
			}
			if err := s.dispatch(ctx, conn, username, msg); err != nil {
				break
			}
		}
		log.Printf("[INFO] ws disconnected: %s", username)
	}
}

func (s *Server) handshake(conn *websocket.Conn) string {
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return ""
	}

	var hello ClientMsg
	if err := json.Unmarshal(raw, &hello); err != nil || hello.Type != TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected hello"), time.Now().Add(time.Second))
		return ""
	}
	username, err := s.identity.ResolveToken(hello.Token)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"), time.Now().Add(time.Second))
		return ""
	}

	welcome := WelcomeMsg{Type: TypeWelcome, Username: username}
	if eng, err := s.sessions.Get(username); err == nil {
		snap := eng.State()
		welcome.State = &snap
	}
	if err := writeJSON(conn, welcome); err != nil {
		return ""
	}
	return username
}

// dispatch handles one client frame. Only write failures are returned;
// game errors are reported to the client as error frames.
func (s *Server) dispatch(ctx context.Context, conn *websocket.Conn, username string, msg ClientMsg) error {
	switch msg.Type {
	case TypeStart:
		snap, err := s.sessions.Start(ctx, username, msg.Career)
		if err != nil {
			return writeJSON(conn, errorFor(err))
		}
		return writeJSON(conn, StateMsg{Type: TypeState, State: snap})

	case TypeState:
		eng, err := s.sessions.Get(username)
		if err != nil {
			return writeJSON(conn, errorFor(err))
		}
		return writeJSON(conn, StateMsg{Type: TypeState, State: eng.State()})

	case TypeRoll:
		eng, err := s.sessions.Get(username)
		if err != nil {
			return writeJSON(conn, errorFor(err))
		}
		res, err := eng.Roll(ctx)
		if err != nil {
			return writeJSON(conn, errorFor(err))
		}
		if err := s.animate(ctx, conn, res); err != nil {
			return err
		}
		return writeJSON(conn, TurnMsg{Type: TypeTurn, Result: res})

	case TypeDecision:
		if msg.Accept == nil {
			return writeJSON(conn, errorFrame("bad_request", `missing field "accept"`))
		}
		eng, err := s.sessions.Get(username)
		if err != nil {
			return writeJSON(conn, errorFor(err))
		}
		res, err := eng.ResolveDeal(ctx, *msg.Accept)
		if err != nil {
			return writeJSON(conn, errorFor(err))
		}
		return writeJSON(conn, TurnMsg{Type: TypeTurn, Result: res})
	}
	return writeJSON(conn, errorFrame("bad_request", "unknown message type"))
}

// animate sends one move frame per hop from the start tile to the landing tile.
func (s *Server) animate(ctx context.Context, conn *websocket.Conn, res *engine.TurnResult) error {
	for step := 1; step <= res.DieValue; step++ {
		if step > 1 && s.stepDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.stepDelay):
			}
		}
		pos := (res.From + step) % s.boardSize
		if err := writeJSON(conn, MoveMsg{Type: TypeMove, Step: step, Position: pos}); err != nil {
			return err
		}
	}
	return nil
}

func errorFrame(code, msg string) ErrorMsg {
	return ErrorMsg{Type: TypeError, Code: code, Error: msg}
}

func errorFor(err error) ErrorMsg {
	switch {
	case errors.Is(err, session.ErrNoGame):
		return errorFrame("no_game", err.Error())
	case errors.Is(err, engine.ErrTurnInProgress):
		return errorFrame("turn_in_progress", err.Error())
	case errors.Is(err, engine.ErrNoPendingDecision):
		return errorFrame("no_pending_decision", err.Error())
	case errors.Is(err, engine.ErrUnknownCareer):
		return errorFrame("unknown_career", err.Error())
	}
	return errorFrame("internal", err.Error())
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
