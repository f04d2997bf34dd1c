// Package api exposes the game over JSON HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"EscapeThePaycheck/internal/content"
	"EscapeThePaycheck/internal/engine"
	"EscapeThePaycheck/internal/identity"
	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/reporter"
	"EscapeThePaycheck/internal/session"
)

const defaultHistoryLimit = 20

// HistoryReader serves a player's past runs and profile.
type HistoryReader interface {
	ListHistory(ctx context.Context, username string, limit int) ([]model.HistoryRecord, error)
	GetProfile(ctx context.Context, username string) (model.Profile, error)
}

// Sharer posts a finished run to the feed.
type Sharer interface {
	ShareVictory(ctx context.Context, summary model.VictorySummary) error
}

type Handler struct {
	Sessions *session.Registry
	Catalog  *content.Catalog
	Identity identity.Resolver
	History  HistoryReader
	Sharer   Sharer
}

// Routes registers the API on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/careers", h.Careers)
	mux.HandleFunc("GET /api/board", h.Board)
	mux.HandleFunc("POST /api/games", h.authed(h.StartGame))
	mux.HandleFunc("GET /api/games/current", h.authed(h.Current))
	mux.HandleFunc("POST /api/games/current/roll", h.authed(h.Roll))
	mux.HandleFunc("POST /api/games/current/decision", h.authed(h.Decision))
	mux.HandleFunc("POST /api/games/current/share", h.authed(h.Share))
	mux.HandleFunc("DELETE /api/games/current", h.authed(h.Reset))
	mux.HandleFunc("GET /api/history", h.authed(h.ListHistory))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "error": msg})
}

// decodeJSON decodes an optional body; an empty body leaves out untouched.
func decodeJSON(r *http.Request, out any) error {
	err := json.NewDecoder(r.Body).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrNoGame):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrTurnInProgress),
		errors.Is(err, engine.ErrNoPendingDecision),
		errors.Is(err, reporter.ErrNotEscaped):
		return http.StatusConflict
	case errors.Is(err, engine.ErrUnknownCareer):
		return http.StatusBadRequest
	case errors.Is(err, reporter.ErrFeedDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type userHandler func(w http.ResponseWriter, r *http.Request, username string)

func (h *Handler) authed(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := h.Identity.Resolve(r)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "sign in to play")
			return
		}
		next(w, r, username)
	}
}

// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": h.Sessions.Active()})
}

// GET /api/careers
func (h *Handler) Careers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"careers": h.Catalog.Careers})
}

// GET /api/board
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"size": h.Catalog.Size(), "tiles": h.Catalog.Board})
}

// POST /api/games
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request, username string) {
	var in struct {
		Career string `json:"career"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	snap, err := h.Sessions.Start(r.Context(), username, strings.TrimSpace(in.Career))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// GET /api/games/current
func (h *Handler) Current(w http.ResponseWriter, r *http.Request, username string) {
	eng, err := h.Sessions.Get(username)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eng.State())
}

// POST /api/games/current/roll
func (h *Handler) Roll(w http.ResponseWriter, r *http.Request, username string) {
	eng, err := h.Sessions.Get(username)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	res, err := eng.Roll(r.Context())
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/games/current/decision
func (h *Handler) Decision(w http.ResponseWriter, r *http.Request, username string) {
	var in struct {
		Accept *bool `json:"accept"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Accept == nil {
		writeErr(w, http.StatusBadRequest, `missing field "accept"`)
		return
	}
	eng, err := h.Sessions.Get(username)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	res, err := eng.ResolveDeal(r.Context(), *in.Accept)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/games/current/share
func (h *Handler) Share(w http.ResponseWriter, r *http.Request, username string) {
	eng, err := h.Sessions.Get(username)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	summary, err := currentSummary(eng)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	if err := h.Sharer.ShareVictory(r.Context(), summary); err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			log.Printf("[WARN] share for %s failed: %v", username, err)
			writeErr(w, http.StatusBadGateway, "unable to post right now, try again later")
			return
		}
		writeErr(w, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// currentSummary reports session.ErrNoGame for an engine that never started.
func currentSummary(eng *engine.Engine) (model.VictorySummary, error) {
	summary, ok := eng.Summary()
	if !ok {
		return model.VictorySummary{}, session.ErrNoGame
	}
	return summary, nil
}

// DELETE /api/games/current
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request, username string) {
	if err := h.Sessions.Reset(r.Context(), username); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/history
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request, username string) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeErr(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := h.History.ListHistory(r.Context(), username, limit)
	if err != nil {
		log.Printf("[ERROR] list history for %s: %v", username, err)
		writeErr(w, http.StatusInternalServerError, "could not load history")
		return
	}
	profile, err := h.History.GetProfile(r.Context(), username)
	if err != nil {
		log.Printf("[ERROR] load profile for %s: %v", username, err)
		writeErr(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	if records == nil {
		records = []model.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": records, "profile": profile})
}
