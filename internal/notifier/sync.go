package notifier

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"EscapeThePaycheck/internal/model"
)

// HistorySync mirrors history records to the remote realtime database.
type HistorySync struct {
	BaseURL    string
	AuthToken  string
	Client     *http.Client
	MaxRetries int
	Backoff    func(attempt int) time.Duration
}

// NewHistorySync creates a remote history sink.
func NewHistorySync(baseURL, authToken string, client *http.Client, maxRetries int) *HistorySync {
	return &HistorySync{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AuthToken:  authToken,
		Client:     client,
		MaxRetries: maxRetries,
		Backoff:    ExponentialBackoff,
	}
}

type remoteHistory struct {
	model.HistoryRecord
	UID         string `json:"uid"`
	CompletedAt int64  `json:"completedAt"`
}

// SyncHistory pushes one record to {base}/gameHistory.json.
func (h *HistorySync) SyncHistory(ctx context.Context, rec model.HistoryRecord) error {
	endpoint := h.BaseURL + "/gameHistory.json"
	if h.AuthToken != "" {
		endpoint += "?auth=" + url.QueryEscape(h.AuthToken)
	}
	payload := remoteHistory{
		HistoryRecord: rec,
		UID:           rec.Username,
		CompletedAt:   rec.CompletedAt.UnixMilli(),
	}
	return withRetry(ctx, "history sync", h.MaxRetries, h.Backoff, func() error {
		return postJSON(ctx, h.Client, endpoint, payload)
	})
}
