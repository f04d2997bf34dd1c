package notifier

import (
	"context"
	"net/http"
	"strings"
	"time"

	"EscapeThePaycheck/internal/model"
)

// FeedClient publishes posts to the community feed service.
type FeedClient struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries int
	Backoff    func(attempt int) time.Duration
}

// NewFeedClient creates a feed client.
func NewFeedClient(baseURL string, client *http.Client, maxRetries int) *FeedClient {
	return &FeedClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Client:     client,
		MaxRetries: maxRetries,
		Backoff:    ExponentialBackoff,
	}
}

// CreatePost sends a post, retrying with backoff.
func (f *FeedClient) CreatePost(ctx context.Context, post model.Post) error {
	endpoint := f.BaseURL + "/api/posts"
	return withRetry(ctx, "feed post", f.MaxRetries, f.Backoff, func() error {
		return postJSON(ctx, f.Client, endpoint, post)
	})
}
