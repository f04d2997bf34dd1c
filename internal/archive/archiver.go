package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"EscapeThePaycheck/internal/model"
)

// HistorySource yields history inserted after a sequence number.
type HistorySource interface {
	HistoryAfter(ctx context.Context, seq int64) ([]model.HistoryRecord, error)
}

// cursor is persisted next to the archive files so restarts do not
// re-export rows.
type cursor struct {
	After     int64     `json:"after"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Archiver copies new history rows into the archive.
type Archiver struct {
	source HistorySource
	writer *JSONLZstdWriter
	path   string

	mu sync.Mutex
}

// NewArchiver creates an Archiver writing history-*.jsonl.zst files into dir.
func NewArchiver(source HistorySource, dir string) *Archiver {
	return &Archiver{
		source: source,
		writer: NewJSONLZstdWriter(dir, "history"),
		path:   filepath.Join(dir, "cursor.json"),
	}
}

// Run exports every record stored since the last run and returns how many
// were written.
func (a *Archiver) Run(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cur, err := loadCursor(a.path)
	if err != nil {
		return 0, fmt.Errorf("load archive cursor: %w", err)
	}
	records, err := a.source.HistoryAfter(ctx, cur.After)
	if err != nil {
		return 0, fmt.Errorf("read history: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	for _, rec := range records {
		if err := a.writer.Write(rec); err != nil {
			return 0, err
		}
	}
	if err := a.writer.Flush(); err != nil {
		return 0, fmt.Errorf("flush archive: %w", err)
	}

	cur.After = records[len(records)-1].Seq
	if err := saveCursor(a.path, cur); err != nil {
		return len(records), fmt.Errorf("save archive cursor: %w", err)
	}
	log.Printf("[INFO] archived %d history records", len(records))
	return len(records), nil
}

func (a *Archiver) Close() error {
	return a.writer.Close()
}

func loadCursor(path string) (cursor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cursor{}, nil
		}
		return cursor{}, err
	}
	var c cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return cursor{}, err
	}
	return c, nil
}

func saveCursor(path string, c cursor) error {
	c.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
