package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"EscapeThePaycheck/internal/model"
)

// SQLiteStore persists history and profiles to a SQLite database.
// Money is stored as TEXT so values round-trip exactly.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS game_history (
			id             TEXT PRIMARY KEY,
			game_id        TEXT NOT NULL,
			username       TEXT NOT NULL,
			game_type      TEXT NOT NULL,
			career         TEXT,
			salary         TEXT,
			passive_income TEXT,
			expenses       TEXT,
			debt           TEXT,
			cash           TEXT,
			net_worth      TEXT,
			turns          INTEGER,
			escaped        INTEGER,
			assets         TEXT,
			completed_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON game_history(username, completed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_history_ts ON game_history(completed_at)`,

		`CREATE TABLE IF NOT EXISTS profiles (
			username      TEXT PRIMARY KEY,
			profile_score INTEGER NOT NULL,
			level         TEXT NOT NULL,
			updated_at    INTEGER NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) AddHistory(ctx context.Context, rec model.HistoryRecord) error {
	assets, err := json.Marshal(rec.Assets)
	if err != nil {
		return fmt.Errorf("encode assets: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `INSERT INTO game_history
		(id, game_id, username, game_type, career, salary, passive_income, expenses,
		 debt, cash, net_worth, turns, escaped, assets, completed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.GameID, rec.Username, rec.GameType, rec.Career,
		rec.Salary.String(), rec.PassiveIncome.String(), rec.Expenses.String(),
		rec.Debt.String(), rec.Cash.String(), rec.NetWorth.String(),
		rec.Turns, rec.Escaped, string(assets), rec.CompletedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

const historyColumns = `id, game_id, username, game_type, career, salary, passive_income,
	expenses, debt, cash, net_worth, turns, escaped, assets, completed_at, rowid`

func (s *SQLiteStore) ListHistory(ctx context.Context, username string, limit int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryHistory(ctx, `SELECT `+historyColumns+` FROM game_history
		WHERE username = ? ORDER BY completed_at DESC, rowid DESC LIMIT ?`, username, limit)
}

// HistoryAfter pages by rowid. Rows are never deleted, so rowid grows with
// every insert.
func (s *SQLiteStore) HistoryAfter(ctx context.Context, seq int64) ([]model.HistoryRecord, error) {
	return s.queryHistory(ctx, `SELECT `+historyColumns+` FROM game_history
		WHERE rowid > ? ORDER BY rowid`, seq)
}

func (s *SQLiteStore) TopEscapes(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryHistory(ctx, `SELECT `+historyColumns+` FROM game_history
		WHERE escaped = 1 ORDER BY CAST(net_worth AS REAL) DESC, completed_at LIMIT ?`, limit)
}

func (s *SQLiteStore) queryHistory(ctx context.Context, query string, args ...any) ([]model.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []model.HistoryRecord
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanHistory(rows *sql.Rows) (model.HistoryRecord, error) {
	var rec model.HistoryRecord
	var salary, passive, expenses, debt, cash, netWorth, assets string
	var completedAt int64
	err := rows.Scan(&rec.ID, &rec.GameID, &rec.Username, &rec.GameType, &rec.Career,
		&salary, &passive, &expenses, &debt, &cash, &netWorth,
		&rec.Turns, &rec.Escaped, &assets, &completedAt, &rec.Seq)
	if err != nil {
		return rec, fmt.Errorf("scan history: %w", err)
	}

	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&rec.Salary, salary}, {&rec.PassiveIncome, passive}, {&rec.Expenses, expenses},
		{&rec.Debt, debt}, {&rec.Cash, cash}, {&rec.NetWorth, netWorth},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return rec, fmt.Errorf("parse money %q: %w", f.src, err)
		}
		*f.dst = d
	}
	if err := json.Unmarshal([]byte(assets), &rec.Assets); err != nil {
		return rec, fmt.Errorf("decode assets: %w", err)
	}
	rec.CompletedAt = time.UnixMilli(completedAt).UTC()
	return rec, nil
}

func (s *SQLiteStore) GetProfile(ctx context.Context, username string) (model.Profile, error) {
	p, err := s.getProfile(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return newProfile(username), nil
	}
	return p, err
}

func (s *SQLiteStore) getProfile(ctx context.Context, username string) (model.Profile, error) {
	p := model.Profile{Username: username}
	var updatedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT profile_score, level, updated_at FROM profiles WHERE username = ?`, username,
	).Scan(&p.ProfileScore, &p.Level, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("query profile: %w", err)
	}
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return p, nil
}

func (s *SQLiteStore) ApplyScore(ctx context.Context, username string, delta int) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getProfile(ctx, username)
	if errors.Is(err, ErrNotFound) {
		p = newProfile(username)
	} else if err != nil {
		return p, err
	}

	p = nextProfile(p, delta, s.now())
	_, err = s.db.ExecContext(ctx, `INSERT INTO profiles (username, profile_score, level, updated_at)
		VALUES (?,?,?,?)
		ON CONFLICT(username) DO UPDATE SET
			profile_score = excluded.profile_score,
			level = excluded.level,
			updated_at = excluded.updated_at`,
		p.Username, p.ProfileScore, p.Level, p.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return p, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
