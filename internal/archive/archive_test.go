package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/store"
)

var hour = time.Date(2026, 10, 1, 14, 5, 0, 0, time.UTC)

func rec(id string, at time.Time) model.HistoryRecord {
	return model.HistoryRecord{
		ID: id, Username: "ada", GameType: model.GameTypeEscape, Career: "nurse",
		NetWorth: decimal.NewFromInt(1234), Escaped: true, CompletedAt: at,
	}
}

func newArchiver(st HistorySource, dir string) *Archiver {
	a := NewArchiver(st, dir)
	a.writer.now = func() time.Time { return hour }
	return a
}

func TestWriter_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "history")
	now := hour
	w.now = func() time.Time { return now }

	require.NoError(t, w.Write(map[string]int{"n": 1}))
	require.NoError(t, w.Write(map[string]int{"n": 2}))
	now = now.Add(time.Hour)
	require.NoError(t, w.Write(map[string]int{"n": 3}))
	require.NoError(t, w.Close())

	files, err := Files(dir, "history")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "history-2026-10-01-14.jsonl.zst", filepath.Base(files[0]))
	assert.Equal(t, "history-2026-10-01-15.jsonl.zst", filepath.Base(files[1]))

	first, err := ReadAll[map[string]int](files[0])
	require.NoError(t, err)
	assert.Equal(t, []map[string]int{{"n": 1}, {"n": 2}}, first)
}

func TestArchiver_ExportsOnlyNewRows(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := store.NewMemoryStore()
	require.NoError(t, st.AddHistory(ctx, rec("a", hour.Add(-2*time.Hour))))
	require.NoError(t, st.AddHistory(ctx, rec("b", hour.Add(-time.Hour))))

	a := newArchiver(st, dir)
	n, err := a.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = a.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "nothing new")
	require.NoError(t, a.Close())

	// A restarted archiver resumes from the saved cursor.
	require.NoError(t, st.AddHistory(ctx, rec("c", hour)))
	a = newArchiver(st, dir)
	n, err = a.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, a.Close())

	files, err := Files(dir, "history")
	require.NoError(t, err)
	require.Len(t, files, 1)
	got, err := ReadAll[model.HistoryRecord](files[0])
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.True(t, got[0].NetWorth.Equal(decimal.NewFromInt(1234)))
}

func TestArchiver_ExportsLateCommittedRows(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := store.NewMemoryStore()
	require.NoError(t, st.AddHistory(ctx, rec("a", hour)))

	a := newArchiver(st, dir)
	n, err := a.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, st.AddHistory(ctx, rec("b", hour.Add(-time.Second))))
	n, err = a.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "row stamped before the last export is still archived")
	require.NoError(t, a.Close())

	files, err := Files(dir, "history")
	require.NoError(t, err)
	require.Len(t, files, 1)
	got, err := ReadAll[model.HistoryRecord](files[0])
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a", "b"}, []string{got[0].ID, got[1].ID})
}
