package engine

import "EscapeThePaycheck/internal/model"

// pushLocked stamps a note and appends it to the event log. The buffer keeps
// at most twice the display cap, dropping the oldest entries first.
func (e *Engine) pushLocked(n model.Note) model.LogEntry {
	entry := model.LogEntry{
		Message:   n.Message,
		Type:      n.Type,
		Turn:      e.state.TurnCount,
		Timestamp: e.now(),
	}
	e.state.EventLog = append(e.state.EventLog, entry)
	if over := len(e.state.EventLog) - 2*e.rules.MaxEventLog; over > 0 {
		e.state.EventLog = append([]model.LogEntry(nil), e.state.EventLog[over:]...)
	}
	return entry
}

// recent returns up to limit entries, newest first.
func recent(entries []model.LogEntry, limit int) []model.LogEntry {
	n := len(entries)
	if n > limit {
		n = limit
	}
	out := make([]model.LogEntry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, entries[i])
	}
	return out
}
