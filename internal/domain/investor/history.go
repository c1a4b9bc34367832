package investor

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one record in the append-only relationship log.
type HistoryEntry struct {
	ID         string    `json:"id"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	Note       string    `json:"note,omitempty"`
	ChangedBy  string    `json:"changed_by"`
	At         time.Time `json:"at"`
}

// AppendHistory records a status change on the investor's relationship log.
// The log is append-only; existing entries are never rewritten.
func AppendHistory(inv *Investor, from, to Status, note, userID string) {
	var entries []HistoryEntry
	if len(inv.RelationshipHistory) > 0 {
		_ = json.Unmarshal(inv.RelationshipHistory, &entries)
	}
	entries = append(entries, HistoryEntry{
		ID:         uuid.NewString(),
		FromStatus: from,
		ToStatus:   to,
		Note:       note,
		ChangedBy:  userID,
		At:         time.Now().UTC(),
	})
	if b, err := json.Marshal(entries); err == nil {
		inv.RelationshipHistory = b
	}
}

// History decodes the relationship log.
func History(inv *Investor) []HistoryEntry {
	var entries []HistoryEntry
	if len(inv.RelationshipHistory) > 0 {
		_ = json.Unmarshal(inv.RelationshipHistory, &entries)
	}
	return entries
}
