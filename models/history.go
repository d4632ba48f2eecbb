package models

import "time"

// HistoryEntry is one confirmed item transition, recorded when the poller
// flips identity. Subtitle carries the show or artist depending on category.
type HistoryEntry struct {
	ID         int       `db:"id" json:"-"`
	ItemID     string    `db:"item_id" json:"item_id"`
	Title      string    `db:"title" json:"title"`
	Subtitle   string    `db:"subtitle" json:"subtitle"`
	Category   string    `db:"category" json:"category"`
	ServerID   int       `db:"server_id" json:"server_id"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}
