package db

import (
	"embed"

	"github.com/avleth/kodiscreen/models"
)

// Store is everything the HTTP layer needs persisted: per-profile display
// preferences, which server each browser session is pointed at, and the
// playback history feed.
type Store interface {
	ApplyMigrations(migrations embed.FS) error
	GetPreferences(profile string) (map[string]string, error)
	UpsertPreference(profile, key, value string) error
	GetActiveServer(sessionID string) (int, bool, error)
	SetActiveServer(sessionID string, serverID int) error
	InsertHistory(entry models.HistoryEntry) error
	GetHistory(limit int) ([]models.HistoryEntry, error)
}
