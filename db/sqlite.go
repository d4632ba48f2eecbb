package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/avleth/kodiscreen/models"

	_ "modernc.org/sqlite"
)

type SqliteStore struct {
	DB *sqlx.DB
}

func NewSqliteStore(dsn string) (Store, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &SqliteStore{
		DB: db,
	}, nil
}

func (s *SqliteStore) ApplyMigrations(migrations embed.FS) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return err
	}

	if err := goose.Up(s.DB.DB, "migrations"); err != nil {
		return err
	}

	return nil
}

// GetPreferences returns the profile's stored preferences layered over the
// defaults, so every known key is always present.
func (s *SqliteStore) GetPreferences(profile string) (map[string]string, error) {
	prefs := map[string]string{}
	for k, v := range models.DefaultPreferences {
		prefs[k] = v
	}
	rows := []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}{}
	if err := s.DB.Select(&rows, "SELECT key, value FROM preferences WHERE profile = ?", profile); err != nil {
		return prefs, err
	}
	for _, row := range rows {
		prefs[row.Key] = row.Value
	}
	return prefs, nil
}

func (s *SqliteStore) UpsertPreference(profile, key, value string) error {
	if !models.IsPreferenceKey(key) {
		return fmt.Errorf("unknown preference key %q", key)
	}
	query := `
	INSERT INTO preferences (profile, key, value)
	VALUES (?, ?, ?)
	ON CONFLICT (profile, key) DO UPDATE SET
	value = excluded.value
	`
	_, err := s.DB.Exec(query, profile, key, value)
	return err
}

func (s *SqliteStore) GetActiveServer(sessionID string) (int, bool, error) {
	var serverID int
	err := s.DB.Get(&serverID, "SELECT server_id FROM session_servers WHERE session_id = ?", sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return serverID, true, nil
}

func (s *SqliteStore) SetActiveServer(sessionID string, serverID int) error {
	query := `
	INSERT INTO session_servers (session_id, server_id)
	VALUES (?, ?)
	ON CONFLICT (session_id) DO UPDATE SET
	server_id = excluded.server_id
	`
	_, err := s.DB.Exec(query, sessionID, serverID)
	return err
}

func (s *SqliteStore) InsertHistory(entry models.HistoryEntry) error {
	_, err := s.DB.Exec(
		"INSERT INTO history_entries (item_id, title, subtitle, category, server_id, occurred_at) VALUES (?, ?, ?, ?, ?, ?)",
		entry.ItemID,
		entry.Title,
		entry.Subtitle,
		entry.Category,
		entry.ServerID,
		entry.OccurredAt,
	)
	return err
}

func (s *SqliteStore) GetHistory(limit int) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	if err := s.DB.Select(&entries, "SELECT id, item_id, title, subtitle, category, server_id, occurred_at FROM history_entries ORDER BY occurred_at DESC LIMIT ?", limit); err != nil {
		return entries, err
	}
	return entries, nil
}
