package db

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avleth/kodiscreen/migrations"
	"github.com/avleth/kodiscreen/models"

	_ "modernc.org/sqlite"
)

func setupTestStore(t *testing.T) *SqliteStore {
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	goose.SetBaseFS(migrations.GetMigrations())

	err = goose.SetDialect("sqlite3")
	require.NoError(t, err)

	err = goose.Up(db.DB, ".")
	require.NoError(t, err)

	return &SqliteStore{DB: db}
}

func TestSqliteStore_PreferencesDefaultsAndOverrides(t *testing.T) {
	s := setupTestStore(t)

	prefs, err := s.GetPreferences("profile-a")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences, prefs)

	require.NoError(t, s.UpsertPreference("profile-a", "blurPreference", "clear"))
	require.NoError(t, s.UpsertPreference("profile-a", "blurPreference", "blurred"))
	require.NoError(t, s.UpsertPreference("profile-a", "marqueeInterval", "15"))

	prefs, err = s.GetPreferences("profile-a")
	require.NoError(t, err)
	assert.Equal(t, "blurred", prefs["blurPreference"])
	assert.Equal(t, "15", prefs["marqueeInterval"])
	// Untouched keys still come back with their defaults.
	assert.Equal(t, models.DefaultPreferences["overlayOpacity"], prefs["overlayOpacity"])

	// Another profile is unaffected.
	other, err := s.GetPreferences("profile-b")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences, other)
}

func TestSqliteStore_RejectsUnknownPreferenceKey(t *testing.T) {
	s := setupTestStore(t)

	err := s.UpsertPreference("profile-a", "evilKey", "1")

	assert.Error(t, err)
}

func TestSqliteStore_ActiveServer(t *testing.T) {
	s := setupTestStore(t)

	_, ok, err := s.GetActiveServer("session-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetActiveServer("session-1", 2))
	require.NoError(t, s.SetActiveServer("session-1", 3))

	id, ok, err := s.GetActiveServer("session-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestSqliteStore_History(t *testing.T) {
	s := setupTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, s.InsertHistory(models.HistoryEntry{
			ItemID:     "episode_1",
			Title:      title,
			Category:   "episode",
			ServerID:   1,
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := s.GetHistory(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Title)
	assert.Equal(t, "second", entries[1].Title)
}

func TestSqliteStore_GetHistoryQueryShape(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	query := "SELECT id, item_id, title, subtitle, category, server_id, occurred_at FROM history_entries ORDER BY occurred_at DESC LIMIT ?"
	rows := sqlmock.NewRows([]string{"id", "item_id", "title", "subtitle", "category", "server_id", "occurred_at"}).
		AddRow(1, "episode_1", "blah", "", "episode", 1, time.Time{})
	mock.ExpectQuery(query).WillReturnRows(rows)

	s := &SqliteStore{DB: sqlx.NewDb(db, "sqlmock")}
	want := []models.HistoryEntry{
		{
			ID:       1,
			ItemID:   "episode_1",
			Title:    "blah",
			Category: "episode",
			ServerID: 1,
		},
	}
	got, err := s.GetHistory(1)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
}
