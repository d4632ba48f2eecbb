package playback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/avleth/kodiscreen/kodi"
	"github.com/avleth/kodiscreen/models"
)

// identityCheckInterval throttles the extra Player.GetItem round trip; the
// cheap speed/language reads still happen on every poll.
const identityCheckInterval = 10 * time.Second

const unknownItemID = "episode_unknown"

// Monitor tracks playback state for one dashboard session. Each browser
// session gets its own monitor so two viewers pointed at different servers
// never trample each other's identity tracking.
type Monitor struct {
	client   *kodi.Client
	interval time.Duration
	now      func() time.Time

	mu           sync.Mutex
	lastItemID   string
	lastItemType string
	lastTitle    string
	lastSubtitle string
	lastCheck    time.Time
	lastSnapshot Snapshot
}

func NewMonitor(client *kodi.Client) *Monitor {
	return &Monitor{
		client:   client,
		interval: identityCheckInterval,
		now:      time.Now,
	}
}

// Poll advances the state machine by one observation of the given server.
// A transport failure yields {playing:false, error:true} and leaves the
// tracked identity untouched: absence of an answer means "unknown", and a
// momentarily unreachable player must never flip the tracked identity.
func (m *Monitor) Poll(ctx context.Context, serverID int) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	players, err := m.client.ActivePlayers(ctx, serverID)
	if err != nil {
		slog.Debug("Failed to query active players",
			slog.Int("server_id", serverID),
			slog.String("stack", err.Error()))
		// Only the snapshot is recorded: identity tracking stays intact so
		// recovery does not misreport an item change.
		snap := Snapshot{Playing: false, Error: true}
		m.lastSnapshot = snap
		return snap
	}

	if len(players) == 0 {
		// Playback genuinely stopped: clear identity tracking so the next
		// sighting re-derives immediately instead of waiting out the throttle.
		m.lastItemID = ""
		m.lastItemType = ""
		m.lastTitle = ""
		m.lastSubtitle = ""
		m.lastCheck = time.Time{}
		snap := Snapshot{Playing: false}
		m.lastSnapshot = snap
		return snap
	}

	playerID := players[0].PlayerID
	changed := false

	if m.now().Sub(m.lastCheck) >= m.interval || m.lastItemID == "" {
		m.lastCheck = m.now()
		item, err := m.client.PollItem(ctx, serverID, playerID)
		if err != nil {
			// Transient failure: keep whatever identity we had.
			slog.Debug("Identity check failed, keeping stored identity",
				slog.String("item_id", m.lastItemID),
				slog.String("stack", err.Error()))
		} else {
			id := deriveIdentity(item)
			if m.lastItemID != "" && id != m.lastItemID {
				slog.Info("Item changed",
					slog.String("from", m.lastItemID),
					slog.String("to", id))
				changed = true
			}
			m.lastItemID = id
			m.lastItemType = item.Type
			m.lastTitle = item.Title
			m.lastSubtitle = deriveSubtitle(item)
		}
	}

	snap := Snapshot{
		Playing:      true,
		Paused:       m.readPaused(ctx, serverID, playerID),
		ItemID:       m.lastItemID,
		ItemType:     m.lastItemType,
		ItemTitle:    m.lastTitle,
		ItemSubtitle: m.lastSubtitle,
		Changed:      changed,
	}
	snap.AudioLang, snap.SubtitleLang = m.readLanguages(ctx, serverID)

	if snap.ItemID == "" {
		// Identity derivation has never succeeded for this session; report
		// the documented sentinel rather than an empty field.
		snap.ItemID = unknownItemID
		snap.ItemType = "episode"
	}

	m.lastSnapshot = snap
	return snap
}

// LastSnapshot returns the previous observation, used by the HTTP layer to
// detect transitions worth pushing over the event stream.
func (m *Monitor) LastSnapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSnapshot
}

func (m *Monitor) readPaused(ctx context.Context, serverID, playerID int) bool {
	props, err := m.client.PlayerProperties(ctx, serverID, playerID, []string{"speed"})
	if err != nil {
		slog.Debug("Failed to read player speed", slog.String("stack", err.Error()))
		return true
	}
	return props.Speed == 0
}

func (m *Monitor) readLanguages(ctx context.Context, serverID int) (audio, subtitle string) {
	labels, err := m.client.InfoLabels(ctx, serverID, []string{
		"VideoPlayer.AudioLanguage", "VideoPlayer.SubtitlesLanguage",
	})
	if err != nil {
		slog.Debug("Failed to read language labels", slog.String("stack", err.Error()))
		return "", ""
	}
	return NormalizeLanguage(labels["VideoPlayer.AudioLanguage"]),
		NormalizeLanguage(labels["VideoPlayer.SubtitlesLanguage"])
}

// deriveIdentity prefers the library database id typed by media kind and
// falls back to a title hash when the item was never scraped.
func deriveIdentity(item models.Item) string {
	switch item.Type {
	case "song", "episode", "movie":
		if item.ID > 0 {
			return fmt.Sprintf("%s_%d", item.Type, item.ID)
		}
	}
	title := item.Title
	if title == "" {
		title = item.Label
	}
	if title == "" {
		title = "unknown"
	}
	return fmt.Sprintf("other_%d", xxhash.Sum64String(title))
}

func deriveSubtitle(item models.Item) string {
	switch item.Type {
	case "episode":
		return item.ShowTitle
	case "song":
		return strings.Join(item.Artist, ", ")
	}
	return ""
}

// Progress returns the elapsed/duration resync payload. With no active
// player everything is zero and paused, matching what the progress bar
// should render on a stopped screen.
func (m *Monitor) Progress(ctx context.Context, serverID int) Progress {
	players, err := m.client.ActivePlayers(ctx, serverID)
	if err != nil || len(players) == 0 {
		return Progress{Paused: true}
	}
	props, err := m.client.PlayerProperties(ctx, serverID, players[0].PlayerID,
		[]string{"time", "totaltime", "speed"})
	if err != nil {
		return Progress{Paused: true}
	}
	return Progress{
		Elapsed:  props.Time.TotalSeconds(),
		Duration: props.TotalTime.TotalSeconds(),
		Paused:   props.Speed == 0,
	}
}
