package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/avleth/kodiscreen/artwork"
	"github.com/avleth/kodiscreen/config"
	"github.com/avleth/kodiscreen/db"
	"github.com/avleth/kodiscreen/events"
	"github.com/avleth/kodiscreen/kodi"
	"github.com/avleth/kodiscreen/models"
	"github.com/avleth/kodiscreen/notify"
	"github.com/avleth/kodiscreen/playback"
	"github.com/avleth/kodiscreen/syncer"
)

const (
	sessionCookie = "kodiscreen_session"

	// One artwork pass may probe dozens of synthesized candidates; bound the
	// whole pass and serve whatever resolved.
	resolveDeadline = 45 * time.Second
)

type Deps struct {
	Config   *config.Config
	Store    db.Store
	Client   *kodi.Client
	Registry *playback.Registry
	Resolver *artwork.Resolver
	Notifier *notify.Notifier
}

type router struct {
	Deps

	mu      sync.Mutex
	engines map[string]*syncer.Engine
}

func renderJSONMessage(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	res := map[string]string{"message": message}
	json.NewEncoder(w).Encode(res)
}

func renderJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func renderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func Register(mux *http.ServeMux, deps Deps) http.Handler {
	rt := &router{Deps: deps, engines: map[string]*syncer.Engine{}}

	events.Server.CreateStream("playback")

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "Welcome to Kodiscreen, a now playing dashboard for Kodi.\n")
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		renderJSONMessage(w, "ok")
	})

	mux.HandleFunc("GET /api/poll", rt.handlePoll)
	mux.HandleFunc("GET /api/progress", rt.handleProgress)
	mux.HandleFunc("GET /api/item", rt.handleItem)
	mux.HandleFunc("GET /api/servers", rt.handleServers)
	mux.HandleFunc("GET /api/current-server", rt.handleCurrentServer)
	mux.HandleFunc("POST /api/switch-server/{id}", rt.handleSwitchServer)
	mux.HandleFunc("GET /api/test-connection/{id}", rt.handleTestConnection)
	mux.HandleFunc("GET /api/preferences", rt.handleGetPreferences)
	mux.HandleFunc("POST /api/preferences", rt.handleSetPreferences)
	mux.HandleFunc("GET /api/history", rt.handleHistory)
	mux.HandleFunc("GET /media/{filename}", rt.handleMedia)

	mux.HandleFunc("/events", events.Server.ServeHTTP)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Origin, Content-Type, Accept"},
	})

	handler := c.Handler(mux)

	return handler
}

// session returns the browser's session id, minting a cookie on first
// contact. The id keys both the per-session poller state and the artwork
// cache filenames.
func (rt *router) session(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

// serverFor resolves which Kodi server this session is pointed at,
// defaulting to the lowest configured id.
func (rt *router) serverFor(sessionID string) int {
	if id, ok, err := rt.Store.GetActiveServer(sessionID); err == nil && ok && rt.Client.HasServer(id) {
		return id
	}
	servers := rt.Client.Servers()
	if len(servers) == 0 {
		return 0
	}
	ids := make([]int, 0, len(servers))
	for _, s := range servers {
		ids = append(ids, s.ID)
	}
	sort.Ints(ids)
	return ids[0]
}

func (rt *router) engineFor(sessionID string) *syncer.Engine {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if e, ok := rt.engines[sessionID]; ok {
		return e
	}
	e := syncer.NewEngine()
	rt.engines[sessionID] = e
	return e
}

type pollResponse struct {
	playback.Snapshot
	Actions []syncer.Action `json:"actions"`
}

// publishSnapshot is swappable in tests.
var publishSnapshot = events.PublishSnapshot

func (rt *router) handlePoll(w http.ResponseWriter, r *http.Request) {
	sessionID := rt.session(w, r)
	serverID := rt.serverFor(sessionID)

	monitor := rt.Registry.For(sessionID)
	prev := monitor.LastSnapshot()
	snap := monitor.Poll(r.Context(), serverID)
	actions := rt.engineFor(sessionID).Apply(snap)

	if snap.Changed {
		entry := models.HistoryEntry{
			ItemID:     snap.ItemID,
			Title:      snap.ItemTitle,
			Subtitle:   snap.ItemSubtitle,
			Category:   snap.ItemType,
			ServerID:   serverID,
			OccurredAt: time.Now().UTC(),
		}
		if err := rt.Store.InsertHistory(entry); err != nil {
			slog.Error("Failed to record history entry",
				slog.String("stack", err.Error()))
		}
		rt.Notifier.ItemChanged(snap.ItemTitle, snap.ItemSubtitle)
	}

	// The event stream only carries transitions; steady-state polls answer
	// over HTTP without waking every subscribed client.
	if snap != prev {
		publishSnapshot(snap)
	}
	renderJSON(w, pollResponse{Snapshot: snap, Actions: actions})
}

func (rt *router) handleProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := rt.session(w, r)
	serverID := rt.serverFor(sessionID)
	monitor := rt.Registry.For(sessionID)
	renderJSON(w, monitor.Progress(r.Context(), serverID))
}

type itemResponse struct {
	Item    map[string]any `json:"item"`
	Artwork artwork.Result `json:"artwork"`
}

// handleItem returns the full enriched detail set plus resolved artwork for
// whatever is currently playing. The expensive artwork pass runs under a
// single deadline so a player with a slow network share still answers.
func (rt *router) handleItem(w http.ResponseWriter, r *http.Request) {
	sessionID := rt.session(w, r)
	serverID := rt.serverFor(sessionID)

	players, err := rt.Client.ActivePlayers(r.Context(), serverID)
	if err != nil {
		renderError(w, http.StatusBadGateway, "player unreachable")
		return
	}
	if len(players) == 0 {
		renderError(w, http.StatusNotFound, "nothing playing")
		return
	}

	item, err := rt.Client.CurrentItem(r.Context(), serverID, players[0].PlayerID)
	if err != nil {
		renderError(w, http.StatusBadGateway, "failed to read current item")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveDeadline)
	defer cancel()

	details := playback.EnrichItem(ctx, rt.Client, serverID, item)
	result := rt.Resolver.Resolve(ctx, serverID, item, sessionID)

	renderJSON(w, itemResponse{Item: details, Artwork: result})
}

func (rt *router) handleServers(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, rt.Client.Servers())
}

func (rt *router) handleCurrentServer(w http.ResponseWriter, r *http.Request) {
	sessionID := rt.session(w, r)
	serverID := rt.serverFor(sessionID)
	server, ok := rt.Client.Server(serverID)
	if !ok {
		renderError(w, http.StatusNotFound, "no servers configured")
		return
	}
	renderJSON(w, server)
}

func (rt *router) handleSwitchServer(w http.ResponseWriter, r *http.Request) {
	sessionID := rt.session(w, r)
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || !rt.Client.HasServer(id) {
		renderError(w, http.StatusNotFound, "unknown server id")
		return
	}
	if err := rt.Store.SetActiveServer(sessionID, id); err != nil {
		renderError(w, http.StatusInternalServerError, "failed to persist server choice")
		return
	}
	renderJSONMessage(w, fmt.Sprintf("switched to server %d", id))
}

type connectionResult struct {
	OK      bool   `json:"ok"`
	Version string `json:"version,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// handleTestConnection pings a server and classifies the failure so the
// picker can show "auth" against "unreachable" rather than one vague error.
func (rt *router) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || !rt.Client.HasServer(id) {
		renderError(w, http.StatusNotFound, "unknown server id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	version, err := rt.Client.Version(ctx, id)
	if err != nil {
		result := connectionResult{OK: false, Reason: "connection"}
		if kodi.IsUnauthorized(err) {
			result.Reason = "auth"
		} else if errors.Is(err, context.DeadlineExceeded) {
			result.Reason = "timeout"
		}
		renderJSON(w, result)
		return
	}
	renderJSON(w, connectionResult{
		OK:      true,
		Version: fmt.Sprintf("%d.%d.%d", version.Version.Major, version.Version.Minor, version.Version.Patch),
	})
}

func (rt *router) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	sessionID := rt.session(w, r)
	prefs, err := rt.Store.GetPreferences(sessionID)
	if err != nil {
		slog.Error("Failed to load preferences, serving defaults",
			slog.String("stack", err.Error()))
	}
	renderJSON(w, prefs)
}

func (rt *router) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	sessionID := rt.session(w, r)
	var incoming map[string]string
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		renderError(w, http.StatusBadRequest, "invalid preference payload")
		return
	}
	for key, value := range incoming {
		if !models.IsPreferenceKey(key) {
			renderError(w, http.StatusBadRequest, fmt.Sprintf("unknown preference key %q", key))
			return
		}
		if err := rt.Store.UpsertPreference(sessionID, key, value); err != nil {
			renderError(w, http.StatusInternalServerError, "failed to save preference")
			return
		}
	}
	prefs, _ := rt.Store.GetPreferences(sessionID)
	renderJSON(w, prefs)
}

func (rt *router) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	entries, err := rt.Store.GetHistory(limit)
	if err != nil {
		renderError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	renderJSON(w, entries)
}

// handleMedia serves a cached artwork file. The resolver rejects any name
// that is not a bare filename, so path traversal dies here.
func (rt *router) handleMedia(w http.ResponseWriter, r *http.Request) {
	path, err := rt.Resolver.CachePath(r.PathValue("filename"))
	if err != nil {
		renderError(w, http.StatusBadRequest, "invalid filename")
		return
	}
	if _, err := os.Stat(path); err != nil {
		renderError(w, http.StatusNotFound, "no such artwork")
		return
	}
	http.ServeFile(w, r, path)
}
