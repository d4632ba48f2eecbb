// Package syncer is the server-side reference implementation of the dashboard
// client's sync protocol: given successive playback snapshots it decides,
// deterministically, which UI actions the client should take. The browser
// runs the same rules; keeping them here makes the protocol testable.
package syncer

import (
	"github.com/avleth/kodiscreen/playback"
)

type ActionType string

const (
	ActionSetPauseIcon    ActionType = "set_pause_icon"
	ActionUpdateBadge     ActionType = "update_badge"
	ActionNavigateIdle    ActionType = "navigate_idle"
	ActionNavigateLoading ActionType = "navigate_loading"
	ActionRetry           ActionType = "retry"
)

// Delays are plain millisecond counts: the browser feeds them straight into
// setTimeout, so the wire value must never be a nanosecond duration.
const (
	idleDelayMS    int64 = 1500
	loadingDelayMS int64 = 800
	retryDelayMS   int64 = 2000
)

// Action is one UI instruction. DelayMS is how long the client waits (fade
// time) in milliseconds before carrying it out; zero means immediately.
type Action struct {
	Type         ActionType `json:"type"`
	Paused       bool       `json:"paused,omitempty"`
	AudioLang    string     `json:"audio_lang,omitempty"`
	SubtitleLang string     `json:"subtitle_lang,omitempty"`
	DelayMS      int64      `json:"delay_ms,omitempty"`
}

// Engine diffs each incoming snapshot against the last known state. The
// zero value is ready to use; the first snapshot it sees is adopted as the
// baseline without emitting any navigation.
type Engine struct {
	initialized  bool
	playing      bool
	itemID       string
	paused       bool
	audioLang    string
	subtitleLang string
}

func NewEngine() *Engine {
	return &Engine{}
}

// Apply diffs snap against the stored state and returns the actions the
// client should take, then commits snap as the new state.
//
// Rule order matters: a transport-error snapshot only ever yields a retry
// and leaves state untouched, so a blip between two polls never alters the
// eventual transition decision.
func (e *Engine) Apply(snap playback.Snapshot) []Action {
	if snap.Error {
		return []Action{{Type: ActionRetry, DelayMS: retryDelayMS}}
	}

	if !e.initialized {
		e.adopt(snap)
		return nil
	}

	var actions []Action

	if snap.Paused != e.paused {
		actions = append(actions, Action{Type: ActionSetPauseIcon, Paused: snap.Paused})
	}
	if langChanged(e.audioLang, snap.AudioLang) || langChanged(e.subtitleLang, snap.SubtitleLang) {
		actions = append(actions, Action{
			Type:         ActionUpdateBadge,
			AudioLang:    snap.AudioLang,
			SubtitleLang: snap.SubtitleLang,
		})
	}

	switch {
	case e.playing && !snap.Playing:
		actions = append(actions, Action{Type: ActionNavigateIdle, DelayMS: idleDelayMS})
	case !e.playing && snap.Playing:
		// Starting playback is handled by whichever screen the client is
		// already on; navigating here would fight the loading screen.
	case snap.Playing && (snap.Changed || snap.ItemID != e.itemID):
		actions = append(actions, Action{Type: ActionNavigateLoading, DelayMS: loadingDelayMS})
	}

	e.adopt(snap)
	return actions
}

func (e *Engine) adopt(snap playback.Snapshot) {
	e.initialized = true
	e.playing = snap.Playing
	e.itemID = snap.ItemID
	e.paused = snap.Paused
	e.audioLang = snap.AudioLang
	e.subtitleLang = snap.SubtitleLang
}

// langChanged ignores transitions to empty: a poll that failed to read the
// stream labels must not blank the badge.
func langChanged(old, next string) bool {
	return next != "" && next != old
}
