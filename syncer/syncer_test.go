package syncer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avleth/kodiscreen/playback"
)

func actionTypes(actions []Action) []ActionType {
	var types []ActionType
	for _, a := range actions {
		types = append(types, a.Type)
	}
	return types
}

func TestEngine_FirstSnapshotAdoptsBaseline(t *testing.T) {
	e := NewEngine()

	actions := e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1"})

	assert.Empty(t, actions)
}

func TestEngine_StartingPlaybackNeverNavigates(t *testing.T) {
	e := NewEngine()
	e.Apply(playback.Snapshot{Playing: false})

	actions := e.Apply(playback.Snapshot{Playing: true, ItemID: "movie_3"})

	assert.NotContains(t, actionTypes(actions), ActionNavigateIdle)
	assert.NotContains(t, actionTypes(actions), ActionNavigateLoading)
}

func TestEngine_StoppingNavigatesIdleAfterDelay(t *testing.T) {
	e := NewEngine()
	e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1"})

	actions := e.Apply(playback.Snapshot{Playing: false})

	assert.Len(t, actions, 1)
	assert.Equal(t, ActionNavigateIdle, actions[0].Type)
	assert.Equal(t, idleDelayMS, actions[0].DelayMS)
}

func TestEngine_ItemChangeWhilePlayingNavigatesLoading(t *testing.T) {
	e := NewEngine()
	e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1"})

	actions := e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_2", Changed: true})

	assert.Contains(t, actionTypes(actions), ActionNavigateLoading)
	for _, a := range actions {
		if a.Type == ActionNavigateLoading {
			assert.Equal(t, loadingDelayMS, a.DelayMS)
		}
	}
}

func TestEngine_PauseFlipSwapsIcon(t *testing.T) {
	e := NewEngine()
	e.Apply(playback.Snapshot{Playing: true, ItemID: "song_9", Paused: false})

	actions := e.Apply(playback.Snapshot{Playing: true, ItemID: "song_9", Paused: true})

	assert.Len(t, actions, 1)
	assert.Equal(t, ActionSetPauseIcon, actions[0].Type)
	assert.True(t, actions[0].Paused)
}

func TestEngine_LanguageChangeUpdatesBadge(t *testing.T) {
	e := NewEngine()
	e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1", AudioLang: "ENG"})

	actions := e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1", AudioLang: "DEU"})

	assert.Len(t, actions, 1)
	assert.Equal(t, ActionUpdateBadge, actions[0].Type)
	assert.Equal(t, "DEU", actions[0].AudioLang)
}

func TestEngine_EmptyLanguageNeverBlanksBadge(t *testing.T) {
	e := NewEngine()
	e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1", AudioLang: "ENG"})

	actions := e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1", AudioLang: ""})

	assert.Empty(t, actions)
}

func TestEngine_ErrorOnlyRetriesAndPreservesDecision(t *testing.T) {
	e := NewEngine()
	e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1"})

	actions := e.Apply(playback.Snapshot{Playing: false, Error: true})
	assert.Len(t, actions, 1)
	assert.Equal(t, ActionRetry, actions[0].Type)
	assert.Equal(t, retryDelayMS, actions[0].DelayMS)

	// Connectivity resumes with playback stopped: the stop transition still
	// fires exactly as it would have without the blip in between.
	actions = e.Apply(playback.Snapshot{Playing: false})
	assert.Len(t, actions, 1)
	assert.Equal(t, ActionNavigateIdle, actions[0].Type)
}

func TestAction_DelayEncodesAsMilliseconds(t *testing.T) {
	e := NewEngine()
	e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1"})

	actions := e.Apply(playback.Snapshot{Playing: false})
	require.Len(t, actions, 1)

	// A client feeds delay_ms straight into setTimeout; the wire value must
	// be 1500, not a nanosecond count.
	payload, err := json.Marshal(actions)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"navigate_idle","delay_ms":1500}]`, string(payload))
}

func TestEngine_ErrorDoesNotMaskItemChange(t *testing.T) {
	e := NewEngine()
	e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_1"})
	e.Apply(playback.Snapshot{Playing: false, Error: true})

	actions := e.Apply(playback.Snapshot{Playing: true, ItemID: "episode_2"})

	assert.Contains(t, actionTypes(actions), ActionNavigateLoading)
}
