package playback

// Snapshot is what one poll of the upstream player condenses to. ItemID is
// stable across polls for the same underlying item; Changed is set for
// exactly one snapshot when a different item is confirmed, with ItemID
// already carrying the new identity.
type Snapshot struct {
	Playing      bool   `json:"playing"`
	Paused       bool   `json:"paused"`
	ItemID       string `json:"item_id,omitempty"`
	ItemType     string `json:"item_type,omitempty"`
	ItemTitle    string `json:"-"`
	ItemSubtitle string `json:"-"`
	Changed      bool   `json:"item_changed,omitempty"`
	AudioLang    string `json:"current_audio_lang"`
	SubtitleLang string `json:"current_subtitle_lang"`
	Error        bool   `json:"error,omitempty"`
}

// Progress is the lightweight elapsed/duration resync payload, in seconds.
type Progress struct {
	Elapsed  int  `json:"elapsed"`
	Duration int  `json:"duration"`
	Paused   bool `json:"paused"`
}
