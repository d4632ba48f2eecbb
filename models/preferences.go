package models

// Display preferences for the dashboard, keyed the same way the browser keys
// its localStorage fallback so both sides stay interchangeable.
var DefaultPreferences = map[string]string{
	"blurPreference":    "blurred",
	"blurAmount":        "50",
	"overlayPreference": "enabled",
	"overlayOpacity":    "85",
	"marqueeInterval":   "10",
	"fanartInterval":    "20",
}

func IsPreferenceKey(key string) bool {
	_, ok := DefaultPreferences[key]
	return ok
}
