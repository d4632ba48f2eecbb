package artwork

import (
	"net/url"
	"strings"

	"github.com/avleth/kodiscreen/models"
)

// artTypes is the fixed resolution order. Types absent from the merged map
// are skipped outright.
var artTypes = []string{
	"poster", "front", "back", "fanart", "clearlogo", "clearart",
	"discart", "cdart", "banner", "season.poster", "thumbnail",
}

// mergeArtMap flattens the item's loosely namespaced art keys onto canonical
// ones. Merge precedence on collision: music-derived keys beat TV-show
// derived keys beat the bare base keys, i.e. later merges win only for keys
// they define.
func mergeArtMap(item models.Item) map[string]string {
	merged := map[string]string{}
	for k, v := range item.Art {
		merged[k] = v
	}
	if item.Thumbnail != "" && merged["poster"] == "" {
		merged["poster"] = item.Thumbnail
	}

	tvshow := map[string]string{}
	for key, value := range item.Art {
		if rest, ok := strings.CutPrefix(key, "tvshow."); ok {
			tvshow[rest] = value
		}
	}

	music := map[string]string{}
	for key, value := range item.Art {
		if rest, ok := strings.CutPrefix(key, "album."); ok {
			if rest == "thumb" {
				rest = "thumbnail"
			}
			music[rest] = value
			continue
		}
		if rest, ok := strings.CutPrefix(key, "artist."); ok {
			music[rest] = value
			continue
		}
		if rest, ok := strings.CutPrefix(key, "albumartist."); ok {
			music[rest] = value
		}
	}

	for k, v := range tvshow {
		merged[k] = v
	}
	for k, v := range music {
		merged[k] = v
	}
	return merged
}

// cleanImagePath strips Kodi's image:// wrapper protocol, percent-decoding
// the inner path and dropping the trailing slash the wrapper carries.
func cleanImagePath(raw string) string {
	cleaned := raw
	if rest, ok := strings.CutPrefix(cleaned, "image://"); ok {
		if decoded, err := url.QueryUnescape(rest); err == nil {
			cleaned = decoded
		} else {
			cleaned = rest
		}
	}
	return strings.TrimRight(cleaned, "/")
}

func isHTTPURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func isImagePath(path string) bool {
	if path == "" {
		return false
	}
	lowered := strings.ToLower(path)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}

// parentDir walks one level up a slash-separated virtual path without
// touching the scheme, so nfs://host/share/a -> nfs://host/share.
func parentDir(p string) string {
	trimmed := strings.TrimRight(p, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	parent := trimmed[:idx]
	// Never strip below the scheme authority of a remote path.
	if scheme := strings.Index(trimmed, "://"); scheme >= 0 && idx <= scheme+2 {
		return trimmed
	}
	return parent
}

func baseName(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if idx := strings.LastIndexAny(trimmed, "/\\"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func stripExtension(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}
