package playback

import (
	"context"
	"log/slog"
	"strings"

	"github.com/avleth/kodiscreen/kodi"
	"github.com/avleth/kodiscreen/models"
)

// EnrichItem pulls the library details the basic Player.GetItem answer lacks
// (stream details, studio, album/artist records) and merges them under the
// item's own fields. Every lookup is best-effort: a failed detail call just
// leaves the basic payload in place.
func EnrichItem(ctx context.Context, client *kodi.Client, serverID int, item models.Item) map[string]any {
	details := map[string]any{
		"album": map[string]any{"title": item.Album, "year": item.Year},
		"artist": map[string]any{
			"label": artistLabel(item.Artist),
		},
	}

	switch item.Type {
	case "episode":
		merged, err := client.DetailsCall(ctx, serverID, "VideoLibrary.GetEpisodeDetails",
			map[string]any{
				"episodeid":  item.ID,
				"properties": []string{"streamdetails", "genre", "director", "cast", "uniqueid", "rating", "studio"},
			}, "episodedetails")
		if err != nil {
			slog.Warn("Failed to get enhanced episode details", slog.String("stack", err.Error()))
			break
		}
		mergeInto(details, merged)
		details["season"] = item.Season
		details["episode"] = item.Episode
		details["showtitle"] = item.ShowTitle
	case "movie":
		merged, err := client.DetailsCall(ctx, serverID, "VideoLibrary.GetMovieDetails",
			map[string]any{
				"movieid":    item.ID,
				"properties": []string{"streamdetails", "genre", "director", "cast", "uniqueid", "rating", "studio", "tagline"},
			}, "moviedetails")
		if err != nil {
			slog.Warn("Failed to get enhanced movie details", slog.String("stack", err.Error()))
			break
		}
		mergeInto(details, merged)
	case "song":
		song, err := client.DetailsCall(ctx, serverID, "AudioLibrary.GetSongDetails",
			map[string]any{
				"songid": item.ID,
				"properties": []string{"title", "album", "artist", "duration", "rating", "year", "genre",
					"fanart", "thumbnail", "albumid", "artistid", "bitrate", "channels", "samplerate",
					"track", "disc"},
			}, "songdetails")
		if err != nil {
			slog.Warn("Failed to get enhanced song details", slog.String("stack", err.Error()))
			break
		}
		mergeInto(details, song)
		enrichAlbum(ctx, client, serverID, details, song)
		enrichArtist(ctx, client, serverID, details, song)
	}

	// Base item fields win regardless of what the detail calls returned.
	details["title"] = item.Title
	if item.Plot != "" {
		details["plot"] = item.Plot
	}
	details["year"] = item.Year
	return details
}

func enrichAlbum(ctx context.Context, client *kodi.Client, serverID int, details map[string]any, song map[string]any) {
	albumID, ok := numericID(song["albumid"])
	if !ok {
		return
	}
	album, err := client.DetailsCall(ctx, serverID, "AudioLibrary.GetAlbumDetails",
		map[string]any{
			"albumid": albumID,
			"properties": []string{"title", "artist", "year", "rating", "fanart", "thumbnail",
				"description", "genre", "albumduration", "albumlabel", "compilation", "totaldiscs"},
		}, "albumdetails")
	if err != nil {
		slog.Warn("Failed to get album details", slog.String("stack", err.Error()))
		return
	}
	details["album"] = album
}

func enrichArtist(ctx context.Context, client *kodi.Client, serverID int, details map[string]any, song map[string]any) {
	artistID, ok := numericID(song["artistid"])
	if !ok {
		return
	}
	artist, err := client.DetailsCall(ctx, serverID, "AudioLibrary.GetArtistDetails",
		map[string]any{
			"artistid":   artistID,
			"properties": []string{"fanart", "thumbnail", "description", "born", "formed", "died", "disbanded", "genre", "yearsactive"},
		}, "artistdetails")
	if err != nil {
		slog.Warn("Failed to get artist details", slog.String("stack", err.Error()))
		return
	}
	details["artist"] = artist
}

// numericID copes with Kodi returning ids either as a number or as an array
// of numbers (artistid in particular).
func numericID(v any) (int, bool) {
	switch value := v.(type) {
	case float64:
		return int(value), true
	case []any:
		if len(value) > 0 {
			return numericID(value[0])
		}
	}
	return 0, false
}

func mergeInto(dst map[string]any, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}

func artistLabel(artists []string) string {
	if len(artists) == 0 {
		return "Unknown Artist"
	}
	return strings.Join(artists, ", ")
}
