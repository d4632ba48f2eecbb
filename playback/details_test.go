package playback

import (
	"context"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"

	"github.com/avleth/kodiscreen/models"
)

func TestEnrichItem_EpisodeMergesLibraryDetails(t *testing.T) {
	defer gock.Off()

	stubRPC("VideoLibrary.GetEpisodeDetails",
		`{"episodedetails":{"studio":["Some Studio"],"rating":8.5,"plot":"library plot"}}`)

	item := models.Item{
		ID:        4,
		Type:      "episode",
		Title:     "Pilot",
		ShowTitle: "Some Show",
		Season:    1,
		Episode:   1,
		Plot:      "player plot",
	}

	details := EnrichItem(context.Background(), testClient(), 1, item)

	assert.Equal(t, []any{"Some Studio"}, details["studio"])
	assert.Equal(t, "Some Show", details["showtitle"])
	// The basic payload wins for fields both sides carry.
	assert.Equal(t, "Pilot", details["title"])
	assert.Equal(t, "player plot", details["plot"])

	assert.True(t, gock.IsDone())
}

func TestEnrichItem_DetailFailureKeepsBasicPayload(t *testing.T) {
	defer gock.Off()

	stubRPCError("VideoLibrary.GetMovieDetails", 500)

	item := models.Item{ID: 2, Type: "movie", Title: "Heat", Year: 1995}

	details := EnrichItem(context.Background(), testClient(), 1, item)

	assert.Equal(t, "Heat", details["title"])
	assert.Equal(t, 1995, details["year"])
}

func TestEnrichItem_SongPullsAlbumAndArtist(t *testing.T) {
	defer gock.Off()

	stubRPC("AudioLibrary.GetSongDetails",
		`{"songdetails":{"title":"Track","albumid":7,"artistid":[3],"track":2}}`)
	stubRPC("AudioLibrary.GetAlbumDetails",
		`{"albumdetails":{"title":"Album","year":2001}}`)
	stubRPC("AudioLibrary.GetArtistDetails",
		`{"artistdetails":{"label":"Band","formed":"1998"}}`)

	item := models.Item{ID: 9, Type: "song", Title: "Track", Artist: []string{"Band"}}

	details := EnrichItem(context.Background(), testClient(), 1, item)

	album, ok := details["album"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Album", album["title"])
	artist, ok := details["artist"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "1998", artist["formed"])

	assert.True(t, gock.IsDone())
}

func TestNumericID(t *testing.T) {
	id, ok := numericID(float64(7))
	assert.True(t, ok)
	assert.Equal(t, 7, id)

	id, ok = numericID([]any{float64(3)})
	assert.True(t, ok)
	assert.Equal(t, 3, id)

	_, ok = numericID(nil)
	assert.False(t, ok)
	_, ok = numericID([]any{})
	assert.False(t, ok)
}
