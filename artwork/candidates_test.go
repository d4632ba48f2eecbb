package artwork

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackCandidates_OrderAndShape(t *testing.T) {
	candidates := fallbackCandidates("nfs://10.0.0.2/media/Show/Season 1/ep.mkv", "front")

	// Closest directory first, lower case before capitalized, jpg before png.
	assert.Equal(t, "nfs://10.0.0.2/media/Show/Season 1/front.jpg", candidates[0])
	assert.Equal(t, "nfs://10.0.0.2/media/Show/Season 1/front.jpeg", candidates[1])
	assert.Equal(t, "nfs://10.0.0.2/media/Show/Season 1/front.png", candidates[2])
	assert.Equal(t, "nfs://10.0.0.2/media/Show/Season 1/Front.jpg", candidates[3])
	assert.Contains(t, candidates, "nfs://10.0.0.2/media/Show/front.jpg")
	assert.Contains(t, candidates, "nfs://10.0.0.2/media/front.jpg")
}

func TestFallbackCandidates_FanartIncludesExtrafanart(t *testing.T) {
	candidates := fallbackCandidates("nfs://10.0.0.2/media/Movie/film.mkv", "fanart")

	assert.Contains(t, candidates, "nfs://10.0.0.2/media/Movie/fanart.jpg")
	assert.Contains(t, candidates, "nfs://10.0.0.2/media/Movie/extrafanart/fanart.jpg")
}

func TestFallbackCandidates_StopsAtRoot(t *testing.T) {
	candidates := fallbackCandidates("nfs://10.0.0.2/a/b.mkv", "banner")

	for _, c := range candidates {
		assert.True(t, strings.HasPrefix(c, "nfs://10.0.0.2"), "candidate %q escaped the share root", c)
	}
}

func TestFallbackCandidates_EmptyFile(t *testing.T) {
	assert.Nil(t, fallbackCandidates("", "fanart"))
}

func TestMatchesCoverStem(t *testing.T) {
	assert.True(t, matchesCoverStem("folder.jpg"))
	assert.True(t, matchesCoverStem("FOLDER.JPG"))
	assert.True(t, matchesCoverStem("Album-FrontCover.jpg"))
	assert.True(t, matchesCoverStem("cover.webp"))
	assert.True(t, matchesCoverStem("artist.png"))

	assert.False(t, matchesCoverStem("booklet.jpg"))
	assert.False(t, matchesCoverStem("fanart.jpg"))
}

func TestArtistInfoCandidates(t *testing.T) {
	candidates := artistInfoCandidates(
		`C:\Users\scraper\Artist Information\Some Band\fanart.jpg`,
		"nfs://10.0.0.2/music")

	assert.Equal(t, "nfs://10.0.0.2/music/Some Band/fanart.jpg", candidates[0])
	assert.Contains(t, candidates, "nfs://10.0.0.2/music/Some Band/fanart.jpeg")
	assert.Contains(t, candidates, "nfs://10.0.0.2/music/Some Band/fanart.png")
}

func TestArtistInfoCandidates_NoMarker(t *testing.T) {
	assert.Nil(t, artistInfoCandidates("/ordinary/path/fanart.jpg", "nfs://10.0.0.2/music"))
	assert.Nil(t, artistInfoCandidates(`C:\Artist Information\x.jpg`, ""))
}
