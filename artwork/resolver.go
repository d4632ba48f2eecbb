// Package artwork turns a media item's raw art map into locally cached
// files: key normalization, download-handle negotiation with the player,
// synthesized path fallbacks, and fanart slideshow variants.
package artwork

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/avleth/kodiscreen/kodi"
	"github.com/avleth/kodiscreen/models"
	"github.com/avleth/kodiscreen/utils"
)

const downloadTimeout = 5 * time.Second

// Resolver resolves and caches artwork for one configured cache directory.
// Safe for concurrent use.
type Resolver struct {
	client    *kodi.Client
	cacheDir  string
	musicRoot string
	httpc     *http.Client
	limiter   *rate.Limiter
}

// Result is everything one resolution pass produced. Files maps art type or
// fanart variant name to the cached local filename. FanartOrder lists the
// slideshow variants that actually downloaded, in display order.
type Result struct {
	Files           map[string]string `json:"files"`
	FanartOrder     []string          `json:"fanart_order"`
	DominantColours []string          `json:"dominant_colours"`
}

func NewResolver(client *kodi.Client, cacheDir, musicRoot string) *Resolver {
	return &Resolver{
		client:    client,
		cacheDir:  cacheDir,
		musicRoot: musicRoot,
		httpc:     utils.NewHTTPClient(downloadTimeout),
		limiter:   rate.NewLimiter(rate.Limit(20), 40),
	}
}

// Resolve runs the full pass for one item: normalize keys, discover fanart
// variants, resolve and cache each art type, then the variant downloads.
// Individual failures are logged and skipped. When ctx expires mid-pass the
// subset resolved so far is returned rather than nothing.
func (r *Resolver) Resolve(ctx context.Context, serverID int, item models.Item, sessionID string) Result {
	result := Result{Files: map[string]string{}}
	merged := mergeArtMap(item)
	variants := r.discoverVariants(ctx, serverID, item, merged)

	for _, artType := range artTypes {
		if ctx.Err() != nil {
			slog.Warn("artwork resolution deadline hit, returning partial result",
				slog.String("item", item.Label),
				slog.Int("resolved", len(result.Files)))
			return result
		}
		raw := merged[artType]
		if artType == "thumbnail" && item.Type == "song" {
			if filename, ok := r.resolveMusicCover(ctx, serverID, item, raw, sessionID); ok {
				result.Files[artType] = filename
				continue
			}
		}
		if raw == "" {
			continue
		}
		filename, ok := r.resolveOne(ctx, serverID, item, artType, raw, sessionID)
		if !ok {
			continue
		}
		result.Files[artType] = filename
	}

	for _, variant := range variants {
		if ctx.Err() != nil {
			break
		}
		if variant.Name == "fanart" {
			if _, ok := result.Files["fanart"]; ok {
				result.FanartOrder = append(result.FanartOrder, "fanart")
			}
			continue
		}
		filename, ok := r.resolveVariant(ctx, serverID, variant, sessionID)
		if !ok {
			continue
		}
		result.Files[variant.Name] = filename
		result.FanartOrder = append(result.FanartOrder, variant.Name)
	}

	result.DominantColours = r.dominantColours(result.Files)
	return result
}

// resolveOne resolves a single art type to a cached file: direct http(s)
// passthrough, else image:// unwrap plus a download handle from the player,
// else the synthesized fallback walk for the types that warrant one.
func (r *Resolver) resolveOne(ctx context.Context, serverID int, item models.Item, artType, raw, sessionID string) (string, bool) {
	cleaned := cleanImagePath(raw)
	dest := fmt.Sprintf("%s_%s.jpg", sessionID, artType)

	if isHTTPURL(cleaned) {
		if err := r.download(ctx, serverID, cleaned, dest); err != nil {
			slog.Error("Failed to fetch artwork",
				slog.String("art_type", artType),
				slog.String("stack", err.Error()))
			return "", false
		}
		return dest, true
	}

	if url, ok := r.probePath(ctx, serverID, cleaned); ok {
		if err := r.download(ctx, serverID, url, dest); err == nil {
			return dest, true
		} else {
			slog.Debug("Primary artwork download failed, trying fallbacks",
				slog.String("art_type", artType),
				slog.String("stack", err.Error()))
		}
	}

	if !fallbackTypes[artType] {
		return "", false
	}
	for _, candidate := range fallbackCandidates(item.File, artType) {
		if ctx.Err() != nil {
			return "", false
		}
		url, ok := r.probePath(ctx, serverID, candidate)
		if !ok {
			continue
		}
		if err := r.download(ctx, serverID, url, dest); err == nil {
			slog.Debug("Resolved artwork via fallback candidate",
				slog.String("art_type", artType),
				slog.String("candidate", candidate))
			return dest, true
		}
	}
	return "", false
}

// resolveVariant caches one fanart slideshow variant, handling the legacy
// ArtistInformation path layout before the usual permutations.
func (r *Resolver) resolveVariant(ctx context.Context, serverID int, variant Variant, sessionID string) (string, bool) {
	dest := fmt.Sprintf("%s_%s.jpg", sessionID, variant.Name)
	cleaned := cleanImagePath(variant.Path)

	if isHTTPURL(cleaned) {
		if err := r.download(ctx, serverID, cleaned, dest); err != nil {
			return "", false
		}
		return dest, true
	}

	candidates := []string{cleaned}
	candidates = append(candidates, artistInfoCandidates(cleaned, r.musicRoot)...)
	for _, candidate := range candidates {
		url, ok := r.probePath(ctx, serverID, candidate)
		if !ok {
			continue
		}
		if err := r.download(ctx, serverID, url, dest); err == nil {
			return dest, true
		}
	}
	return "", false
}

// resolveMusicCover applies the music cover fallback: when the song's
// thumbnail is missing or not an image path, list the song's directory and
// up to three parents and take the first image whose stem looks like cover
// art. One listing per level, so oddly named covers still match without a
// probe per spelling.
func (r *Resolver) resolveMusicCover(ctx context.Context, serverID int, item models.Item, raw, sessionID string) (string, bool) {
	cleaned := cleanImagePath(raw)
	if isHTTPURL(cleaned) || isImagePath(cleaned) || item.File == "" {
		return "", false
	}
	dest := fmt.Sprintf("%s_thumbnail.jpg", sessionID)
	dir := parentDir(item.File)
	for level := 0; level < 4; level++ {
		if ctx.Err() != nil {
			return "", false
		}
		entries, err := r.client.Directory(ctx, serverID, dir)
		if err != nil {
			slog.Debug("Music cover listing failed",
				slog.String("dir", dir),
				slog.String("stack", err.Error()))
		}
		for _, entry := range entries {
			if entry.FileType == "directory" {
				continue
			}
			name := baseName(entry.File)
			if !isImagePath(name) || !matchesCoverStem(name) {
				continue
			}
			url, ok := r.probePath(ctx, serverID, entry.File)
			if !ok {
				continue
			}
			if err := r.download(ctx, serverID, url, dest); err == nil {
				slog.Debug("Resolved music cover via directory scan",
					slog.String("cover", entry.File))
				return dest, true
			}
		}
		next := parentDir(dir)
		if next == dir {
			break
		}
		dir = next
	}
	return "", false
}

// probePath asks the player for a download handle and verifies the resulting
// URL actually serves. Rate limited so fallback storms don't hammer the
// player.
func (r *Resolver) probePath(ctx context.Context, serverID int, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return "", false
	}
	details, err := r.client.PrepareDownload(ctx, serverID, path)
	if err != nil {
		return "", false
	}
	server, ok := r.client.Server(serverID)
	if !ok {
		return "", false
	}
	url := kodi.VFSURL(server, details, path)
	if url == "" {
		return "", false
	}
	if !r.client.ProbeURL(ctx, serverID, url) {
		return "", false
	}
	return url, true
}
