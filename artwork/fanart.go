package artwork

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/avleth/kodiscreen/models"
)

// Variant is a single fanart candidate for the slideshow, keyed by the name
// the presentation layer caches it under.
type Variant struct {
	Name string
	Path string
}

var numberedFanart = regexp.MustCompile(`^fanart([1-9])$`)

// listableFile reports whether the item's path lives on a filesystem whose
// containing directory can be listed through the player.
func listableFile(path string) bool {
	if path == "" || isHTTPURL(path) {
		return false
	}
	for _, scheme := range []string{"nfs://", "smb://", "/"} {
		if strings.HasPrefix(path, scheme) {
			return true
		}
	}
	return false
}

// discoverVariants assembles the ordered fanart variant set: explicit
// numbered keys first (ascending), then extrafanart directory entries
// (lexically sorted so the slideshow order is stable across runs), then the
// bare fanart key as the single fallback.
func (r *Resolver) discoverVariants(ctx context.Context, serverID int, item models.Item, merged map[string]string) []Variant {
	numbered := map[int]string{}
	extras := map[string]string{}
	single := merged["fanart"]

	for key, value := range merged {
		if m := numberedFanart.FindStringSubmatch(key); m != nil {
			n, _ := strconv.Atoi(m[1])
			numbered[n] = value
			continue
		}
		if strings.HasPrefix(key, "extrafanart") {
			extras[key] = value
		}
	}

	if (item.Type == "movie" || item.Type == "episode") && listableFile(item.File) {
		root := parentDir(item.File)
		if item.Type == "episode" {
			// season dir -> show root
			root = parentDir(root)
		}
		listedNumbered, listedExtras, err := r.listFanartDir(ctx, serverID, root)
		if err != nil {
			slog.Debug("fanart listing unavailable, probing numbered fanart",
				slog.String("dir", root),
				slog.String("stack", err.Error()))
			for n, path := range r.probeNumbered(ctx, serverID, root) {
				if _, ok := numbered[n]; !ok {
					numbered[n] = path
				}
			}
		} else {
			for n, path := range listedNumbered {
				if _, ok := numbered[n]; !ok {
					numbered[n] = path
				}
			}
			for name, path := range listedExtras {
				if _, ok := extras[name]; !ok {
					extras[name] = path
				}
			}
		}
	}

	var out []Variant
	nums := make([]int, 0, len(numbered))
	for n := range numbered {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	for _, n := range nums {
		out = append(out, Variant{Name: fmt.Sprintf("fanart%d", n), Path: numbered[n]})
	}
	names := make([]string, 0, len(extras))
	for name := range extras {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, Variant{Name: name, Path: extras[name]})
	}
	if single != "" {
		out = append(out, Variant{Name: "fanart", Path: single})
	}
	return out
}

// listFanartDir lists the show/movie root once and harvests both kinds of
// slideshow sources it can hold: fanart<N> images sitting directly beside
// the video, and the contents of an extrafanart subdirectory. Inside
// extrafanart the canonical fanart.jpg is named extrafanart_main,
// everything else by its filename stem.
func (r *Resolver) listFanartDir(ctx context.Context, serverID int, root string) (map[int]string, map[string]string, error) {
	entries, err := r.client.Directory(ctx, serverID, root)
	if err != nil {
		return nil, nil, err
	}
	numbered := map[int]string{}
	found := map[string]string{}
	var extraDir string
	for _, entry := range entries {
		if entry.FileType == "directory" {
			if strings.EqualFold(baseName(entry.File), "extrafanart") {
				extraDir = entry.File
			}
			continue
		}
		if !isImagePath(entry.File) {
			continue
		}
		stem := strings.ToLower(stripExtension(baseName(entry.File)))
		if m := numberedFanart.FindStringSubmatch(stem); m != nil {
			n, _ := strconv.Atoi(m[1])
			numbered[n] = entry.File
		}
	}
	if extraDir == "" {
		return numbered, found, nil
	}
	files, err := r.client.Directory(ctx, serverID, extraDir)
	if err != nil {
		// The root harvest still stands when only the subdir listing fails.
		slog.Debug("extrafanart listing failed",
			slog.String("dir", extraDir),
			slog.String("stack", err.Error()))
		return numbered, found, nil
	}
	for _, entry := range files {
		if entry.FileType == "directory" || !isImagePath(entry.File) {
			continue
		}
		stem := strings.ToLower(stripExtension(baseName(entry.File)))
		name := "extrafanart_" + stem
		if stem == "fanart" {
			name = "extrafanart_main"
		}
		found[name] = entry.File
	}
	return numbered, found, nil
}

// probeNumbered checks fanart1.jpg through fanart9.jpg individually. A gap
// at one index says nothing about the rest, so every index is probed.
func (r *Resolver) probeNumbered(ctx context.Context, serverID int, root string) map[int]string {
	found := map[int]string{}
	for n := 1; n <= 9; n++ {
		path := fmt.Sprintf("%s/fanart%d.jpg", strings.TrimRight(root, "/"), n)
		if _, ok := r.probePath(ctx, serverID, path); ok {
			found[n] = path
		}
	}
	return found
}
