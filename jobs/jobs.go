package jobs

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/avleth/kodiscreen/config"
)

// cachePattern matches session-scoped artwork files: a hex session id, an
// underscore, then the art type or fanart variant name.
var cachePattern = regexp.MustCompile(`^[0-9a-f-]+_[A-Za-z0-9_.]+\.jpg$`)

func SetupInBackground(cfg *config.Config) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)

	ttl := time.Duration(cfg.Kodiscreen.CacheTTLHours) * time.Hour

	s.Every(1).Hours().Do(SweepArtCache, cfg.Kodiscreen.CacheDir, ttl)

	log.Print("Jobs scheduled. Scheduler not running yet.")

	return s
}

// SweepArtCache deletes session artwork files older than ttl, judged by
// modification time. Session ids are fresh per page load, so anything past
// the TTL belongs to a page nobody is looking at anymore.
func SweepArtCache(cacheDir string, ttl time.Duration) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		slog.Error("Failed to read artwork cache dir",
			slog.String("dir", cacheDir),
			slog.String("stack", err.Error()))
		return
	}
	cutoff := time.Now().Add(-ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !cachePattern.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(cacheDir, entry.Name())); err != nil {
			slog.Error("Failed to remove stale artwork file",
				slog.String("file", entry.Name()),
				slog.String("stack", err.Error()))
			continue
		}
		removed++
	}
	if removed > 0 {
		slog.Debug("Swept artwork cache", slog.Int("removed", removed))
	}
}
