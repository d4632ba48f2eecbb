package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	color_extractor "github.com/marekm4/color-extractor"
	"github.com/natefinch/atomic"
)

// download fetches rawURL and writes it atomically into the cache directory
// under dest. Player credentials are attached only when the URL targets the
// player's own host.
func (r *Resolver) download(ctx context.Context, serverID int, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build artwork request: %w", err)
	}
	if server, ok := r.client.Server(serverID); ok {
		if server.HasAuth() && strings.HasPrefix(rawURL, server.Host) {
			req.SetBasicAuth(server.Username, server.Password)
		}
	}

	res, err := r.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch artwork: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("artwork fetch returned status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read artwork body: %w", err)
	}
	if len(body) == 0 {
		return fmt.Errorf("artwork fetch returned an empty body")
	}

	target := filepath.Join(r.cacheDir, dest)
	if err := atomic.WriteFile(target, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to write artwork file: %w", err)
	}
	return nil
}

// CachePath returns the absolute path of a cached artwork file, or an error
// when the name escapes the cache directory.
func (r *Resolver) CachePath(filename string) (string, error) {
	if filename != filepath.Base(filename) || filename == "" {
		return "", fmt.Errorf("invalid artwork filename %q", filename)
	}
	return filepath.Join(r.cacheDir, filename), nil
}

// dominantColours extracts accent colours from the best available primary
// art, for the dashboard to theme itself with.
func (r *Resolver) dominantColours(files map[string]string) []string {
	var primary string
	for _, artType := range []string{"poster", "front", "fanart", "thumbnail"} {
		if name, ok := files[artType]; ok {
			primary = name
			break
		}
	}
	if primary == "" {
		return nil
	}
	f, err := os.Open(filepath.Join(r.cacheDir, primary))
	if err != nil {
		return nil
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil
	}
	var domColours []string
	for _, c := range color_extractor.ExtractColors(img) {
		red, green, blue, _ := c.RGBA()
		domColours = append(domColours, fmt.Sprintf("#%.2x%.2x%.2x", uint8(red), uint8(green), uint8(blue)))
	}
	return domColours
}
