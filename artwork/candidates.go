package artwork

import "strings"

const maxWalkLevels = 8

// fallbackTypes are the art types worth synthesizing path candidates for
// when the primary art-map value fails to resolve.
var fallbackTypes = map[string]bool{
	"fanart":    true,
	"clearlogo": true,
	"clearart":  true,
	"banner":    true,
	"front":     true,
	"back":      true,
	"discart":   true,
}

var candidateExtensions = []string{".jpg", ".jpeg", ".png"}

// coverBasenames is the fixed set scanned for music cover fallback.
var coverBasenames = []string{
	"folder", "cover", "thumb", "front", "album",
	"artist", "frontcover", "albumcover", "cd", "cdcover",
}

func caseVariants(name string) []string {
	lower := strings.ToLower(name)
	variants := []string{lower}
	if upper := strings.ToUpper(lower[:1]) + lower[1:]; upper != lower {
		variants = append(variants, upper)
	}
	return variants
}

// fallbackCandidates walks the item's file path upward and yields, in probe
// order, every synthesized sibling path for the given art type: per level,
// each case variant of the type name crossed with each extension; fanart
// additionally gets nested extrafanart/ variants at every level.
func fallbackCandidates(filePath, artType string) []string {
	if filePath == "" {
		return nil
	}
	var out []string
	dir := parentDir(filePath)
	for level := 0; level < maxWalkLevels; level++ {
		dirs := []string{dir}
		if artType == "fanart" {
			dirs = append(dirs, dir+"/extrafanart")
		}
		for _, d := range dirs {
			for _, name := range caseVariants(artType) {
				for _, ext := range candidateExtensions {
					out = append(out, d+"/"+name+ext)
				}
			}
		}
		next := parentDir(dir)
		if next == dir {
			break
		}
		dir = next
	}
	return out
}

// matchesCoverStem reports whether an image filename looks like cover art:
// its stem, lower-cased, contains one of the known cover basenames. Matching
// by substring picks up composites like Album-FrontCover.jpg or FOLDER.JPG.
func matchesCoverStem(filename string) bool {
	stem := strings.ToLower(stripExtension(filename))
	for _, base := range coverBasenames {
		if strings.Contains(stem, base) {
			return true
		}
	}
	return false
}

// artistInfoCandidates handles the legacy scraper layout where artist images
// were filed under a Windows-style "Artist Information" tree. The trailing
// segments after the marker are re-rooted under the music library root, then
// permuted through the usual extension set.
func artistInfoCandidates(rawPath, musicRoot string) []string {
	if musicRoot == "" {
		return nil
	}
	normalized := strings.ReplaceAll(rawPath, "\\", "/")
	marker := -1
	for _, m := range []string{"ArtistInformation", "Artist Information"} {
		if idx := strings.Index(normalized, m); idx >= 0 {
			marker = idx + len(m)
			break
		}
	}
	if marker < 0 {
		return nil
	}
	tail := strings.Trim(normalized[marker:], "/")
	if tail == "" {
		return nil
	}
	rebased := strings.TrimRight(musicRoot, "/") + "/" + tail
	out := []string{rebased}
	stem := stripExtension(rebased)
	for _, ext := range candidateExtensions {
		if stem+ext != rebased {
			out = append(out, stem+ext)
		}
	}
	return out
}
