package playback

import "strings"

// Kodi's player labels and the library stream metadata use different ISO 639
// alias sets (bibliographic vs terminological), so badges would never match
// without folding the common aliases onto one canonical form.
var languageAliases = map[string]string{
	"GER": "DEU",
	"FRE": "FRA",
	"ENG": "ENG",
	"SPA": "SPA",
	"ITA": "ITA",
	"POR": "POR",
	"RUS": "RUS",
	"JPN": "JPN",
	"KOR": "KOR",
	"CHI": "CHI",
}

// NormalizeLanguage reduces a player language label to an upper-cased
// three-letter code and resolves known aliases. It is idempotent.
func NormalizeLanguage(label string) string {
	code := strings.ToUpper(label)
	if len(code) > 3 {
		code = code[:3]
	}
	if canonical, ok := languageAliases[code]; ok {
		return canonical
	}
	return code
}
