package core

import (
	"slices"
	"strings"
)

// LanguageTags maps supported language names (lowercase) to the BCP 47 tags
// used by speech-synthesis collaborators. The storage layer never enforces
// this table; it exists for editing UIs that want a closed choice list.
var LanguageTags = map[string]string{
	"polish":     "pl-PL",
	"english":    "en-US",
	"spanish":    "es-ES",
	"french":     "fr-FR",
	"german":     "de-DE",
	"italian":    "it-IT",
	"portuguese": "pt-PT",
	"russian":    "ru-RU",
	"chinese":    "zh-CN",
	"japanese":   "ja-JP",
	"korean":     "ko-KR",
	"arabic":     "ar-SA",
	"hindi":      "hi-IN",
	"dutch":      "nl-NL",
	"swedish":    "sv-SE",
	"norwegian":  "no-NO",
	"danish":     "da-DK",
	"finnish":    "fi-FI",
}

// SupportedLanguages returns the display names of all supported languages,
// capitalized and sorted.
func SupportedLanguages() []string {
	names := make([]string, 0, len(LanguageTags))
	for name := range LanguageTags {
		names = append(names, strings.ToUpper(name[:1])+name[1:])
	}
	slices.Sort(names)
	return names
}

// IsSupportedLanguage reports whether name is in the supported-language
// table. Matching is case-insensitive.
func IsSupportedLanguage(name string) bool {
	_, ok := LanguageTags[strings.ToLower(name)]
	return ok
}
