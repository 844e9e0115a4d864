package search

import (
	"strings"

	"github.com/akarczew/memvocab/core"
)

// Normalize trims surrounding whitespace from a query. A query that
// normalizes to the empty string means "match everything".
func Normalize(query string) string {
	return strings.TrimSpace(query)
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// matchesAny reports whether any field contains the query case-insensitively.
func matchesAny(query string, fields ...string) bool {
	for _, field := range fields {
		if containsFold(field, query) {
			return true
		}
	}
	return false
}

// MatchesDeck reports whether the deck's topic, description or language
// names contain the query. Callers handle the empty-query case themselves.
func MatchesDeck(deck *core.Deck, query string) bool {
	return matchesAny(query,
		deck.Topic,
		deck.Description,
		deck.LanguageFrom,
		deck.LanguageTo,
	)
}

// MatchesCard reports whether any searchable card field contains the query.
// An absent remark is the empty string and never matches a non-empty query.
func MatchesCard(card *core.Card, query string) bool {
	return matchesAny(query,
		card.SourceWord,
		card.TargetWord,
		card.SourceLanguage,
		card.TargetLanguage,
		card.Pronunciation,
		card.Remark,
	)
}
