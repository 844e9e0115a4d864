package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// NewID returns a new opaque unique identifier.
// IDs are generated client-side; the storage layer never mints them.
func NewID() string {
	return uuid.NewString()
}

// IDFromContent derives a deterministic ID from text content using BLAKE2b
// hashing. Identical content always produces the identical ID, which keeps
// seeded and re-imported records stable across runs.
func IDFromContent(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Deck represents a named topic/language-pair grouping of cards.
// The number of cards in a deck is never stored; see DeckWithAmount.
type Deck struct {
	ID              string
	Topic           string
	Description     string // optional free text
	LanguageFrom    string
	LanguageTo      string
	PromptToAIAgent string // cached card-generation prompt, optional
	InsertedAt      time.Time
	UpdatedAt       time.Time
}

// DeckWithAmount is a Deck decorated with its card count, computed at read
// time from the card collection.
type DeckWithAmount struct {
	Deck
	Amount int
}

// Card represents one translation pair belonging to exactly one deck.
type Card struct {
	ID             string
	DeckID         string
	SourceLanguage string
	TargetLanguage string
	SourceWord     string
	TargetWord     string
	Pronunciation  string // phonetic transcription
	Remark         string // optional clarifying note
	InsertedAt     time.Time
	UpdatedAt      time.Time
}

// DeckPatch carries a partial-field update for a deck. Nil fields are left
// untouched.
type DeckPatch struct {
	Topic           *string
	Description     *string
	LanguageFrom    *string
	LanguageTo      *string
	PromptToAIAgent *string
}

// Apply copies the non-nil patch fields onto the deck.
func (p DeckPatch) Apply(d *Deck) {
	if p.Topic != nil {
		d.Topic = *p.Topic
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.LanguageFrom != nil {
		d.LanguageFrom = *p.LanguageFrom
	}
	if p.LanguageTo != nil {
		d.LanguageTo = *p.LanguageTo
	}
	if p.PromptToAIAgent != nil {
		d.PromptToAIAgent = *p.PromptToAIAgent
	}
}

// IsZero reports whether the patch carries no changes.
func (p DeckPatch) IsZero() bool {
	return p.Topic == nil && p.Description == nil && p.LanguageFrom == nil &&
		p.LanguageTo == nil && p.PromptToAIAgent == nil
}

// CardPatch carries a partial-field update for a card. Nil fields are left
// untouched. The owning deck cannot be changed through a patch.
type CardPatch struct {
	SourceLanguage *string
	TargetLanguage *string
	SourceWord     *string
	TargetWord     *string
	Pronunciation  *string
	Remark         *string
}

// Apply copies the non-nil patch fields onto the card.
func (p CardPatch) Apply(c *Card) {
	if p.SourceLanguage != nil {
		c.SourceLanguage = *p.SourceLanguage
	}
	if p.TargetLanguage != nil {
		c.TargetLanguage = *p.TargetLanguage
	}
	if p.SourceWord != nil {
		c.SourceWord = *p.SourceWord
	}
	if p.TargetWord != nil {
		c.TargetWord = *p.TargetWord
	}
	if p.Pronunciation != nil {
		c.Pronunciation = *p.Pronunciation
	}
	if p.Remark != nil {
		c.Remark = *p.Remark
	}
}

// IsZero reports whether the patch carries no changes.
func (p CardPatch) IsZero() bool {
	return p.SourceLanguage == nil && p.TargetLanguage == nil &&
		p.SourceWord == nil && p.TargetWord == nil &&
		p.Pronunciation == nil && p.Remark == nil
}
