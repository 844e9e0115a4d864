package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/akarczew/memvocab/core"
)

// cardImport is the JSON shape accepted by `cards import`, matching what an
// AI agent produces from the deck's cached prompt.
type cardImport struct {
	ID            string `json:"id"`
	SourceWord    string `json:"sourceWord" validate:"required"`
	TargetWord    string `json:"targetWord" validate:"required"`
	Pronunciation string `json:"pronunciation"`
	Remark        string `json:"remark"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// readCardImports parses and validates a JSON array of cards from a file,
// binding them to deck. Records without an id get a deterministic one
// derived from the deck and the word pair, so re-importing the same file is
// idempotent.
func readCardImports(path string, deck *core.Deck) ([]*core.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var records []cardImport
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}

	cards := make([]*core.Card, 0, len(records))
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("invalid card at index %d: %w", i, err)
		}
		id := rec.ID
		if id == "" {
			id = core.IDFromContent(deck.ID + ":" + rec.SourceWord + ":" + rec.TargetWord)
		}
		cards = append(cards, &core.Card{
			ID:             id,
			DeckID:         deck.ID,
			SourceLanguage: deck.LanguageFrom,
			TargetLanguage: deck.LanguageTo,
			SourceWord:     rec.SourceWord,
			TargetWord:     rec.TargetWord,
			Pronunciation:  rec.Pronunciation,
			Remark:         rec.Remark,
		})
	}
	return cards, nil
}
