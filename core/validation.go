// Copyright 2025 Adam Karczewski
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateDeck validates a Deck according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Topic must not be empty
//   - LanguageFrom and LanguageTo must not be empty
//
// NOT validated:
//   - Description and PromptToAIAgent (optional free text)
//   - Language names against the supported-language table (an editing
//     concern, not a storage one)
func ValidateDeck(deck *Deck) error {
	if deck == nil {
		return fmt.Errorf("%w: deck is nil", ErrInvalidDeck)
	}

	if deck.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDeck, ErrEmptyID)
	}

	if deck.Topic == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDeck, ErrEmptyTopic)
	}

	if deck.LanguageFrom == "" || deck.LanguageTo == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDeck, ErrEmptyLanguage)
	}

	return nil
}

// ValidateCard validates a Card according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - DeckID must not be empty (every card belongs to exactly one deck)
//   - SourceWord and TargetWord must not be empty
//
// NOT validated:
//   - Remark and Pronunciation (optional)
//   - That DeckID references an existing deck (no foreign-key constraint at
//     the storage layer)
func ValidateCard(card *Card) error {
	if card == nil {
		return fmt.Errorf("%w: card is nil", ErrInvalidCard)
	}

	if card.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCard, ErrEmptyID)
	}

	if card.DeckID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCard, ErrEmptyDeckID)
	}

	if card.SourceWord == "" || card.TargetWord == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCard, ErrEmptyWord)
	}

	return nil
}
