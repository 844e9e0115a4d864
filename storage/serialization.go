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


package storage

import (
	"github.com/akarczew/memvocab/core"
)

// MarshalDeck serializes a Deck to bytes.
func MarshalDeck(deck *core.Deck) []byte {
	buf := make([]byte, core.DeckMUS.Size(*deck))
	core.DeckMUS.Marshal(*deck, buf)
	return buf
}

// UnmarshalDeck deserializes a Deck from bytes.
func UnmarshalDeck(data []byte) (*core.Deck, error) {
	deck, _, err := core.DeckMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

// MarshalDeckV1 serializes a legacy version-1 deck record to bytes.
// Only migration tests write this layout.
func MarshalDeckV1(deck *core.DeckV1) []byte {
	buf := make([]byte, core.DeckV1MUS.Size(*deck))
	core.DeckV1MUS.Marshal(*deck, buf)
	return buf
}

// UnmarshalDeckV1 deserializes a legacy version-1 deck record from bytes.
func UnmarshalDeckV1(data []byte) (*core.DeckV1, error) {
	deck, _, err := core.DeckV1MUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

// MarshalCard serializes a Card to bytes.
func MarshalCard(card *core.Card) []byte {
	buf := make([]byte, core.CardMUS.Size(*card))
	core.CardMUS.Marshal(*card, buf)
	return buf
}

// UnmarshalCard deserializes a Card from bytes.
func UnmarshalCard(data []byte) (*core.Card, error) {
	card, _, err := core.CardMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &card, nil
}
