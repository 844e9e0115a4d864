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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDeck indicates a Deck failed validation.
	ErrInvalidDeck = errors.New("invalid deck")

	// ErrInvalidCard indicates a Card failed validation.
	ErrInvalidCard = errors.New("invalid card")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyTopic indicates the deck Topic field is empty.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrEmptyLanguage indicates a language field is empty.
	ErrEmptyLanguage = errors.New("language cannot be empty")

	// ErrEmptyDeckID indicates a card is missing its owning deck reference.
	ErrEmptyDeckID = errors.New("deck id cannot be empty")

	// ErrEmptyWord indicates the source or target word is empty.
	ErrEmptyWord = errors.New("word cannot be empty")
)
