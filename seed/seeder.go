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


// Package seed guarantees the store has usable data on first run.
//
// Seeding is idempotent: defaults are only written when the target
// collection is empty, so repeated calls never duplicate them. A simulated
// network delay preserves realistic async-loading states for UI testing;
// non-UI callers disable it with WithDelay(0, 0).
package seed

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/akarczew/memvocab/core"
	"github.com/akarczew/memvocab/storage"
)

// Seeder writes built-in default data into empty collections.
type Seeder struct {
	decks  storage.DeckRepository
	cards  storage.CardRepository
	logger *slog.Logger

	delayMin time.Duration
	delayMax time.Duration
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithDelay bounds the simulated network delay. Both zero disables it.
// Default is 500ms to 1500ms.
func WithDelay(min, max time.Duration) Option {
	return func(s *Seeder) {
		if max < min {
			max = min
		}
		s.delayMin = min
		s.delayMax = max
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewSeeder creates a seeder over the two repositories.
func NewSeeder(decks storage.DeckRepository, cards storage.CardRepository, opts ...Option) *Seeder {
	s := &Seeder{
		decks:    decks,
		cards:    cards,
		logger:   slog.Default(),
		delayMin: 500 * time.Millisecond,
		delayMax: 1500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureDefaultDecks inserts the built-in decks when the deck collection is
// empty and returns all decks either way. Calling it any number of times
// yields exactly one set of defaults.
func (s *Seeder) EnsureDefaultDecks(ctx context.Context) ([]*core.DeckWithAmount, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return nil, err
	}

	exists, err := s.decks.Exists(ctx)
	if err != nil {
		s.logger.Error("failed to check for existing decks", "err", err)
		return nil, err
	}

	if !exists {
		defaults := DefaultDecks()
		if err := s.decks.SaveMany(ctx, defaults); err != nil {
			s.logger.Error("failed to seed default decks", "err", err)
			return nil, err
		}
		s.logger.Info("seeded default decks", "count", len(defaults))
	}

	return s.decks.GetAll(ctx)
}

// EnsureDefaultCards inserts the built-in cards for the deck when it has
// zero cards and returns the deck's cards either way.
func (s *Seeder) EnsureDefaultCards(ctx context.Context, deckID string) ([]*core.Card, error) {
	if err := s.simulateDelay(ctx); err != nil {
		return nil, err
	}

	exists, err := s.cards.Exists(ctx, deckID)
	if err != nil {
		s.logger.Error("failed to check for existing cards", "deckID", deckID, "err", err)
		return nil, err
	}

	if !exists {
		defaults := DefaultCards(deckID)
		if err := s.cards.ReplaceAll(ctx, defaults, deckID); err != nil {
			s.logger.Error("failed to seed default cards", "deckID", deckID, "err", err)
			return nil, err
		}
		s.logger.Info("seeded default cards", "deckID", deckID, "count", len(defaults))
	}

	return s.cards.GetByDeck(ctx, deckID)
}

// simulateDelay waits a uniform random duration between delayMin and
// delayMax, honoring context cancellation.
func (s *Seeder) simulateDelay(ctx context.Context) error {
	if s.delayMax <= 0 {
		return nil
	}
	d := s.delayMin
	if s.delayMax > s.delayMin {
		d += rand.N(s.delayMax - s.delayMin)
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
