/*
Copyright 2025 Adam Karczewski

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/akarczew/memvocab/core"
	"github.com/akarczew/memvocab/seed"
	"github.com/akarczew/memvocab/storage"
)

// ErrNoDeckScope is returned by bulk operations invoked before the store has
// been initialized for a deck.
var ErrNoDeckScope = errors.New("cards store is not scoped to a deck")

// CardsStore is the UI-facing cache over the card repository, scoped to a
// single deck at a time. Like DecksStore it guards initialization and keeps
// its cache reconciled by re-fetching after every write.
type CardsStore struct {
	repo   storage.CardRepository
	seeder *seed.Seeder
	logger *slog.Logger

	mu          sync.Mutex
	cards       []*core.Card
	deckID      string
	loading     bool
	initialized bool
	errMsg      string
}

// CardsSnapshot is a point-in-time view of the store for rendering.
type CardsSnapshot struct {
	Cards          []*core.Card
	DeckID         string
	IsLoading      bool
	HasInitialized bool
	Err            string
}

// NewCardsStore creates a card state store.
func NewCardsStore(repo storage.CardRepository, seeder *seed.Seeder, logger *slog.Logger) *CardsStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardsStore{
		repo:   repo,
		seeder: seeder,
		logger: logger,
	}
}

// Initialize scopes the store to deckID, seeding default cards when the deck
// is empty. While loading, or once initialized for the same deck, the call
// is a no-op. Initializing for a different deck re-scopes the store.
func (s *CardsStore) Initialize(ctx context.Context, deckID string) error {
	s.mu.Lock()
	if s.loading || (s.initialized && s.deckID == deckID) {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.errMsg = ""
	s.deckID = deckID
	s.mu.Unlock()

	cards, err := s.seeder.EnsureDefaultCards(ctx, deckID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.initialized = true
	if err != nil {
		s.logger.Error("card initialization failed", "deckID", deckID, "err", err)
		s.errMsg = err.Error()
		return err
	}
	s.cards = cards
	return nil
}

// Retry clears a previous initialization failure and initializes again for
// the current deck.
func (s *CardsStore) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	deckID := s.deckID
	s.initialized = false
	s.errMsg = ""
	s.mu.Unlock()

	return s.Initialize(ctx, deckID)
}

// SaveAll replaces every card of the current deck in one transaction and
// re-fetches, so the cache reflects the stamped ids and timestamps. The
// store must be scoped to a deck first; an unscoped replace would wipe the
// whole collection.
func (s *CardsStore) SaveAll(ctx context.Context, cards []*core.Card) error {
	s.mu.Lock()
	deckID := s.deckID
	if deckID == "" {
		s.errMsg = ErrNoDeckScope.Error()
		s.mu.Unlock()
		return ErrNoDeckScope
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	if err := s.repo.ReplaceAll(ctx, cards, deckID); err != nil {
		s.finishErr(err)
		return err
	}
	return s.reloadCards(ctx, deckID)
}

// Add stores a single new card and re-fetches.
func (s *CardsStore) Add(ctx context.Context, card *core.Card) (string, error) {
	s.mu.Lock()
	deckID := s.deckID
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	if card.DeckID == "" {
		card.DeckID = deckID
	}
	id, err := s.repo.Add(ctx, card)
	if err != nil {
		s.finishErr(err)
		return "", err
	}
	return id, s.reloadCards(ctx, deckID)
}

// Update applies a partial patch to a card and re-fetches.
func (s *CardsStore) Update(ctx context.Context, id string, patch core.CardPatch) error {
	s.mu.Lock()
	deckID := s.deckID
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	if _, err := s.repo.Update(ctx, id, patch); err != nil {
		s.finishErr(err)
		return err
	}
	return s.reloadCards(ctx, deckID)
}

// Delete removes a card and re-fetches.
func (s *CardsStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	deckID := s.deckID
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.finishErr(err)
		return err
	}
	return s.reloadCards(ctx, deckID)
}

// Search queries cards within the current deck without touching the cache.
func (s *CardsStore) Search(ctx context.Context, query string) ([]*core.Card, error) {
	s.mu.Lock()
	deckID := s.deckID
	s.mu.Unlock()

	cards, err := s.repo.Search(ctx, query, deckID)
	if err != nil {
		s.recordErr(err)
		return nil, err
	}
	return cards, nil
}

// StoredCount reports how many cards of the current deck the repository
// holds, bypassing the cache.
func (s *CardsStore) StoredCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	deckID := s.deckID
	s.mu.Unlock()

	count, err := s.repo.Count(ctx, deckID)
	if err != nil {
		s.recordErr(err)
		return 0, err
	}
	return count, nil
}

// ClearStored deletes every card of the current deck and resets the store so
// the next Initialize re-seeds.
func (s *CardsStore) ClearStored(ctx context.Context) error {
	s.mu.Lock()
	deckID := s.deckID
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	if _, err := s.repo.DeleteByDeck(ctx, deckID); err != nil {
		s.finishErr(err)
		return err
	}

	s.mu.Lock()
	s.loading = false
	s.initialized = false
	s.cards = nil
	s.mu.Unlock()
	return nil
}

// Snapshot returns a point-in-time view for rendering.
func (s *CardsStore) Snapshot() CardsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]*core.Card, len(s.cards))
	copy(cards, s.cards)
	return CardsSnapshot{
		Cards:          cards,
		DeckID:         s.deckID,
		IsLoading:      s.loading,
		HasInitialized: s.initialized,
		Err:            s.errMsg,
	}
}

// ClearError dismisses the stored error message.
func (s *CardsStore) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *CardsStore) recordErr(err error) {
	s.mu.Lock()
	s.errMsg = err.Error()
	s.mu.Unlock()
}

func (s *CardsStore) finishErr(err error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = err.Error()
	s.mu.Unlock()
}

func (s *CardsStore) reloadCards(ctx context.Context, deckID string) error {
	cards, err := s.repo.GetByDeck(ctx, deckID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = err.Error()
		return err
	}
	s.cards = cards
	return nil
}
