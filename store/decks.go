package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/akarczew/memvocab/aiprompt"
	"github.com/akarczew/memvocab/core"
	"github.com/akarczew/memvocab/seed"
	"github.com/akarczew/memvocab/storage"
)

// defaultPromptAmount is the card count suggested in a freshly generated
// prompt when the deck has no cards yet.
const defaultPromptAmount = 10

// DecksStore is the UI-facing cache over the deck repository. It owns the
// isLoading / error / hasInitialized flags and guards initialization so
// concurrent mounts cannot race duplicate seeding.
//
// The cached slice is derived state: every mutating action re-fetches from
// the repository after the write commits, so the cache always reconciles to
// what the repository would return.
type DecksStore struct {
	repo   storage.DeckRepository
	seeder *seed.Seeder
	logger *slog.Logger

	mu          sync.Mutex
	decks       []*core.DeckWithAmount
	current     *core.DeckWithAmount
	loading     bool
	initialized bool
	errMsg      string
}

// DecksSnapshot is a point-in-time view of the store for rendering.
type DecksSnapshot struct {
	Decks          []*core.DeckWithAmount
	Current        *core.DeckWithAmount
	IsLoading      bool
	HasInitialized bool
	Err            string
}

// NewDecksStore creates a deck state store.
func NewDecksStore(repo storage.DeckRepository, seeder *seed.Seeder, logger *slog.Logger) *DecksStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecksStore{
		repo:   repo,
		seeder: seeder,
		logger: logger,
	}
}

// Initialize seeds default decks when none exist and fills the cache. The
// call is guarded: while loading, or once initialized, it is a no-op, so
// several components may call it concurrently without duplicating seeding.
//
// A seeding failure is recorded as a retryable error and the store still
// transitions to initialized with an empty deck list; see Retry.
func (s *DecksStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	decks, err := s.seeder.EnsureDefaultDecks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.initialized = true
	if err != nil {
		s.logger.Error("deck initialization failed", "err", err)
		s.errMsg = err.Error()
		return err
	}
	s.decks = decks
	if s.current == nil && len(decks) > 0 {
		s.current = decks[0]
	}
	return nil
}

// Retry clears a previous initialization failure and runs Initialize again.
func (s *DecksStore) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.initialized = false
	s.errMsg = ""
	s.mu.Unlock()

	return s.Initialize(ctx)
}

// Refresh re-fetches all decks from the repository.
func (s *DecksStore) Refresh(ctx context.Context) error {
	s.setLoading()

	decks, err := s.repo.GetAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = err.Error()
		return err
	}
	s.decks = decks
	return nil
}

// Create validates and saves a new deck, caching a generated AI prompt when
// the deck carries none, then re-fetches the deck list. The error, if any,
// is both recorded for passive display and returned.
func (s *DecksStore) Create(ctx context.Context, deck *core.Deck) (string, error) {
	if err := core.ValidateDeck(deck); err != nil {
		s.recordErr(err)
		return "", err
	}

	s.setLoading()

	if deck.PromptToAIAgent == "" {
		prompt, err := aiprompt.CardsRequest(deck.Topic, deck.Description,
			deck.LanguageFrom, deck.LanguageTo, defaultPromptAmount)
		if err != nil {
			s.logger.Warn("failed to render deck prompt", "topic", deck.Topic, "err", err)
		} else {
			deck.PromptToAIAgent = prompt
		}
	}

	id, err := s.repo.Save(ctx, deck)
	if err != nil {
		s.finishErr(err)
		return "", err
	}

	return id, s.reloadDecks(ctx)
}

// Update applies a partial patch to a deck and re-fetches. The current deck
// is refreshed when it is the one updated.
func (s *DecksStore) Update(ctx context.Context, id string, patch core.DeckPatch) error {
	s.setLoading()

	if _, err := s.repo.Update(ctx, id, patch); err != nil {
		s.finishErr(err)
		return err
	}
	if err := s.reloadDecks(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	refreshCurrent := s.current != nil && s.current.ID == id
	s.mu.Unlock()
	if refreshCurrent {
		updated, err := s.repo.GetByID(ctx, id)
		if err != nil {
			s.recordErr(err)
			return err
		}
		s.mu.Lock()
		s.current = updated
		s.mu.Unlock()
	}
	return nil
}

// Delete removes a deck (the repository cascades to its cards) and
// re-fetches. The current deck is cleared when it is the one deleted.
func (s *DecksStore) Delete(ctx context.Context, id string) error {
	s.setLoading()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.finishErr(err)
		return err
	}
	if err := s.reloadDecks(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
	return nil
}

// Search queries decks without touching the cached list.
func (s *DecksStore) Search(ctx context.Context, query string) ([]*core.DeckWithAmount, error) {
	decks, err := s.repo.Search(ctx, query)
	if err != nil {
		s.recordErr(err)
		return nil, err
	}
	return decks, nil
}

// SelectDeck resolves a deck by id and makes it current.
// Returns storage.ErrNotFound when no such deck exists.
func (s *DecksStore) SelectDeck(ctx context.Context, id string) error {
	deck, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordErr(err)
		return err
	}
	if deck == nil {
		err := fmt.Errorf("%w: deck %s", storage.ErrNotFound, id)
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	s.current = deck
	s.mu.Unlock()
	return nil
}

// Snapshot returns a point-in-time view for rendering.
func (s *DecksStore) Snapshot() DecksSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	decks := make([]*core.DeckWithAmount, len(s.decks))
	copy(decks, s.decks)
	return DecksSnapshot{
		Decks:          decks,
		Current:        s.current,
		IsLoading:      s.loading,
		HasInitialized: s.initialized,
		Err:            s.errMsg,
	}
}

// ClearError dismisses the stored error message.
func (s *DecksStore) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *DecksStore) setLoading() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *DecksStore) recordErr(err error) {
	s.mu.Lock()
	s.errMsg = err.Error()
	s.mu.Unlock()
}

func (s *DecksStore) finishErr(err error) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = err.Error()
	s.mu.Unlock()
}

// reloadDecks refreshes the cache after a successful write.
func (s *DecksStore) reloadDecks(ctx context.Context) error {
	decks, err := s.repo.GetAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = err.Error()
		return err
	}
	s.decks = decks
	return nil
}
