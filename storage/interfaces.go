package storage

import (
	"context"

	"github.com/akarczew/memvocab/core"
)

// Repository provides common storage operations shared across all
// repositories. Implementations must be thread-safe and support concurrent
// access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// DeckRepository provides operations for managing decks. Read operations
// decorate every deck with its current card count.
type DeckRepository interface {
	Repository

	// GetAll retrieves every deck with its computed card amount.
	GetAll(ctx context.Context) ([]*core.DeckWithAmount, error)

	// GetByID retrieves a single deck with its computed card amount.
	// Returns nil, nil if no deck has the given id.
	GetByID(ctx context.Context, id string) (*core.DeckWithAmount, error)

	// Save inserts a deck and returns its id.
	// Sets InsertedAt/UpdatedAt timestamps.
	Save(ctx context.Context, deck *core.Deck) (string, error)

	// SaveMany bulk-inserts decks. Used by seeding.
	SaveMany(ctx context.Context, decks []*core.Deck) error

	// Update applies a partial-field patch to the deck with the given id
	// and returns the number of affected records (0 when the deck does not
	// exist, mirroring an update on a missing key).
	Update(ctx context.Context, id string, patch core.DeckPatch) (int, error)

	// Delete removes the deck and, in the same transaction, every card
	// whose DeckID references it. Deleting a missing deck is a no-op.
	Delete(ctx context.Context, id string) error

	// Search returns all decks whose topic, description, languageFrom or
	// languageTo contains the query, case-insensitively. An empty or
	// whitespace-only query returns every deck. Results carry computed
	// amounts.
	Search(ctx context.Context, query string) ([]*core.DeckWithAmount, error)

	// Count returns the number of stored decks.
	Count(ctx context.Context) (int, error)

	// Exists reports whether any deck is stored.
	Exists(ctx context.Context) (bool, error)

	// ClearAll removes every deck. Cards are left untouched.
	ClearAll(ctx context.Context) error
}

// CardRepository provides operations for managing cards, scoped by deck id.
// Methods taking a deckID treat the empty string as "the whole collection".
type CardRepository interface {
	Repository

	// GetByDeck retrieves all cards whose DeckID matches, in insertion
	// order. An unknown deck id yields an empty result, not an error.
	GetByDeck(ctx context.Context, deckID string) ([]*core.Card, error)

	// ReplaceAll atomically deletes the existing cards in scope and
	// bulk-inserts the given ones. With a deckID the scope is that deck
	// (and every inserted card is stamped with it); without, the entire
	// collection is replaced. Runs in a single transaction, so concurrent
	// readers never observe the intermediate empty state.
	ReplaceAll(ctx context.Context, cards []*core.Card, deckID string) error

	// Add inserts a single card and returns its id.
	Add(ctx context.Context, card *core.Card) (string, error)

	// Update applies a partial-field patch to the card with the given id
	// and returns the number of affected records (0 when missing).
	Update(ctx context.Context, id string, patch core.CardPatch) (int, error)

	// Delete removes a single card. Deleting a missing card is a no-op.
	Delete(ctx context.Context, id string) error

	// DeleteByDeck removes every card belonging to the deck and returns
	// the number deleted.
	DeleteByDeck(ctx context.Context, deckID string) (int, error)

	// Count returns the number of cards in scope.
	Count(ctx context.Context, deckID string) (int, error)

	// Exists reports whether any card is stored in scope. Used to decide
	// whether seeding is needed.
	Exists(ctx context.Context, deckID string) (bool, error)

	// Search returns the cards in scope whose sourceWord, targetWord,
	// sourceLanguage, targetLanguage, pronunciation or remark contains the
	// query, case-insensitively. An empty or whitespace-only query returns
	// the full scoped set.
	Search(ctx context.Context, query, deckID string) ([]*core.Card, error)

	// ClearAll removes the cards in scope.
	ClearAll(ctx context.Context, deckID string) error
}
