package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/akarczew/memvocab/core"
	"github.com/akarczew/memvocab/search"
	"github.com/akarczew/memvocab/storage"
)

// DeckRepository implements storage.DeckRepository for BadgerDB. Read paths
// decorate each deck with its card count, computed from the card index in
// the same transaction. The amount is never stored.
type DeckRepository struct {
	backend *Backend
}

var _ storage.DeckRepository = (*DeckRepository)(nil)

// NewDeckRepository creates a new DeckRepository.
func NewDeckRepository(backend *Backend) *DeckRepository {
	return &DeckRepository{
		backend: backend,
	}
}

// Close releases resources. DeckRepository has no resources to release.
func (r *DeckRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DeckRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetAll retrieves every deck with its computed card amount.
func (r *DeckRepository) GetAll(ctx context.Context) ([]*core.DeckWithAmount, error) {
	var result []*core.DeckWithAmount
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		decks, err := readAllDecks(tx)
		if err != nil {
			return err
		}
		result, err = decorateAmounts(tx, decks)
		return err
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load decks from local storage: %w", err)
	}
	return result, nil
}

// GetByID retrieves a single deck with its computed card amount.
// Returns nil, nil when no deck has the given id.
func (r *DeckRepository) GetByID(ctx context.Context, id string) (*core.DeckWithAmount, error) {
	var result *core.DeckWithAmount
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		deck, err := readDeck(tx, makeDeckKey(id))
		if err != nil {
			return err
		}
		if deck == nil {
			return nil
		}
		amount, err := countCards(tx, deck.ID)
		if err != nil {
			return err
		}
		result = &core.DeckWithAmount{Deck: *deck, Amount: amount}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck from local storage: %w", err)
	}
	return result, nil
}

// Save inserts a deck and returns its id. Inserting an id that already
// exists fails with storage.ErrDuplicateKey.
func (r *DeckRepository) Save(ctx context.Context, deck *core.Deck) (string, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if deck.ID == "" {
			deck.ID = core.NewID()
		}
		existing, err := readDeck(tx, makeDeckKey(deck.ID))
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: deck %s", storage.ErrDuplicateKey, deck.ID)
		}

		deck.InsertedAt = time.Now().UTC()
		deck.UpdatedAt = deck.InsertedAt
		if err := tx.Set(makeDeckKey(deck.ID), storage.MarshalDeck(deck)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return "", fmt.Errorf("failed to save deck to local storage: %w", err)
	}
	r.backend.notifyChange(CollectionDecks)
	return deck.ID, nil
}

// SaveMany bulk-inserts decks. Used by seeding; existing records with the
// same id are overwritten.
func (r *DeckRepository) SaveMany(ctx context.Context, decks []*core.Deck) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, deck := range decks {
			if deck.ID == "" {
				deck.ID = core.NewID()
			}
			deck.InsertedAt = now
			deck.UpdatedAt = now
			if err := tx.Set(makeDeckKey(deck.ID), storage.MarshalDeck(deck)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("failed to save decks to local storage: %w", err)
	}
	r.backend.notifyChange(CollectionDecks)
	return nil
}

// Update applies a partial-field patch to the deck and returns the number of
// affected records. Updating a missing deck affects zero records.
func (r *DeckRepository) Update(ctx context.Context, id string, patch core.DeckPatch) (int, error) {
	affected := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		deck, err := readDeck(tx, makeDeckKey(id))
		if err != nil {
			return err
		}
		if deck == nil {
			return nil
		}

		patch.Apply(deck)
		deck.UpdatedAt = time.Now().UTC()
		if err := tx.Set(makeDeckKey(deck.ID), storage.MarshalDeck(deck)); err != nil {
			return err
		}
		affected = 1
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, fmt.Errorf("failed to update deck in local storage: %w", err)
	}
	if affected > 0 {
		r.backend.notifyChange(CollectionDecks)
	}
	return affected, nil
}

// Delete removes the deck and cascades to its cards in the same transaction,
// so a crash can never leave orphaned cards behind. Deleting a missing deck
// is a no-op.
func (r *DeckRepository) Delete(ctx context.Context, id string) error {
	cascaded := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeDeckKey(id)); err != nil {
			return err
		}
		var err error
		cascaded, err = deleteDeckCards(tx, id)
		if err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("failed to delete deck from local storage: %w", err)
	}
	if cascaded > 0 {
		r.backend.notifyChange(CollectionDecks, CollectionCards)
	} else {
		r.backend.notifyChange(CollectionDecks)
	}
	return nil
}

// Search returns all decks matching the query, with computed amounts. An
// empty or whitespace-only query returns every deck.
func (r *DeckRepository) Search(ctx context.Context, query string) ([]*core.DeckWithAmount, error) {
	var result []*core.DeckWithAmount
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		decks, err := readAllDecks(tx)
		if err != nil {
			return err
		}

		query = search.Normalize(query)
		var matched []*core.Deck
		for _, deck := range decks {
			if query == "" || search.MatchesDeck(deck, query) {
				matched = append(matched, deck)
			}
		}
		result, err = decorateAmounts(tx, matched)
		return err
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to search decks in local storage: %w", err)
	}
	return result, nil
}

// Count returns the number of stored decks.
func (r *DeckRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = deckKeysPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, fmt.Errorf("failed to count decks in local storage: %w", err)
	}
	return count, nil
}

// Exists reports whether any deck is stored.
func (r *DeckRepository) Exists(ctx context.Context) (bool, error) {
	found := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = deckKeysPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		iter.Rewind()
		found = iter.Valid()
		return nil
	}, false)
	if err != nil {
		return false, fmt.Errorf("failed to check decks in local storage: %w", err)
	}
	return found, nil
}

// ClearAll removes every deck. Cards are left untouched; callers wanting a
// full wipe clear the card collection as well.
func (r *DeckRepository) ClearAll(ctx context.Context) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteKeysByPrefix(tx, deckKeysPrefix()); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("failed to clear decks from local storage: %w", err)
	}
	r.backend.notifyChange(CollectionDecks)
	return nil
}

// Helpers

// readDeck reads a deck from the transaction. Returns nil, nil if missing.
func readDeck(tx *badger.Txn, key []byte) (*core.Deck, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var deck *core.Deck
	err = item.Value(func(val []byte) error {
		var err error
		deck, err = storage.UnmarshalDeck(val)
		return err
	})
	return deck, err
}

// readAllDecks scans every deck record.
func readAllDecks(tx *badger.Txn) ([]*core.Deck, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = deckKeysPrefix()
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var decks []*core.Deck
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var deck *core.Deck
		err := iter.Item().Value(func(val []byte) error {
			var err error
			deck, err = storage.UnmarshalDeck(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		if deck != nil {
			decks = append(decks, deck)
		}
	}
	return decks, nil
}

// decorateAmounts attaches the card count to each deck. One index lookup per
// deck; fine at the expected scale of hundreds of decks.
func decorateAmounts(tx *badger.Txn, decks []*core.Deck) ([]*core.DeckWithAmount, error) {
	result := make([]*core.DeckWithAmount, 0, len(decks))
	for _, deck := range decks {
		amount, err := countCards(tx, deck.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &core.DeckWithAmount{Deck: *deck, Amount: amount})
	}
	return result, nil
}
