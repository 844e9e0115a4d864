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

// CardRepository implements storage.CardRepository for BadgerDB.
type CardRepository struct {
	backend *Backend
}

var _ storage.CardRepository = (*CardRepository)(nil)

// NewCardRepository creates a new CardRepository.
func NewCardRepository(backend *Backend) *CardRepository {
	return &CardRepository{
		backend: backend,
	}
}

// Close releases resources. CardRepository has no resources to release.
func (r *CardRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CardRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetByDeck retrieves all cards belonging to the deck.
func (r *CardRepository) GetByDeck(ctx context.Context, deckID string) ([]*core.Card, error) {
	var result []*core.Card
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDeckCards(tx, deckID)
		return err
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards from local storage: %w", err)
	}
	return result, nil
}

// ReplaceAll atomically replaces the cards in scope with the given set.
// With a non-empty deckID only that deck's cards are replaced and every
// inserted card is stamped with the deck id; otherwise the whole collection
// is replaced. Runs in one transaction so readers never observe the
// intermediate empty state.
func (r *CardRepository) ReplaceAll(ctx context.Context, cards []*core.Card, deckID string) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if deckID != "" {
			if _, err := deleteDeckCards(tx, deckID); err != nil {
				return err
			}
		} else {
			if err := deleteKeysByPrefix(tx, cardKeysPrefix()); err != nil {
				return err
			}
			if err := deleteKeysByPrefix(tx, cardIdxKeysPrefix()); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		for _, card := range cards {
			if deckID != "" {
				card.DeckID = deckID
			}
			if card.ID == "" {
				card.ID = core.NewID()
			}
			card.InsertedAt = now
			card.UpdatedAt = now
			if err := writeCard(tx, card); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("failed to save cards to local storage: %w", err)
	}
	r.backend.notifyChange(CollectionCards)
	return nil
}

// Add inserts a single card and returns its id.
func (r *CardRepository) Add(ctx context.Context, card *core.Card) (string, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if card.ID == "" {
			card.ID = core.NewID()
		}
		existing, err := readCard(tx, makeCardKey(card.ID))
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: card %s", storage.ErrDuplicateKey, card.ID)
		}

		card.InsertedAt = time.Now().UTC()
		card.UpdatedAt = card.InsertedAt
		if err := writeCard(tx, card); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return "", fmt.Errorf("failed to add card to local storage: %w", err)
	}
	r.backend.notifyChange(CollectionCards)
	return card.ID, nil
}

// Update applies a partial-field patch to the card and returns the number of
// affected records. Updating a missing card affects zero records.
func (r *CardRepository) Update(ctx context.Context, id string, patch core.CardPatch) (int, error) {
	affected := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		card, err := readCard(tx, makeCardKey(id))
		if err != nil {
			return err
		}
		if card == nil {
			return nil
		}

		patch.Apply(card)
		card.UpdatedAt = time.Now().UTC()
		if err := tx.Set(makeCardKey(card.ID), storage.MarshalCard(card)); err != nil {
			return err
		}
		affected = 1
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, fmt.Errorf("failed to update card in local storage: %w", err)
	}
	if affected > 0 {
		r.backend.notifyChange(CollectionCards)
	}
	return affected, nil
}

// Delete removes a single card. Deleting a missing card is a no-op.
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		card, err := readCard(tx, makeCardKey(id))
		if err != nil {
			return err
		}
		if card == nil {
			return nil
		}

		if err := tx.Delete(makeCardDeckKey(card.DeckID, card.ID)); err != nil {
			return err
		}
		if err := tx.Delete(makeCardKey(card.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("failed to delete card from local storage: %w", err)
	}
	r.backend.notifyChange(CollectionCards)
	return nil
}

// DeleteByDeck removes every card belonging to the deck and returns the
// number deleted.
func (r *CardRepository) DeleteByDeck(ctx context.Context, deckID string) (int, error) {
	deleted := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		deleted, err = deleteDeckCards(tx, deckID)
		if err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cards from local storage: %w", err)
	}
	if deleted > 0 {
		r.backend.notifyChange(CollectionCards)
	}
	return deleted, nil
}

// Count returns the number of cards in scope.
func (r *CardRepository) Count(ctx context.Context, deckID string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		count, err = countCards(tx, deckID)
		return err
	}, false)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards in local storage: %w", err)
	}
	return count, nil
}

// Exists reports whether any card is stored in scope.
func (r *CardRepository) Exists(ctx context.Context, deckID string) (bool, error) {
	found := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := cardKeysPrefix()
		if deckID != "" {
			prefix = makeCardDeckPrefix(deckID)
		}
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		iter.Rewind()
		found = iter.Valid()
		return nil
	}, false)
	if err != nil {
		return false, fmt.Errorf("failed to check cards in local storage: %w", err)
	}
	return found, nil
}

// Search returns the cards in scope matching the query. An empty or
// whitespace-only query returns the full scoped set.
func (r *CardRepository) Search(ctx context.Context, query, deckID string) ([]*core.Card, error) {
	var result []*core.Card
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var cards []*core.Card
		var err error
		if deckID != "" {
			cards, err = readDeckCards(tx, deckID)
		} else {
			cards, err = readAllCards(tx)
		}
		if err != nil {
			return err
		}

		query = search.Normalize(query)
		for _, card := range cards {
			if query == "" || search.MatchesCard(card, query) {
				result = append(result, card)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to search cards in local storage: %w", err)
	}
	return result, nil
}

// ClearAll removes the cards in scope.
func (r *CardRepository) ClearAll(ctx context.Context, deckID string) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if deckID != "" {
			if _, err := deleteDeckCards(tx, deckID); err != nil {
				return err
			}
		} else {
			if err := deleteKeysByPrefix(tx, cardKeysPrefix()); err != nil {
				return err
			}
			if err := deleteKeysByPrefix(tx, cardIdxKeysPrefix()); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("failed to clear cards from local storage: %w", err)
	}
	r.backend.notifyChange(CollectionCards)
	return nil
}

// Helpers shared with the deck repository.

// writeCard stores the primary record and its deck-index entry.
func writeCard(tx *badger.Txn, card *core.Card) error {
	if err := tx.Set(makeCardKey(card.ID), storage.MarshalCard(card)); err != nil {
		return err
	}
	return tx.Set(makeCardDeckKey(card.DeckID, card.ID), []byte{})
}

// readCard reads a card from the transaction. Returns nil, nil if missing.
func readCard(tx *badger.Txn, key []byte) (*core.Card, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var card *core.Card
	err = item.Value(func(val []byte) error {
		var err error
		card, err = storage.UnmarshalCard(val)
		return err
	})
	return card, err
}

// readDeckCards loads every card of a deck through the deck index.
func readDeckCards(tx *badger.Txn, deckID string) ([]*core.Card, error) {
	prefix := makeCardDeckPrefix(deckID)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)

	var ids []string
	for iter.Rewind(); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		ids = append(ids, string(key[len(prefix):]))
	}
	iter.Close()

	cards := make([]*core.Card, 0, len(ids))
	for _, id := range ids {
		card, err := readCard(tx, makeCardKey(id))
		if err != nil {
			return nil, err
		}
		if card != nil {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// readAllCards scans every primary card record.
func readAllCards(tx *badger.Txn) ([]*core.Card, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = cardKeysPrefix()
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var cards []*core.Card
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var card *core.Card
		err := iter.Item().Value(func(val []byte) error {
			var err error
			card, err = storage.UnmarshalCard(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		if card != nil {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// countCards counts cards in scope without reading values.
func countCards(tx *badger.Txn, deckID string) (int, error) {
	prefix := cardKeysPrefix()
	if deckID != "" {
		prefix = makeCardDeckPrefix(deckID)
	}
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	count := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		count++
	}
	return count, nil
}

// deleteDeckCards removes a deck's cards, primary records and index entries
// both, and returns the number of cards removed.
func deleteDeckCards(tx *badger.Txn, deckID string) (int, error) {
	prefix := makeCardDeckPrefix(deckID)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)

	var ids []string
	for iter.Rewind(); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		ids = append(ids, string(key[len(prefix):]))
	}
	iter.Close()

	for _, id := range ids {
		if err := tx.Delete(makeCardKey(id)); err != nil {
			return 0, err
		}
		if err := tx.Delete(makeCardDeckKey(deckID, id)); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// deleteKeysByPrefix removes every key under the prefix.
func deleteKeysByPrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
