package badger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/akarczew/memvocab/core"
	"github.com/akarczew/memvocab/storage"
)

func newCard(id, deckID, source, target string) *core.Card {
	return &core.Card{
		ID:             id,
		DeckID:         deckID,
		SourceLanguage: "polish",
		TargetLanguage: "english",
		SourceWord:     source,
		TargetWord:     target,
	}
}

func TestCardBasics(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	id, err := cardRepo.Add(ctx, newCard("c1", "d1", "Dziękuję", "Thank you"))
	if err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}
	if id != "c1" {
		t.Fatalf("Expected id c1, got %s", id)
	}

	cards, err := cardRepo.GetByDeck(ctx, "d1")
	if err != nil {
		t.Fatalf("Failed to get cards: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(cards))
	}
	if cards[0].SourceWord != "Dziękuję" {
		t.Fatalf("Expected 'Dziękuję', got '%s'", cards[0].SourceWord)
	}
	if cards[0].InsertedAt.IsZero() || cards[0].UpdatedAt.IsZero() {
		t.Fatal("Expected timestamps to be stamped on insert")
	}

	count, err := cardRepo.Count(ctx, "d1")
	if err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected count 1, got %d", count)
	}

	exists, err := cardRepo.Exists(ctx, "d1")
	if err != nil {
		t.Fatalf("Failed to check cards: %v", err)
	}
	if !exists {
		t.Fatal("Expected cards to exist for d1")
	}

	exists, err = cardRepo.Exists(ctx, "other")
	if err != nil {
		t.Fatalf("Failed to check cards: %v", err)
	}
	if exists {
		t.Fatal("Expected no cards for unknown deck")
	}
}

func TestCardAdd_GeneratesID(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	id, err := cardRepo.Add(context.Background(), newCard("", "d1", "Tak", "Yes"))
	if err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated id")
	}
}

func TestCardAdd_Duplicate(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := cardRepo.Add(ctx, newCard("c1", "d1", "Tak", "Yes")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}
	_, err = cardRepo.Add(ctx, newCard("c1", "d1", "Nie", "No"))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestCardReplaceAll_DeckScope(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Two cards in d1, one in d2
	if _, err := cardRepo.Add(ctx, newCard("a1", "d1", "Tak", "Yes")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}
	if _, err := cardRepo.Add(ctx, newCard("a2", "d1", "Nie", "No")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}
	if _, err := cardRepo.Add(ctx, newCard("b1", "d2", "Cześć", "Hi")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}

	// Replace d1 with a single card; the deck id on the card is wrong on
	// purpose and must be overwritten by the scope.
	replacement := newCard("a3", "ignored", "Proszę", "Please")
	if err := cardRepo.ReplaceAll(ctx, []*core.Card{replacement}, "d1"); err != nil {
		t.Fatalf("Failed to replace cards: %v", err)
	}

	cards, err := cardRepo.GetByDeck(ctx, "d1")
	if err != nil {
		t.Fatalf("Failed to get cards: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card after replace, got %d", len(cards))
	}
	if cards[0].ID != "a3" || cards[0].DeckID != "d1" {
		t.Fatalf("Unexpected card after replace: %+v", cards[0])
	}

	// The other deck is untouched
	other, err := cardRepo.GetByDeck(ctx, "d2")
	if err != nil {
		t.Fatalf("Failed to get cards: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("Expected d2 untouched, got %d cards", len(other))
	}

	// The old primary records are gone, not just unlinked
	total, err := cardRepo.Count(ctx, "")
	if err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if total != 2 {
		t.Fatalf("Expected 2 cards total, got %d", total)
	}
}

func TestCardReplaceAll_WholeCollection(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := cardRepo.Add(ctx, newCard("a1", "d1", "Tak", "Yes")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}
	if _, err := cardRepo.Add(ctx, newCard("b1", "d2", "Nie", "No")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}

	// Empty deck id replaces everything; cards keep their own deck ids
	if err := cardRepo.ReplaceAll(ctx, []*core.Card{newCard("c1", "d3", "Cześć", "Hi")}, ""); err != nil {
		t.Fatalf("Failed to replace cards: %v", err)
	}

	total, err := cardRepo.Count(ctx, "")
	if err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if total != 1 {
		t.Fatalf("Expected 1 card total, got %d", total)
	}

	cards, err := cardRepo.GetByDeck(ctx, "d3")
	if err != nil {
		t.Fatalf("Failed to get cards: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("Expected card to keep its own deck id, got %d cards in d3", len(cards))
	}
}

func TestCardReplaceAll_Empty(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := cardRepo.Add(ctx, newCard("a1", "d1", "Tak", "Yes")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}

	// Replacing with an empty set clears the scope
	if err := cardRepo.ReplaceAll(ctx, nil, "d1"); err != nil {
		t.Fatalf("Failed to replace cards: %v", err)
	}

	exists, err := cardRepo.Exists(ctx, "d1")
	if err != nil {
		t.Fatalf("Failed to check cards: %v", err)
	}
	if exists {
		t.Fatal("Expected d1 to be empty after replacing with nothing")
	}
}

func TestCardReplaceAll_ReadersNeverSeeEmptyDeck(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := cardRepo.Add(ctx, newCard("a1", "d1", "Tak", "Yes")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}
	if _, err := cardRepo.Add(ctx, newCard("a2", "d1", "Nie", "No")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}

	// Readers hammer the deck while it is bulk-replaced. The deck is
	// non-empty before and after every replace, so a zero result would mean
	// the delete half of the replace leaked out of its transaction.
	done := make(chan struct{})
	var sawEmpty atomic.Bool
	var readErr atomic.Value
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				cards, err := cardRepo.GetByDeck(ctx, "d1")
				if err != nil {
					readErr.Store(err)
					return
				}
				if len(cards) == 0 {
					sawEmpty.Store(true)
					return
				}
				count, err := cardRepo.Count(ctx, "d1")
				if err != nil {
					readErr.Store(err)
					return
				}
				if count == 0 {
					sawEmpty.Store(true)
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		replacement := []*core.Card{
			newCard("a1", "d1", "Tak", "Yes"),
			newCard("a2", "d1", "Nie", "No"),
			newCard("a3", "d1", "Proszę", "Please"),
		}
		if err := cardRepo.ReplaceAll(ctx, replacement, "d1"); err != nil {
			t.Fatalf("Failed to replace cards: %v", err)
		}
	}
	close(done)
	wg.Wait()

	if err, ok := readErr.Load().(error); ok {
		t.Fatalf("Reader failed: %v", err)
	}
	if sawEmpty.Load() {
		t.Fatal("A reader observed an empty deck during bulk replace")
	}
}

func TestCardUpdate(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := cardRepo.Add(ctx, newCard("c1", "d1", "Tak", "Yes")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}

	remark := "affirmative"
	affected, err := cardRepo.Update(ctx, "c1", core.CardPatch{Remark: &remark})
	if err != nil {
		t.Fatalf("Failed to update card: %v", err)
	}
	if affected != 1 {
		t.Fatalf("Expected 1 affected record, got %d", affected)
	}

	cards, err := cardRepo.GetByDeck(ctx, "d1")
	if err != nil {
		t.Fatalf("Failed to get cards: %v", err)
	}
	if cards[0].Remark != "affirmative" {
		t.Fatalf("Expected patched remark, got '%s'", cards[0].Remark)
	}
	if cards[0].SourceWord != "Tak" {
		t.Fatalf("Unpatched field changed: %s", cards[0].SourceWord)
	}
	if cards[0].UpdatedAt.Before(cards[0].InsertedAt) {
		t.Fatal("Expected UpdatedAt to move forward on update")
	}
}

func TestCardUpdate_Missing(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	remark := "x"
	affected, err := cardRepo.Update(context.Background(), "missing", core.CardPatch{Remark: &remark})
	if err != nil {
		t.Fatalf("Updating a missing card should not error, got %v", err)
	}
	if affected != 0 {
		t.Fatalf("Expected 0 affected records, got %d", affected)
	}
}

func TestCardDelete(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := cardRepo.Add(ctx, newCard("c1", "d1", "Tak", "Yes")); err != nil {
		t.Fatalf("Failed to add card: %v", err)
	}

	if err := cardRepo.Delete(ctx, "c1"); err != nil {
		t.Fatalf("Failed to delete card: %v", err)
	}

	cards, err := cardRepo.GetByDeck(ctx, "d1")
	if err != nil {
		t.Fatalf("Failed to get cards: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("Expected 0 cards after delete, got %d", len(cards))
	}

	// Deleting again is a no-op
	if err := cardRepo.Delete(ctx, "c1"); err != nil {
		t.Fatalf("Deleting a missing card should not error, got %v", err)
	}
}

func TestCardDeleteByDeck(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	for _, c := range []*core.Card{
		newCard("a1", "d1", "Tak", "Yes"),
		newCard("a2", "d1", "Nie", "No"),
		newCard("b1", "d2", "Cześć", "Hi"),
	} {
		if _, err := cardRepo.Add(ctx, c); err != nil {
			t.Fatalf("Failed to add card: %v", err)
		}
	}

	deleted, err := cardRepo.DeleteByDeck(ctx, "d1")
	if err != nil {
		t.Fatalf("Failed to delete cards: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("Expected 2 deleted, got %d", deleted)
	}

	total, err := cardRepo.Count(ctx, "")
	if err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if total != 1 {
		t.Fatalf("Expected 1 card remaining, got %d", total)
	}
}

func TestCardSearch(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	thanks := newCard("a1", "d1", "Dziękuję", "Thank you")
	thanks.Remark = "formal"
	for _, c := range []*core.Card{
		thanks,
		newCard("a2", "d1", "Proszę", "Please"),
		newCard("b1", "d2", "Dziękuję bardzo", "Thank you very much"),
	} {
		if _, err := cardRepo.Add(ctx, c); err != nil {
			t.Fatalf("Failed to add card: %v", err)
		}
	}

	// Case-insensitive substring match within one deck
	results, err := cardRepo.Search(ctx, "thank", "d1")
	if err != nil {
		t.Fatalf("Failed to search cards: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 match in d1, got %d", len(results))
	}

	// Across decks
	results, err = cardRepo.Search(ctx, "dziękuję", "")
	if err != nil {
		t.Fatalf("Failed to search cards: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(results))
	}

	// Remark is searched too
	results, err = cardRepo.Search(ctx, "formal", "d1")
	if err != nil {
		t.Fatalf("Failed to search cards: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected remark match, got %d results", len(results))
	}

	// Blank query returns the full scoped set
	results, err = cardRepo.Search(ctx, "   ", "d1")
	if err != nil {
		t.Fatalf("Failed to search cards: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected full deck on blank query, got %d", len(results))
	}

	// No match
	results, err = cardRepo.Search(ctx, "zzz", "")
	if err != nil {
		t.Fatalf("Failed to search cards: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected no matches, got %d", len(results))
	}
}

func TestCardClearAll(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	for _, c := range []*core.Card{
		newCard("a1", "d1", "Tak", "Yes"),
		newCard("b1", "d2", "Nie", "No"),
	} {
		if _, err := cardRepo.Add(ctx, c); err != nil {
			t.Fatalf("Failed to add card: %v", err)
		}
	}

	if err := cardRepo.ClearAll(ctx, ""); err != nil {
		t.Fatalf("Failed to clear cards: %v", err)
	}

	total, err := cardRepo.Count(ctx, "")
	if err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if total != 0 {
		t.Fatalf("Expected empty collection, got %d", total)
	}
}
