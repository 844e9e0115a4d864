package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarczew/memvocab/core"
	"github.com/akarczew/memvocab/storage/badger"
)

func newTestSeeder(t *testing.T) *Seeder {
	t.Helper()
	deckRepo, cardRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		cardRepo.Close()
		deckRepo.Close()
		backend.Close()
	})
	return NewSeeder(deckRepo, cardRepo, WithDelay(0, 0))
}

func TestEnsureDefaultDecks_Idempotent(t *testing.T) {
	seeder := newTestSeeder(t)
	ctx := context.Background()

	decks, err := seeder.EnsureDefaultDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, len(DefaultDecks()))
	assert.Equal(t, DefaultDeckID, decks[0].ID)
	assert.Equal(t, "Polish Common Phrases", decks[0].Topic)

	// Seeding twice still yields exactly one set of defaults
	decks, err = seeder.EnsureDefaultDecks(ctx)
	require.NoError(t, err)
	assert.Len(t, decks, len(DefaultDecks()))
}

func TestEnsureDefaultDecks_SkipsNonEmptyStore(t *testing.T) {
	deckRepo, cardRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	ctx := context.Background()

	custom := DefaultDecks()[0]
	custom.ID = "my-own-deck"
	custom.Topic = "My Own"
	require.NoError(t, deckRepo.SaveMany(ctx, []*core.Deck{custom}))

	seeder := NewSeeder(deckRepo, cardRepo, WithDelay(0, 0))
	decks, err := seeder.EnsureDefaultDecks(ctx)
	require.NoError(t, err)

	// The store already had a deck, so no defaults were added
	require.Len(t, decks, 1)
	assert.Equal(t, "my-own-deck", decks[0].ID)
}

func TestEnsureDefaultCards_Idempotent(t *testing.T) {
	seeder := newTestSeeder(t)
	ctx := context.Background()

	cards, err := seeder.EnsureDefaultCards(ctx, DefaultDeckID)
	require.NoError(t, err)
	require.Len(t, cards, len(DefaultCards(DefaultDeckID)))

	cards, err = seeder.EnsureDefaultCards(ctx, DefaultDeckID)
	require.NoError(t, err)
	assert.Len(t, cards, len(DefaultCards(DefaultDeckID)))
}

func TestDefaultCards_DeterministicIDs(t *testing.T) {
	first := DefaultCards(DefaultDeckID)
	second := DefaultCards(DefaultDeckID)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, DefaultDeckID, first[i].DeckID)
	}

	// Different decks get different card ids
	other := DefaultCards("another-deck")
	assert.NotEqual(t, first[0].ID, other[0].ID)
}

func TestSimulateDelay_ContextCanceled(t *testing.T) {
	deckRepo, cardRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	seeder := NewSeeder(deckRepo, cardRepo, WithDelay(time.Minute, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = seeder.EnsureDefaultDecks(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
