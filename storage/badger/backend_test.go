package badger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarczew/memvocab/core"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_CreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/db"
	backend, err := OpenBackend(path, false)
	require.NoError(t, err)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestBackend_ChangeListeners(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	var mu sync.Mutex
	var notified [][]string
	backend.OnChange(func(collections ...string) {
		mu.Lock()
		notified = append(notified, collections)
		mu.Unlock()
	})

	ctx := context.Background()

	_, err = deckRepo.Save(ctx, newDeck("d1", "Phrases"))
	require.NoError(t, err)

	_, err = cardRepo.Add(ctx, newCard("c1", "d1", "Tak", "Yes"))
	require.NoError(t, err)

	// Cascading delete reports both collections in one notification
	err = deckRepo.Delete(ctx, "d1")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, notified, 3)
	assert.Equal(t, []string{CollectionDecks}, notified[0])
	assert.Equal(t, []string{CollectionCards}, notified[1])
	assert.Equal(t, []string{CollectionDecks, CollectionCards}, notified[2])
}

func TestBackend_NoNotificationOnNoop(t *testing.T) {
	deckRepo, cardRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { cardRepo.Close(); deckRepo.Close(); backend.Close() }()

	count := 0
	backend.OnChange(func(collections ...string) { count++ })

	// Updating a missing record affects nothing and stays silent
	topic := "x"
	affected, err := deckRepo.Update(context.Background(), "missing", core.DeckPatch{Topic: &topic})
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.Zero(t, count)
}
