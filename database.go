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


package memvocab

import (
	"context"
	"log/slog"
	"time"

	"github.com/akarczew/memvocab/core"
	"github.com/akarczew/memvocab/live"
	"github.com/akarczew/memvocab/seed"
	"github.com/akarczew/memvocab/storage"
	"github.com/akarczew/memvocab/storage/badger"
	"github.com/akarczew/memvocab/store"
)

type Database struct {
	backend  *badger.Backend
	deckRepo storage.DeckRepository
	cardRepo storage.CardRepository
	hub      *live.Hub
	seeder   *seed.Seeder
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory     bool
	logger       *slog.Logger
	seedDelayMin time.Duration
	seedDelayMax time.Duration
	seedHasDelay bool
	livePoolSize int
}

// WithInMemory opens the backend without touching disk. Intended for tests.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithDatabaseLogger sets the logger used by the database and its components.
func WithDatabaseLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// WithSeedDelay bounds the simulated delay applied before seeding runs.
// Both zero disables it.
func WithSeedDelay(min, max time.Duration) DatabaseOption {
	return func(o *databaseOptions) {
		o.seedDelayMin = min
		o.seedDelayMax = max
		o.seedHasDelay = true
	}
}

// WithLivePoolSize sets the worker pool size of the change notification hub.
func WithLivePoolSize(size int) DatabaseOption {
	return func(o *databaseOptions) {
		o.livePoolSize = size
	}
}

// NewDatabase opens the vocabulary database at filePath, runs pending schema
// migrations, and wires repositories, seeding and live change notification.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Bring the schema up to date before anything reads
	if err := backend.Migrate(); err != nil {
		backend.Close()
		return nil, err
	}

	deckRepo := badger.NewDeckRepository(backend)
	cardRepo := badger.NewCardRepository(backend)

	hubOpts := []live.Option{live.WithLogger(options.logger)}
	if options.livePoolSize > 0 {
		hubOpts = append(hubOpts, live.WithPoolSize(options.livePoolSize))
	}
	hub, err := live.NewHub(hubOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Every committed write fans out to live subscriptions
	backend.OnChange(hub.Notify)

	seedOpts := []seed.Option{seed.WithLogger(options.logger)}
	if options.seedHasDelay {
		seedOpts = append(seedOpts, seed.WithDelay(options.seedDelayMin, options.seedDelayMax))
	}
	seeder := seed.NewSeeder(deckRepo, cardRepo, seedOpts...)

	return &Database{
		backend:  backend,
		deckRepo: deckRepo,
		cardRepo: cardRepo,
		hub:      hub,
		seeder:   seeder,
		logger:   options.logger,
	}, nil
}

func (db *Database) Close() error {
	// Stop fan-out first so no subscription queries a closed backend
	if err := db.hub.Close(); err != nil {
		db.logger.Error("error closing notification hub", "err", err)
	}

	if err := db.deckRepo.Close(); err != nil {
		db.logger.Error("error closing deck repository", "err", err)
		return err
	}
	if err := db.cardRepo.Close(); err != nil {
		db.logger.Error("error closing card repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DeckRepository() storage.DeckRepository {
	return db.deckRepo
}

func (db *Database) CardRepository() storage.CardRepository {
	return db.cardRepo
}

func (db *Database) Seeder() *seed.Seeder {
	return db.seeder
}

// NewDecksStore creates a deck state store backed by this database.
func (db *Database) NewDecksStore() *store.DecksStore {
	return store.NewDecksStore(db.deckRepo, db.seeder, db.logger)
}

// NewCardsStore creates a card state store backed by this database.
func (db *Database) NewCardsStore() *store.CardsStore {
	return store.NewCardsStore(db.cardRepo, db.seeder, db.logger)
}

// LiveDecks returns a subscription that re-runs GetAll whenever decks or
// cards change. Card writes are included because they move deck card counts.
func (db *Database) LiveDecks() (*live.Subscription[[]*core.DeckWithAmount], error) {
	return live.Subscribe(db.hub,
		func(ctx context.Context) ([]*core.DeckWithAmount, error) {
			return db.deckRepo.GetAll(ctx)
		},
		badger.CollectionDecks, badger.CollectionCards)
}

// LiveCards returns a subscription that re-runs GetByDeck for deckID
// whenever cards change.
func (db *Database) LiveCards(deckID string) (*live.Subscription[[]*core.Card], error) {
	return live.Subscribe(db.hub,
		func(ctx context.Context) ([]*core.Card, error) {
			return db.cardRepo.GetByDeck(ctx, deckID)
		},
		badger.CollectionCards)
}

// LiveCardSearch returns a subscription over a card search. Use SetQuery
// with CardSearchQuery to retarget it when the query text or deck changes.
func (db *Database) LiveCardSearch(query, deckID string) (*live.Subscription[[]*core.Card], error) {
	return live.Subscribe(db.hub, db.CardSearchQuery(query, deckID), badger.CollectionCards)
}

// CardSearchQuery builds a live query closure over the card repository,
// suitable for Subscription.SetQuery.
func (db *Database) CardSearchQuery(query, deckID string) live.Query[[]*core.Card] {
	return func(ctx context.Context) ([]*core.Card, error) {
		return db.cardRepo.Search(ctx, query, deckID)
	}
}
