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


// Package storage provides the storage abstraction layer for memvocab.
//
// This package defines repository interfaces that decouple storage
// implementation from application logic. It allows different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: common transaction and lifecycle operations
//   - DeckRepository: operations for decks, decorated with card counts
//   - CardRepository: deck-scoped operations for cards
//
// Not-found reads return empty results rather than errors; only genuine
// storage failures surface as errors, and those are always wrapped with a
// domain-level message ("failed to save cards to local storage: ...") so
// callers never depend on engine-specific error types.
//
// # Usage
//
// Create repositories over a BadgerDB backend:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	decks := badger.NewDeckRepository(backend)
//	cards := badger.NewCardRepository(backend)
//
// Use in tests with in-memory storage:
//
//	decks, cards, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. Bulk replacement runs inside a single
// transaction so readers never observe a half-replaced collection.
//
// # Context Support
//
// All repository methods accept context.Context. Pass context.Background()
// for operations without specific timeout requirements.
package storage
