package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/akarczew/memvocab/storage"
)

// Schema versions. Version 1 stored the card amount on each deck record;
// version 2 computes it at read time and strips it from storage.
const (
	schemaVersion1 = 1
	schemaVersion2 = 2

	// CurrentSchemaVersion is the version this build reads and writes.
	CurrentSchemaVersion = schemaVersion2
)

// migration rewrites every record of the prior version's layout. Each step
// runs inside a single read-write transaction together with the version
// bump, so a partially-migrated store is never left runnable.
type migration struct {
	from, to uint64
	apply    func(tx *badger.Txn) error
}

var migrations = []migration{
	{from: schemaVersion1, to: schemaVersion2, apply: stripDeckAmounts},
}

// SchemaVersion returns the stored schema version, or 0 for a fresh store.
func (b *Backend) SchemaVersion() (uint64, error) {
	var version uint64
	err := b.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(schemaVersionKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("%w: malformed schema version", storage.ErrSerializationFailed)
			}
			version = binary.BigEndian.Uint64(val)
			return nil
		})
	}, false)
	return version, err
}

// Migrate brings the store up to CurrentSchemaVersion. A fresh store is
// stamped with the current version directly; a store written by a newer
// build is refused. Calling Migrate on an up-to-date store is a no-op.
func (b *Backend) Migrate() error {
	version, err := b.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version > CurrentSchemaVersion {
		return fmt.Errorf("%w: store has version %d, supported is %d",
			storage.ErrSchemaTooNew, version, CurrentSchemaVersion)
	}

	if version == 0 {
		// Fresh store, nothing to rewrite.
		return b.WithTx(func(tx *badger.Txn) error {
			if err := writeSchemaVersion(tx, CurrentSchemaVersion); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
	}

	for _, m := range migrations {
		if version != m.from {
			continue
		}
		b.logger.Info("migrating schema", "from", m.from, "to", m.to)
		err := b.WithTx(func(tx *badger.Txn) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			if err := writeSchemaVersion(tx, m.to); err != nil {
				return err
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return fmt.Errorf("failed to migrate schema from %d to %d: %w", m.from, m.to, err)
		}
		version = m.to
	}
	return nil
}

func writeSchemaVersion(tx *badger.Txn, version uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, version)
	return tx.Set([]byte(schemaVersionKey), buf)
}

// stripDeckAmounts rewrites every deck record from the version-1 layout,
// dropping the stored amount. Rewriting the full record, not patching it,
// guarantees no stale field survives.
func stripDeckAmounts(tx *badger.Txn) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = deckKeysPrefix()
	iter := tx.NewIterator(opts)
	defer iter.Close()

	type rewrite struct {
		key []byte
		val []byte
	}
	var rewrites []rewrite
	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		var val []byte
		err := item.Value(func(v []byte) error {
			legacy, err := storage.UnmarshalDeckV1(v)
			if err != nil {
				return err
			}
			val = storage.MarshalDeck(&legacy.Deck)
			return nil
		})
		if err != nil {
			return err
		}
		rewrites = append(rewrites, rewrite{key: item.KeyCopy(nil), val: val})
	}
	iter.Close()

	for _, rw := range rewrites {
		if err := tx.Set(rw.key, rw.val); err != nil {
			return err
		}
	}
	return nil
}
