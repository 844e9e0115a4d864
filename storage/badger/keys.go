package badger

// Key prefixes for different data types. Record ids are opaque strings
// (UUIDs or content hashes) and are assumed not to contain ':'.
const (
	deckRecordPrefix  = "deck"
	cardRecordPrefix  = "card"
	cardDeckIdxPrefix = "carddk"
	schemaVersionKey  = "meta:schemaver"
)

// makeDeckKey generates a key for a deck record by id.
func makeDeckKey(id string) []byte {
	return []byte(deckRecordPrefix + ":" + id)
}

// makeCardKey generates a key for a card record by id.
func makeCardKey(id string) []byte {
	return []byte(cardRecordPrefix + ":" + id)
}

// makeCardDeckKey generates a composite key for the deck index.
// Format: prefix:deckID:cardID
func makeCardDeckKey(deckID, cardID string) []byte {
	return []byte(cardDeckIdxPrefix + ":" + deckID + ":" + cardID)
}

// makeCardDeckPrefix generates the index prefix covering one deck's cards.
func makeCardDeckPrefix(deckID string) []byte {
	return []byte(cardDeckIdxPrefix + ":" + deckID + ":")
}

// deckKeysPrefix covers every deck record.
func deckKeysPrefix() []byte {
	return []byte(deckRecordPrefix + ":")
}

// cardKeysPrefix covers every card record.
func cardKeysPrefix() []byte {
	return []byte(cardRecordPrefix + ":")
}

// cardIdxKeysPrefix covers every deck-index entry.
func cardIdxKeysPrefix() []byte {
	return []byte(cardDeckIdxPrefix + ":")
}
