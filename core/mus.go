package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the stored record layouts. The records are
// flat string structs, so the serializers are spelled out directly over the
// mus-go primitives instead of being generated.
var (
	DeckMUS   = deckSer{}
	DeckV1MUS = deckV1Ser{}
	CardMUS   = cardSer{}
)

// Timestamps are stored as Unix microseconds.

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

type deckSer struct{}

func (deckSer) Marshal(d Deck, bs []byte) (n int) {
	n = ord.String.Marshal(d.ID, bs)
	n += ord.String.Marshal(d.Topic, bs[n:])
	n += ord.String.Marshal(d.Description, bs[n:])
	n += ord.String.Marshal(d.LanguageFrom, bs[n:])
	n += ord.String.Marshal(d.LanguageTo, bs[n:])
	n += ord.String.Marshal(d.PromptToAIAgent, bs[n:])
	n += marshalTime(d.InsertedAt, bs[n:])
	n += marshalTime(d.UpdatedAt, bs[n:])
	return
}

func (deckSer) Unmarshal(bs []byte) (d Deck, n int, err error) {
	var n1 int
	if d.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if d.Topic, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.LanguageFrom, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.LanguageTo, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.PromptToAIAgent, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	return
}

func (deckSer) Size(d Deck) (size int) {
	size = ord.String.Size(d.ID)
	size += ord.String.Size(d.Topic)
	size += ord.String.Size(d.Description)
	size += ord.String.Size(d.LanguageFrom)
	size += ord.String.Size(d.LanguageTo)
	size += ord.String.Size(d.PromptToAIAgent)
	size += sizeTime(d.InsertedAt)
	size += sizeTime(d.UpdatedAt)
	return
}

func (s deckSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// deckV1Ser reads the legacy version-1 deck layout, which stored the card
// amount on the record. Only the migration path uses it.
type deckV1Ser struct{}

// DeckV1 is the legacy stored deck layout.
type DeckV1 struct {
	Deck
	Amount int
}

func (deckV1Ser) Marshal(d DeckV1, bs []byte) (n int) {
	n = DeckMUS.Marshal(d.Deck, bs)
	n += varint.Int.Marshal(d.Amount, bs[n:])
	return
}

func (deckV1Ser) Unmarshal(bs []byte) (d DeckV1, n int, err error) {
	var n1 int
	if d.Deck, n, err = DeckMUS.Unmarshal(bs); err != nil {
		return
	}
	if d.Amount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	return
}

func (deckV1Ser) Size(d DeckV1) (size int) {
	return DeckMUS.Size(d.Deck) + varint.Int.Size(d.Amount)
}

func (s deckV1Ser) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type cardSer struct{}

func (cardSer) Marshal(c Card, bs []byte) (n int) {
	n = ord.String.Marshal(c.ID, bs)
	n += ord.String.Marshal(c.DeckID, bs[n:])
	n += ord.String.Marshal(c.SourceLanguage, bs[n:])
	n += ord.String.Marshal(c.TargetLanguage, bs[n:])
	n += ord.String.Marshal(c.SourceWord, bs[n:])
	n += ord.String.Marshal(c.TargetWord, bs[n:])
	n += ord.String.Marshal(c.Pronunciation, bs[n:])
	n += ord.String.Marshal(c.Remark, bs[n:])
	n += marshalTime(c.InsertedAt, bs[n:])
	n += marshalTime(c.UpdatedAt, bs[n:])
	return
}

func (cardSer) Unmarshal(bs []byte) (c Card, n int, err error) {
	var n1 int
	if c.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if c.DeckID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.SourceLanguage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.TargetLanguage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.SourceWord, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.TargetWord, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Pronunciation, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Remark, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	return
}

func (cardSer) Size(c Card) (size int) {
	size = ord.String.Size(c.ID)
	size += ord.String.Size(c.DeckID)
	size += ord.String.Size(c.SourceLanguage)
	size += ord.String.Size(c.TargetLanguage)
	size += ord.String.Size(c.SourceWord)
	size += ord.String.Size(c.TargetWord)
	size += ord.String.Size(c.Pronunciation)
	size += ord.String.Size(c.Remark)
	size += sizeTime(c.InsertedAt)
	size += sizeTime(c.UpdatedAt)
	return
}

func (s cardSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
