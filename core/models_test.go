package core

import (
	"testing"
	"time"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("NewID() produced duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "default-deck-1:Hello:Cześć",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %s vs %s", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestDeckPatch_Apply(t *testing.T) {
	topic := "Travel"
	description := ""
	prompt := "generate cards"

	deck := Deck{
		ID:           "d1",
		Topic:        "Food",
		Description:  "Restaurant phrases",
		LanguageFrom: "polish",
		LanguageTo:   "english",
	}

	patch := DeckPatch{
		Topic:           &topic,
		Description:     &description,
		PromptToAIAgent: &prompt,
	}
	patch.Apply(&deck)

	if deck.Topic != "Travel" {
		t.Errorf("Topic = %q, want %q", deck.Topic, "Travel")
	}
	if deck.Description != "" {
		t.Errorf("Description = %q, want empty", deck.Description)
	}
	if deck.PromptToAIAgent != "generate cards" {
		t.Errorf("PromptToAIAgent = %q, want %q", deck.PromptToAIAgent, "generate cards")
	}
	// Untouched fields survive
	if deck.LanguageFrom != "polish" || deck.LanguageTo != "english" {
		t.Errorf("languages changed: %q -> %q", deck.LanguageFrom, deck.LanguageTo)
	}
}

func TestDeckPatch_IsZero(t *testing.T) {
	if !(DeckPatch{}).IsZero() {
		t.Error("empty patch should be zero")
	}
	topic := "x"
	if (DeckPatch{Topic: &topic}).IsZero() {
		t.Error("patch with a field should not be zero")
	}
}

func TestCardPatch_Apply(t *testing.T) {
	source := "Dziękuję"
	remark := "formal"

	card := Card{
		ID:         "c1",
		DeckID:     "d1",
		SourceWord: "Proszę",
		TargetWord: "Please",
		InsertedAt: time.Now().UTC(),
	}

	patch := CardPatch{
		SourceWord: &source,
		Remark:     &remark,
	}
	patch.Apply(&card)

	if card.SourceWord != "Dziękuję" {
		t.Errorf("SourceWord = %q, want %q", card.SourceWord, "Dziękuję")
	}
	if card.Remark != "formal" {
		t.Errorf("Remark = %q, want %q", card.Remark, "formal")
	}
	if card.TargetWord != "Please" {
		t.Errorf("TargetWord changed to %q", card.TargetWord)
	}
}

func TestCardPatch_IsZero(t *testing.T) {
	if !(CardPatch{}).IsZero() {
		t.Error("empty patch should be zero")
	}
	word := "x"
	if (CardPatch{TargetWord: &word}).IsZero() {
		t.Error("patch with a field should not be zero")
	}
}
