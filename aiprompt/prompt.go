/*
Copyright 2025 Adam Karczewski

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package aiprompt renders the request text a user pastes into an external
// AI agent to generate vocabulary cards for a deck. The rendered prompt is
// cached on the deck so it survives restarts and can be copied again later.
package aiprompt

import (
	"fmt"

	"github.com/tmc/langchaingo/prompts"

	"github.com/akarczew/memvocab/core"
)

const cardsRequestTemplate = `You are a language learning assistant. Generate {{.amount}} vocabulary flashcards for learning {{.targetLanguage}} from {{.sourceLanguage}}.

Topic: {{.topic}}{{if .description}}
Details: {{.description}}{{end}}

Respond with a JSON array only, no surrounding text. Each element must have
exactly these fields:

  "sourceWord":    the word or phrase in {{.sourceLanguage}}
  "targetWord":    the translation in {{.targetLanguage}}
  "pronunciation": IPA transcription of the target word
  "remark":        a short usage note, or an empty string

Keep the cards practical and commonly used. Do not repeat words.`

var cardsRequestPrompt = prompts.NewPromptTemplate(cardsRequestTemplate, []string{
	"amount", "sourceLanguage", "targetLanguage", "topic", "description",
})

// CardsRequest renders the card generation prompt for a deck described by
// its topic, optional description and language pair. amount is the number of
// cards the agent is asked to produce.
func CardsRequest(topic, description, languageFrom, languageTo string, amount int) (string, error) {
	if amount <= 0 {
		amount = 10
	}
	text, err := cardsRequestPrompt.Format(map[string]any{
		"amount":         amount,
		"sourceLanguage": languageFrom,
		"targetLanguage": languageTo,
		"topic":          topic,
		"description":    description,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render cards request prompt: %w", err)
	}
	return text, nil
}

// CardsRequestForDeck renders the card generation prompt from a deck.
func CardsRequestForDeck(deck *core.Deck, amount int) (string, error) {
	return CardsRequest(deck.Topic, deck.Description, deck.LanguageFrom, deck.LanguageTo, amount)
}
