package seed

import "github.com/akarczew/memvocab/core"

// DefaultDeckID is the id of the built-in starter deck.
const DefaultDeckID = "default-deck-1"

// defaultPrompt is the cached card-generation prompt shipped with the
// starter deck.
const defaultPrompt = "Please create JSON with Polish common phrases and their " +
	"English translations, including pronunciation and remarks for context."

// DefaultDecks returns the built-in deck list inserted on first run.
func DefaultDecks() []*core.Deck {
	return []*core.Deck{
		{
			ID:              DefaultDeckID,
			Topic:           "Polish Common Phrases",
			Description:     "Essential Polish phrases for everyday conversation",
			LanguageFrom:    "Polish",
			LanguageTo:      "English",
			PromptToAIAgent: defaultPrompt,
		},
		// More default decks can be added here in the future.
	}
}

type phrase struct {
	source        string
	target        string
	pronunciation string
	remark        string
}

var defaultPhrases = []phrase{
	{"Dzień dobry", "Good morning / Good day", "/d͡ʑɛɲ ˈdɔbrɨ/", "Formal greeting used until afternoon"},
	{"Do widzenia", "Goodbye", "/dɔ viˈd͡zɛɲa/", "Formal farewell, literally 'until seeing'"},
	{"Cześć", "Hi / Hello / Bye (informal)", "/t͡ʂɛɕt͡ɕ/", "Informal greeting, also used for goodbye"},
	{"Dziękuję", "Thank you", "/d͡ʑɛŋˈkujɛ/", ""},
	{"Proszę", "Please / You're welcome", "/ˈprɔʂɛ/", "Also used when handing something over"},
	{"Przepraszam", "Sorry / Excuse me", "/pʂɛˈpraʂam/", "Both an apology and a way to get attention"},
	{"Tak", "Yes", "/tak/", ""},
	{"Nie", "No", "/ɲɛ/", ""},
	{"Nie rozumiem", "I don't understand", "/ɲɛ rɔˈzumʲɛm/", ""},
	{"Na zdrowie", "Cheers / Bless you", "/na ˈzdrɔvʲɛ/", "Said when toasting or after a sneeze"},
	{"Smacznego", "Enjoy your meal", "/smat͡ʂˈnɛɡɔ/", ""},
	{"Dobranoc", "Good night", "/dɔˈbranɔt͡s/", ""},
}

// DefaultCards returns the built-in card list for a deck, stamped with the
// given deck id. Card ids are derived from content so repeated seeding of
// the same deck produces identical records.
func DefaultCards(deckID string) []*core.Card {
	cards := make([]*core.Card, 0, len(defaultPhrases))
	for _, p := range defaultPhrases {
		cards = append(cards, &core.Card{
			ID:             core.IDFromContent(deckID + ":" + p.source + ":" + p.target),
			DeckID:         deckID,
			SourceLanguage: "Polish",
			TargetLanguage: "English",
			SourceWord:     p.source,
			TargetWord:     p.target,
			Pronunciation:  p.pronunciation,
			Remark:         p.remark,
		})
	}
	return cards
}
