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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/akarczew/memvocab"
	"github.com/akarczew/memvocab/aiprompt"
	"github.com/akarczew/memvocab/core"
	"github.com/akarczew/memvocab/seed"
)

var cfg = defaultConfig()

func main() {
	app := &cli.App{
		Name:  "memvocab",
		Usage: "Local vocabulary deck storage for language learning",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database directory",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:  "decks",
				Usage: "Manage vocabulary decks",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List all decks with their card counts",
						Action: decksListCommand,
					},
					{
						Name:   "add",
						Usage:  "Create a new deck",
						Action: decksAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "topic",
								Usage:    "Deck topic",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "description",
								Usage: "Deck description",
							},
							&cli.StringFlag{
								Name:     "from",
								Usage:    "Source language (the language you know)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "to",
								Usage:    "Target language (the language you learn)",
								Required: true,
							},
						},
					},
					{
						Name:      "delete",
						Usage:     "Delete a deck and all of its cards",
						Action:    decksDeleteCommand,
						ArgsUsage: "<deck-id>",
					},
					{
						Name:      "search",
						Usage:     "Search decks by topic, description or language",
						Action:    decksSearchCommand,
						ArgsUsage: "<query>",
					},
					{
						Name:      "prompt",
						Usage:     "Print the AI card generation prompt for a deck",
						Action:    decksPromptCommand,
						ArgsUsage: "<deck-id>",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "amount",
								Usage: "Number of cards the prompt asks for",
								Value: 10,
							},
						},
					},
				},
			},
			{
				Name:  "cards",
				Usage: "Manage cards within a deck",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List the cards of a deck",
						Action: cardsListCommand,
						Flags:  []cli.Flag{deckFlag()},
					},
					{
						Name:   "add",
						Usage:  "Add a single card to a deck",
						Action: cardsAddCommand,
						Flags: []cli.Flag{
							deckFlag(),
							&cli.StringFlag{
								Name:     "source",
								Usage:    "Word in the source language",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "target",
								Usage:    "Translation in the target language",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "pronunciation",
								Usage: "IPA transcription of the target word",
							},
							&cli.StringFlag{
								Name:  "remark",
								Usage: "Usage note",
							},
						},
					},
					{
						Name:      "delete",
						Usage:     "Delete a card",
						Action:    cardsDeleteCommand,
						ArgsUsage: "<card-id>",
					},
					{
						Name:      "search",
						Usage:     "Search cards, optionally within one deck",
						Action:    cardsSearchCommand,
						ArgsUsage: "<query>",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "deck",
								Usage: "Restrict the search to one deck",
							},
						},
					},
					{
						Name:   "import",
						Usage:  "Replace the cards of a deck from a JSON file",
						Action: cardsImportCommand,
						Flags: []cli.Flag{
							deckFlag(),
							&cli.StringFlag{
								Name:     "file",
								Aliases:  []string{"f"},
								Usage:    "Path to a JSON array of cards",
								Required: true,
							},
						},
					},
					{
						Name:   "clear",
						Usage:  "Delete every card of a deck",
						Action: cardsClearCommand,
						Flags:  []cli.Flag{deckFlag()},
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Seed the default deck and its starter cards",
				Action: seedCommand,
			},
			{
				Name:   "watch",
				Usage:  "Watch a deck's cards and print every change until interrupted",
				Action: watchCommand,
				Flags:  []cli.Flag{deckFlag()},
			},
			{
				Name:   "languages",
				Usage:  "List supported languages",
				Action: languagesCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func deckFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "deck",
		Usage:    "Deck id",
		Required: true,
	}
}

func setup(c *cli.Context) error {
	loaded, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	cfg = loaded
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return setupLogger(cfg.LogLevel)
}

func setupLogger(levelStr string) error {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openDatabase() (*memvocab.Database, error) {
	db, err := memvocab.NewDatabase(cfg.DBPath,
		memvocab.WithSeedDelay(cfg.Seed.DelayMin, cfg.Seed.DelayMax),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func decksListCommand(c *cli.Context) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	decks, err := db.DeckRepository().GetAll(context.Background())
	if err != nil {
		return err
	}
	for _, deck := range decks {
		printDeck(deck)
	}
	return nil
}

func decksAddCommand(c *cli.Context) error {
	from := c.String("from")
	to := c.String("to")
	for _, lang := range []string{from, to} {
		if !core.IsSupportedLanguage(lang) {
			return fmt.Errorf("unsupported language %q: run 'memvocab languages' for the supported set", lang)
		}
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	decksStore := db.NewDecksStore()
	id, err := decksStore.Create(context.Background(), &core.Deck{
		ID:           core.NewID(),
		Topic:        c.String("topic"),
		Description:  c.String("description"),
		LanguageFrom: from,
		LanguageTo:   to,
	})
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func decksDeleteCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("deck id is required")
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.DeckRepository().Delete(context.Background(), id)
}

func decksSearchCommand(c *cli.Context) error {
	query := c.Args().First()
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	decks, err := db.DeckRepository().Search(context.Background(), query)
	if err != nil {
		return err
	}
	for _, deck := range decks {
		printDeck(deck)
	}
	return nil
}

func decksPromptCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("deck id is required")
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	deck, err := db.DeckRepository().GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if deck == nil {
		return fmt.Errorf("deck %s not found", id)
	}

	prompt := deck.PromptToAIAgent
	if prompt == "" || c.IsSet("amount") {
		prompt, err = aiprompt.CardsRequestForDeck(&deck.Deck, c.Int("amount"))
		if err != nil {
			return err
		}
	}
	fmt.Println(prompt)
	return nil
}

func cardsListCommand(c *cli.Context) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	cards, err := db.CardRepository().GetByDeck(context.Background(), c.String("deck"))
	if err != nil {
		return err
	}
	for _, card := range cards {
		printCard(card)
	}
	return nil
}

func cardsAddCommand(c *cli.Context) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	deckID := c.String("deck")

	deck, err := db.DeckRepository().GetByID(ctx, deckID)
	if err != nil {
		return err
	}
	if deck == nil {
		return fmt.Errorf("deck %s not found", deckID)
	}

	id, err := db.CardRepository().Add(ctx, &core.Card{
		ID:             core.NewID(),
		DeckID:         deckID,
		SourceLanguage: deck.LanguageFrom,
		TargetLanguage: deck.LanguageTo,
		SourceWord:     c.String("source"),
		TargetWord:     c.String("target"),
		Pronunciation:  c.String("pronunciation"),
		Remark:         c.String("remark"),
	})
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func cardsDeleteCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("card id is required")
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.CardRepository().Delete(context.Background(), id)
}

func cardsSearchCommand(c *cli.Context) error {
	query := c.Args().First()
	if query == "" {
		return fmt.Errorf("search query is required")
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	cards, err := db.CardRepository().Search(context.Background(), query, c.String("deck"))
	if err != nil {
		return err
	}
	for _, card := range cards {
		printCard(card)
	}
	return nil
}

func cardsImportCommand(c *cli.Context) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	deckID := c.String("deck")

	deck, err := db.DeckRepository().GetByID(ctx, deckID)
	if err != nil {
		return err
	}
	if deck == nil {
		return fmt.Errorf("deck %s not found", deckID)
	}

	cards, err := readCardImports(c.String("file"), &deck.Deck)
	if err != nil {
		return err
	}

	// Replace semantics: the file is the new truth for the whole deck
	if err := db.CardRepository().ReplaceAll(ctx, cards, deckID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Imported %d cards into %s\n", len(cards), deck.Topic)
	return nil
}

func cardsClearCommand(c *cli.Context) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	deleted, err := db.CardRepository().DeleteByDeck(context.Background(), c.String("deck"))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Deleted %d cards\n", deleted)
	return nil
}

func seedCommand(c *cli.Context) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	decks, err := db.Seeder().EnsureDefaultDecks(ctx)
	if err != nil {
		return err
	}
	cards, err := db.Seeder().EnsureDefaultCards(ctx, seed.DefaultDeckID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database holds %d decks; default deck has %d cards\n", len(decks), len(cards))
	return nil
}

func watchCommand(c *cli.Context) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	sub, err := db.LiveCards(c.String("deck"))
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, "Watching; press Ctrl-C to stop")
	for {
		select {
		case cards, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "-- %d cards --\n", len(cards))
			for _, card := range cards {
				printCard(card)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func languagesCommand(c *cli.Context) error {
	for _, lang := range core.SupportedLanguages() {
		fmt.Println(lang)
	}
	return nil
}

func printDeck(deck *core.DeckWithAmount) {
	fmt.Printf("%s\t%s\t%s -> %s\t%d cards\n",
		deck.ID, deck.Topic, deck.LanguageFrom, deck.LanguageTo, deck.Amount)
}

func printCard(card *core.Card) {
	line := fmt.Sprintf("%s\t%s = %s", card.ID, card.SourceWord, card.TargetWord)
	if card.Pronunciation != "" {
		line += "\t[" + card.Pronunciation + "]"
	}
	fmt.Println(line)
}
