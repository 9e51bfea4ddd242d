// Package main seeds a development database with a small catalog.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	"github.com/Jawed-lol/inkwell-sub000/internal/id"
	"github.com/Jawed-lol/inkwell-sub000/internal/logger"
	"github.com/Jawed-lol/inkwell-sub000/internal/search"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

type seedBook struct {
	title       string
	author      string
	price       float64
	stock       int
	genre       string
	language    string
	publisher   string
	isbn        string
	description string
	publishYear int
}

var catalog = []seedBook{
	{
		title:       "Dune",
		author:      "Frank Herbert",
		price:       12.99,
		stock:       2,
		genre:       "Science Fiction",
		language:    "English",
		publisher:   "Chilton Books",
		isbn:        "9780441013593",
		description: "Paul Atreides and the desert planet Arrakis.",
		publishYear: 1965,
	},
	{
		title:       "The Left Hand of Darkness",
		author:      "Ursula K. Le Guin",
		price:       10.50,
		stock:       7,
		genre:       "Science Fiction",
		language:    "English",
		publisher:   "Ace Books",
		isbn:        "9780441478125",
		description: "An envoy alone on the ice world of Gethen.",
		publishYear: 1969,
	},
	{
		title:       "Pride and Prejudice",
		author:      "Jane Austen",
		price:       8.25,
		stock:       12,
		genre:       "Classic",
		language:    "English",
		publisher:   "T. Egerton",
		isbn:        "9780141439518",
		description: "The Bennet sisters and the perils of first impressions.",
		publishYear: 1813,
	},
	{
		title:       "The Name of the Wind",
		author:      "Patrick Rothfuss",
		price:       14.99,
		stock:       5,
		genre:       "Fantasy",
		language:    "English",
		publisher:   "DAW Books",
		isbn:        "9780756404741",
		description: "Kvothe tells the story of how he became a legend.",
		publishYear: 2007,
	},
	{
		title:       "A Wizard of Earthsea",
		author:      "Ursula K. Le Guin",
		price:       9.75,
		stock:       9,
		genre:       "Fantasy",
		language:    "English",
		publisher:   "Parnassus Press",
		isbn:        "9780547773742",
		description: "Ged learns the true cost of naming.",
		publishYear: 1968,
	},
}

func main() {
	dataPath := flag.String("data-path", "./data", "Base path for database and index storage")
	flag.Parse()

	log := logger.New(logger.Config{Environment: "development"})
	ctx := context.Background()

	st, err := store.New(filepath.Join(*dataPath, "db"), log.Logger)
	if err != nil {
		log.Fatal("Failed to open store", "error", err)
	}
	defer st.Close()

	idx, err := search.NewIndex(search.Options{DataPath: *dataPath, Logger: log.Logger})
	if err != nil {
		log.Fatal("Failed to open search index", "error", err)
	}
	defer idx.Close()
	st.SetSearchIndexer(idx)

	authors := make(map[string]string)
	seeded := 0

	for _, sb := range catalog {
		authorID, ok := authors[sb.author]
		if !ok {
			authorID = id.MustGenerate(id.PrefixAuthor)
			author := &domain.Author{ID: authorID, Name: sb.author}
			if err := st.Authors.Create(ctx, authorID, author); err != nil {
				log.Fatal("Failed to create author", "name", sb.author, "error", err)
			}
			authors[sb.author] = authorID
		}

		book := &domain.Book{
			Title:       sb.title,
			AuthorID:    authorID,
			Price:       sb.price,
			Stock:       sb.stock,
			Genre:       sb.genre,
			Language:    sb.language,
			Publisher:   sb.publisher,
			ISBN:        sb.isbn,
			Description: sb.description,
			PublishYear: sb.publishYear,
		}

		if err := st.CreateBook(ctx, book); err != nil {
			// Re-running the seeder against an existing database is fine;
			// existing ISBNs are skipped.
			log.Warn("Skipping book", "title", sb.title, "error", err)
			continue
		}

		log.Info("Seeded book", "slug", book.Slug, "price", book.Price, "stock", book.Stock)
		seeded++
	}

	log.Info("Seeding complete", "books", seeded, "authors", len(authors))
	os.Exit(0)
}
