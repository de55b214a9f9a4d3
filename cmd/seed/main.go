package main

import (
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"bookshelf/database"
	"bookshelf/internal/api/models"
	"bookshelf/internal/config"
)

// seedBook matches the JSON shape of a catalog export.
type seedBook struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	CoverImage    string  `json:"coverImage"`
	Description   *string `json:"description,omitempty"`
	PublishedYear *int    `json:"publishedYear,omitempty"`
	Pages         *int    `json:"pages,omitempty"`
	Genre         *string `json:"genre,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
}

func main() {
	log.Println("Starting catalog import...")

	jsonFile := "seed_books.json"
	if len(os.Args) > 1 {
		jsonFile = os.Args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Printf("Reading data from %s...", jsonFile)
	raw, err := os.ReadFile(jsonFile)
	if err != nil {
		log.Fatalf("failed to read %s: %v", jsonFile, err)
	}

	var seeds []seedBook
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Fatalf("failed to parse %s: %v", jsonFile, err)
	}

	imported := 0
	skipped := 0
	for _, s := range seeds {
		if s.Title == "" || s.Author == "" || s.CoverImage == "" {
			log.Printf("skipping record with missing required fields: %q", s.Title)
			skipped++
			continue
		}

		book := models.Book{
			Title:         s.Title,
			Author:        s.Author,
			CoverImage:    s.CoverImage,
			Description:   s.Description,
			PublishedYear: s.PublishedYear,
			Pages:         s.Pages,
			Genre:         s.Genre,
			ISBN:          s.ISBN,
			Availability:  true,
		}
		if err := db.Create(&book).Error; err != nil {
			log.Printf("failed to import %q: %v", s.Title, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("Import finished: %d imported, %d skipped", imported, skipped)
}
