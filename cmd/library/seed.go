package main

import (
	"context"
	"log/slog"

	"library_backend/pkg/library"
)

var demoBooks = []library.CreateBookInput{
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction"},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance"},
	{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: "Mystery"},
	{Title: "A Brief History of Time", Author: "Stephen Hawking", Genre: "Science"},
}

// seedDemoData fills an empty catalog with a few books.
func seedDemoData(ctx context.Context, catalog *library.Catalog, log *slog.Logger) error {
	books, err := catalog.ListBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) > 0 {
		log.Info("catalog not empty, skipping demo data", "books", len(books))
		return nil
	}

	for _, in := range demoBooks {
		book, err := catalog.CreateBook(ctx, in)
		if err != nil {
			return err
		}
		log.Info("created demo book", "id", book.ID, "title", book.Title)
	}
	return nil
}
