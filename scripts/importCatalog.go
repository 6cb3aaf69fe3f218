package main

import (
	"context"
	"flag"
	"log"
	"time"

	"wordquest/catalog"
	"wordquest/config"
	"wordquest/database"
)

// Imports the content catalog from CATALOG_URL when set, otherwise from
// CATALOG_FILE. Flags override both.
func main() {
	config.LoadConfig()

	url := flag.String("url", config.AppConfig.CatalogURL, "catalog document URL")
	file := flag.String("file", config.AppConfig.CatalogFile, "catalog document path")
	flag.Parse()

	database.ConnectDb()
	db := database.Database.Db

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	importer := catalog.NewImporter(db, nil)

	var (
		doc *catalog.Document
		err error
	)
	if *url != "" {
		log.Printf("[CATALOG-IMPORT] Fetching %s", *url)
		doc, err = importer.Fetch(ctx, *url)
	} else {
		log.Printf("[CATALOG-IMPORT] Reading %s", *file)
		doc, err = catalog.ReadFile(*file)
	}
	if err != nil {
		log.Fatalf("[CATALOG-IMPORT] Failed to load catalog: %v", err)
	}

	stats, err := importer.Import(ctx, doc)
	if err != nil {
		log.Fatalf("[CATALOG-IMPORT] Import failed: %v", err)
	}
	log.Printf("[CATALOG-IMPORT] Done: %d words, %d translations, %d questions, %d skipped",
		stats.Words, stats.Translations, stats.Questions, stats.Skipped)
}
