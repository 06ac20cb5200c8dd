package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tinysearch/tinysearch/internal/tsearchapi"
	"github.com/tinysearch/tinysearch/internal/tsearchconfig"
	"github.com/tinysearch/tinysearch/internal/tsearchstore"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		dataDir    = flag.String("data", "data", "data directory (indexes.db)")
		schemaPath = flag.String("schema", "", "path to a schema configuration JSON file (default schema if empty)")
	)
	flag.Parse()

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatalf("failed to create data dir: %v", err)
	}

	sc, err := tsearchconfig.LoadSchema(*schemaPath)
	if err != nil {
		log.Fatalf("failed to load schema: %v", err)
	}

	dbPath := filepath.Join(*dataDir, "indexes.db")

	repo, err := tsearchstore.OpenIndexRepo(dbPath)
	if err != nil {
		log.Fatalf("failed to open index repo: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("index repo close error: %v", err)
		}
	}()

	srv := tsearchapi.NewServer(repo, sc)

	log.Printf("tinysearchd listening on %s (data=%s)", *addr, *dataDir)
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
