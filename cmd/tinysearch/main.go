package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tinysearch/tinysearch/internal/tsearch/index"
	"github.com/tinysearch/tinysearch/internal/tsearch/query"
	"github.com/tinysearch/tinysearch/internal/tsearchconfig"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: tinysearch <build|search> [flags]")
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "build":
		runBuild(args)
	case "search":
		runSearch(args)
	default:
		log.Fatalf("unknown command %q: expected build or search", cmd)
	}
}

func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var (
		input      = fs.String("in", "", "path to a JSON array of posts (or use stdin if empty)")
		output     = fs.String("out", "index.tsch", "output index file path")
		schemaPath = fs.String("schema", "", "path to a schema configuration JSON file (default schema if empty)")
		strict     = fs.Bool("strict", false, "abort the build on the first schema or filter error")
	)
	fs.Parse(args)

	raw, err := readInput(*input)
	if err != nil {
		log.Fatalf("failed to read posts: %v", err)
	}

	docs, err := index.ParsePosts(raw)
	if err != nil {
		log.Fatalf("failed to parse posts: %v", err)
	}

	sc, err := tsearchconfig.LoadSchema(*schemaPath)
	if err != nil {
		log.Fatalf("failed to load schema: %v", err)
	}

	b := index.NewBuilder(sc)
	b.Strict = *strict

	ix, buildErrs := b.Build(docs)
	for _, e := range buildErrs {
		log.Printf("build warning: %v", e)
	}

	var buf bytes.Buffer
	if err := index.Serialize(ix, &buf); err != nil {
		log.Fatalf("failed to serialize index: %v", err)
	}

	if err := os.WriteFile(*output, buf.Bytes(), 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}

	log.Printf("built %s: %d documents, %d bytes, %d warnings", *output, ix.Len(), buf.Len(), len(buildErrs))
}

func runSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	var (
		indexPath  = fs.String("index", "index.tsch", "path to a serialized index file")
		q          = fs.String("q", "", "search query")
		numResults = fs.Int("n", 10, "maximum number of results")
		schemaPath = fs.String("schema", "", "path to the schema configuration JSON file the index was built with (default schema if empty)")
	)
	fs.Parse(args)

	f, err := os.Open(*indexPath)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *indexPath, err)
	}
	defer f.Close()

	ix, err := index.Deserialize(f)
	if err != nil {
		log.Fatalf("failed to load index: %v", err)
	}

	sc, err := tsearchconfig.LoadSchema(*schemaPath)
	if err != nil {
		log.Fatalf("failed to load schema: %v", err)
	}

	eng := &query.Engine{Stopwords: sc.Stopwords}
	results := eng.Search(ix, *q, *numResults)

	out := make([]map[string]string, len(results))
	for i, r := range results {
		out[i] = map[string]string{"title": r.Title, "url": r.URL, "meta": r.Meta}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("failed to encode results: %v", err)
	}
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}

	stat, _ := os.Stdin.Stat()
	if stat == nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no -in path given and stdin is not piped")
	}
	return io.ReadAll(os.Stdin)
}
