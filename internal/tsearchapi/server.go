// Package tsearchapi is a small HTTP host standing in for the WASM/JS
// boundary spec.md §1 and §9 place outside the core: it marshals strings
// across a process boundary the same way a browser host would marshal
// strings across a WASM linear-memory boundary, just over HTTP instead of
// wasm_bindgen. It is a collaborator demo, not part of the core contract.
package tsearchapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/tinysearch/tinysearch/internal/tsearch/index"
	"github.com/tinysearch/tinysearch/internal/tsearch/query"
	"github.com/tinysearch/tinysearch/internal/tsearch/schema"
	"github.com/tinysearch/tinysearch/internal/tsearchstore"
)

// Server hosts a set of named indexes backed by an IndexRepo. Every build
// on this host uses the same schema, loaded once at startup (see
// cmd/tinysearchd's "-schema" flag) — the same schema-customization surface
// cmd/tinysearch exposes per build, just fixed for the process's lifetime
// rather than per-request.
type Server struct {
	repo   *tsearchstore.IndexRepo
	engine *query.Engine
	schema schema.Schema
}

// NewServer wires an IndexRepo and a build schema into an HTTP demo host.
// The engine's Stopwords are taken from sc so that search-time tokenization
// matches the stopword set the schema's builds actually index with.
func NewServer(repo *tsearchstore.IndexRepo, sc schema.Schema) *Server {
	return &Server{repo: repo, engine: &query.Engine{Stopwords: sc.Stopwords}, schema: sc}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// indexName extracts the {name} segment from "/indexes/{name}/action". A
// bare "/indexes" or "/indexes/" (trimmed == "") is the list-all case and
// reports ok=false so the caller falls through to HandleIndexes' listing
// branch; a name with no action segment reports ok=true with action=""
// instead, so the caller's switch routes it to its default 404 case rather
// than misreading it as a list-all request.
func indexName(path string) (name, action string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/indexes/")
	if trimmed == path || trimmed == "" {
		return "", "", false
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if parts[0] == "" {
		return "", "", false
	}
	if len(parts) != 2 {
		return parts[0], "", true
	}
	return parts[0], parts[1], true
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "tinysearch"})
}

func (s *Server) HandleIndexes(w http.ResponseWriter, r *http.Request) {
	name, action, ok := indexName(r.URL.Path)
	if !ok {
		names, err := s.repo.Names()
		if err != nil {
			http.Error(w, "failed to list indexes", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"indexes": names})
		return
	}

	switch action {
	case "build":
		s.handleBuild(w, r, name)
	case "search":
		s.handleSearch(w, r, name)
	case "stats":
		s.handleStats(w, r, name)
	case "reset":
		s.handleReset(w, r, name)
	default:
		http.NotFound(w, r)
	}
}

type buildResponse struct {
	Status string   `json:"status"`
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Errors []string `json:"errors,omitempty"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	docs, perr := index.ParsePosts(body)
	if perr != nil {
		http.Error(w, perr.Error(), http.StatusBadRequest)
		return
	}

	strict := r.URL.Query().Get("strict") == "true"
	b := index.NewBuilder(s.schema)
	b.Strict = strict

	ix, buildErrs := b.Build(docs)

	var buf bytes.Buffer
	if err := index.Serialize(ix, &buf); err != nil {
		http.Error(w, "failed to serialize index", http.StatusInternalServerError)
		return
	}

	errMsgs := make([]string, len(buildErrs))
	for i, e := range buildErrs {
		errMsgs[i] = e.Error()
	}

	if err := s.repo.Put(name, buf.Bytes(), strings.Join(errMsgs, "\n")); err != nil {
		log.Printf("[build] failed to persist index %q: %v", name, err)
		http.Error(w, "failed to persist index", http.StatusInternalServerError)
		return
	}

	log.Printf("[build] index=%q documents=%d errors=%d", name, ix.Len(), len(buildErrs))
	writeJSON(w, http.StatusOK, buildResponse{
		Status: "built",
		Name:   name,
		Count:  ix.Len(),
		Errors: errMsgs,
	})
}

type searchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Meta  string `json:"meta"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ix, err := s.repo.Get(name)
	if err != nil {
		http.Error(w, "index not found", http.StatusNotFound)
		return
	}

	q := r.URL.Query().Get("q")
	numResults := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			numResults = n
		}
	}

	posts := s.engine.Search(ix, q, numResults)
	results := make([]searchResult, len(posts))
	for i, p := range posts {
		results[i] = searchResult{Title: p.Title, URL: p.URL, Meta: p.Meta}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": results,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ix, err := s.repo.Get(name)
	if err != nil {
		http.Error(w, "index not found", http.StatusNotFound)
		return
	}
	buildLog, _ := s.repo.BuildLog(name)
	writeJSON(w, http.StatusOK, map[string]any{
		"name":              name,
		"document_count":    ix.Len(),
		"last_build_errors": buildLog,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.repo.Reset(name); err != nil {
		http.Error(w, "failed to reset index", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset_ok", "name": name})
}

// Router returns the demo server's HTTP handler.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/indexes", s.HandleIndexes)
	mux.HandleFunc("/indexes/", s.HandleIndexes)
	return mux
}
