package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const baseURL = "http://localhost:8080"

type searchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Meta  string `json:"meta"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

// Token-efficient, cacheable verdict file, same shape as the vector engine's.
type cacheFile struct {
	Schema    int      `json:"schema"`
	TimeUTC   string   `json:"time_utc"`
	Server    string   `json:"server"`
	RunID     string   `json:"run_id"`
	IndexName string   `json:"index_name"`
	Pass      bool     `json:"pass"`
	Failures  []string `json:"failures,omitempty"`
	Checks    []check  `json:"checks"`
}

type check struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

func main() {
	human := os.Getenv("HUMAN") == "1" || os.Getenv("HUMAN") == "true"

	runID := time.Now().UTC().Format("20060102T150405Z")
	indexName := "smoke-" + runID

	cache := cacheFile{
		Schema:    1,
		TimeUTC:   time.Now().UTC().Format(time.RFC3339),
		Server:    baseURL,
		RunID:     runID,
		IndexName: indexName,
		Pass:      true,
		Checks:    make([]check, 0, 8),
	}
	fail := func(name, msg string) {
		cache.Pass = false
		cache.Failures = append(cache.Failures, fmt.Sprintf("%s: %s", name, msg))
		cache.Checks = append(cache.Checks, check{Name: name, OK: false, Info: msg})
	}
	ok := func(name, msg string) {
		cache.Checks = append(cache.Checks, check{Name: name, OK: true, Info: msg})
	}
	finish := func() {
		writeCache(cache)
		printSummary(cache, human)
	}

	if human {
		fmt.Println("TinySearch demo server smoke test")
		fmt.Println("----------------------------------")
		fmt.Println("run_id:", runID)
		fmt.Println("index:", indexName)
	}

	if err := waitForServer(baseURL+"/health", 5*time.Second); err != nil {
		fail("server_reachable", err.Error())
		finish()
		return
	}
	ok("server_reachable", "reachable")

	posts := []map[string]string{
		{"title": "Rust Programming Language", "url": "/rust", "body": "a systems programming language focused on safety and speed"},
		{"title": "Go Concurrency Patterns", "url": "/go", "body": "goroutines and channels make concurrent programming approachable"},
		{"title": "The History of Tea", "url": "/tea", "body": "tea has been cultivated for thousands of years"},
	}

	buildPath := fmt.Sprintf("/indexes/%s/build", indexName)
	raw, status, err := sendJSON(http.MethodPost, buildPath, posts)
	if err != nil {
		fail("build", "request_error: "+err.Error())
		finish()
		return
	}
	if status < 200 || status >= 300 {
		fail("build", fmt.Sprintf("http_%d body=%s", status, raw))
		finish()
		return
	}
	ok("build", raw)

	searchPath := fmt.Sprintf("/indexes/%s/search?q=programming+language", indexName)
	raw, status, err = sendJSON(http.MethodGet, searchPath, nil)
	if err != nil {
		fail("search", "request_error: "+err.Error())
		finish()
		return
	}
	if status < 200 || status >= 300 {
		fail("search", fmt.Sprintf("http_%d body=%s", status, raw))
		finish()
		return
	}

	var resp searchResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		fail("search", "json_parse_error: "+err.Error())
		finish()
		return
	}
	if len(resp.Results) < 2 {
		fail("search", fmt.Sprintf("expected at least 2 matches, got %d", len(resp.Results)))
		finish()
		return
	}
	if resp.Results[0].URL != "/rust" && resp.Results[0].URL != "/go" {
		fail("search", fmt.Sprintf("unexpected top result: %+v", resp.Results[0]))
		finish()
		return
	}
	for _, r := range resp.Results {
		if r.URL == "/tea" {
			fail("search", "unrelated document ranked for this query")
			finish()
			return
		}
	}
	ok("search", fmt.Sprintf("top=%s count=%d", resp.Results[0].URL, len(resp.Results)))

	resetPath := fmt.Sprintf("/indexes/%s/reset", indexName)
	raw, status, err = sendJSON(http.MethodPost, resetPath, nil)
	if err != nil || status < 200 || status >= 300 {
		fail("reset", fmt.Sprintf("http_%d err=%v", status, err))
		finish()
		return
	}
	ok("reset", "reset_ok")

	finish()
}

func printSummary(cache cacheFile, human bool) {
	cachePath := cacheOutputPath()
	if human {
		if cache.Pass {
			fmt.Println("RESULT: PASS")
		} else {
			fmt.Println("RESULT: FAIL")
			for _, f := range cache.Failures {
				fmt.Println(" -", f)
			}
		}
		fmt.Println("Cache:", cachePath)
		return
	}

	if cache.Pass {
		fmt.Printf("PASS cache=%s run_id=%s\n", cachePath, cache.RunID)
	} else if len(cache.Failures) > 0 {
		fmt.Printf("FAIL %s cache=%s run_id=%s\n", compact(cache.Failures[0]), cachePath, cache.RunID)
	} else {
		fmt.Printf("FAIL cache=%s run_id=%s\n", cachePath, cache.RunID)
	}
}

func compact(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	if len(s) > 140 {
		return s[:140]
	}
	return s
}

func cacheOutputPath() string {
	return filepath.FromSlash("scripts/.cache/smoke_test_cache.json")
}

func writeCache(cache cacheFile) {
	path := cacheOutputPath()
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	b, err := json.Marshal(cache)
	if err != nil {
		return
	}
	_ = os.WriteFile(path, b, 0o644)
}

func sendJSON(method, path string, body any) (string, int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return "", 0, err
		}
		reader = bytes.NewBuffer(b)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return "", 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return string(respBody), resp.StatusCode, nil
}

func waitForServer(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		req, _ := http.NewRequest(http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("timed out after %s", timeout)
}
