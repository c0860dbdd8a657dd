package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

// target is one stats route compared between the legacy dashboard and this API.
type target struct {
	Legacy   string `json:"legacy"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target      target
	LegacyShape map[string]string
	GoShape     map[string]string
	Missing     []string
	Extra       []string
	Error       error
}

var defaultTargets = []target{
	{Legacy: "/api/stats", Path: "/api/attendance/stats", Critical: true},
	{Legacy: "/cleaning/api/stats", Path: "/api/cleaning-requests/stats", Critical: true},
	{Legacy: "/production/api/stats", Path: "/api/production-extras/stats", Critical: true},
	{Legacy: "/theft/api/stats", Path: "/api/theft-incidents/stats", Critical: true},
	{Legacy: "/feedback/api/stats", Path: "/api/feedback/stats"},
	{Legacy: "/security/api/stats", Path: "/api/security-schedules/stats"},
	{Legacy: "/thirdparty/api/stats", Path: "/api/thirdparty-schedules/stats"},
}

func main() {
	var (
		goBase      string
		legacyBase  string
		token       string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000", "Legacy dashboard base URL")
	flag.StringVar(&token, "token", os.Getenv("OPSDASH_TOKEN"), "Bearer token for the Go API")
	flag.StringVar(&targetsPath, "targets", "", "Optional JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := defaultTargets
	if targetsPath != "" {
		loaded, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		targets = loaded
	}

	client := &http.Client{Timeout: timeout}
	breaking := 0
	results := make([]comparison, 0, len(targets))
	for _, t := range targets {
		res := compareTarget(client, legacyBase, goBase, token, t)
		if (res.Error != nil || len(res.Missing) > 0 || len(res.Extra) > 0) && t.Critical {
			breaking++
		}
		results = append(results, res)
	}

	printReport(os.Stdout, results)
	fmt.Printf("Breaking contract diffs: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compareTarget(client *http.Client, legacyBase, goBase, token string, t target) comparison {
	res := comparison{Target: t}
	legacy, err := fetchShape(client, legacyBase+t.Legacy, "")
	if err != nil {
		res.Error = fmt.Errorf("legacy: %w", err)
		return res
	}
	current, err := fetchShape(client, goBase+t.Path, token)
	if err != nil {
		res.Error = fmt.Errorf("go: %w", err)
		return res
	}
	res.LegacyShape, res.GoShape = legacy, current
	res.Missing, res.Extra = diffShapes(legacy, current)
	return res
}

func fetchShape(client *http.Client, url, token string) (map[string]string, error) {
	if client == nil {
		return nil, errors.New("nil client")
	}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return shapeOf(body)
}

// shapeOf maps each top-level key to its JSON type. Key casing is significant.
func shapeOf(body []byte) (map[string]string, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	shape := make(map[string]string, len(payload))
	for key, value := range payload {
		switch value.(type) {
		case float64:
			shape[key] = "number"
		case string:
			shape[key] = "string"
		case bool:
			shape[key] = "bool"
		case nil:
			shape[key] = "null"
		default:
			shape[key] = "object"
		}
	}
	return shape, nil
}

// diffShapes lists keys the legacy payload has that the new one lacks (or
// types differently), and keys only the new payload carries.
func diffShapes(legacy, current map[string]string) (missing, extra []string) {
	for key, kind := range legacy {
		if got, ok := current[key]; !ok || got != kind {
			missing = append(missing, key)
		}
	}
	for key := range current {
		if _, ok := legacy[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Stats Contract Report")
	fmt.Fprintln(w, "=====================")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Error != nil:
			status = "ERROR"
		case len(res.Missing) > 0 || len(res.Extra) > 0:
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s -> %s\n", status, res.Target.Legacy, res.Target.Path)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
			continue
		}
		if len(res.Missing) > 0 {
			fmt.Fprintf(w, "  Missing: %s\n", strings.Join(res.Missing, ", "))
		}
		if len(res.Extra) > 0 {
			fmt.Fprintf(w, "  Extra: %s\n", strings.Join(res.Extra, ", "))
		}
	}
}
