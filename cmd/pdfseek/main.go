// Package main is the pdfseek CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/pdfseek/internal/cli"
	"github.com/hyperjump/pdfseek/internal/config"
	"github.com/hyperjump/pdfseek/internal/extract"
	"github.com/hyperjump/pdfseek/internal/models"
	"github.com/hyperjump/pdfseek/internal/search"
	"github.com/hyperjump/pdfseek/internal/server"
	"github.com/hyperjump/pdfseek/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/pdfseek/config.yaml"

// loadConfig loads config from path. When path is the default and does not exist,
// config.yaml in the current directory is tried, then built-in defaults.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); err != nil {
			if cwd, cwdErr := os.Getwd(); cwdErr == nil {
				fallback := filepath.Join(cwd, "config.yaml")
				if _, statErr := os.Stat(fallback); statErr == nil {
					cfg, loadErr := config.Load(fallback)
					if loadErr != nil {
						return nil, "", loadErr
					}
					return cfg, fallback, nil
				}
			}
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			if abs, err := filepath.Abs(cfg.Search.Directory); err == nil {
				cfg.Search.Directory = abs
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "config":
		runConfig()
	case "version", "--version", "-v":
		fmt.Printf("pdfseek version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`pdfseek - search PDF documents by file name and content

Usage:
  pdfseek server [-config path] [-debug]
  pdfseek search [-config path] [-server url] [-all] [-output text|compact|json] field=value ...
  pdfseek config [-config path]
  pdfseek version
`)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("search_directory", cfg.Search.Directory),
		zap.Bool("debug", debugMode),
	)
	if err := ensureSearchDirectory(cfg.Search.Directory, logger); err != nil {
		logger.Fatal("Failed to create search directory", zap.Error(err))
	}

	engine := search.NewEngine(cfg.Search, extract.NewPDFReader(), logger)
	srv := server.NewServer(engine, &cfg.Server, logger, version)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// ensureSearchDirectory creates dir when it is missing so a fresh install can start serving.
func ensureSearchDirectory(dir string, logger *zap.Logger) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	logger.Warn("search directory does not exist, creating it", zap.String("path", dir))
	return os.MkdirAll(dir, 0755)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: pdfseek search [flags] field=value ...\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Each field=value pair is one search term. A document matches when any term is
found in its file name or in the text of its first pages; use -all to require
every term.

Examples:
  pdfseek search expediente=12345
  pdfseek search -all expediente=12345 sello=55/2021
  pdfseek search caratula="juan perez" -output json
`)
}

// parseCriteriaArgs turns field=value arguments into a term map.
func parseCriteriaArgs(args []string) (map[string]string, error) {
	terms := make(map[string]string, len(args))
	for _, a := range args {
		field, value, ok := strings.Cut(a, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid term %q: want field=value", a)
		}
		terms[field] = value
	}
	return terms, nil
}

// searchArgsReorder moves any flags (and their values) that appear after the terms
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = search the directory directly)")
	matchAll := fs.Bool("all", false, "require every term to match")
	outputFormat := fs.String("output", "text", "output format: text, compact (one result per line), or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	terms, err := parseCriteriaArgs(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	criteria := models.NewCriteria(terms)
	if criteria.Empty() {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		response, err = searchViaHTTP(*serverURL, &models.SearchRequest{Terms: criteria, MatchAll: *matchAll})
	} else {
		response, err = searchDirect(*configPath, criteria, *matchAll)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchDirect(configPath string, criteria models.Criteria, matchAll bool) (*models.SearchResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	engine := search.NewEngine(cfg.Search, extract.NewPDFReader(), logger)
	return engine.Search(context.Background(), criteria, matchAll)
}

// httpSearchResponse mirrors the body of POST /api/v1/search.
type httpSearchResponse struct {
	Success   bool                   `json:"success"`
	Error     string                 `json:"error"`
	SearchID  string                 `json:"search_id"`
	Results   []*models.SearchResult `json:"results"`
	Total     int                    `json:"total"`
	Truncated bool                   `json:"truncated"`
	QueryTime int64                  `json:"query_time_ms"`
}

func searchViaHTTP(serverURL string, req *models.SearchRequest) (*models.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out httpSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("search failed: %s", out.Error)
	}
	return &models.SearchResponse{
		SearchID:  out.SearchID,
		Results:   out.Results,
		Total:     out.Total,
		Truncated: out.Truncated,
		QueryTime: out.QueryTime,
		MatchAll:  req.MatchAll,
		Criteria:  req.Criteria(),
	}, nil
}

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	engine := search.NewEngine(cfg.Search, extract.NewPDFReader(), zap.NewNop())
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(engine.Config()); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}
