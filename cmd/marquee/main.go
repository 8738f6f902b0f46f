package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pgeary/marquee/internal/browse"
	"github.com/pgeary/marquee/internal/config"
	"github.com/pgeary/marquee/internal/domain"
	"github.com/pgeary/marquee/internal/log"
	"github.com/pgeary/marquee/internal/query"
	"github.com/pgeary/marquee/internal/service"
	"github.com/pgeary/marquee/internal/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		configDir   string
		viewKey     string
		text        string
		limit       int
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configDir, "config", "", "extra config search directory")
	flag.StringVar(&viewKey, "view", "", "view to search (default: the general view)")
	flag.StringVar(&text, "query", "", "free-text search")
	flag.IntVar(&limit, "limit", 20, "rows to print")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(configDir, viewKey, text, limit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, viewKey, text string, limit int) error {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.Setup(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting marquee", "version", Version)

	games, err := loadCatalog(cfg.Catalog.File)
	if err != nil {
		return err
	}

	playlists, err := store.NewPlaylistStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open playlist store: %w", err)
	}
	defer playlists.Close()

	source := query.NewMemorySource(games, cfg.Browse.PageSize, logger)
	if all, err := playlists.GetPlaylists(context.Background()); err == nil {
		for _, p := range all {
			source.PutPlaylist(p)
		}
	}

	service.RegisterMetrics(prometheus.DefaultRegisterer)
	browser := service.NewBrowser(source, playlists, logger, service.Options{
		GeneralView: cfg.Browse.GeneralView,
		PageSize:    cfg.Browse.PageSize,
		Publisher:   source,
	})

	ctx := context.Background()
	browser.CreateViews(ctx, cfg.Catalog.Libraries, nil)
	for _, lib := range cfg.Catalog.Libraries {
		browser.Dispatch(ctx, browse.SetAdvancedFilter{View: lib, Filter: &domain.Filter{
			Matches: []domain.FieldMatch{{Field: domain.FieldLibrary, Value: lib, Exact: true}},
		}})
	}

	if viewKey == "" {
		viewKey = cfg.Browse.GeneralView
	}
	if text != "" {
		browser.Dispatch(ctx, browse.SetText{View: viewKey, Text: text})
	}
	if err := browser.Search(ctx, viewKey); err != nil {
		return err
	}
	browser.Wait()

	// Pull in enough pages to print the requested rows.
	browser.RequestRange(ctx, viewKey, 0, limit, browser.CurrentSearchID(viewKey))
	browser.Wait()

	snap, ok := browser.Snapshot(viewKey)
	if !ok {
		return fmt.Errorf("no such view %q", viewKey)
	}
	if snap.TotalKnown {
		fmt.Printf("%s: %d results\n", viewKey, snap.Total)
	}
	for i := 0; i < limit; i++ {
		g, ok := browser.GameAt(viewKey, i)
		if !ok {
			break
		}
		fmt.Printf("%4d  %-40s  %s\n", i, g.Title, g.Platform)
	}
	return nil
}

// loadCatalog reads a catalog snapshot: a JSON array of games.
func loadCatalog(path string) ([]domain.Game, error) {
	if path == "" {
		return nil, fmt.Errorf("no catalog file configured (set catalog.file)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var games []domain.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return games, nil
}
