package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"wallgrab/internal/browse"
	"wallgrab/internal/catalog"
	"wallgrab/internal/config"
	"wallgrab/internal/domain"
	"wallgrab/internal/download"
	"wallgrab/internal/log"
	"wallgrab/internal/preview"
	"wallgrab/internal/render"
	"wallgrab/internal/store"
	"wallgrab/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		debug       bool
		page        int
		query       string
		preload     bool
	)
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&debug, "debug", false, "verbose diagnostic output")
	flag.IntVar(&page, "page", 1, "start page")
	flag.StringVar(&query, "query", "", "search query")
	flag.BoolVar(&preload, "preload", false, "warm the preview cache for each page before display")
	flag.Parse()

	if showVersion {
		fmt.Printf("wallgrab %s\n", Version)
		return
	}

	if err := run(page, query, preload, debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(page int, query string, preload, debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if preload {
		cfg.Preview.Preload = true
	}
	if debug {
		cfg.Logging.Level = "DEBUG"
	}

	// First run: persist the defaults so the user has a file to edit
	if config.FileUsed() == "" {
		if err := config.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "could not write default config: %v\n", err)
		}
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting wallgrab", "version", Version, "page", page, "query", query)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := preview.NewCache(cfg.Preview.CacheDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open preview cache: %w", err)
	}

	history, err := store.Open(cfg.Download.Folder)
	if err != nil {
		logger.Warn("download history unavailable", "error", err)
		history = nil
	}
	if history != nil {
		defer history.Close()
	}

	fetcher := preview.NewHTTPFetcher(logger)
	source := catalog.NewClient(cfg, query, logger)

	listWidth, region := layout()
	pipeline := render.NewPipeline(cache, fetcher, render.DefaultBackends(os.Stderr), os.Stderr, region, logger)
	driver := render.NewDriver(ctx, pipeline)
	defer driver.Stop()

	prefetcher := preview.NewPrefetcher(cache, fetcher, cfg.Preview.Concurrency, os.Stderr, logger)
	selector := tui.NewSelector(listWidth, region.Height)

	session := browse.NewSession(source, selector, prefetcher, driver.Show, page, cfg.Preview.Preload, logger)

	urls, err := session.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			logger.Info("browse cancelled")
			return err
		}
		return err
	}
	driver.Stop()

	downloader := download.New(cfg.Download.Folder, fetcher, history, cfg.Download.Force, logger)
	saved, err := downloader.Fetch(ctx, urls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "some downloads failed: %v\n", err)
	}

	// Primary output: one saved filename per line on stdout
	for _, u := range urls {
		fmt.Println(domain.CacheFilename(u))
	}
	logger.Info("done", "selected", len(urls), "saved", saved)
	if saved == 0 && len(urls) > 0 && err != nil {
		return fmt.Errorf("no downloads completed: %w", err)
	}
	return nil
}

// layout splits the terminal between the selection list on the left and
// the preview region on the right
func layout() (listWidth int, region domain.Region) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		width, height = 120, 40
	}
	listWidth = width / 2
	region = domain.Region{
		X:      listWidth + 2,
		Y:      2,
		Width:  width - listWidth - 3,
		Height: height - 4,
	}
	return listWidth, region
}
