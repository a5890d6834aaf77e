// Package main implements the guardlog web server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/guardlog/pkg/api"
	"github.com/codeGROOVE-dev/guardlog/pkg/reportcache"
	"github.com/joho/godotenv"
)

var (
	port      = flag.String("port", "", "Port for web server (or set PORT, default 8080)")
	cacheSize = flag.Int("cache-size", 10_000, "Maximum number of cached reports")
	cacheTTL  = flag.Duration("cache-ttl", 0, "How long reports stay cached (or set GUARDLOG_CACHE_TTL, default 12h)")
	noCache   = flag.Bool("no-cache", false, "Disable caching")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	version   = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("guardlog Server v1.0.0")
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env loaded", "error", err)
	}
	if *port == "" {
		*port = os.Getenv("PORT")
		if *port == "" {
			*port = "8080"
		}
	}
	if *cacheTTL == 0 {
		*cacheTTL = 12 * time.Hour
		if v := os.Getenv("GUARDLOG_CACHE_TTL"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				logger.Error("Invalid GUARDLOG_CACHE_TTL", "value", v, "error", err)
				os.Exit(1)
			}
			*cacheTTL = d
		}
	}

	logger.Info("Server configuration",
		"port", *port,
		"verbose", *verbose,
		"cache_size", *cacheSize,
		"cache_ttl", *cacheTTL,
		"no_cache", *noCache)

	var cache *reportcache.Cache
	if !*noCache {
		cache = reportcache.New(*cacheSize, *cacheTTL, logger)
	}

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           api.New(logger, cache).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", *port)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
