package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/panbanda/mehen/internal/cache"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the metrics cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show the number and size of cached documents",
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached document",
				Action: runCacheClear,
			},
		},
	}
}

func openCache(c *cli.Context) (*cache.Cache, string, error) {
	cfg, err := setup(c)
	if err != nil {
		return nil, "", err
	}
	dir, err := filepath.Abs(cfg.Cache.Dir)
	if err != nil {
		return nil, "", err
	}
	ch, err := cache.New(dir, cfg.Cache.TTL, true)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open cache %s: %w", dir, err)
	}
	return ch, dir, nil
}

func runCacheStats(c *cli.Context) error {
	ch, dir, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := ch.GetStats()
	if err != nil {
		return err
	}

	w := c.App.Writer
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Cache:   %s\n", dir)
	p.Fprintf(w, "Entries: %d\n", stats.Entries)
	p.Fprintf(w, "Size:    %s\n", humanize.Bytes(uint64(stats.TotalSize)))
	if stats.Entries > 0 {
		now := time.Now()
		p.Fprintf(w, "Oldest:  %s\n", humanize.Time(now.Add(-stats.OldestAge)))
		p.Fprintf(w, "Newest:  %s\n", humanize.Time(now.Add(-stats.NewestAge)))
	}
	return nil
}

func runCacheClear(c *cli.Context) error {
	ch, dir, err := openCache(c)
	if err != nil {
		return err
	}
	if err := ch.Clear(); err != nil {
		return err
	}
	messages(c).Success("Cleared %s", dir)
	return nil
}
