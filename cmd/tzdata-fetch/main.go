package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/sundialhq/sundial-platform/internal/tzdata"
)

// tzdata-fetch downloads or inspects a timezone boundary GeoJSON file and
// reports how its features group into UTC offset bands. Used to prepare and
// sanity-check the data file the agent loads at startup.
func main() {
	var (
		url      string
		path     string
		out      string
		logLevel string
		timeout  int
	)

	pflag.StringVar(&url, "url", "", "URL to fetch timezone boundaries from")
	pflag.StringVar(&path, "path", "data/timezones.geojson", "Local GeoJSON file to inspect when no URL is given")
	pflag.StringVar(&out, "out", "", "Write the fetched GeoJSON to this file")
	pflag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pflag.IntVar(&timeout, "timeout", 120, "Fetch timeout in seconds")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(logLevel),
	}))

	var (
		fc  *tzdata.FeatureCollection
		err error
	)

	if url != "" {
		logger.Info("Fetching timezone boundaries", "url", url)
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
		defer cancel()
		fc, err = tzdata.Fetch(ctx, url)
	} else {
		logger.Info("Loading timezone boundaries", "path", path)
		fc, err = tzdata.Load(path)
	}
	if err != nil {
		logger.Error("Failed to load timezone data", "error", err)
		os.Exit(1)
	}

	bands := tzdata.GroupByOffset(fc, logger)
	if len(bands) == 0 {
		logger.Error("No offset bands found in timezone data")
		os.Exit(1)
	}

	fmt.Printf("%-12s %8s %10s %9s %9s\n", "BAND", "OFFSET", "FEATURES", "REF_LON", "REF_LAT")
	for _, band := range bands {
		fmt.Printf("%-12s %7dm %10d %9.2f %9.2f\n",
			band.Label, band.OffsetMinutes, len(band.Features), band.RefLon, band.RefLat)
	}
	fmt.Printf("\n%d features in %d bands (%s to %s)\n",
		len(fc.Features), len(bands), bands[0].Label, bands[len(bands)-1].Label)

	if out != "" {
		if err := writeCollection(fc, out); err != nil {
			logger.Error("Failed to write output file", "path", out, "error", err)
			os.Exit(1)
		}
		logger.Info("Wrote timezone data", "path", out)
	}
}

func writeCollection(fc *tzdata.FeatureCollection, path string) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("failed to marshal feature collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
