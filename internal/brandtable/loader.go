package brandtable

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cardcheck/internal/card"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for brand tables on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based brand table loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "brandtable-loader").Logger(),
	}
}

// Load reads a brand table file. Paths ending in ".gz" are decompressed.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]card.Brand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", filePath).Msg("loading brand table")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open brand table")
		return nil, fmt.Errorf("failed to open brand table %s: %w", filePath, err)
	}
	defer file.Close()

	brands, err := read(file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read brand table")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("brands_loaded", len(brands)).
		Msg("brand table loaded successfully")

	return brands, nil
}

// read decodes a brand table, decompressing it first when name ends in ".gz".
func read(r io.Reader, name string) ([]card.Brand, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	brands, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand table %s: %w", name, err)
	}
	return brands, nil
}

// Build loads the brand table at path and returns a registry for it. An empty
// path selects the built-in registry.
func Build(ctx context.Context, loader Loader, path string, logger zerolog.Logger) (*card.Registry, error) {
	if path == "" {
		logger.Info().Msg("no brand table configured, using built-in brands")
		return card.DefaultRegistry(), nil
	}

	brands, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand table: %w", err)
	}

	registry, err := card.NewRegistry(brands...)
	if err != nil {
		return nil, fmt.Errorf("invalid brand table %s: %w", path, err)
	}

	logger.Info().
		Str("path", path).
		Int("brand_count", len(brands)).
		Msg("brand registry initialised")

	return registry, nil
}
