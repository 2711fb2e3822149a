// Command brandtable writes the built-in card brands as a YAML brand table,
// the starting point for a custom BRAND_TABLE_PATH, and checks existing
// tables.
//
//	brandtable -out data/brands.yaml.gz
//	brandtable -check data/brands.yaml
package main

import (
	"compress/gzip"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cardcheck/internal/brandtable"
	"cardcheck/internal/card"

	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("brandtable failed")
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("brandtable", flag.ContinueOnError)
	out := fs.String("out", "-", "where to write the built-in table; \"-\" is stdout, a .gz suffix compresses")
	check := fs.String("check", "", "validate an existing brand table instead of writing one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *check != "" {
		return checkTable(*check, stdout, logger)
	}

	return writeTable(*out, stdout, card.DefaultRegistry().Brands(), logger)
}

func writeTable(path string, stdout io.Writer, brands []card.Brand, logger zerolog.Logger) error {
	if path == "-" {
		return brandtable.Encode(stdout, brands)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	var w io.Writer = file
	if strings.HasSuffix(path, ".gz") {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		w = gzipWriter
	}

	if err := brandtable.Encode(w, brands); err != nil {
		return err
	}

	if gzipWriter, ok := w.(*gzip.Writer); ok {
		if err := gzipWriter.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}

	logger.Info().Str("file", path).Int("brands", len(brands)).Msg("brand table written")
	return nil
}

func checkTable(path string, stdout io.Writer, logger zerolog.Logger) error {
	registry, err := brandtable.Build(context.Background(), brandtable.NewFileLoader(logger), path, logger)
	if err != nil {
		return err
	}

	for _, b := range registry.Brands() {
		fmt.Fprintf(stdout, "%-12s cvc=%d lengths=%v prefixes=%d\n", b.Name, b.CVCLength, b.Lengths, len(b.IdentifyingDigits))
	}
	return nil
}
