// cmd/batch.go - Batch tile conversion command
package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/valpere/mvt-reader/internal/config"
	"github.com/valpere/mvt-reader/internal/output"
	"github.com/valpere/mvt-reader/internal/tile"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert a directory of vector tiles",
	Long: `Convert all vector tiles under a directory, preserving the z/x/y
directory structure in the output. Tiles are converted concurrently by a
bounded worker pool.

Tiles whose names do not match the z/x/y scheme are converted without
projection. Failed tiles are logged and skipped unless --fail-on-error
is set.

Examples:
  mvt-reader batch --input-dir tiles/ --output-dir geojson/
  mvt-reader batch --input-dir tiles/ --output-dir geojson/ --project --concurrency 16`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("input-dir", "", "directory containing tiles to convert")
	batchCmd.Flags().String("output-dir", "", "directory to write converted tiles to")
	batchCmd.Flags().Bool("project", false, "project geometries to Web Mercator")
	batchCmd.Flags().Float64("simplify", 0, "Douglas-Peucker simplification tolerance in output units (0 disables)")
	batchCmd.Flags().Bool("fail-on-error", false, "abort the batch on the first failed tile")

	batchCmd.MarkFlagRequired("input-dir")
	batchCmd.MarkFlagRequired("output-dir")
}

// batchStats tracks progress counters across workers.
type batchStats struct {
	processed atomic.Int64
	failed    atomic.Int64
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	inputDir, _ := cmd.Flags().GetString("input-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	project, _ := cmd.Flags().GetBool("project")
	tolerance, _ := cmd.Flags().GetFloat64("simplify")
	failOnError, _ := cmd.Flags().GetBool("fail-on-error")
	if !failOnError {
		failOnError = cfg.Batch.FailOnError
	}

	paths, err := collectTilePaths(inputDir)
	if err != nil {
		return fmt.Errorf("failed to scan input directory: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no tile files found under %s", inputDir)
	}

	log.Info().
		Int("tiles", len(paths)).
		Int("concurrency", cfg.Batch.Concurrency).
		Msg("starting batch conversion")

	start := time.Now()
	stats := &batchStats{}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	jobs := make(chan string)
	var firstErr error
	var firstErrOnce sync.Once

	var wg sync.WaitGroup
	for i := 0; i < cfg.Batch.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := convertOne(cfg, inputDir, outputDir, path, project, tolerance); err != nil {
					stats.failed.Add(1)
					log.Warn().Err(err).Str("tile", path).Msg("tile conversion failed")
					if failOnError {
						firstErrOnce.Do(func() {
							firstErr = fmt.Errorf("failed to convert %s: %w", path, err)
							cancel()
						})
						return
					}
					continue
				}
				stats.processed.Add(1)
			}
		}()
	}

feed:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	log.Info().
		Int64("processed", stats.processed.Load()).
		Int64("failed", stats.failed.Load()).
		Dur("duration", time.Since(start)).
		Msg("batch conversion finished")

	return firstErr
}

// collectTilePaths walks the input directory for tile files.
func collectTilePaths(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.TrimSuffix(d.Name(), ".gz")
		if strings.HasSuffix(name, ".mvt") || strings.HasSuffix(name, ".pbf") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// convertOne converts a single tile file, mirroring its relative path under
// the output directory.
func convertOne(cfg *config.Config, inputDir, outputDir, path string, project bool, tolerance float64) error {
	id, haveID := tile.ParsePath(path)
	if project && !haveID {
		return fmt.Errorf("cannot project %s: path does not match z/x/y scheme", path)
	}

	converted, err := convertTile(path, id, "", project && haveID, tolerance)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(inputDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	outPath := filepath.Join(outputDir, outputName(rel, cfg.Output.Format, cfg.Output.Compression))

	writer, err := output.NewFileWriter(&output.WriterConfig{
		Format:      output.Format(cfg.Output.Format),
		Pretty:      cfg.Output.Pretty,
		Compression: cfg.Output.Compression,
		Metadata:    cfg.Output.Metadata,
	}, outPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	return writer.Write(converted)
}

// outputName swaps the tile extension for the output format's extension.
func outputName(rel, format string, compressed bool) string {
	base := strings.TrimSuffix(rel, ".gz")
	base = strings.TrimSuffix(base, filepath.Ext(base))

	ext := ".geojson"
	if format == "json" {
		ext = ".json"
	}
	if compressed {
		ext += ".gz"
	}
	return base + ext
}
