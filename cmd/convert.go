// cmd/convert.go - Single tile conversion command
package cmd

import (
	"fmt"

	"github.com/paulmach/orb/simplify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/valpere/mvt-reader/internal/config"
	"github.com/valpere/mvt-reader/internal/output"
	"github.com/valpere/mvt-reader/internal/tile"
	"github.com/valpere/mvt-reader/pkg/mvt"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <tile-file>",
	Short: "Convert a single vector tile to JSON format",
	Long: `Convert a single Mapbox Vector Tile to GeoJSON or structured JSON.

By default geometries stay in tile-local coordinates. With --project the
geometries are projected to Web Mercator; the tile coordinates are taken
from --z/--x/--y or, when absent, parsed from a z/x/y file path.

Examples:
  # Convert to GeoJSON on stdout
  mvt-reader convert tile.mvt

  # Convert a single layer to a file
  mvt-reader convert tile.mvt --layer water --output water.geojson

  # Project to Web Mercator using coordinates from the path
  mvt-reader convert tiles/14/8362/5956.mvt --project --output tile.geojson

  # Simplify geometries with a 2-unit Douglas-Peucker tolerance
  mvt-reader convert tile.mvt --simplify 2`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("layer", "", "only convert the named layer")
	convertCmd.Flags().Bool("project", false, "project geometries to Web Mercator")
	convertCmd.Flags().Int("z", -1, "tile zoom level (with --project)")
	convertCmd.Flags().Int("x", 0, "tile x coordinate (with --project)")
	convertCmd.Flags().Int("y", 0, "tile y coordinate (with --project)")
	convertCmd.Flags().StringP("output", "o", "", "output file path (default: stdout)")
	convertCmd.Flags().Float64("simplify", 0, "Douglas-Peucker simplification tolerance in output units (0 disables)")

	convertCmd.MarkFlagsRequiredTogether("z", "x", "y")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	path := args[0]
	layerFilter, _ := cmd.Flags().GetString("layer")
	project, _ := cmd.Flags().GetBool("project")
	outputPath, _ := cmd.Flags().GetString("output")
	tolerance, _ := cmd.Flags().GetFloat64("simplify")

	id, haveID := tileIDFromFlags(cmd, path)
	if project && !haveID {
		return fmt.Errorf("--project requires tile coordinates via --z/--x/--y or a z/x/y file path")
	}

	converted, err := convertTile(path, id, layerFilter, project, tolerance)
	if err != nil {
		return err
	}

	writer, err := newWriter(cfg, outputPath)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	defer writer.Close()

	if err := writer.Write(converted); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	log.Debug().
		Str("tile", path).
		Int("layers", len(converted.Layers)).
		Int("features", converted.FeatureCount()).
		Msg("tile converted")

	return nil
}

// tileIDFromFlags resolves the tile ID from explicit flags, falling back to
// a z/x/y file path.
func tileIDFromFlags(cmd *cobra.Command, path string) (tile.ID, bool) {
	z, _ := cmd.Flags().GetInt("z")
	if z >= 0 {
		x, _ := cmd.Flags().GetInt("x")
		y, _ := cmd.Flags().GetInt("y")
		id := tile.ID{Z: z, X: x, Y: y}
		if err := id.Validate(); err == nil {
			return id, true
		}
		return tile.ID{}, false
	}
	return tile.ParsePath(path)
}

// convertTile loads and eagerly decodes one tile, optionally restricted to a
// single layer, projected to Web Mercator and simplified.
func convertTile(path string, id tile.ID, layerFilter string, project bool, tolerance float64) (*output.Tile, error) {
	data, err := tile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tile: %w", err)
	}

	reader, err := mvt.NewReader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tile: %w", err)
	}

	if _, err := reader.LayerNames(); err != nil {
		return nil, err
	}

	converted := &output.Tile{ID: id, Source: path}
	for _, layer := range reader.Layers() {
		if layerFilter != "" && layer.Name != layerFilter {
			continue
		}

		var features []mvt.Feature
		if project {
			transform := mvt.NewTileTransform(id.Z, id.X, id.Y, layer.Extent)
			features, err = reader.FeaturesWithTransform(layer.Index, transform)
		} else {
			features, err = reader.Features(layer.Index)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode layer %q: %w", layer.Name, err)
		}

		if tolerance > 0 {
			simplifyFeatures(features, tolerance)
		}

		converted.Layers = append(converted.Layers, output.Layer{
			Name:     layer.Name,
			Version:  layer.Version,
			Extent:   layer.Extent,
			Features: features,
		})
	}

	if layerFilter != "" && len(converted.Layers) == 0 {
		return nil, fmt.Errorf("layer %q not found in tile", layerFilter)
	}

	return converted, nil
}

// simplifyFeatures reduces geometry vertex counts with Douglas-Peucker.
// Points pass through unchanged.
func simplifyFeatures(features []mvt.Feature, tolerance float64) {
	simplifier := simplify.DouglasPeucker(tolerance)
	for i := range features {
		features[i].Geometry = simplifier.Simplify(features[i].Geometry)
	}
}

func newWriter(cfg *config.Config, outputPath string) (output.Writer, error) {
	if outputPath == "" || outputPath == "-" {
		return output.NewStdoutWriter(output.Format(cfg.Output.Format), cfg.Output.Pretty)
	}
	return output.NewFileWriter(&output.WriterConfig{
		Format:      output.Format(cfg.Output.Format),
		Pretty:      cfg.Output.Pretty,
		Compression: cfg.Output.Compression,
		Metadata:    cfg.Output.Metadata,
	}, outputPath)
}
