// cmd/layers.go - Layer listing command
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/mvt-reader/internal/tile"
	"github.com/valpere/mvt-reader/pkg/mvt"
)

// layersCmd represents the layers command
var layersCmd = &cobra.Command{
	Use:   "layers <tile-file>",
	Short: "List the layers of a vector tile",
	Long: `List the layers of a Mapbox Vector Tile: name, version, extent and
feature count. The whole command fails if any layer declares an
unsupported vector tile version.

Examples:
  mvt-reader layers 14/8362/5956.mvt
  mvt-reader layers tile.mvt.gz`,
	Args: cobra.ExactArgs(1),
	RunE: runLayers,
}

func init() {
	rootCmd.AddCommand(layersCmd)
}

func runLayers(cmd *cobra.Command, args []string) error {
	data, err := tile.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load tile: %w", err)
	}

	reader, err := mvt.NewReader(data)
	if err != nil {
		return fmt.Errorf("failed to parse tile: %w", err)
	}

	// Surfaces a version error before printing anything.
	if _, err := reader.LayerNames(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tVERSION\tEXTENT\tFEATURES")
	for _, layer := range reader.Layers() {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n",
			layer.Index, layer.Name, layer.Version, layer.Extent, layer.FeatureCount)
	}
	return w.Flush()
}
