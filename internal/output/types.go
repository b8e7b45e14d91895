// internal/output/types.go - Output handling types
package output

import (
	"github.com/valpere/mvt-reader/internal/tile"
	"github.com/valpere/mvt-reader/pkg/mvt"
)

// Format represents the output formats supported by the application.
type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatJSON    Format = "json"
)

// Tile represents one decoded tile prepared for output.
type Tile struct {
	ID     tile.ID `json:"id"`
	Source string  `json:"source,omitempty"`
	Layers []Layer `json:"layers"`
}

// Layer represents one decoded layer of an output tile.
type Layer struct {
	Name     string        `json:"name"`
	Version  uint32        `json:"version"`
	Extent   uint32        `json:"extent"`
	Features []mvt.Feature `json:"features"`
}

// FeatureCount returns the total number of features across all layers.
func (t *Tile) FeatureCount() int {
	count := 0
	for _, layer := range t.Layers {
		count += len(layer.Features)
	}
	return count
}

// LayerNames returns the names of all layers in order.
func (t *Tile) LayerNames() []string {
	names := make([]string, 0, len(t.Layers))
	for _, layer := range t.Layers {
		names = append(names, layer.Name)
	}
	return names
}

// FormatterConfig configures output formatting.
type FormatterConfig struct {
	Format   Format
	Pretty   bool
	Metadata bool
}

// Formatter formats a decoded tile into an output byte stream.
type Formatter interface {
	Format(tile *Tile) ([]byte, error)
	ContentType() string
}

// Writer writes formatted tiles to a destination.
type Writer interface {
	Write(tile *Tile) error
	Close() error
}

// WriterConfig configures an output writer.
type WriterConfig struct {
	Format      Format
	Pretty      bool
	Compression bool
	Metadata    bool
}
