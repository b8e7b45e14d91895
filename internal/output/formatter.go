// internal/output/formatter.go - Output formatting implementation
package output

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/valpere/mvt-reader/pkg/mvt"
)

// NewFormatter creates a formatter for the configured output format.
func NewFormatter(config *FormatterConfig) (Formatter, error) {
	switch config.Format {
	case FormatGeoJSON, "":
		return &GeoJSONFormatter{pretty: config.Pretty, metadata: config.Metadata}, nil
	case FormatJSON:
		return &JSONFormatter{pretty: config.Pretty}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GeoJSONFormatter renders tiles as a GeoJSON FeatureCollection. Each
// feature carries a "layer" property naming its source layer.
type GeoJSONFormatter struct {
	pretty   bool
	metadata bool
}

// Format formats a single decoded tile as GeoJSON.
func (f *GeoJSONFormatter) Format(tile *Tile) ([]byte, error) {
	collection := geojson.NewFeatureCollection()

	for _, layer := range tile.Layers {
		for _, feature := range layer.Features {
			gf := geojson.NewFeature(feature.Geometry)
			if feature.ID != nil {
				gf.ID = *feature.ID
			}
			for key, value := range feature.Properties {
				gf.Properties[key] = value.Interface()
			}
			gf.Properties["layer"] = layer.Name
			collection.Append(gf)
		}
	}

	if f.metadata {
		collection.ExtraMembers = map[string]interface{}{
			"_metadata": map[string]interface{}{
				"tile":          tile.ID.String(),
				"layers":        tile.LayerNames(),
				"feature_count": tile.FeatureCount(),
			},
		}
	}

	if f.pretty {
		return json.MarshalIndent(collection, "", "  ")
	}
	return json.Marshal(collection)
}

// ContentType returns the MIME type for GeoJSON.
func (f *GeoJSONFormatter) ContentType() string {
	return "application/geo+json"
}

// JSONFormatter renders the decoded tile structure directly, preserving the
// per-layer grouping instead of flattening into one feature collection.
type JSONFormatter struct {
	pretty bool
}

type jsonTile struct {
	ID     string      `json:"id"`
	Source string      `json:"source,omitempty"`
	Layers []jsonLayer `json:"layers"`
}

type jsonLayer struct {
	Name     string        `json:"name"`
	Version  uint32        `json:"version"`
	Extent   uint32        `json:"extent"`
	Features []jsonFeature `json:"features"`
}

type jsonFeature struct {
	ID         *uint64              `json:"id,omitempty"`
	Type       string               `json:"type"`
	Geometry   *geojson.Geometry    `json:"geometry"`
	Properties map[string]mvt.Value `json:"properties,omitempty"`
}

// Format formats a single decoded tile as structured JSON.
func (f *JSONFormatter) Format(tile *Tile) ([]byte, error) {
	out := jsonTile{
		ID:     tile.ID.String(),
		Source: tile.Source,
		Layers: make([]jsonLayer, 0, len(tile.Layers)),
	}

	for _, layer := range tile.Layers {
		jl := jsonLayer{
			Name:     layer.Name,
			Version:  layer.Version,
			Extent:   layer.Extent,
			Features: make([]jsonFeature, 0, len(layer.Features)),
		}
		for _, feature := range layer.Features {
			jl.Features = append(jl.Features, jsonFeature{
				ID:         feature.ID,
				Type:       feature.Type.String(),
				Geometry:   geojson.NewGeometry(feature.Geometry),
				Properties: feature.Properties,
			})
		}
		out.Layers = append(out.Layers, jl)
	}

	if f.pretty {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

// ContentType returns the MIME type for JSON.
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}
