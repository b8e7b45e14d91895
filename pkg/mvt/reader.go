// pkg/mvt/reader.go - Reader facade over a decoded vector tile
package mvt

// Reader decodes a Mapbox vector tile and exposes its layers and features.
// It owns the decoded tile for its lifetime; layers and features are views
// or values derived on demand. A Reader is safe for concurrent readers since
// the decoded tile is never mutated after construction.
type Reader struct {
	tile *tileData
}

// NewReader decodes the tile envelope from data. It fails with a ParserError
// wrapping a *DecodeError when the bytes are not a well-formed tile; no
// partial Reader is produced.
func NewReader(data []byte) (*Reader, error) {
	tile, err := decodeTile(data)
	if err != nil {
		return nil, newParserError(&DecodeError{Cause: err})
	}
	return &Reader{tile: tile}, nil
}

// LayerNames returns the names of all layers in stored order. Any layer
// declaring a version other than 1 or 2 fails the whole call with a
// *VersionError naming that layer.
func (r *Reader) LayerNames() ([]string, error) {
	names := make([]string, 0, len(r.tile.layers))
	for _, layer := range r.tile.layers {
		switch layer.version {
		case 1, 2:
			names = append(names, layer.name)
		default:
			return nil, newParserError(&VersionError{LayerName: layer.name, Version: layer.version})
		}
	}
	return names, nil
}

// Layers returns metadata views for all layers in stored order.
func (r *Reader) Layers() []Layer {
	layers := make([]Layer, 0, len(r.tile.layers))
	for i, layer := range r.tile.layers {
		layers = append(layers, Layer{
			Index:        i,
			Version:      layer.version,
			Name:         layer.name,
			FeatureCount: len(layer.features),
			Extent:       r.Extent(i),
		})
	}
	return layers
}

// Extent returns the declared extent of the layer at layerIndex, or 4096
// when the layer is out of range or does not declare one. It never fails.
func (r *Reader) Extent(layerIndex int) uint32 {
	if layerIndex < 0 || layerIndex >= len(r.tile.layers) {
		return defaultExtent
	}
	if extent := r.tile.layers[layerIndex].extent; extent != nil {
		return *extent
	}
	return defaultExtent
}

// Features eagerly decodes all features of the layer at layerIndex. It fails
// fast: the first feature that fails to decode aborts the whole call with no
// partial results. An out-of-range index yields an empty slice. Callers that
// prefer to skip undecodable features should use NewFeatureIterator with
// SkipInvalid set.
//
// Features does not check the layer's declared vector tile version; version
// validation is LayerNames' job and callers wanting it should call LayerNames
// first.
func (r *Reader) Features(layerIndex int) ([]Feature, error) {
	return r.FeaturesWithTransform(layerIndex, Identity{})
}

// FeaturesWithTransform is Features with a caller-supplied coordinate
// transform applied to every geometry.
func (r *Reader) FeaturesWithTransform(layerIndex int, transform Transform[Coord2D]) ([]Feature, error) {
	if layerIndex < 0 || layerIndex >= len(r.tile.layers) {
		return []Feature{}, nil
	}

	layer := r.tile.layers[layerIndex]
	features := make([]Feature, 0, len(layer.features))
	for i := range layer.features {
		raw := &layer.features[i]

		geomType, err := geomTypeOf(raw)
		if err != nil {
			return nil, err
		}

		geometry, err := parseGeometry(raw.geometry, geomType, transform)
		if err != nil {
			return nil, err
		}

		properties, err := resolveTags(raw.tags, layer.keys, layer.values)
		if err != nil {
			return nil, err
		}

		features = append(features, Feature{
			ID:         raw.id,
			Type:       geomType,
			Geometry:   geometry,
			Properties: properties,
		})
	}

	return features, nil
}
