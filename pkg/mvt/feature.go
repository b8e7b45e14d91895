// pkg/mvt/feature.go - Feature assembly and the lazy layer iterator
package mvt

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Feature is one fully materialized feature: decoded geometry, resolved
// properties and the optional feature id. Produced by the eager Reader
// API.
type Feature struct {
	ID         *uint64
	Type       GeomType
	Geometry   orb.Geometry
	Properties map[string]Value
}

// StreamedFeature is one feature of the lazy API. Its geometry is an
// unconsumed iterator borrowing the tile's command stream; properties and id
// are resolved up front.
type StreamedFeature[C TransformedCoord] struct {
	ID         *uint64
	Type       GeomType
	Geometry   *GeometryIterator[C]
	Properties map[string]Value
}

// geomTypeOf validates a raw feature's declared geometry type. A missing
// field or a value outside the schema range is a decode error for the
// feature.
func geomTypeOf(raw *rawFeature) (GeomType, error) {
	if raw.geomType == nil {
		return GeomTypeUnknown, newParserError(&DecodeError{Cause: errors.New("feature has no geometry type")})
	}
	t := *raw.geomType
	if t < int32(GeomTypeUnknown) || t > int32(GeomTypePolygon) {
		return GeomTypeUnknown, newParserError(&DecodeError{Cause: fmt.Errorf("unknown geometry type value: %d", t)})
	}
	return GeomType(t), nil
}

// newStreamedFeature assembles a lazy feature from its raw form: tag
// resolution happens eagerly, geometry decoding is deferred to the returned
// iterator.
func newStreamedFeature[C TransformedCoord](
	layer *layerData,
	raw *rawFeature,
	newStorage func() Storage[C],
	transform Transform[C],
) (*StreamedFeature[C], error) {
	geomType, err := geomTypeOf(raw)
	if err != nil {
		return nil, err
	}

	properties, err := resolveTags(raw.tags, layer.keys, layer.values)
	if err != nil {
		return nil, err
	}

	return &StreamedFeature[C]{
		ID:         raw.id,
		Type:       geomType,
		Geometry:   NewGeometryIterator(raw.geometry, geomType, newStorage, transform),
		Properties: properties,
	}, nil
}

// FeatureIterator walks a layer's features lazily, assembling one
// StreamedFeature per stored feature in order. It is fail-fast by default:
// the first feature that fails to decode stops iteration with Err set.
// Setting SkipInvalid before iterating opts into the lenient mode where such
// features are skipped as if they did not exist.
type FeatureIterator[C TransformedCoord] struct {
	// SkipInvalid, when true, silently drops features that fail to decode
	// instead of stopping iteration. Callers needing strict validation
	// should leave it false or use the eager Reader API.
	SkipInvalid bool

	layer      *layerData
	idx        int
	newStorage func() Storage[C]
	transform  Transform[C]

	feature *StreamedFeature[C]
	err     error
}

// NewFeatureIterator creates a lazy feature iterator over the layer at
// layerIndex. It returns false when layerIndex is out of range.
func NewFeatureIterator[C TransformedCoord](
	r *Reader,
	layerIndex int,
	newStorage func() Storage[C],
	transform Transform[C],
) (*FeatureIterator[C], bool) {
	if layerIndex < 0 || layerIndex >= len(r.tile.layers) {
		return nil, false
	}

	return &FeatureIterator[C]{
		layer:      r.tile.layers[layerIndex],
		newStorage: newStorage,
		transform:  transform,
	}, true
}

// Next advances to the next feature. It returns false when the layer is
// exhausted or, in fail-fast mode, when a feature fails to decode.
func (it *FeatureIterator[C]) Next() bool {
	if it.err != nil {
		return false
	}

	for it.idx < len(it.layer.features) {
		raw := &it.layer.features[it.idx]
		it.idx++

		feature, err := newStreamedFeature(it.layer, raw, it.newStorage, it.transform)
		if err != nil {
			if it.SkipInvalid {
				continue
			}
			it.err = err
			return false
		}

		it.feature = feature
		return true
	}

	return false
}

// Feature returns the feature produced by the last successful Next call.
func (it *FeatureIterator[C]) Feature() *StreamedFeature[C] { return it.feature }

// Err returns the first decoding error encountered in fail-fast mode.
func (it *FeatureIterator[C]) Err() error { return it.err }
