// pkg/mvt/vectortile.go - Tile envelope decoding
package mvt

import (
	"github.com/paulmach/protoscan"
)

// GeomType is the geometry type declared by a feature.
type GeomType int32

// Geometry types of the vector tile schema. GeomTypeUnknown is decodable but
// not parseable: requesting geometry for it is an error.
const (
	GeomTypeUnknown    GeomType = 0
	GeomTypePoint      GeomType = 1
	GeomTypeLineString GeomType = 2
	GeomTypePolygon    GeomType = 3
)

// String returns the schema name of the geometry type.
func (t GeomType) String() string {
	switch t {
	case GeomTypePoint:
		return "POINT"
	case GeomTypeLineString:
		return "LINESTRING"
	case GeomTypePolygon:
		return "POLYGON"
	default:
		return "UNKNOWN"
	}
}

const defaultExtent = 4096

// tileData is the decoded tile envelope: already-typed integer arrays and
// strings, with the wire framing stripped off.
type tileData struct {
	layers []*layerData
}

type layerData struct {
	version  uint32
	name     string
	extent   *uint32
	keys     []string
	values   []Value
	features []rawFeature
}

type rawFeature struct {
	id       *uint64
	tags     []uint32
	geomType *int32
	geometry []uint32
}

// decodeTile scans the protobuf envelope of a serialized tile. It only
// materializes what the reader needs: layer metadata, key/value dictionaries
// and per-feature integer arrays.
func decodeTile(data []byte) (*tileData, error) {
	tile := &tileData{}

	var (
		layerMsg *protoscan.Message
		err      error
	)

	msg := protoscan.New(data)
	for msg.Next() {
		switch msg.FieldNumber() {
		case 3: // layers
			layerMsg, err = msg.Message(layerMsg)
			if err != nil {
				return nil, err
			}

			layer, err := decodeLayer(layerMsg)
			if err != nil {
				return nil, err
			}

			tile.layers = append(tile.layers, layer)
		default:
			msg.Skip()
		}
	}

	if msg.Err() != nil {
		return nil, msg.Err()
	}

	return tile, nil
}

func decodeLayer(msg *protoscan.Message) (*layerData, error) {
	layer := &layerData{version: 1}

	var (
		featureMsg *protoscan.Message
		valueMsg   *protoscan.Message
		err        error
	)

	for msg.Next() {
		switch msg.FieldNumber() {
		case 1: // name
			layer.name, err = msg.String()
			if err != nil {
				return nil, err
			}
		case 2: // features
			featureMsg, err = msg.Message(featureMsg)
			if err != nil {
				return nil, err
			}

			feature, err := decodeFeature(featureMsg)
			if err != nil {
				return nil, err
			}

			layer.features = append(layer.features, feature)
		case 3: // keys
			key, err := msg.String()
			if err != nil {
				return nil, err
			}
			layer.keys = append(layer.keys, key)
		case 4: // values
			valueMsg, err = msg.Message(valueMsg)
			if err != nil {
				return nil, err
			}

			value, err := decodeValue(valueMsg)
			if err != nil {
				return nil, err
			}

			layer.values = append(layer.values, value)
		case 5: // extent
			extent, err := msg.Uint32()
			if err != nil {
				return nil, err
			}
			layer.extent = &extent
		case 15: // version
			layer.version, err = msg.Uint32()
			if err != nil {
				return nil, err
			}
		default:
			msg.Skip()
		}
	}

	if msg.Err() != nil {
		return nil, msg.Err()
	}

	return layer, nil
}

func decodeFeature(msg *protoscan.Message) (rawFeature, error) {
	var feature rawFeature

	var (
		iter *protoscan.Iterator
		err  error
	)

	for msg.Next() {
		switch msg.FieldNumber() {
		case 1: // id
			id, err := msg.Uint64()
			if err != nil {
				return feature, err
			}
			feature.id = &id
		case 2: // tags, repeated packed
			iter, err = msg.Iterator(iter)
			if err != nil {
				return feature, err
			}

			feature.tags = make([]uint32, 0, iter.Count(protoscan.WireTypeVarint))
			for iter.HasNext() {
				v, err := iter.Uint32()
				if err != nil {
					return feature, err
				}
				feature.tags = append(feature.tags, v)
			}
		case 3: // type
			t, err := msg.Int32()
			if err != nil {
				return feature, err
			}
			feature.geomType = &t
		case 4: // geometry, repeated packed
			iter, err = msg.Iterator(iter)
			if err != nil {
				return feature, err
			}

			feature.geometry = make([]uint32, 0, iter.Count(protoscan.WireTypeVarint))
			for iter.HasNext() {
				v, err := iter.Uint32()
				if err != nil {
					return feature, err
				}
				feature.geometry = append(feature.geometry, v)
			}
		default:
			msg.Skip()
		}
	}

	return feature, msg.Err()
}

func decodeValue(msg *protoscan.Message) (Value, error) {
	for msg.Next() {
		switch msg.FieldNumber() {
		case 1:
			s, err := msg.String()
			return StringValue(s), err
		case 2:
			f, err := msg.Float()
			return FloatValue(f), err
		case 3:
			d, err := msg.Double()
			return DoubleValue(d), err
		case 4:
			i, err := msg.Int64()
			return IntValue(i), err
		case 5:
			u, err := msg.Uint64()
			return UintValue(u), err
		case 6:
			i, err := msg.Sint64()
			return SintValue(i), err
		case 7:
			b, err := msg.Bool()
			return BoolValue(b), err
		default:
			msg.Skip()
		}
	}

	return Value{}, msg.Err()
}
