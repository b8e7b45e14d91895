// pkg/mvt/geometry.go - Geometry command stream decoding
package mvt

import (
	"math"

	"github.com/paulmach/orb"
)

// dimension is the number of parameter integers per coordinate.
const dimension = 2

// Geometry command identifiers of the vector tile encoding.
const (
	cmdMoveTo    = 1
	cmdLineTo    = 2
	cmdClosePath = 7
)

// Geometry is one decoded geometry part. A feature's full geometry is the
// sequence of parts its command stream yields: multi geometries are simply
// multiple parts of the same kind, there is no dedicated wrapper type.
type Geometry interface {
	GeometryKind() GeomType
}

// Point is a single transformed coordinate pair. For 3D transforms only the
// first two components are carried.
type Point struct {
	X, Y float32
}

// GeometryKind implements Geometry.
func (Point) GeometryKind() GeomType { return GeomTypePoint }

// LineString is one decoded line, holding the storage it was accumulated in.
type LineString[C TransformedCoord] struct {
	Coords Storage[C]
}

// GeometryKind implements Geometry.
func (LineString[C]) GeometryKind() GeomType { return GeomTypeLineString }

// Polygon is one decoded polygon: an exterior ring and its holes, in stream
// order. Rings are stored open; the closing edge back to the first
// coordinate is implicit.
type Polygon[C TransformedCoord] struct {
	Exterior Storage[C]
	Holes    []Storage[C]
}

// GeometryKind implements Geometry.
func (Polygon[C]) GeometryKind() GeomType { return GeomTypePolygon }

// decodeState drives the command stream state machine. Keeping state in the
// iterator value rather than on a call stack is what lets decoding suspend
// between parts.
type decodeState uint8

const (
	stateInitial decodeState = iota
	stateReadingCommand
	stateReadingParameters
	stateFinished
)

// GeometryIterator decodes one feature's geometry command stream into a lazy
// sequence of geometry parts. Each Next call performs bounded work, so large
// tiles can be consumed incrementally. An iterator owns its cursor, storage
// and pending-ring state exclusively and only borrows the stream slice;
// independent iterators over the same data may run concurrently.
type GeometryIterator[C TransformedCoord] struct {
	data       []uint32
	geomType   GeomType
	transform  Transform[C]
	newStorage func() Storage[C]

	pos     int
	cursor  [2]int32
	current Storage[C]
	pending []Storage[C]
	state   decodeState
	count   uint32
	cmdID   uint8
	scratch [3]float32

	geom Geometry
	err  error
}

// NewGeometryIterator creates an iterator over a feature's geometry integer
// array. newStorage supplies fresh accumulators (one per ring or line) and
// transform is applied to every decoded coordinate pair.
func NewGeometryIterator[C TransformedCoord](
	data []uint32,
	geomType GeomType,
	newStorage func() Storage[C],
	transform Transform[C],
) *GeometryIterator[C] {
	return &GeometryIterator[C]{
		data:       data,
		geomType:   geomType,
		transform:  transform,
		newStorage: newStorage,
		current:    newStorage(),
		state:      stateInitial,
	}
}

// Next advances to the next geometry part. It returns false when the stream
// is exhausted or decoding failed; check Err to distinguish.
func (it *GeometryIterator[C]) Next() bool {
	if it.err != nil {
		return false
	}

	geom, err := it.parseNext()
	if err != nil {
		it.err = err
		return false
	}
	if geom == nil {
		return false
	}

	it.geom = geom
	return true
}

// Geometry returns the part produced by the last successful Next call.
func (it *GeometryIterator[C]) Geometry() Geometry { return it.geom }

// Err returns the first decoding error encountered, if any.
func (it *GeometryIterator[C]) Err() error { return it.err }

func (it *GeometryIterator[C]) parseNext() (Geometry, error) {
	if it.geomType == GeomTypeUnknown {
		it.state = stateFinished
		return nil, newParserError(ErrGeometry)
	}

	for {
		switch it.state {
		case stateInitial:
			it.state = stateReadingCommand

		case stateReadingCommand:
			if it.pos >= len(it.data) {
				return it.finish()
			}

			command := it.data[it.pos]
			it.pos++

			id := uint8(command & 0x7)
			count := (command >> 3) * dimension

			switch id {
			case cmdMoveTo:
				// A MoveTo while a line is in progress starts the next
				// independent line of a multi-linestring.
				if it.geomType == GeomTypeLineString && it.current.Len() > 0 {
					line := it.current
					it.current = it.newStorage()
					it.setParameters(count, id)
					return LineString[C]{Coords: line}, nil
				}
				it.setParameters(count, id)

			case cmdLineTo:
				it.setParameters(count, id)

			case cmdClosePath:
				geom, err := it.closePath()
				if err != nil {
					it.state = stateFinished
					return nil, err
				}
				if geom != nil {
					return geom, nil
				}

			default:
				// Unknown command ids are skipped for forward compatibility.
				it.state = stateReadingCommand
			}

		case stateReadingParameters:
			if geom := it.readParameters(); geom != nil {
				return geom, nil
			}

		case stateFinished:
			return nil, nil
		}
	}
}

func (it *GeometryIterator[C]) setParameters(count uint32, id uint8) {
	it.state = stateReadingParameters
	it.count = count
	it.cmdID = id
}

// closePath takes the accumulated coordinates as a completed ring and
// classifies it. The first ring of a pending set is always the exterior;
// later rings start a new polygon when their signed area is strictly
// positive and become holes otherwise.
func (it *GeometryIterator[C]) closePath() (Geometry, error) {
	if it.current.Len() == 0 {
		return nil, newParserError(ErrGeometry)
	}

	ring := it.current
	it.current = it.newStorage()
	it.state = stateReadingCommand

	if len(it.pending) == 0 {
		it.pending = append(it.pending, ring)
		return nil, nil
	}

	if ring.ClosedArea() > 0 {
		polygon := Polygon[C]{Exterior: it.pending[0], Holes: it.pending[1:]}
		it.pending = []Storage[C]{ring}

		if it.geomType == GeomTypePolygon {
			return polygon, nil
		}
		return nil, nil
	}

	it.pending = append(it.pending, ring)
	return nil, nil
}

// readParameters consumes parameter integers until the current command's
// count is exhausted or the stream ends. It returns a Point part as soon as
// one is complete; other kinds accumulate into the current storage.
func (it *GeometryIterator[C]) readParameters() Geometry {
	for it.count > 0 && it.pos < len(it.data) {
		parameter := it.data[it.pos]
		it.pos++

		delta := int32(parameter>>1) ^ -int32(parameter&1)

		if it.count%dimension == 0 {
			it.cursor[0] = clampAdd(it.cursor[0], delta)
		} else {
			it.cursor[1] = clampAdd(it.cursor[1], delta)

			x := float32(it.cursor[0])
			y := float32(it.cursor[1])
			transformed := it.transform.Apply(x, y, it.geomType)

			// Point coordinates are yielded one by one, never accumulated:
			// a single MoveTo may carry many pairs for a multi-point.
			if it.geomType == GeomTypePoint && it.cmdID == cmdMoveTo {
				it.count--
				if it.count == 0 {
					it.state = stateReadingCommand
				}

				buf := transformed.AppendTo(it.scratch[:0])
				return Point{X: buf[0], Y: buf[1]}
			}

			it.current.Push(x, y, transformed)
		}
		it.count--
	}

	it.state = stateReadingCommand
	return nil
}

// finish emits the trailing part once the stream is exhausted.
func (it *GeometryIterator[C]) finish() (Geometry, error) {
	it.state = stateFinished

	switch it.geomType {
	case GeomTypeLineString:
		if it.current.Len() > 0 {
			line := it.current
			it.current = it.newStorage()
			return LineString[C]{Coords: line}, nil
		}

	case GeomTypePolygon:
		if len(it.pending) > 0 {
			polygon := Polygon[C]{Exterior: it.pending[0], Holes: it.pending[1:]}
			it.pending = nil
			return polygon, nil
		}
	}

	return nil, nil
}

// clampAdd adds a delta to a cursor component, saturating at the signed
// 32-bit bounds on overflow. Some encoders misuse the format this way and
// the permissive behavior is kept for compatibility.
func clampAdd(a, b int32) int32 {
	sum := int64(a) + int64(b)
	if sum > math.MaxInt32 {
		return math.MaxInt32
	}
	if sum < math.MinInt32 {
		return math.MinInt32
	}
	return int32(sum)
}

// parseGeometry eagerly drains a geometry command stream into an orb
// geometry built from the transformed coordinates, failing fast on the first
// error. A single part maps to the plain geometry type, multiple parts to
// the corresponding multi type.
func parseGeometry(data []uint32, geomType GeomType, transform Transform[Coord2D]) (orb.Geometry, error) {
	iter := NewGeometryIterator(data, geomType, newStorage2D, transform)

	var (
		points orb.MultiPoint
		lines  []orb.LineString
		polys  []orb.Polygon
	)

	for iter.Next() {
		switch g := iter.Geometry().(type) {
		case Point:
			points = append(points, orb.Point{float64(g.X), float64(g.Y)})
		case LineString[Coord2D]:
			lines = append(lines, toOrbLineString(g.Coords))
		case Polygon[Coord2D]:
			polys = append(polys, toOrbPolygon(g))
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	switch geomType {
	case GeomTypePoint:
		if len(points) == 1 {
			return points[0], nil
		}
		return points, nil
	case GeomTypeLineString:
		if len(lines) == 1 {
			return lines[0], nil
		}
		return orb.MultiLineString(lines), nil
	case GeomTypePolygon:
		if len(polys) == 1 {
			return polys[0], nil
		}
		return orb.MultiPolygon(polys), nil
	}

	return nil, newParserError(ErrGeometry)
}

func newStorage2D() Storage[Coord2D] {
	return NewFlatStorage()
}

func toOrbLineString(s Storage[Coord2D]) orb.LineString {
	coords := s.Transformed()
	line := make(orb.LineString, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		line = append(line, orb.Point{float64(coords[i]), float64(coords[i+1])})
	}
	return line
}

func toOrbRing(s Storage[Coord2D]) orb.Ring {
	ring := orb.Ring(toOrbLineString(s))
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

func toOrbPolygon(p Polygon[Coord2D]) orb.Polygon {
	polygon := make(orb.Polygon, 0, len(p.Holes)+1)
	polygon = append(polygon, toOrbRing(p.Exterior))
	for _, hole := range p.Holes {
		polygon = append(polygon, toOrbRing(hole))
	}
	return polygon
}
