// pkg/mvt/geometry_test.go - Unit tests for the geometry command-stream decoder
package mvt

import (
	"errors"
	"math"
	"testing"
)

// collectGeometries drains an iterator and returns every decoded part.
func collectGeometries(t *testing.T, it *GeometryIterator[Coord2D]) []Geometry {
	t.Helper()
	var parts []Geometry
	for it.Next() {
		parts = append(parts, it.Geometry())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Unexpected iterator error: %v", err)
	}
	return parts
}

func newTestIterator(data []uint32, geomType GeomType) *GeometryIterator[Coord2D] {
	return NewGeometryIterator(data, geomType, newStorage2D, Identity{})
}

func checkCoords(t *testing.T, got []float32, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d coordinate floats, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Coordinate %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestDecodeSinglePoint(t *testing.T) {
	// MoveTo(+2,+2)
	it := newTestIterator([]uint32{9, 4, 4}, GeomTypePoint)

	parts := collectGeometries(t, it)
	if len(parts) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(parts))
	}

	p, ok := parts[0].(Point)
	if !ok {
		t.Fatalf("Expected Point, got %T", parts[0])
	}
	if p.X != 2 || p.Y != 2 {
		t.Errorf("Expected point (2,2), got (%f,%f)", p.X, p.Y)
	}
}

func TestDecodeMultiPoint(t *testing.T) {
	// MoveTo with repeat count 2: points (2,2) and (4,4)
	it := newTestIterator([]uint32{17, 4, 4, 4, 4}, GeomTypePoint)

	parts := collectGeometries(t, it)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 geometries, got %d", len(parts))
	}

	want := [][2]float32{{2, 2}, {4, 4}}
	for i, part := range parts {
		p, ok := part.(Point)
		if !ok {
			t.Fatalf("Part %d: expected Point, got %T", i, part)
		}
		if p.X != want[i][0] || p.Y != want[i][1] {
			t.Errorf("Part %d: expected (%f,%f), got (%f,%f)",
				i, want[i][0], want[i][1], p.X, p.Y)
		}
	}
}

func TestDecodeLineString(t *testing.T) {
	// MoveTo(+2,+2), LineTo(+2,+2)(+2,+2)
	it := newTestIterator([]uint32{9, 4, 4, 18, 4, 4, 4, 4}, GeomTypeLineString)

	parts := collectGeometries(t, it)
	if len(parts) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(parts))
	}

	ls, ok := parts[0].(LineString[Coord2D])
	if !ok {
		t.Fatalf("Expected LineString, got %T", parts[0])
	}
	checkCoords(t, ls.Coords.Raw(), []float32{2, 2, 4, 4, 6, 6})
}

func TestDecodeMultiLineString(t *testing.T) {
	// Two MoveTo/LineTo sequences; the second MoveTo closes the first part.
	it := newTestIterator([]uint32{9, 4, 4, 10, 4, 4, 9, 4, 4, 10, 4, 4}, GeomTypeLineString)

	parts := collectGeometries(t, it)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 geometries, got %d", len(parts))
	}

	first, ok := parts[0].(LineString[Coord2D])
	if !ok {
		t.Fatalf("Part 0: expected LineString, got %T", parts[0])
	}
	checkCoords(t, first.Coords.Raw(), []float32{2, 2, 4, 4})

	second, ok := parts[1].(LineString[Coord2D])
	if !ok {
		t.Fatalf("Part 1: expected LineString, got %T", parts[1])
	}
	checkCoords(t, second.Coords.Raw(), []float32{6, 6, 8, 8})
}

func TestDecodePolygon(t *testing.T) {
	// MoveTo(0,0), LineTo(+10,0)(0,+10), ClosePath
	it := newTestIterator([]uint32{9, 0, 0, 18, 20, 0, 0, 20, 15}, GeomTypePolygon)

	parts := collectGeometries(t, it)
	if len(parts) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(parts))
	}

	poly, ok := parts[0].(Polygon[Coord2D])
	if !ok {
		t.Fatalf("Expected Polygon, got %T", parts[0])
	}
	checkCoords(t, poly.Exterior.Raw(), []float32{0, 0, 10, 0, 10, 10})
	if len(poly.Holes) != 0 {
		t.Errorf("Expected no holes, got %d", len(poly.Holes))
	}
}

func TestDecodePolygonWithHole(t *testing.T) {
	data := []uint32{
		// Exterior: (0,0) (10,0) (10,10), positive area
		9, 0, 0, 18, 20, 0, 0, 20, 15,
		// Hole: (2,2) (2,6) (6,6), negative area
		9, 15, 15, 18, 0, 8, 8, 0, 15,
	}
	it := newTestIterator(data, GeomTypePolygon)

	parts := collectGeometries(t, it)
	if len(parts) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(parts))
	}

	poly, ok := parts[0].(Polygon[Coord2D])
	if !ok {
		t.Fatalf("Expected Polygon, got %T", parts[0])
	}
	checkCoords(t, poly.Exterior.Raw(), []float32{0, 0, 10, 0, 10, 10})
	if len(poly.Holes) != 1 {
		t.Fatalf("Expected 1 hole, got %d", len(poly.Holes))
	}
	checkCoords(t, poly.Holes[0].Raw(), []float32{2, 2, 2, 6, 6, 6})
}

func TestDecodeMultiPolygon(t *testing.T) {
	data := []uint32{
		// First exterior: (0,0) (10,0) (10,10)
		9, 0, 0, 18, 20, 0, 0, 20, 15,
		// Second exterior: (20,0) (30,0) (30,10); positive area splits polygons
		9, 20, 19, 18, 20, 0, 0, 20, 15,
	}
	it := newTestIterator(data, GeomTypePolygon)

	parts := collectGeometries(t, it)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 geometries, got %d", len(parts))
	}

	first, ok := parts[0].(Polygon[Coord2D])
	if !ok {
		t.Fatalf("Part 0: expected Polygon, got %T", parts[0])
	}
	checkCoords(t, first.Exterior.Raw(), []float32{0, 0, 10, 0, 10, 10})
	if len(first.Holes) != 0 {
		t.Errorf("Part 0: expected no holes, got %d", len(first.Holes))
	}

	second, ok := parts[1].(Polygon[Coord2D])
	if !ok {
		t.Fatalf("Part 1: expected Polygon, got %T", parts[1])
	}
	checkCoords(t, second.Exterior.Raw(), []float32{20, 0, 30, 0, 30, 10})
}

func TestDecodeZeroAreaRingIsHole(t *testing.T) {
	data := []uint32{
		// Exterior: (0,0) (10,0) (10,10)
		9, 0, 0, 18, 20, 0, 0, 20, 15,
		// Degenerate collinear ring with zero area stays a hole
		9, 15, 15, 18, 2, 2, 2, 2, 15,
	}
	it := newTestIterator(data, GeomTypePolygon)

	parts := collectGeometries(t, it)
	if len(parts) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(parts))
	}

	poly, ok := parts[0].(Polygon[Coord2D])
	if !ok {
		t.Fatalf("Expected Polygon, got %T", parts[0])
	}
	if len(poly.Holes) != 1 {
		t.Errorf("Expected zero-area ring classified as hole, got %d holes", len(poly.Holes))
	}
}

func TestDecodeClosePathWithoutCoordinates(t *testing.T) {
	it := newTestIterator([]uint32{15}, GeomTypePolygon)

	if it.Next() {
		t.Fatal("Expected no geometry from bare ClosePath")
	}
	err := it.Err()
	if err == nil {
		t.Fatal("Expected error for ClosePath without coordinates")
	}
	if !errors.Is(err, ErrGeometry) {
		t.Errorf("Expected ErrGeometry, got %v", err)
	}
}

func TestDecodeUnknownGeometryType(t *testing.T) {
	it := newTestIterator([]uint32{9, 4, 4}, GeomTypeUnknown)

	if it.Next() {
		t.Fatal("Expected no geometry for unknown type")
	}
	if err := it.Err(); !errors.Is(err, ErrGeometry) {
		t.Errorf("Expected ErrGeometry, got %v", err)
	}
}

func TestDecodeUnrecognizedCommandSkipped(t *testing.T) {
	// Command id 3 is not defined; the decoder skips it and carries on.
	it := newTestIterator([]uint32{3, 9, 4, 4}, GeomTypePoint)

	parts := collectGeometries(t, it)
	if len(parts) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(parts))
	}
	p := parts[0].(Point)
	if p.X != 2 || p.Y != 2 {
		t.Errorf("Expected point (2,2), got (%f,%f)", p.X, p.Y)
	}
}

func TestDecodeEmptyStream(t *testing.T) {
	it := newTestIterator(nil, GeomTypePoint)

	if it.Next() {
		t.Fatal("Expected no geometry from empty stream")
	}
	if err := it.Err(); err != nil {
		t.Errorf("Expected no error for empty stream, got %v", err)
	}
}

func TestDecodeCursorOverflowClamps(t *testing.T) {
	maxZigzag := uint32(math.MaxInt32) * 2 // zigzag encoding of math.MaxInt32

	// MoveTo with repeat count 2: jump to (MaxInt32, 0), then +1 on x.
	it := newTestIterator([]uint32{17, maxZigzag, 0, 2, 0}, GeomTypePoint)

	parts := collectGeometries(t, it)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 geometries, got %d", len(parts))
	}

	limit := float32(math.MaxInt32)
	for i, part := range parts {
		p := part.(Point)
		if p.X != limit {
			t.Errorf("Part %d: expected x clamped to %f, got %f", i, limit, p.X)
		}
		if p.Y != 0 {
			t.Errorf("Part %d: expected y 0, got %f", i, p.Y)
		}
	}
}

func TestDecodeCursorUnderflowClamps(t *testing.T) {
	minZigzag := uint32(math.MaxUint32) // zigzag encoding of math.MinInt32

	// MoveTo with repeat count 2: jump to (0, MinInt32), then -1 on y.
	it := newTestIterator([]uint32{17, 0, minZigzag, 0, 1}, GeomTypePoint)

	parts := collectGeometries(t, it)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 geometries, got %d", len(parts))
	}

	limit := float32(math.MinInt32)
	for i, part := range parts {
		p := part.(Point)
		if p.X != 0 {
			t.Errorf("Part %d: expected x 0, got %f", i, p.X)
		}
		if p.Y != limit {
			t.Errorf("Part %d: expected y clamped to %f, got %f", i, limit, p.Y)
		}
	}
}

func TestDecodeNegativeDeltas(t *testing.T) {
	// MoveTo(+4,+4), LineTo(-2,-3): zigzag(-2)=3, zigzag(-3)=5
	it := newTestIterator([]uint32{9, 8, 8, 10, 3, 5}, GeomTypeLineString)

	parts := collectGeometries(t, it)
	if len(parts) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(parts))
	}
	ls := parts[0].(LineString[Coord2D])
	checkCoords(t, ls.Coords.Raw(), []float32{4, 4, 2, 1})
}

func TestDecodeIsRepeatable(t *testing.T) {
	data := []uint32{9, 4, 4, 18, 4, 4, 4, 4}

	first := collectGeometries(t, newTestIterator(data, GeomTypeLineString))
	second := collectGeometries(t, newTestIterator(data, GeomTypeLineString))

	if len(first) != len(second) {
		t.Fatalf("Expected identical part counts, got %d and %d", len(first), len(second))
	}
	a := first[0].(LineString[Coord2D]).Coords.Raw()
	b := second[0].(LineString[Coord2D]).Coords.Raw()
	checkCoords(t, b, a)
}

func TestDecodeExhaustedIteratorStaysDone(t *testing.T) {
	it := newTestIterator([]uint32{9, 4, 4}, GeomTypePoint)

	for it.Next() {
	}
	if it.Next() {
		t.Error("Expected Next to keep returning false after exhaustion")
	}
	if err := it.Err(); err != nil {
		t.Errorf("Expected no error after clean exhaustion, got %v", err)
	}
}

func TestDecodeWithTileTransform(t *testing.T) {
	transform := NewTileTransform(0, 0, 0, 4096)

	// Point at tile coordinate (2048, 2048), the center of the world tile.
	it := NewGeometryIterator([]uint32{9, 4096, 4096}, GeomTypePoint, newStorage2D, transform)

	parts := collectGeometries(t, it)
	if len(parts) != 1 {
		t.Fatalf("Expected 1 geometry, got %d", len(parts))
	}
	p := parts[0].(Point)
	if math.Abs(float64(p.X)) > 1 || math.Abs(float64(p.Y)) > 1 {
		t.Errorf("Expected tile center to project near mercator origin, got (%f,%f)", p.X, p.Y)
	}
}

func TestClampAdd(t *testing.T) {
	tests := []struct {
		name string
		a, b int32
		want int32
	}{
		{"simple", 3, 4, 7},
		{"negative", -9, 4, -5},
		{"positive overflow", math.MaxInt32, 1, math.MaxInt32},
		{"negative overflow", math.MinInt32, -1, math.MinInt32},
		{"at max", math.MaxInt32, 0, math.MaxInt32},
		{"at min", math.MinInt32, 0, math.MinInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampAdd(tt.a, tt.b); got != tt.want {
				t.Errorf("clampAdd(%d, %d): expected %d, got %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
