// pkg/mvt/storage_test.go - Unit tests for coordinate storage
package mvt

import (
	"math"
	"testing"
)

// shoelace computes the signed area of a closed ring from its full point
// list, including the wrap-around edge. Used as the reference for the
// incremental accumulator.
func shoelace(points [][2]float32) float32 {
	var area float32
	n := len(points)
	v1 := points[n-1]
	for _, v2 := range points {
		area += (v2[1] - v1[1]) * (v2[0] + v1[0])
		v1 = v2
	}
	return area / 2
}

func TestFlatStorageEmpty(t *testing.T) {
	s := NewFlatStorage()

	if s.Len() != 0 {
		t.Errorf("Expected empty storage, got len %d", s.Len())
	}
	if _, _, ok := s.First(); ok {
		t.Error("Expected no first coordinate in empty storage")
	}
	if _, _, ok := s.Last(); ok {
		t.Error("Expected no last coordinate in empty storage")
	}
	if area := s.ClosedArea(); area != 0 {
		t.Errorf("Expected zero area for empty storage, got %f", area)
	}
}

func TestFlatStorageFirstLast(t *testing.T) {
	s := NewFlatStorage()
	s.Push(1, 2, Coord2D{X: 1, Y: 2})
	s.Push(3, 4, Coord2D{X: 3, Y: 4})
	s.Push(5, 6, Coord2D{X: 5, Y: 6})

	if s.Len() != 3 {
		t.Errorf("Expected len 3, got %d", s.Len())
	}

	x, y, ok := s.First()
	if !ok || x != 1 || y != 2 {
		t.Errorf("Expected first (1,2), got (%f,%f) ok=%v", x, y, ok)
	}

	x, y, ok = s.Last()
	if !ok || x != 5 || y != 6 {
		t.Errorf("Expected last (5,6), got (%f,%f) ok=%v", x, y, ok)
	}
}

func TestFlatStorageSingleCoordinateArea(t *testing.T) {
	s := NewFlatStorage()
	s.Push(3, 7, Coord2D{X: 3, Y: 7})

	if area := s.ClosedArea(); area != 0 {
		t.Errorf("Expected zero area for single coordinate, got %f", area)
	}
}

func TestClosedAreaMatchesShoelace(t *testing.T) {
	tests := []struct {
		name   string
		points [][2]float32
	}{
		{"triangle cw", [][2]float32{{0, 0}, {10, 0}, {10, 10}}},
		{"triangle ccw", [][2]float32{{0, 0}, {10, 10}, {10, 0}}},
		{"square", [][2]float32{{0, 0}, {4, 0}, {4, 4}, {0, 4}}},
		{"collinear", [][2]float32{{0, 0}, {1, 1}, {2, 2}}},
		{"irregular", [][2]float32{{-3, 2}, {5, 7}, {11, -4}, {2, -9}, {-6, -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFlatStorage()
			for _, p := range tt.points {
				s.Push(p[0], p[1], Coord2D{X: p[0], Y: p[1]})
			}

			want := shoelace(tt.points)
			got := s.ClosedArea()
			if math.Abs(float64(got-want)) > 1e-4 {
				t.Errorf("Expected area %f, got %f", want, got)
			}
		})
	}
}

func TestFlatStorageClear(t *testing.T) {
	s := NewFlatStorage()
	s.Push(0, 0, Coord2D{})
	s.Push(10, 0, Coord2D{X: 10})
	s.Push(10, 10, Coord2D{X: 10, Y: 10})

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Expected empty storage after clear, got len %d", s.Len())
	}
	if len(s.Transformed()) != 0 {
		t.Errorf("Expected empty transformed buffer after clear, got %d floats", len(s.Transformed()))
	}

	// The area accumulator must reset too, or the next ring inherits it.
	s.Push(0, 0, Coord2D{})
	s.Push(1, 0, Coord2D{X: 1})
	s.Push(1, 1, Coord2D{X: 1, Y: 1})
	if area := s.ClosedArea(); math.Abs(float64(area-0.5)) > 1e-6 {
		t.Errorf("Expected area 0.5 after clear and re-push, got %f", area)
	}
}

func TestFlatStorageTransformedBuffer(t *testing.T) {
	s := NewFlatStorage()
	s.Push(1, 2, Coord2D{X: 100, Y: 200})
	s.Push(3, 4, Coord2D{X: 300, Y: 400})

	raw := s.Raw()
	wantRaw := []float32{1, 2, 3, 4}
	if len(raw) != len(wantRaw) {
		t.Fatalf("Expected %d raw floats, got %d", len(wantRaw), len(raw))
	}
	for i := range wantRaw {
		if raw[i] != wantRaw[i] {
			t.Errorf("Raw[%d]: expected %f, got %f", i, wantRaw[i], raw[i])
		}
	}

	transformed := s.Transformed()
	wantTransformed := []float32{100, 200, 300, 400}
	if len(transformed) != len(wantTransformed) {
		t.Fatalf("Expected %d transformed floats, got %d", len(wantTransformed), len(transformed))
	}
	for i := range wantTransformed {
		if transformed[i] != wantTransformed[i] {
			t.Errorf("Transformed[%d]: expected %f, got %f", i, wantTransformed[i], transformed[i])
		}
	}
}

func TestFlatStorage3D(t *testing.T) {
	s := NewFlatStorage3D()
	s.Push(1, 2, Coord3D{X: 1, Y: 2, Z: 9})
	s.Push(3, 4, Coord3D{X: 3, Y: 4, Z: 9})

	if s.Len() != 2 {
		t.Errorf("Expected len 2, got %d", s.Len())
	}

	transformed := s.Transformed()
	want := []float32{1, 2, 9, 3, 4, 9}
	if len(transformed) != len(want) {
		t.Fatalf("Expected %d transformed floats, got %d", len(want), len(transformed))
	}
	for i := range want {
		if transformed[i] != want[i] {
			t.Errorf("Transformed[%d]: expected %f, got %f", i, want[i], transformed[i])
		}
	}

	// Raw buffer stays 2D regardless of the transformed shape.
	if len(s.Raw()) != 4 {
		t.Errorf("Expected 4 raw floats, got %d", len(s.Raw()))
	}
}

func TestStorageWithCapacity(t *testing.T) {
	s := NewFlatStorageWithCapacity(16)
	if s.Len() != 0 {
		t.Errorf("Expected empty preallocated storage, got len %d", s.Len())
	}

	s3 := NewFlatStorage3DWithCapacity(16)
	if s3.Len() != 0 {
		t.Errorf("Expected empty preallocated 3D storage, got len %d", s3.Len())
	}
}
