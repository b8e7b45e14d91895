// pkg/mvt/storage.go - Coordinate storage capability and flat implementations
package mvt

// TransformedCoord is the output shape of a coordinate transform. It only
// needs to know how to lay itself out in a flat float buffer, which lets the
// same decoder serve 2D and 3D outputs.
type TransformedCoord interface {
	// AppendTo appends the coordinate components to dst and returns the
	// extended slice.
	AppendTo(dst []float32) []float32

	// Dimensions returns the number of components.
	Dimensions() int
}

// Coord2D is a two-component transformed coordinate.
type Coord2D struct {
	X, Y float32
}

// AppendTo implements TransformedCoord.
func (c Coord2D) AppendTo(dst []float32) []float32 {
	return append(dst, c.X, c.Y)
}

// Dimensions implements TransformedCoord.
func (c Coord2D) Dimensions() int { return 2 }

// Coord3D is a three-component transformed coordinate.
type Coord3D struct {
	X, Y, Z float32
}

// AppendTo implements TransformedCoord.
func (c Coord3D) AppendTo(dst []float32) []float32 {
	return append(dst, c.X, c.Y, c.Z)
}

// Dimensions implements TransformedCoord.
func (c Coord3D) Dimensions() int { return 3 }

// Storage accumulates the coordinates of one ring or line. Implementations
// keep the raw cursor coordinates and the transformed coordinates side by
// side, and maintain a running shoelace sum so ring orientation is available
// without a second pass over the coordinates.
type Storage[C TransformedCoord] interface {
	// Push appends a raw coordinate pair and its transformed counterpart,
	// folding the cross term of the previous pair into the area accumulator.
	Push(x, y float32, transformed C)

	// First returns the first raw coordinate pair, if any.
	First() (x, y float32, ok bool)

	// Last returns the last raw coordinate pair, if any.
	Last() (x, y float32, ok bool)

	// Len returns the number of coordinate pairs.
	Len() int

	// Clear empties the buffers and resets the area accumulator. It must be
	// called between rings or lines that share one storage instance.
	Clear()

	// ClosedArea returns the signed area of the ring, adding the implicit
	// closing edge from the last point back to the first. It returns 0 for
	// fewer than two coordinates. A zero area counts as non-positive for
	// ring classification, so such rings become holes.
	ClosedArea() float32

	// Raw returns the raw coordinates as a flat [x0, y0, x1, y1, ...] slice.
	Raw() []float32

	// Transformed returns the transformed coordinates as a flat slice whose
	// stride is the coordinate's dimension count.
	Transformed() []float32
}

// flatCoords holds the raw coordinate buffer and the open-path partial
// shoelace sum shared by the concrete storages.
type flatCoords struct {
	raw  []float32
	area float32
}

// push appends a raw pair, accumulating prevX*y - x*prevY when a previous
// pair exists. The closing edge is added only in closedArea, so the same
// accumulator serves mid-stream queries and the final signed area.
func (f *flatCoords) push(x, y float32) {
	if n := len(f.raw); n >= 2 {
		prevX, prevY := f.raw[n-2], f.raw[n-1]
		f.area += prevX*y - x*prevY
	}
	f.raw = append(f.raw, x, y)
}

func (f *flatCoords) first() (float32, float32, bool) {
	if len(f.raw) < 2 {
		return 0, 0, false
	}
	return f.raw[0], f.raw[1], true
}

func (f *flatCoords) last() (float32, float32, bool) {
	n := len(f.raw)
	if n < 2 {
		return 0, 0, false
	}
	return f.raw[n-2], f.raw[n-1], true
}

func (f *flatCoords) len() int { return len(f.raw) / 2 }

func (f *flatCoords) clear() {
	f.raw = f.raw[:0]
	f.area = 0
}

func (f *flatCoords) closedArea() float32 {
	n := len(f.raw)
	if n < 4 {
		return 0
	}
	firstX, firstY := f.raw[0], f.raw[1]
	lastX, lastY := f.raw[n-2], f.raw[n-1]
	return (f.area + lastX*firstY - firstX*lastY) / 2
}

// FlatStorage stores 2D coordinates in flat float slices.
type FlatStorage struct {
	flatCoords
	transformed []float32
}

// NewFlatStorage creates an empty 2D storage.
func NewFlatStorage() *FlatStorage {
	return &FlatStorage{}
}

// NewFlatStorageWithCapacity creates a 2D storage preallocated for the given
// number of coordinate pairs.
func NewFlatStorageWithCapacity(capacity int) *FlatStorage {
	return &FlatStorage{
		flatCoords:  flatCoords{raw: make([]float32, 0, capacity*2)},
		transformed: make([]float32, 0, capacity*2),
	}
}

// Push implements Storage.
func (s *FlatStorage) Push(x, y float32, transformed Coord2D) {
	s.push(x, y)
	s.transformed = transformed.AppendTo(s.transformed)
}

// First implements Storage.
func (s *FlatStorage) First() (float32, float32, bool) { return s.first() }

// Last implements Storage.
func (s *FlatStorage) Last() (float32, float32, bool) { return s.last() }

// Len implements Storage.
func (s *FlatStorage) Len() int { return s.len() }

// Clear implements Storage.
func (s *FlatStorage) Clear() {
	s.clear()
	s.transformed = s.transformed[:0]
}

// ClosedArea implements Storage.
func (s *FlatStorage) ClosedArea() float32 { return s.closedArea() }

// Raw implements Storage.
func (s *FlatStorage) Raw() []float32 { return s.raw }

// Transformed implements Storage.
func (s *FlatStorage) Transformed() []float32 { return s.transformed }

// FlatStorage3D stores raw 2D coordinates alongside 3D transformed
// coordinates in flat float slices.
type FlatStorage3D struct {
	flatCoords
	transformed []float32
}

// NewFlatStorage3D creates an empty 3D storage.
func NewFlatStorage3D() *FlatStorage3D {
	return &FlatStorage3D{}
}

// NewFlatStorage3DWithCapacity creates a 3D storage preallocated for the
// given number of coordinate pairs.
func NewFlatStorage3DWithCapacity(capacity int) *FlatStorage3D {
	return &FlatStorage3D{
		flatCoords:  flatCoords{raw: make([]float32, 0, capacity*2)},
		transformed: make([]float32, 0, capacity*3),
	}
}

// Push implements Storage.
func (s *FlatStorage3D) Push(x, y float32, transformed Coord3D) {
	s.push(x, y)
	s.transformed = transformed.AppendTo(s.transformed)
}

// First implements Storage.
func (s *FlatStorage3D) First() (float32, float32, bool) { return s.first() }

// Last implements Storage.
func (s *FlatStorage3D) Last() (float32, float32, bool) { return s.last() }

// Len implements Storage.
func (s *FlatStorage3D) Len() int { return s.len() }

// Clear implements Storage.
func (s *FlatStorage3D) Clear() {
	s.clear()
	s.transformed = s.transformed[:0]
}

// ClosedArea implements Storage.
func (s *FlatStorage3D) ClosedArea() float32 { return s.closedArea() }

// Raw implements Storage.
func (s *FlatStorage3D) Raw() []float32 { return s.raw }

// Transformed implements Storage.
func (s *FlatStorage3D) Transformed() []float32 { return s.transformed }
