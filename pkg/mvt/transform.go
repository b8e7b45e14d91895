// pkg/mvt/transform.go - Coordinate transform capability
package mvt

// Transform converts raw tile-local coordinates into the caller's output
// coordinate shape. It is applied once per decoded coordinate pair, so
// implementations should be cheap value types.
type Transform[C TransformedCoord] interface {
	Apply(x, y float32, geomType GeomType) C
}

// Identity passes 2D coordinates through unchanged.
type Identity struct{}

// Apply implements Transform.
func (Identity) Apply(x, y float32, _ GeomType) Coord2D {
	return Coord2D{X: x, Y: y}
}

// Identity3D passes coordinates through unchanged with a zero third
// component.
type Identity3D struct{}

// Apply implements Transform.
func (Identity3D) Apply(x, y float32, _ GeomType) Coord3D {
	return Coord3D{X: x, Y: y}
}

const webMercatorMax = 20037508.342789244

// TileTransform projects tile-local coordinates of a z/x/y tile into Web
// Mercator meters.
type TileTransform struct {
	Z, X, Y int
	Extent  uint32
}

// NewTileTransform creates a projection for the given tile using the layer's
// declared extent.
func NewTileTransform(z, x, y int, extent uint32) TileTransform {
	if extent == 0 {
		extent = defaultExtent
	}
	return TileTransform{Z: z, X: x, Y: y, Extent: extent}
}

// Apply implements Transform.
func (t TileTransform) Apply(x, y float32, _ GeomType) Coord2D {
	n := float64(uint64(1) << uint(t.Z))
	size := float64(t.Extent)

	globalX := (float64(t.X) + float64(x)/size) / n
	globalY := (float64(t.Y) + float64(y)/size) / n

	return Coord2D{
		X: float32((globalX*2.0 - 1.0) * webMercatorMax),
		Y: float32((1.0 - globalY*2.0) * webMercatorMax),
	}
}
