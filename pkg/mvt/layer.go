// pkg/mvt/layer.go - Layer metadata view
package mvt

// Layer is a read-only metadata view over one layer of a decoded tile.
type Layer struct {
	// Index is the position of the layer within the tile.
	Index int

	// Version is the declared vector tile version of the layer.
	Version uint32

	// Name is the layer name.
	Name string

	// FeatureCount is the number of features stored in the layer.
	FeatureCount int

	// Extent is the coordinate-space size the layer's geometries are
	// expressed in. Defaults to 4096 when the layer does not declare one.
	Extent uint32
}
