// internal/tile/tile.go - Tile identifiers and local tile loading
package tile

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
)

// ID represents tile coordinates in the XYZ scheme.
type ID struct {
	Z int `json:"z"`
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns the z/x/y representation of the tile ID.
func (id ID) String() string {
	return fmt.Sprintf("%d/%d/%d", id.Z, id.X, id.Y)
}

// Validate checks that the tile coordinates are valid for the zoom level.
func (id ID) Validate() error {
	if id.Z < 0 || id.Z > 22 {
		return fmt.Errorf("invalid zoom level %d: must be between 0 and 22", id.Z)
	}

	maxTile := 1 << uint(id.Z)
	if id.X < 0 || id.X >= maxTile {
		return fmt.Errorf("invalid X coordinate %d for zoom %d: must be between 0 and %d", id.X, id.Z, maxTile-1)
	}
	if id.Y < 0 || id.Y >= maxTile {
		return fmt.Errorf("invalid Y coordinate %d for zoom %d: must be between 0 and %d", id.Y, id.Z, maxTile-1)
	}

	return nil
}

var tilePathPattern = regexp.MustCompile(`(\d+)/(\d+)/(\d+)\.(?:mvt|pbf)(?:\.gz)?$`)

// ParsePath extracts a tile ID from a path ending in z/x/y.mvt, z/x/y.pbf or
// a gzipped variant. It returns false when the path does not match.
func ParsePath(path string) (ID, bool) {
	m := tilePathPattern.FindStringSubmatch(path)
	if m == nil {
		return ID{}, false
	}

	z, _ := strconv.Atoi(m[1])
	x, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])

	id := ID{Z: z, X: x, Y: y}
	if err := id.Validate(); err != nil {
		return ID{}, false
	}
	return id, true
}

// gzipMagic is the two-byte header of a gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// Load reads a tile file from the local file system, transparently
// decompressing gzipped tiles regardless of file extension.
func Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("tile file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot access tile file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tile file %s: %w", path, err)
	}

	if bytes.HasPrefix(data, gzipMagic) {
		return gunzip(data)
	}
	return data, nil
}

func gunzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to unzip tile data: %w", err)
	}
	return decoded, nil
}
