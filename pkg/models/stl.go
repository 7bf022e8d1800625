package models

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 4*3*4 + 2 // normal + 3 vertices, float32 each, plus attribute count
)

// LoadSTL loads a binary STL file.
func LoadSTL(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stl: %w", err)
	}
	defer f.Close()

	return ReadSTL(f, filepath.Base(path))
}

// ReadSTL reads a binary STL stream. Facet normals are ignored; vertices
// get the same (y, x, z) permutation as OBJ input and FloorTriangle is
// appended.
func ReadSTL(r io.Reader, name string) (*Mesh, error) {
	var header struct {
		H    [stlHeaderSize]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read stl header: %w: %w", ErrMalformedGeometry, err)
	}

	mesh := NewMesh(name)
	buf := make([]byte, stlFacetSize)
	for i := range int(header.NTri) {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read facet %d: %w: %w", i, ErrMalformedGeometry, err)
		}

		var tri Triangle
		for v := range tri {
			var c [3]float64
			for k := range c {
				const start = 3 * 4 // skip normal
				bits := binary.LittleEndian.Uint32(buf[start+12*v+4*k:])
				c[k] = float64(math.Float32frombits(bits))
			}
			tri[v] = swapXY(c[0], c[1], c[2])
			if !tri[v].IsFinite() {
				return nil, fmt.Errorf("facet %d vertex %d is not finite: %w", i, v, ErrMalformedGeometry)
			}
		}
		mesh.Add(tri)
	}

	mesh.AppendFloor()
	return mesh, nil
}
