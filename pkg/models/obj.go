package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/raycast/pkg/math3d"
)

// ErrMalformedGeometry is returned (wrapped) when geometry input cannot be
// parsed.
var ErrMalformedGeometry = errors.New("malformed geometry")

// ignoredOBJRecords are OBJ records that carry no positional triangle data.
var ignoredOBJRecords = map[string]bool{
	"vn":     true,
	"vt":     true,
	"vp":     true,
	"o":      true,
	"g":      true,
	"s":      true,
	"l":      true,
	"usemtl": true,
	"mtllib": true,
}

// LoadOBJ loads a Wavefront OBJ file. Vertices are stored as (y, x, z) and
// FloorTriangle is appended after the file geometry.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return ParseOBJ(f, filepath.Base(path))
}

// ParseOBJ reads OBJ text from r. Only "v x y z" and "f a b c" records
// contribute geometry; face indices are 1-based and must refer to vertices
// declared earlier in the stream.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	var vertices []math3d.Vec3

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNum, err)
			}
			vertices = append(vertices, v)
		case "f":
			tri, err := parseFace(fields[1:], vertices)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNum, err)
			}
			mesh.Add(tri)
		default:
			if !ignoredOBJRecords[fields[0]] {
				return nil, fmt.Errorf("%s:%d: unknown record %q: %w", name, lineNum, fields[0], ErrMalformedGeometry)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh.AppendFloor()
	return mesh, nil
}

func parseVertex(fields []string) (math3d.Vec3, error) {
	if len(fields) != 3 {
		return math3d.Vec3{}, fmt.Errorf("vertex has %d coordinates, want 3: %w", len(fields), ErrMalformedGeometry)
	}

	var c [3]float64
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("vertex coordinate %q: %w", s, ErrMalformedGeometry)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return math3d.Vec3{}, fmt.Errorf("vertex coordinate %q is not finite: %w", s, ErrMalformedGeometry)
		}
		c[i] = f
	}
	return swapXY(c[0], c[1], c[2]), nil
}

func parseFace(fields []string, vertices []math3d.Vec3) (Triangle, error) {
	if len(fields) != 3 {
		return Triangle{}, fmt.Errorf("face has %d indices, want 3: %w", len(fields), ErrMalformedGeometry)
	}

	var tri Triangle
	for i, s := range fields {
		// "v/vt/vn" references keep only the position index.
		ref, _, _ := strings.Cut(s, "/")
		idx, err := strconv.Atoi(ref)
		if err != nil {
			return Triangle{}, fmt.Errorf("face index %q: %w", s, ErrMalformedGeometry)
		}
		if idx < 1 || idx > len(vertices) {
			return Triangle{}, fmt.Errorf("face index %d outside 1..%d: %w", idx, len(vertices), ErrMalformedGeometry)
		}
		tri[i] = vertices[idx-1]
	}
	return tri, nil
}
