package models

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/raycast/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Error("NewGLTFLoader returned nil")
		return
	}
	if !loader.SwapXY {
		t.Error("SwapXY should default to true")
	}
}

// quadDocument builds a document with four positions and two indexed
// triangles in one embedded buffer.
func quadDocument() *gltf.Document {
	positions := [][3]float32{
		{0, 0, 0},
		{1, 0, 0},
		{1, 2, 0},
		{0, 2, 3},
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}

	var data []byte
	for _, p := range positions {
		for _, c := range p {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(c))
		}
	}
	posLen := len(data)
	for _, i := range indices {
		data = binary.LittleEndian.AppendUint16(data, i)
	}

	posView, idxView := 0, 1
	posAcc, idxAcc := 0, 1
	return &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: posLen},
			{Buffer: 0, ByteOffset: posLen, ByteLength: len(data) - posLen},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: &posView, ComponentType: gltf.ComponentFloat, Count: len(positions), Type: gltf.AccessorVec3},
			{BufferView: &idxView, ComponentType: gltf.ComponentUshort, Count: len(indices), Type: gltf.AccessorScalar},
		},
		Meshes: []*gltf.Mesh{{
			Name: "quad",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: posAcc},
				Indices:    &idxAcc,
				Mode:       gltf.PrimitiveTriangles,
			}},
		}},
	}
}

func TestGLTFFromDocument(t *testing.T) {
	mesh, err := NewGLTFLoader().FromDocument(quadDocument(), "quad.glb")
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	if got := mesh.TriangleCount(); got != 3 {
		t.Fatalf("TriangleCount = %d, want 3 (two faces + floor)", got)
	}

	// (1, 2, 0) in file space is stored as (2, 1, 0)
	want := Triangle{math3d.V3(0, 0, 0), math3d.V3(0, 1, 0), math3d.V3(2, 1, 0)}
	if mesh.Triangles[0] != want {
		t.Errorf("first triangle = %v, want %v", mesh.Triangles[0], want)
	}
	if mesh.Triangles[1][2] != math3d.V3(2, 0, 3) {
		t.Errorf("second triangle third vertex = %v, want (2,0,3)", mesh.Triangles[1][2])
	}
	if last := mesh.Triangles[len(mesh.Triangles)-1]; last != FloorTriangle {
		t.Errorf("last triangle = %v, want floor", last)
	}
}

func TestGLTFFromDocumentNoSwap(t *testing.T) {
	loader := &GLTFLoader{SwapXY: false}
	mesh, err := loader.FromDocument(quadDocument(), "quad.glb")
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if got := mesh.Triangles[0][2]; got != math3d.V3(1, 2, 0) {
		t.Errorf("vertex = %v, want (1,2,0)", got)
	}
}

func TestGLTFSequentialPrimitive(t *testing.T) {
	doc := quadDocument()
	doc.Meshes[0].Primitives[0].Indices = nil

	mesh, err := NewGLTFLoader().FromDocument(doc, "seq.glb")
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	// Four positions make one sequential triangle; the leftover is dropped.
	if got := mesh.TriangleCount(); got != 2 {
		t.Errorf("TriangleCount = %d, want 2", got)
	}
}

func TestGLTFIndexOutOfRange(t *testing.T) {
	doc := quadDocument()
	// Overwrite the last index with 9.
	data := doc.Buffers[0].Data
	binary.LittleEndian.PutUint16(data[len(data)-2:], 9)

	_, err := NewGLTFLoader().FromDocument(doc, "bad.glb")
	if !errors.Is(err, ErrMalformedGeometry) {
		t.Errorf("err = %v, want ErrMalformedGeometry", err)
	}
}

func TestGLTFTruncatedBuffer(t *testing.T) {
	doc := quadDocument()
	doc.Accessors[0].Count = 100

	_, err := NewGLTFLoader().FromDocument(doc, "short.glb")
	if !errors.Is(err, ErrMalformedGeometry) {
		t.Errorf("err = %v, want ErrMalformedGeometry", err)
	}
}
