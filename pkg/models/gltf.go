package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/raycast/pkg/math3d"
)

// GLTFLoader converts glTF and GLB scenes into a flat triangle Mesh.
// Only positions and indices are read; materials, normals and texture
// coordinates carry no meaning for a depth render.
type GLTFLoader struct {
	// SwapXY stores file (x, y, z) as (y, x, z), the same permutation
	// the OBJ and STL loaders apply.
	SwapXY bool
}

// NewGLTFLoader returns a loader with SwapXY enabled.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{SwapXY: true}
}

// LoadGLB reads a .glb or .gltf file with the default loader.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load opens path and converts it with FromDocument.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc, filepath.Base(path))
}

// FromDocument collects the triangles of every mesh in doc, in document
// order, and appends FloorTriangle.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if err := l.addPrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
		}
	}
	mesh.AppendFloor()
	return mesh, nil
}

func (l *GLTFLoader) addPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	// Lines and points have no surface to hit
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}

	verts, err := l.positions(doc, posIdx)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var order []int
	if prim.Indices == nil {
		order = make([]int, len(verts))
		for i := range order {
			order[i] = i
		}
	} else if order, err = indices(doc, *prim.Indices); err != nil {
		return fmt.Errorf("indices: %w", err)
	}

	for i := 0; i+2 < len(order); i += 3 {
		a, b, c := order[i], order[i+1], order[i+2]
		for _, idx := range [3]int{a, b, c} {
			if idx < 0 || idx >= len(verts) {
				return fmt.Errorf("index %d outside %d positions: %w", idx, len(verts), ErrMalformedGeometry)
			}
		}
		mesh.Add(Triangle{verts[a], verts[b], verts[c]})
	}
	return nil
}

func (l *GLTFLoader) positions(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	acc, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltf.AccessorVec3 || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("want float VEC3, got %v %v: %w", acc.ComponentType, acc.Type, ErrMalformedGeometry)
	}

	view, err := viewOf(doc, acc, 12)
	if err != nil {
		return nil, err
	}

	out := make([]math3d.Vec3, acc.Count)
	for i := range out {
		b := view.element(i)
		x := float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:])))
		y := float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:])))
		z := float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:])))

		if l.SwapXY {
			out[i] = swapXY(x, y, z)
		} else {
			out[i] = math3d.V3(x, y, z)
		}
		if !out[i].IsFinite() {
			return nil, fmt.Errorf("position %d is not finite: %w", i, ErrMalformedGeometry)
		}
	}
	return out, nil
}

func indices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	acc, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("want SCALAR indices, got %v: %w", acc.Type, ErrMalformedGeometry)
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index component type %v: %w", acc.ComponentType, ErrMalformedGeometry)
	}

	view, err := viewOf(doc, acc, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, acc.Count)
	for i := range out {
		b := view.element(i)
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		default:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d missing: %w", idx, ErrMalformedGeometry)
	}
	return doc.Accessors[idx], nil
}

// bufferView is a bounds-checked window of count elements of size bytes,
// stride bytes apart.
type bufferView struct {
	data   []byte
	start  int
	stride int
	size   int
}

func (v bufferView) element(i int) []byte {
	off := v.start + i*v.stride
	return v.data[off : off+v.size]
}

// viewOf resolves the embedded buffer behind acc and checks that all of
// its elements fit.
func viewOf(doc *gltf.Document, acc *gltf.Accessor, size int) (bufferView, error) {
	if acc.BufferView == nil {
		return bufferView{}, fmt.Errorf("accessor has no buffer view: %w", ErrMalformedGeometry)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return bufferView{}, fmt.Errorf("buffer view %d missing: %w", *acc.BufferView, ErrMalformedGeometry)
	}
	bv := doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return bufferView{}, fmt.Errorf("buffer %d missing: %w", bv.Buffer, ErrMalformedGeometry)
	}

	buf := doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		if buf.URI != "" {
			return bufferView{}, fmt.Errorf("external buffer %q not supported", buf.URI)
		}
		return bufferView{}, fmt.Errorf("buffer has no data: %w", ErrMalformedGeometry)
	}

	v := bufferView{
		data:   buf.Data,
		start:  bv.ByteOffset + acc.ByteOffset,
		stride: bv.ByteStride,
		size:   size,
	}
	if v.stride == 0 {
		v.stride = size
	}
	if acc.Count > 0 && v.start+(acc.Count-1)*v.stride+size > len(v.data) {
		return bufferView{}, fmt.Errorf("accessor reads past buffer end: %w", ErrMalformedGeometry)
	}
	return v, nil
}
