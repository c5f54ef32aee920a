package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/softrast/pkg/math3d"
)

// ErrNoGeometry is returned when a file holds no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader loads glTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Fit, when positive, recenters the mesh and scales its largest
	// dimension to this size.
	Fit float64
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

// LoadGLTF loads a .gltf or .glb file with default options.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.FromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// FromDocument extracts every triangle primitive of doc into one mesh.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	materials := make(map[int]int) // document material -> mesh material

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh, materials); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	if l.Fit > 0 {
		mesh.Fit(l.Fit)
	} else {
		mesh.CalculateBounds()
	}
	return mesh, nil
}

// processMesh extracts geometry from a glTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, materials map[int]int) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok || posIdx < 0 || posIdx >= len(doc.Accessors) {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		material := -1
		if prim.Material != nil {
			material = l.material(doc, *prim.Material, mesh, materials)
		}

		baseVertex := len(mesh.Vertices)
		for _, p := range positions {
			mesh.Vertices = append(mesh.Vertices, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		}

		var indices []uint32
		if prim.Indices != nil {
			if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
				return fmt.Errorf("index accessor %d out of range", *prim.Indices)
			}
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// glTF front faces are counter-clockwise seen from outside; the
		// renderer wants them clockwise, so the winding is reversed.
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return fmt.Errorf("index out of range in triangle %d", i/3)
			}
			mesh.AddFace(baseVertex+a, baseVertex+c, baseVertex+b, material)
		}
	}

	return nil
}

// material maps a document material onto the mesh, adding it on first use.
func (l *GLTFLoader) material(doc *gltf.Document, idx int, mesh *Mesh, materials map[int]int) int {
	if i, ok := materials[idx]; ok {
		return i
	}
	if idx < 0 || idx >= len(doc.Materials) {
		return -1
	}

	src := doc.Materials[idx]
	mat := Material{Name: src.Name, BaseColor: [4]float64{1, 1, 1, 1}}
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		mat.BaseColor = *pbr.BaseColorFactor
	}
	i := mesh.AddMaterial(mat)
	materials[idx] = i
	return i
}
