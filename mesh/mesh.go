// Package mesh holds the reconstructed tetrahedral mesh with its vertex
// fields, and the volume and net moment integrals over it.
package mesh

import (
	"fmt"

	"github.com/notargets/tecmesh/types"
)

// Field is one vector per vertex, in vertex order
type Field struct {
	Label   string
	Vectors [][3]float64
}

// Mesh is treated as immutable once built. Volume and net moments are computed
// on request and cached for the life of the mesh.
type Mesh struct {
	Label          string
	Vertices       [][3]float64
	Elements       [][4]int // Zero-based vertex indices, one tetrahedron each
	SubmeshIndices []int    // One tag per element
	Fields         []Field

	volume     types.Cached[float64]
	netMoments types.Cached[[][3]float64]
}

// NewMesh builds a mesh and checks its invariants
func NewMesh(label string, vertices [][3]float64, elements [][4]int, submesh []int,
	fields []Field) (m *Mesh, err error) {
	m = &Mesh{
		Label:          label,
		Vertices:       vertices,
		Elements:       elements,
		SubmeshIndices: submesh,
		Fields:         fields,
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}

func (m *Mesh) NumVertices() int { return len(m.Vertices) }
func (m *Mesh) NumElements() int { return len(m.Elements) }

// Validate checks connectivity bounds, one submesh tag per element and one
// vector per vertex in every field.
func (m *Mesh) Validate() error {
	var (
		nv = len(m.Vertices)
	)
	if len(m.SubmeshIndices) != len(m.Elements) {
		return fmt.Errorf("%w: %d submesh indices for %d elements",
			ErrInvalidMesh, len(m.SubmeshIndices), len(m.Elements))
	}
	for k, elem := range m.Elements {
		if err := checkElement(k, elem, nv); err != nil {
			return err
		}
	}
	for i, f := range m.Fields {
		if len(f.Vectors) != nv {
			return fmt.Errorf("%w: field %d (%q) has %d vectors for %d vertices",
				ErrInvalidMesh, i, f.Label, len(f.Vectors), nv)
		}
	}
	return nil
}

func checkElement(k int, elem [4]int, nv int) error {
	for c, ind := range elem {
		if ind < 0 || ind >= nv {
			return &IndexRangeError{Element: k, Corner: c, Index: ind, NumVertices: nv}
		}
	}
	return nil
}

// Volume returns the cached signed volume, ok is false until ComputeVolume has
// succeeded.
func (m *Mesh) Volume() (vol float64, ok bool) {
	return m.volume.Get()
}

// NetMoments returns the cached per field moments in field order, ok is
// false until ComputeNetMoments has succeeded.
func (m *Mesh) NetMoments() (moments [][3]float64, ok bool) {
	var cached [][3]float64
	if cached, ok = m.netMoments.Get(); !ok {
		return
	}
	return append([][3]float64(nil), cached...), true
}
