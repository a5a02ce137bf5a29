package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tecmesh/geometry3D"
)

func (m *Mesh) corners(k int) (verts [4][3]float64, err error) {
	elem := m.Elements[k]
	if err = checkElement(k, elem, len(m.Vertices)); err != nil {
		return
	}
	for c := 0; c < 4; c++ {
		verts[c] = m.Vertices[elem[c]]
	}
	return
}

// ComputeVolume sums the signed element volumes in element order and caches
// the result. The sum is signed so inconsistent winding shows up as a
// shortfall instead of being hidden by absolute values.
func (m *Mesh) ComputeVolume() (float64, error) {
	return m.volume.GetOrCompute(func() (vol float64, err error) {
		var verts [4][3]float64
		for k := range m.Elements {
			if verts, err = m.corners(k); err != nil {
				return 0, err
			}
			vol += geometry3D.TetVolume(verts[0], verts[1], verts[2], verts[3])
		}
		return
	})
}

// ComputeNetMoments integrates every field over the mesh, assuming each field
// is linear inside each element, and caches one vector per field in field
// order.
func (m *Mesh) ComputeNetMoments() ([][3]float64, error) {
	moments, err := m.netMoments.GetOrCompute(func() (moments [][3]float64, err error) {
		if err = m.Validate(); err != nil {
			return nil, err
		}
		sums := make([]r3.Vec, len(m.Fields))
		for k, elem := range m.Elements {
			verts, _ := m.corners(k)
			for i, f := range m.Fields {
				vals := [4][3]float64{f.Vectors[elem[0]], f.Vectors[elem[1]], f.Vectors[elem[2]], f.Vectors[elem[3]]}
				sums[i] = r3.Add(sums[i], geometry3D.TetLinVecIntegralR3(verts, vals))
			}
		}
		moments = make([][3]float64, len(sums))
		for i, s := range sums {
			moments[i] = geometry3D.Array(s)
		}
		return
	})
	if err != nil {
		return nil, err
	}
	return append([][3]float64(nil), moments...), nil
}
