// Package container lays a mesh out as named datasets, /mesh/vertices,
// /mesh/elements, /mesh/submesh, /fields/field{k}/vectors and /fields/labels,
// and stores them in an HDF5 file. WriteDir keeps the same datasets as raw
// little-endian arrays under a directory next to a yaml manifest, for readers
// that have no HDF5 library.
package container

import (
	"fmt"

	"github.com/notargets/tecmesh/mesh"
)

type DType string

const (
	Float64 DType = "f64"
	Uint64  DType = "u64"
	ASCII   DType = "ascii" // Fixed width, NUL padded
)

// DefaultLabelWidth is the fixed width of /fields/labels entries
const DefaultLabelWidth = 64

type Dataset struct {
	Path    string
	DType   DType
	Shape   []int
	Width   int // ASCII only
	Float64 []float64
	Uint64  []uint64
	Strings []string
}

// Len is the number of scalars, or strings for ASCII data
func (ds *Dataset) Len() int {
	n := 1
	for _, s := range ds.Shape {
		n *= s
	}
	return n
}

// Layout returns the datasets for m in fixed order. Field labels longer than
// labelWidth bytes are truncated, labels that are not ASCII are an error.
func Layout(m *mesh.Mesh, labelWidth int) (datasets []Dataset, err error) {
	var (
		nv = m.NumVertices()
		ne = m.NumElements()
	)
	if labelWidth < 1 {
		return nil, fmt.Errorf("label width must be positive, have %d", labelWidth)
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	verts := make([]float64, 0, 3*nv)
	for _, v := range m.Vertices {
		verts = append(verts, v[:]...)
	}
	elems := make([]uint64, 0, 4*ne)
	for _, e := range m.Elements {
		for _, ind := range e {
			elems = append(elems, uint64(ind))
		}
	}
	submesh := make([]uint64, ne)
	for k, tag := range m.SubmeshIndices {
		if tag < 0 {
			return nil, fmt.Errorf("element %d has negative submesh index %d", k, tag)
		}
		submesh[k] = uint64(tag)
	}
	datasets = append(datasets,
		Dataset{Path: "/mesh/vertices", DType: Float64, Shape: []int{nv, 3}, Float64: verts},
		Dataset{Path: "/mesh/elements", DType: Uint64, Shape: []int{ne, 4}, Uint64: elems},
		Dataset{Path: "/mesh/submesh", DType: Uint64, Shape: []int{ne}, Uint64: submesh},
	)
	labels := make([]string, len(m.Fields))
	for k, f := range m.Fields {
		vecs := make([]float64, 0, 3*nv)
		for _, v := range f.Vectors {
			vecs = append(vecs, v[:]...)
		}
		datasets = append(datasets, Dataset{
			Path:    fmt.Sprintf("/fields/field%d/vectors", k),
			DType:   Float64,
			Shape:   []int{nv, 3},
			Float64: vecs,
		})
		if labels[k], err = fixedASCII(f.Label, labelWidth); err != nil {
			return nil, fmt.Errorf("field %d: %w", k, err)
		}
	}
	datasets = append(datasets, Dataset{
		Path:    "/fields/labels",
		DType:   ASCII,
		Shape:   []int{len(labels)},
		Width:   labelWidth,
		Strings: labels,
	})
	return
}

func fixedASCII(label string, width int) (string, error) {
	for i := 0; i < len(label); i++ {
		if label[i] > 127 {
			return "", fmt.Errorf("label %q is not ASCII", label)
		}
	}
	if len(label) > width {
		label = label[:width]
	}
	return label, nil
}
