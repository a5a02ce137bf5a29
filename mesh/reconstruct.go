package mesh

import (
	"fmt"

	"github.com/notargets/tecmesh/readfiles"
)

// cursor scans fixed size blocks off the front of an immutable slice
type cursor[T any] struct {
	data []T
	pos  int
}

func (c *cursor[T]) take(n int) []T {
	block := c.data[c.pos : c.pos+n]
	c.pos += n
	return block
}

// interleave turns X, Y, Z blocks of length n into n points
func interleave(cur *cursor[float64], n int) (pts [][3]float64) {
	var (
		xs, ys, zs = cur.take(n), cur.take(n), cur.take(n)
	)
	pts = make([][3]float64, n)
	for i := 0; i < n; i++ {
		pts[i] = [3]float64{xs[i], ys[i], zs[i]}
	}
	return
}

// checkSplit checks a stream holding a head block of nHead tokens followed by
// a tail block of nTail tokens, naming the block that is short or long.
func checkSplit(zone string, zoneIndex, got int, headName string, nHead int,
	tailName string, nTail int) error {
	if got < nHead {
		return &LengthMismatchError{Zone: zone, ZoneIndex: zoneIndex, Stream: headName, Want: nHead, Got: got}
	}
	if got-nHead != nTail {
		return &LengthMismatchError{Zone: zone, ZoneIndex: zoneIndex, Stream: tailName, Want: nTail, Got: got - nHead}
	}
	return nil
}

// FromDocument rebuilds the mesh from the flat token streams of a parsed
// document. Stream lengths are checked up front so the cursors below always
// drain their streams exactly. Any stream whose length disagrees with its
// zone's N and E is an error, as is a later zone declaring a different N or
// connectivity that does not address a vertex.
func FromDocument(doc *readfiles.Document) (m *Mesh, err error) {
	var (
		fz    = doc.FirstZone
		nvert = fz.NumVertices
		nelem = fz.NumElements
	)
	if err = checkSplit(fz.Title, 0, len(fz.Floats), "coordinates", 3*nvert, "field", 3*nvert); err != nil {
		return nil, err
	}
	if err = checkSplit(fz.Title, 0, len(fz.Integers), "submesh indices", nelem, "connectivity", 4*nelem); err != nil {
		return nil, err
	}

	floats := &cursor[float64]{data: fz.Floats}
	vertices := interleave(floats, nvert)

	ints := &cursor[int]{data: fz.Integers}
	submesh := append([]int(nil), ints.take(nelem)...)
	elements := make([][4]int, nelem)
	for k := 0; k < nelem; k++ {
		corners := ints.take(4)
		for c := 0; c < 4; c++ {
			elements[k][c] = corners[c] - 1
		}
		if err = checkElement(k, elements[k], nvert); err != nil {
			return nil, err
		}
	}

	fields := make([]Field, 0, 1+len(doc.Zones))
	fields = append(fields, Field{Label: fz.Title, Vectors: interleave(floats, nvert)})

	for i, z := range doc.Zones {
		if z.NumVertices != nvert {
			return nil, &VertexCountError{Zone: z.Title, ZoneIndex: i + 1, Want: nvert, Got: z.NumVertices}
		}
		if len(z.Floats) != 3*nvert {
			return nil, &LengthMismatchError{Zone: z.Title, ZoneIndex: i + 1, Stream: "field",
				Want: 3 * nvert, Got: len(z.Floats)}
		}
		fields = append(fields, Field{
			Label:   z.Title,
			Vectors: interleave(&cursor[float64]{data: z.Floats}, nvert),
		})
	}

	m = &Mesh{
		Label:          doc.Title,
		Vertices:       vertices,
		Elements:       elements,
		SubmeshIndices: submesh,
		Fields:         fields,
	}
	return
}

// ReadTecplot reads, parses and reconstructs a tecplot file
func ReadTecplot(filename string) (m *Mesh, err error) {
	var (
		doc *readfiles.Document
	)
	if doc, err = readfiles.ReadTecplotFile(filename); err != nil {
		return nil, err
	}
	if m, err = FromDocument(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}
