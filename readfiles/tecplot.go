package readfiles

import (
	"fmt"
	"os"
)

// Document is the parsed form of a tecplot finite element file. The first
// zone carries the geometry and the first field, each later zone carries one
// more vector field on the same vertices.
type Document struct {
	Title     string
	Variables []string // Declaration order, the first three are X, Y, Z
	FirstZone FirstZone
	Zones     []Zone
}

// FirstZone holds the token streams of the first zone. Floats are the vertex
// coordinates in X, Y, Z blocks followed by the first field components,
// Integers are the per element submesh tags followed by one-indexed
// tetrahedron connectivity. Nothing here checks those lengths.
type FirstZone struct {
	Title       string
	NumVertices int
	NumElements int
	Floats      []float64
	Integers    []int
}

// Zone holds one vector field in X, Y, Z blocks of NumVertices values each.
// NumElements is carried when the header has it but connectivity is always
// shared with the first zone.
type Zone struct {
	Title       string
	NumVertices int
	NumElements int
	Floats      []float64
}

// ReadTecplotFile reads the whole file into memory and parses it
func ReadTecplotFile(filename string) (doc *Document, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("unable to read tecplot file %s: %w", filename, err)
	}
	if doc, err = ParseTecplot(string(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}

// ParseTecplot parses an in memory tecplot document. On error no partial
// document is returned and the error is a *ParseError.
func ParseTecplot(text string) (*Document, error) {
	p := newTecParser(text)
	doc, err := p.parseDocument()
	if err != nil {
		return nil, err
	}
	return doc, nil
}
