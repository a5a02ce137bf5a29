package mesh

import (
	"errors"
	"fmt"
)

// ErrInvalidMesh is wrapped by Validate for structural invariant failures
var ErrInvalidMesh = errors.New("invalid mesh")

// LengthMismatchError reports a token stream whose length does not match the
// counts declared in its zone header.
type LengthMismatchError struct {
	Zone      string // Zone title
	ZoneIndex int    // 0 is the first zone
	Stream    string // "coordinates", "submesh indices", "connectivity" or "field"
	Want, Got int
}

func (e *LengthMismatchError) TooFew() bool  { return e.Got < e.Want }
func (e *LengthMismatchError) TooMany() bool { return e.Got > e.Want }

func (e *LengthMismatchError) Error() string {
	what := "too many"
	if e.TooFew() {
		what = "too few"
	}
	return fmt.Sprintf("zone %d (%q): %s %s tokens, want %d, got %d",
		e.ZoneIndex, e.Zone, what, e.Stream, e.Want, e.Got)
}

// IndexRangeError reports an element corner that does not address a vertex.
// Index is zero-based, a one-indexed 0 in the source shows up as -1.
type IndexRangeError struct {
	Element, Corner int
	Index           int
	NumVertices     int
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("element %d corner %d: vertex index %d out of range [0,%d)",
		e.Element, e.Corner, e.Index, e.NumVertices)
}

// VertexCountError reports a later zone whose header declares a vertex count
// other than the first zone's. Fields are always on the first zone's vertices.
type VertexCountError struct {
	Zone      string
	ZoneIndex int
	Want, Got int
}

func (e *VertexCountError) Error() string {
	return fmt.Sprintf("zone %d (%q): header declares N=%d, the mesh has %d vertices",
		e.ZoneIndex, e.Zone, e.Got, e.Want)
}
