// Package hysteresis reads hysteresis loop files and averages stacks of loops
// recorded over the same applied field sweep.
package hysteresis

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// FIELDTOL is the tolerance on field step, start and end agreement
const FIELDTOL = 1.e-12

var (
	ErrNoLoops        = errors.New("no loop files")
	ErrLengthMismatch = errors.New("loop files are not the same length")
	ErrFieldStep      = errors.New("field step is not constant")
	ErrFieldRange     = errors.New("start and end fields differ across loop files")
)

// Measurement is one row of a loop file. B is the applied field strength,
// (Bx, By, Bz) its unit direction, (Mx, My, Mz) the net moment, Ms the
// saturation magnetization and Vol the sample volume.
type Measurement struct {
	B, Bx, By, Bz float64
	Mx, My, Mz    float64
	Ms, Vol       float64
}

// Parallel is the moment component along the field direction
func (m Measurement) Parallel() float64 {
	return m.Mx*m.Bx + m.My*m.By + m.Mz*m.Bz
}

type Stack struct {
	Loops      [][]Measurement
	Steps      int // Measurements per loop
	FieldStart float64
	FieldEnd   float64
	FieldStep  float64
}

// ReadLoopFile skips the header line, then keeps each row that has exactly
// nine values that parse as floats. Other rows are ignored.
func ReadLoopFile(filename string) (data []Measurement, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open loop file %s: %w", filename, err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for line := 0; scanner.Scan(); line++ {
		if line == 0 {
			continue
		}
		var vals []float64
		for _, tok := range strings.Split(scanner.Text(), ",") {
			if v, perr := strconv.ParseFloat(strings.TrimSpace(tok), 64); perr == nil {
				vals = append(vals, v)
			}
		}
		if len(vals) != 9 {
			continue
		}
		data = append(data, Measurement{
			B: vals[0], Bx: vals[1], By: vals[2], Bz: vals[3],
			Mx: vals[4], My: vals[5], Mz: vals[6],
			Ms: vals[7], Vol: vals[8],
		})
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading loop file %s: %w", filename, err)
	}
	return
}

// ReadLoopFiles reads every file and checks that they sweep the same fields
func ReadLoopFiles(filenames []string) (st *Stack, err error) {
	var (
		loops [][]Measurement
	)
	for _, fn := range filenames {
		var data []Measurement
		if data, err = ReadLoopFile(fn); err != nil {
			return nil, err
		}
		loops = append(loops, data)
	}
	return NewStack(loops)
}

// NewStack validates a set of loops: equal lengths, one constant field step
// and common start and end fields.
func NewStack(loops [][]Measurement) (st *Stack, err error) {
	if len(loops) == 0 {
		return nil, ErrNoLoops
	}
	first := loops[0]
	n := len(first)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 measurements per loop, have %d", ErrFieldStep, n)
	}
	for i, l := range loops {
		if len(l) != n {
			return nil, fmt.Errorf("%w: loop %d has %d measurements, loop 0 has %d",
				ErrLengthMismatch, i, len(l), n)
		}
	}
	st = &Stack{
		Loops:      loops,
		Steps:      n,
		FieldStart: first[0].B,
		FieldEnd:   first[n-1].B,
		FieldStep:  first[1].B - first[0].B,
	}
	for i, l := range loops {
		for j := 0; j < n-1; j++ {
			if step := l[j+1].B - l[j].B; math.Abs(step-st.FieldStep) > FIELDTOL {
				return nil, fmt.Errorf("%w: loop %d step %d is %g, expected %g",
					ErrFieldStep, i, j, step, st.FieldStep)
			}
		}
		if math.Abs(l[0].B-st.FieldStart) > FIELDTOL || math.Abs(l[n-1].B-st.FieldEnd) > FIELDTOL {
			return nil, fmt.Errorf("%w: loop %d", ErrFieldRange, i)
		}
	}
	return
}

// Average is the element-wise mean of the loops in the stack
func (st *Stack) Average() (avg []Measurement) {
	var (
		n = float64(len(st.Loops))
	)
	avg = make([]Measurement, st.Steps)
	for _, l := range st.Loops {
		for j, m := range l {
			a := &avg[j]
			a.B += m.B
			a.Bx += m.Bx
			a.By += m.By
			a.Bz += m.Bz
			a.Mx += m.Mx
			a.My += m.My
			a.Mz += m.Mz
			a.Ms += m.Ms
			a.Vol += m.Vol
		}
	}
	for j := range avg {
		a := &avg[j]
		a.B /= n
		a.Bx /= n
		a.By /= n
		a.Bz /= n
		a.Mx /= n
		a.My /= n
		a.Mz /= n
		a.Ms /= n
		a.Vol /= n
	}
	return
}
