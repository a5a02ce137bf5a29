package utils

import "math"

// Fixed size row-major matrices. All operations are closed form, there is no
// pivoting or elimination, so callers should only use these on small well
// scaled matrices like tetrahedron edge matrices.
type (
	Mat2 [2][2]float64
	Mat3 [3][3]float64
	Mat4 [4][4]float64
)

func Identity2() (I Mat2) {
	for i := 0; i < 2; i++ {
		I[i][i] = 1
	}
	return
}

func Identity3() (I Mat3) {
	for i := 0; i < 3; i++ {
		I[i][i] = 1
	}
	return
}

func Identity4() (I Mat4) {
	for i := 0; i < 4; i++ {
		I[i][i] = 1
	}
	return
}

func (m Mat2) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Det expands by cofactors along the first row
func (m Mat4) Det() (det float64) {
	sign := 1.
	for j := 0; j < 4; j++ {
		det += sign * m[0][j] * m.Minor(0, j).Det()
		sign = -sign
	}
	return
}

// Minor returns the 3x3 matrix left after deleting row r and column c
func (m Mat4) Minor(r, c int) (M Mat3) {
	var ii int
	for i := 0; i < 4; i++ {
		if i == r {
			continue
		}
		var jj int
		for j := 0; j < 4; j++ {
			if j == c {
				continue
			}
			M[ii][jj] = m[i][j]
			jj++
		}
		ii++
	}
	return
}

func (m Mat2) Adj() Mat2 {
	return Mat2{
		{m[1][1], -m[0][1]},
		{-m[1][0], m[0][0]},
	}
}

func (m Mat3) Adj() Mat3 {
	return Mat3{
		{
			m[1][1]*m[2][2] - m[1][2]*m[2][1],
			m[0][2]*m[2][1] - m[0][1]*m[2][2],
			m[0][1]*m[1][2] - m[0][2]*m[1][1],
		},
		{
			m[1][2]*m[2][0] - m[1][0]*m[2][2],
			m[0][0]*m[2][2] - m[0][2]*m[2][0],
			m[0][2]*m[1][0] - m[0][0]*m[1][2],
		},
		{
			m[1][0]*m[2][1] - m[1][1]*m[2][0],
			m[0][1]*m[2][0] - m[0][0]*m[2][1],
			m[0][0]*m[1][1] - m[0][1]*m[1][0],
		},
	}
}

// Adj is the transpose of the cofactor matrix
func (m Mat4) Adj() (A Mat4) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			cof := m.Minor(i, j).Det()
			if (i+j)%2 == 1 {
				cof = -cof
			}
			A[j][i] = cof
		}
	}
	return
}

// Inv returns ok == false when |det| < SINGULARTOL
func (m Mat2) Inv() (I Mat2, ok bool) {
	det := m.Det()
	if math.Abs(det) < SINGULARTOL {
		return
	}
	var (
		A   = m.Adj()
		inv = 1. / det
	)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			I[i][j] = A[i][j] * inv
		}
	}
	return I, true
}

func (m Mat3) Inv() (I Mat3, ok bool) {
	det := m.Det()
	if math.Abs(det) < SINGULARTOL {
		return
	}
	var (
		A   = m.Adj()
		inv = 1. / det
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			I[i][j] = A[i][j] * inv
		}
	}
	return I, true
}

func (m Mat4) Inv() (I Mat4, ok bool) {
	det := m.Det()
	if math.Abs(det) < SINGULARTOL {
		return
	}
	var (
		A   = m.Adj()
		inv = 1. / det
	)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			I[i][j] = A[i][j] * inv
		}
	}
	return I, true
}

func (m Mat2) Mul(b Mat2) (C Mat2) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				C[i][j] += m[i][k] * b[k][j]
			}
		}
	}
	return
}

func (m Mat3) Mul(b Mat3) (C Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				C[i][j] += m[i][k] * b[k][j]
			}
		}
	}
	return
}

func (m Mat4) Mul(b Mat4) (C Mat4) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				C[i][j] += m[i][k] * b[k][j]
			}
		}
	}
	return
}

// Flat returns the row-major data, handy for building gonum matrices
func (m Mat3) Flat() []float64 {
	d := make([]float64, 0, 9)
	for i := range m {
		d = append(d, m[i][:]...)
	}
	return d
}

func (m Mat4) Flat() []float64 {
	d := make([]float64, 0, 16)
	for i := range m {
		d = append(d, m[i][:]...)
	}
	return d
}

func (m Mat2) Flat() []float64 {
	return []float64{m[0][0], m[0][1], m[1][0], m[1][1]}
}

// EdgeMatrix has the edges v1-v0, v2-v0, v3-v0 of a tetrahedron as columns
func EdgeMatrix(v0, v1, v2, v3 [3]float64) (E Mat3) {
	for i := 0; i < 3; i++ {
		E[i][0] = v1[i] - v0[i]
		E[i][1] = v2[i] - v0[i]
		E[i][2] = v3[i] - v0[i]
	}
	return
}
