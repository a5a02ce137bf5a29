// Package geometry3D holds closed form geometry for linear tetrahedra.
package geometry3D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/tecmesh/utils"
)

// Vec converts a stored point or vector to r3 form
func Vec(p [3]float64) r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// Array is the inverse of Vec
func Array(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// TetVolume is the signed volume of the tetrahedron (v0, v1, v2, v3), one
// sixth of the determinant of the homogeneous vertex matrix. Swapping any two
// vertices flips the sign.
func TetVolume(v0, v1, v2, v3 [3]float64) float64 {
	M := utils.Mat4{
		{v0[0], v0[1], v0[2], 1},
		{v1[0], v1[1], v1[2], 1},
		{v2[0], v2[1], v2[2], 1},
		{v3[0], v3[1], v3[2], 1},
	}
	return M.Det() / 6.
}

// TetLinScalIntegral integrates a scalar field given at the four vertices over
// the tetrahedron. The result is exact when the field is affine inside the
// element and only an approximation otherwise. The unsigned volume is used,
// winding does not change the sign of the integral.
func TetLinScalIntegral(verts [4][3]float64, s [4]float64) float64 {
	vol := math.Abs(TetVolume(verts[0], verts[1], verts[2], verts[3]))
	return vol * (s[0] + s[1] + s[2] + s[3]) / 4.
}

// TetLinVecIntegral applies TetLinScalIntegral to each vector component
func TetLinVecIntegral(verts [4][3]float64, f [4][3]float64) [3]float64 {
	return Array(TetLinVecIntegralR3(verts, f))
}

// TetLinVecIntegralR3 is TetLinVecIntegral returning an r3.Vec
func TetLinVecIntegralR3(verts [4][3]float64, f [4][3]float64) r3.Vec {
	var (
		vol = math.Abs(TetVolume(verts[0], verts[1], verts[2], verts[3]))
		sum = r3.Add(r3.Add(r3.Add(Vec(f[0]), Vec(f[1])), Vec(f[2])), Vec(f[3]))
	)
	return r3.Scale(1./4., r3.Scale(vol, sum))
}
