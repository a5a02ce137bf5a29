package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func randMat4(rng *rand.Rand) (M Mat4) {
	for i := range M {
		for j := range M[i] {
			M[i][j] = 2*rng.Float64() - 1
		}
	}
	// Diagonal dominance keeps the random matrices well away from singular
	for i := range M {
		M[i][i] += 4
	}
	return
}

func TestDeterminant(t *testing.T) {
	{ // 2x2
		assert.InDelta(t, -2., Mat2{{1, 2}, {3, 4}}.Det(), 1.e-14)
		assert.InDelta(t, 1., Identity2().Det(), 1.e-14)
		assert.Equal(t, 0., Mat2{}.Det())
	}
	{ // 3x3
		assert.InDelta(t, 49., Mat3{{2, -3, 1}, {2, 0, -1}, {1, 4, 5}}.Det(), 1.e-14)
		assert.InDelta(t, 1., Identity3().Det(), 1.e-14)
		assert.InDelta(t, 0., Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}.Det(), 1.e-14)
	}
	{ // 4x4
		assert.InDelta(t, 1., Identity4().Det(), 1.e-14)
		singular := Mat4{
			{1, 2, 3, 4},
			{2, 4, 6, 8},
			{3, 6, 9, 12},
			{4, 8, 12, 16},
		}
		assert.InDelta(t, 0., singular.Det(), 1.e-14)
		// Swapping two rows flips the sign
		M := Mat4{
			{3, 2, -1, 4},
			{2, 1, 5, 7},
			{0, 5, 2, -6},
			{1, 2, 3, 0},
		}
		S := M
		S[0], S[1] = M[1], M[0]
		assert.InDelta(t, -M.Det(), S.Det(), 1.e-12)
	}
	{ // Against gonum's LU based determinant
		rng := rand.New(rand.NewSource(1))
		for n := 0; n < 20; n++ {
			M := randMat4(rng)
			ref := mat.Det(mat.NewDense(4, 4, M.Flat()))
			assert.InDelta(t, ref, M.Det(), 1.e-10)
			var M3 Mat3
			for i := 0; i < 3; i++ {
				copy(M3[i][:], M[i][:3])
			}
			assert.InDelta(t, mat.Det(mat.NewDense(3, 3, M3.Flat())), M3.Det(), 1.e-10)
		}
	}
}

func TestAdjugate(t *testing.T) {
	{ // Singular 2x2 still has an adjugate
		assert.Equal(t, Mat2{{4, -2}, {-2, 1}}, Mat2{{1, 2}, {2, 4}}.Adj())
	}
	{
		M := Mat3{{2, -3, 1}, {2, 0, -1}, {1, 4, 5}}
		P := M.Mul(M.Adj())
		det := M.Det()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				want := 0.
				if i == j {
					want = det
				}
				assert.InDelta(t, want, P[i][j], 1.e-12)
			}
		}
	}
	{ // M * adj(M) = det(M) I, including singular matrices
		rng := rand.New(rand.NewSource(2))
		singular := Mat4{
			{1, 2, 3, 4},
			{2, 4, 6, 8},
			{0, 1, 0, 1},
			{5, 0, 2, 1},
		}
		for _, M := range []Mat4{randMat4(rng), randMat4(rng), singular} {
			P := M.Mul(M.Adj())
			det := M.Det()
			for i := 0; i < 4; i++ {
				for j := 0; j < 4; j++ {
					want := 0.
					if i == j {
						want = det
					}
					assert.InDelta(t, want, P[i][j], 1.e-10)
				}
			}
		}
	}
}

func TestInverse(t *testing.T) {
	t.Run("Singular", func(t *testing.T) {
		_, ok := Mat2{{1, 2}, {2, 4}}.Inv()
		assert.False(t, ok)
		_, ok = Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}.Inv()
		assert.False(t, ok)
		_, ok = Mat4{
			{1, 2, 3, 4},
			{2, 4, 6, 8},
			{0, 1, 0, 1},
			{5, 0, 2, 1},
		}.Inv()
		assert.False(t, ok)
		// Below the threshold counts as singular even though it is not exactly zero
		_, ok = Mat2{{1.e-8, 0}, {0, 1.e-7}}.Inv()
		assert.False(t, ok)
	})
	t.Run("RoundTrip", func(t *testing.T) {
		I2 := mat.NewDense(2, 2, Identity2().Flat())
		M2 := Mat2{{4, 7}, {2, 6}}
		M2i, ok := M2.Inv()
		require.True(t, ok)
		assert.True(t, mat.EqualApprox(I2, mat.NewDense(2, 2, M2.Mul(M2i).Flat()), 1.e-10))
		assert.InDelta(t, 0.6, M2i[0][0], 1.e-14)
		assert.InDelta(t, -0.7, M2i[0][1], 1.e-14)

		I3 := mat.NewDense(3, 3, Identity3().Flat())
		M3 := Mat3{{2, -3, 1}, {2, 0, -1}, {1, 4, 5}}
		M3i, ok := M3.Inv()
		require.True(t, ok)
		assert.True(t, mat.EqualApprox(I3, mat.NewDense(3, 3, M3.Mul(M3i).Flat()), 1.e-10))

		I4 := mat.NewDense(4, 4, Identity4().Flat())
		rng := rand.New(rand.NewSource(3))
		for n := 0; n < 20; n++ {
			M := randMat4(rng)
			Mi, ok := M.Inv()
			require.True(t, ok)
			assert.True(t, mat.EqualApprox(I4, mat.NewDense(4, 4, M.Mul(Mi).Flat()), 1.e-10))
			var ref mat.Dense
			require.NoError(t, ref.Inverse(mat.NewDense(4, 4, M.Flat())))
			assert.True(t, mat.EqualApprox(&ref, mat.NewDense(4, 4, Mi.Flat()), 1.e-10))
		}
	})
}

func TestEdgeMatrix(t *testing.T) {
	E := EdgeMatrix([3]float64{1, 1, 1}, [3]float64{2, 1, 1}, [3]float64{1, 3, 1}, [3]float64{1, 1, 4})
	assert.Equal(t, Mat3{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}}, E)
	assert.InDelta(t, 6., E.Det(), 1.e-14)
}
