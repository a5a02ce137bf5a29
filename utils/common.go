package utils

const (
	// SINGULARTOL is the determinant magnitude below which a small matrix is
	// treated as having no inverse.
	SINGULARTOL = 1.e-14
)
