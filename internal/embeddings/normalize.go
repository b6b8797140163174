package embeddings

// Normalize forces v to exactly targetDims elements: longer vectors are
// truncated, shorter ones right-padded with zeros. It never fails.
//
// Truncation does not rescale the remaining elements, so a unit-norm
// vector loses its unit norm when cut. Downstream stores were built
// against this behavior; do not renormalize here.
func Normalize(v []float32, targetDims int) []float32 {
	if targetDims <= 0 {
		targetDims = DefaultDimensions
	}
	if len(v) == targetDims {
		return v
	}
	if len(v) > targetDims {
		return v[:targetDims]
	}
	out := make([]float32, targetDims)
	copy(out, v)
	return out
}
