// Package vector implements sparse tag-weight vectors.
package vector

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/tagscore/internal/domain"
)

// Sparse maps a tag to its weight. Absent tags have weight zero.
// A zero-valued entry is treated the same as an absent one.
type Sparse map[string]float64

// SquaredNorm returns the sum of squared weights.
func (v Sparse) SquaredNorm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return sum
}

// Dot returns the dot product of v and other, iterating v's keys and
// looking each one up in other.
func (v Sparse) Dot(other Sparse) float64 {
	var sum float64
	for tag, w := range v {
		if ow, ok := other[tag]; ok {
			sum += w * ow
		}
	}
	return sum
}

// AddScaled accumulates factor*other into v. Tags missing from v start at zero.
func (v Sparse) AddScaled(other Sparse, factor float64) {
	for tag, w := range other {
		v[tag] += factor * w
	}
}

// Clone returns an independent copy.
func (v Sparse) Clone() Sparse {
	out := make(Sparse, len(v))
	for tag, w := range v {
		out[tag] = w
	}
	return out
}

// Validate rejects NaN and infinite weights.
func (v Sparse) Validate() error {
	for tag, w := range v {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: tag %q has non-finite weight %v", domain.ErrInvalidVector, tag, w)
		}
	}
	return nil
}

// Cosine returns the cosine similarity of a and b.
// ok is false when either operand has zero magnitude: the similarity is
// undefined there, which is not the same as a zero score.
func Cosine(a, b Sparse) (score float64, ok bool) {
	aNorm := a.SquaredNorm()
	bNorm := b.SquaredNorm()
	return CosineWithNorms(a, b, aNorm, bNorm)
}

// CosineWithNorms is Cosine with precomputed squared norms, so a vector
// compared against many others is only measured once. The dot product
// iterates a's keys.
func CosineWithNorms(a, b Sparse, aNormSq, bNormSq float64) (score float64, ok bool) {
	if aNormSq == 0 || bNormSq == 0 {
		return 0, false
	}
	return a.Dot(b) / math.Sqrt(aNormSq) / math.Sqrt(bNormSq), true
}
