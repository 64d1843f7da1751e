package ports

import "github.com/aretw0/dynroutes/pkg/domain"

// Palette maps type tags to display colors.
type Palette interface {
	// Color returns the color for t, or an error wrapping domain.ErrPaletteMiss.
	Color(t domain.TypeTag) (string, error)
}

// RandomSource supplies uniformly distributed integers.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
}
