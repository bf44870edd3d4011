package ports

import "math/rand/v2"

// Random is the injectable source behind code generation, persona
// assignment and fallback reply selection.
type Random interface {
	IntN(n int) int
}

// SystemRandom uses the process-wide generator, which is safe for
// concurrent use.
type SystemRandom struct{}

func (SystemRandom) IntN(n int) int {
	return rand.IntN(n)
}
