package solver

import "fmt"

// Strength orders constraints. A single Strong constraint outweighs any number
// of Medium ones below 1000; Required is never relaxed.
type Strength float64

const (
	Weak     Strength = 1
	Medium   Strength = 1e3
	Strong   Strength = 1e6
	Required Strength = 1001001000
)

// CreateStrength combines strong, medium and weak components, each clamped to
// [0, 1000] after scaling by w.
func CreateStrength(a, b, c, w float64) Strength {
	clamp := func(x float64) float64 { return max(0, min(1000, x)) }
	return Strength(clamp(a*w)*1e6 + clamp(b*w)*1e3 + clamp(c*w))
}

func (s Strength) clip() Strength {
	return max(0, min(Required, s))
}

func (s Strength) String() string {
	switch s {
	case Required:
		return "required"
	case Strong:
		return "strong"
	case Medium:
		return "medium"
	case Weak:
		return "weak"
	default:
		return fmt.Sprintf("%g", float64(s))
	}
}
