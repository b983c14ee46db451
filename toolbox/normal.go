package toolbox

import (
	"math"

	"gonum.org/v1/gonum/mathext/prng"
)

// NormalSource draws standard normal deviates from a seeded Mersenne Twister.
//
// The stream matches NumPy's legacy generator: after np.random.seed(s),
// successive np.random.randn() values equal successive NormFloat64() values
// of NewNormalSource(s).  This lets weights initialized here be compared
// number-for-number against reference runs.
type NormalSource struct {
	mt *prng.MT19937

	hasSpare bool
	spare    float64
}

func NewNormalSource(seed uint64) *NormalSource {
	mt := prng.NewMT19937()
	mt.Seed(seed)
	return &NormalSource{mt: mt}
}

// Float64 returns a uniform deviate in [0, 1) with 53 bits of randomness.
func (s *NormalSource) Float64() float64 {
	a := s.mt.Uint32() >> 5
	b := s.mt.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) / 9007199254740992.0
}

// NormFloat64 returns a standard normal deviate.
func (s *NormalSource) NormFloat64() float64 {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}

	// Marsaglia polar method.  Each accepted pair yields two deviates; the
	// second is kept for the next call.
	var x1, x2, r2 float64
	for {
		x1 = 2*s.Float64() - 1
		x2 = 2*s.Float64() - 1
		r2 = x1*x1 + x2*x2
		if r2 < 1 && r2 != 0 {
			break
		}
	}
	f := math.Sqrt(-2 * math.Log(r2) / r2)

	s.spare = f * x1
	s.hasSpare = true
	return f * x2
}
