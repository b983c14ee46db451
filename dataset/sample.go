package dataset

import (
	"fmt"
	"math"
	"math/bits"

	"gonum.org/v1/gonum/mathext/prng"
)

// SampleIndices draws k distinct indices from [0, population) without
// replacement.
//
// The draw reproduces CPython's random.seed(seed) followed by
// random.sample(range(population), k), so subsets chosen in Python notebooks
// can be reused here.  For example SampleIndices(149, 5, 3) is
// [60 139 33 94 121].
func SampleIndices(population, k int, seed uint64) ([]int, error) {
	if k < 0 || k > population {
		return nil, fmt.Errorf("sample size %d out of range [0, %d]", k, population)
	}

	mt := prng.NewMT19937()
	mt.SeedFromKeys(seedKeys(seed))
	randBelow := func(n int) int {
		// Rejection sampling on the smallest number of bits covering n.
		width := bits.Len(uint(n))
		for {
			r := int(mt.Uint32() >> (32 - width))
			if r < n {
				return r
			}
		}
	}

	// CPython picks between two algorithms depending on how large the
	// sample is relative to the population.
	setSize := 21
	if k > 5 {
		setSize += int(math.Pow(4, math.Ceil(math.Log(float64(3*k))/math.Log(4))))
	}

	result := make([]int, k)
	if population <= setSize {
		pool := make([]int, population)
		for i := range pool {
			pool[i] = i
		}
		for i := 0; i < k; i++ {
			j := randBelow(population - i)
			result[i] = pool[j]
			pool[j] = pool[population-i-1]
		}
		return result, nil
	}

	selected := make(map[int]bool, k)
	for i := 0; i < k; i++ {
		j := randBelow(population)
		for selected[j] {
			j = randBelow(population)
		}
		selected[j] = true
		result[i] = j
	}
	return result, nil
}

// seedKeys splits seed into 32-bit words, least significant first, the way
// CPython keys its Mersenne Twister from an integer seed.
func seedKeys(seed uint64) []uint32 {
	if seed>>32 == 0 {
		return []uint32{uint32(seed)}
	}
	return []uint32{uint32(seed), uint32(seed >> 32)}
}
