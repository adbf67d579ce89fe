// Package ordering produces the fixed pseudo-random permutation that defines
// the order in which corpus items are offered for annotation.
//
// Generate is a pure function of (seed, n). The shuffle is driven by a PCG
// generator whose output sequence is fixed by its algorithm, and bounded draws
// are computed here rather than through library shuffle helpers, so a schedule
// stays identical across processes and toolchain upgrades.
package ordering

import (
	"math/bits"
	"math/rand/v2"
)

// streamSeed is the PCG increment seed; changing it reorders every schedule.
const streamSeed = 0x636f6e636f7264 // "concord"

// Generate returns a permutation of [0, n) determined entirely by seed.
func Generate(seed uint64, n int) []int {
	if n <= 0 {
		return []int{}
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	src := rand.NewPCG(seed, streamSeed)
	for i := n - 1; i > 0; i-- {
		j := int(boundedUint64(src, uint64(i)+1))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// Sample returns k distinct values from [0, n), in draw order, using
// the same generator as Generate. k is clamped to [0, n].
func Sample(seed uint64, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return []int{}
	}
	return Generate(seed, n)[:k]
}

// boundedUint64 returns a uniform value in [0, bound) using rejection on the
// low bits of a 128-bit product (Lemire's method).
func boundedUint64(src *rand.PCG, bound uint64) uint64 {
	hi, lo := bits.Mul64(src.Uint64(), bound)
	if lo < bound {
		threshold := -bound % bound
		for lo < threshold {
			hi, lo = bits.Mul64(src.Uint64(), bound)
		}
	}
	return hi
}
