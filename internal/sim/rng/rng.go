// Package rng provides the single pseudo-random stream that drives a session.
//
// The generator is MT19937 seeded with init_by_array from the 32-bit words of
// an arbitrary-precision integer. Bounded integers use rejection sampling over
// the top k bits and floats take 53 bits from two outputs, so a case number
// always reproduces the same mansion and the same trajectory.
package rng

import (
	"math/big"
	"math/bits"
)

const (
	stateSize = 624
	shift     = 397
	matrixA   = 0x9908b0df
	upperMask = 0x80000000
	lowerMask = 0x7fffffff
)

type Rand struct {
	mt    [stateSize]uint32
	index int
	draws uint64
}

// New seeds a generator from seed. Negative seeds use their absolute value.
func New(seed *big.Int) *Rand {
	r := &Rand{}
	r.seedByArray(seedKey(seed))
	return r
}

// seedKey splits |seed| into 32-bit words, least significant first.
func seedKey(seed *big.Int) []uint32 {
	n := new(big.Int)
	if seed != nil {
		n.Abs(seed)
	}
	if n.Sign() == 0 {
		return []uint32{0}
	}
	words := (n.BitLen() + 31) / 32
	key := make([]uint32, words)
	mask := big.NewInt(0xffffffff)
	w := new(big.Int)
	for i := 0; i < words; i++ {
		key[i] = uint32(w.And(n, mask).Uint64())
		n.Rsh(n, 32)
	}
	return key
}

func (r *Rand) initGenrand(s uint32) {
	r.mt[0] = s
	for i := 1; i < stateSize; i++ {
		r.mt[i] = 1812433253*(r.mt[i-1]^(r.mt[i-1]>>30)) + uint32(i)
	}
	r.index = stateSize
}

func (r *Rand) seedByArray(key []uint32) {
	r.initGenrand(19650218)
	i, j := 1, 0
	k := stateSize
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		r.mt[i] = (r.mt[i] ^ ((r.mt[i-1] ^ (r.mt[i-1] >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= stateSize {
			r.mt[0] = r.mt[stateSize-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = stateSize - 1; k > 0; k-- {
		r.mt[i] = (r.mt[i] ^ ((r.mt[i-1] ^ (r.mt[i-1] >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= stateSize {
			r.mt[0] = r.mt[stateSize-1]
			i = 1
		}
	}
	r.mt[0] = 0x80000000
	r.draws = 0
}

func (r *Rand) twist() {
	for k := 0; k < stateSize; k++ {
		y := (r.mt[k] & upperMask) | (r.mt[(k+1)%stateSize] & lowerMask)
		v := r.mt[(k+shift)%stateSize] ^ (y >> 1)
		if y&1 != 0 {
			v ^= matrixA
		}
		r.mt[k] = v
	}
	r.index = 0
}

// Uint32 returns the next tempered 32-bit output.
func (r *Rand) Uint32() uint32 {
	if r.index >= stateSize {
		r.twist()
	}
	y := r.mt[r.index]
	r.index++
	r.draws++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Draws reports how many 32-bit outputs have been consumed since seeding.
func (r *Rand) Draws() uint64 { return r.draws }

// Float64 returns a 53-bit float in [0, 1).
func (r *Rand) Float64() float64 {
	a := r.Uint32() >> 5
	b := r.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// Uniform returns a + (b-a)*Float64().
func (r *Rand) Uniform(a, b float64) float64 {
	// The explicit conversion forbids fusing into an FMA.
	return a + float64((b-a)*r.Float64())
}

// below returns a uniform integer in [0, n) by rejection over the top
// bit_length(n) bits of successive outputs.
func (r *Rand) below(n uint64) uint64 {
	k := bits.Len64(n)
	if k > 32 {
		panic("rng: range wider than 32 bits")
	}
	v := uint64(r.Uint32() >> (32 - k))
	for v >= n {
		v = uint64(r.Uint32() >> (32 - k))
	}
	return v
}

// RandInt returns an integer in the inclusive range [a, b].
func (r *Rand) RandInt(a, b int) int {
	if b < a {
		panic("rng: empty range")
	}
	return a + int(r.below(uint64(b-a)+1))
}
