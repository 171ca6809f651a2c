package gups

// Step advances a sequence state by one position of the HPCC recurrence:
// a left shift over GF(2) with the feedback polynomial folded back in when
// the top bit falls off.
func Step(x uint64) uint64 {
	if int64(x) < 0 {
		return (x << 1) ^ Poly
	}
	return x << 1
}

// seedMatrix holds the squaring map of the recurrence as 64 rows:
// row i is the state reached after 2i steps from 1. Multiplying a state by
// this matrix doubles its distance from 1.
var seedMatrix = buildSeedMatrix()

func buildSeedMatrix() [64]uint64 {
	var m [64]uint64
	temp := uint64(0x1)
	for i := range m {
		m[i] = temp
		temp = Step(temp)
		temp = Step(temp)
	}
	return m
}

// SeedAt returns the state reached after n applications of Step starting
// from 1, without performing the n steps. n is reduced modulo Period first,
// so negative positions count backwards through the cycle.
//
// SeedAt is a pure function: it is safe to call from any number of
// goroutines and lets each lane be positioned independently.
func SeedAt(n int64) uint64 {
	n %= Period
	if n < 0 {
		n += Period
	}
	if n == 0 {
		return 0x1
	}

	// Highest set bit of n; the loop below consumes the bits under it.
	i := 62
	for ; i >= 0; i-- {
		if (n>>uint(i))&1 != 0 {
			break
		}
	}

	state := uint64(0x2)
	for i > 0 {
		var temp uint64
		for j := 0; j < 64; j++ {
			if (state>>uint(j))&1 != 0 {
				temp ^= seedMatrix[j]
			}
		}
		state = temp
		i--
		if (n>>uint(i))&1 != 0 {
			state = Step(state)
		}
	}
	return state
}

// Stream is one independent position in the global sequence.
// The zero value is not usable; create streams with NewStream.
type Stream struct {
	state uint64
}

// NewStream positions a stream n steps after the canonical start state.
func NewStream(n int64) Stream {
	return Stream{state: SeedAt(n)}
}

// Next advances the stream and returns the new state.
func (s *Stream) Next() uint64 {
	s.state = Step(s.state)
	return s.state
}

// State returns the current state without advancing.
func (s Stream) State() uint64 {
	return s.state
}
