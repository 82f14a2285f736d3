package types

import (
	"iter"
	"math/bits"
)

// MaxMotors is the number of motor indices a MotorMask can address.
const MaxMotors = 32

// MotorMask is a set of motor indices. Index i is a member iff bit i is set.
type MotorMask uint32

// MaskOf builds a mask from motor indices. Out-of-range indices are ignored.
func MaskOf(indices ...int) MotorMask {
	var m MotorMask
	for _, i := range indices {
		m = m.With(i)
	}
	return m
}

// With returns m with motor i added.
func (m MotorMask) With(i int) MotorMask {
	if i < 0 || i >= MaxMotors {
		return m
	}
	return m | 1<<uint(i)
}

// Has reports whether motor i is in the set.
func (m MotorMask) Has(i int) bool {
	if i < 0 || i >= MaxMotors {
		return false
	}
	return m&(1<<uint(i)) != 0
}

// Empty reports whether no motor is in the set.
func (m MotorMask) Empty() bool { return m == 0 }

// Count returns the number of motors in the set.
func (m MotorMask) Count() int { return bits.OnesCount32(uint32(m)) }

// All yields the member indices in ascending order.
func (m MotorMask) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for rest := uint32(m); rest != 0; rest &= rest - 1 {
			if !yield(bits.TrailingZeros32(rest)) {
				return
			}
		}
	}
}
