package dice

import (
	"crypto/rand"
	"math/big"
	"slices"
	"sync"
)

// SourceFunc adapts a plain function to Source.
type SourceFunc func(n int) int

// Intn calls f.
func (f SourceFunc) Intn(n int) int { return f(n) }

// NewCryptoSource returns the Source used for live play, backed by
// crypto/rand.
//
// Postcondition: Intn(n) is uniform in [0, n); it panics when n <= 0.
func NewCryptoSource() Source {
	return SourceFunc(func(n int) int {
		if n <= 0 {
			panic("dice: Intn called with n <= 0")
		}
		v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
		if err != nil {
			panic("dice: crypto/rand failure: " + err.Error())
		}
		return int(v.Int64())
	})
}

// Sequence is a replayable Source. It hands out its values in order, wrapping
// at the end, each reduced modulo the requested n. A Force die replay of
// "face 4" is Sequence(3).
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence returns a Sequence over values.
//
// Precondition: values is non-empty and every value is >= 0.
func NewSequence(values ...int) *Sequence {
	if len(values) == 0 {
		panic("dice.NewSequence: at least one value is required")
	}
	return &Sequence{values: slices.Clone(values)}
}

// Intn returns the next value modulo n.
func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

// Drawn reports how many values have been consumed.
func (s *Sequence) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
