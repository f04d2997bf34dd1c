// Package dice provides the randomness abstraction behind die rolls and
// event pool draws.
package dice

import (
	"math/rand/v2"
	"sync"
)

// Sides is the number of faces on the game die.
const Sides = 6

// Source is the randomness provider for the engine.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

type systemSource struct{}

// NewSource returns a Source backed by the runtime's global generator.
func NewSource() Source { return systemSource{} }

func (systemSource) Intn(n int) int { return rand.IntN(n) }

// SeededSource is a reproducible Source.
type SeededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded returns a Source that yields the same sequence for the same seed.
func NewSeeded(seed uint64) *SeededSource {
	return &SeededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Sequence replays fixed values, each reduced modulo n, cycling when exhausted.
// Used to script exact turns in tests and replays.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence returns a Sequence over values. An empty Sequence always yields 0.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// RollD6 returns a die value in [1, Sides].
func RollD6(src Source) int {
	return src.Intn(Sides) + 1
}

// Pick returns a uniformly drawn element of items.
//
// Precondition: len(items) > 0.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}
