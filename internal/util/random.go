package util

import (
	"math/rand"
	"sync"
)

// Rand is the subset of *rand.Rand the chat logic draws from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a seeded Rand that is safe for concurrent use.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Chance reports whether a draw from r lands under p.
func Chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](r Rand, items []T) T {
	return items[r.Intn(len(items))]
}
