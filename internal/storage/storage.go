package storage

import (
	"errors"
	"sort"
	"sync"
)

const maxDenominations = 20

var (
	// ErrInvalidDenominations indicates the provided denominations violate validation rules.
	ErrInvalidDenominations = errors.New("denominations must contain between 1 and 20 positive integers")
)

var defaultDenominations = []int{50, 25, 10, 5, 2, 1}

// Storage provides access to the denominations used by the solvers.
type Storage interface {
	GetDenominations() ([]int, error)
	SetDenominations(denominations []int) error
}

// MemoryStorage keeps denominations in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu            sync.RWMutex
	denominations []int
}

// NewMemoryStorage initialises storage with a copy of the default denominations.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		denominations: cloneDescending(defaultDenominations),
	}
}

// DefaultDenominations returns a copy of the default denominations, largest first.
func DefaultDenominations() []int {
	return cloneDescending(defaultDenominations)
}

// GetDenominations returns a copy of the current denominations, largest first.
func (s *MemoryStorage) GetDenominations() ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneDescending(s.denominations), nil
}

// SetDenominations validates, normalises, and stores the provided denominations.
func (s *MemoryStorage) SetDenominations(denominations []int) error {
	normalized, err := Normalize(denominations)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.denominations = normalized
	s.mu.Unlock()

	return nil
}

// Normalize deduplicates denominations and orders them largest first, the
// order greedy selection expects.
func Normalize(denominations []int) ([]int, error) {
	if len(denominations) == 0 {
		return nil, ErrInvalidDenominations
	}

	unique := make(map[int]struct{}, len(denominations))
	for _, denomination := range denominations {
		if denomination <= 0 {
			return nil, ErrInvalidDenominations
		}
		unique[denomination] = struct{}{}
		if len(unique) > maxDenominations {
			return nil, ErrInvalidDenominations
		}
	}

	out := make([]int, 0, len(unique))
	for denomination := range unique {
		out = append(out, denomination)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}

func cloneDescending(src []int) []int {
	if len(src) == 0 {
		return []int{}
	}

	out := make([]int, len(src))
	copy(out, src)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
