package subtitle

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrDuplicateNumber = errors.New("duplicate subtitle number")
	ErrInvalidNumber   = errors.New("subtitle number must be positive")
)

// Store is an immutable collection of entries keyed by Number. Iteration
// helpers always walk the entries in ascending number order.
type Store struct {
	entries map[int]Entry
}

func NewStore(entries ...Entry) (*Store, error) {
	m := make(map[int]Entry, len(entries))
	for _, e := range entries {
		if e.Number <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidNumber, e.Number)
		}
		if _, exists := m[e.Number]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateNumber, e.Number)
		}
		m[e.Number] = e
	}
	return &Store{entries: m}, nil
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *Store) Get(number int) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.entries[number]
	return e, ok
}

// entry numbers, ascending
func (s *Store) Numbers() []int {
	if s == nil {
		return nil
	}
	numbers := make([]int, 0, len(s.entries))
	for n := range s.entries {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// copy of the entries, ascending by number
func (s *Store) Entries() []Entry {
	numbers := s.Numbers()
	out := make([]Entry, len(numbers))
	for i, n := range numbers {
		out[i] = s.entries[n]
	}
	return out
}

// With returns a new store where the given entries replace (or add to) the
// receiver's entries by number. The receiver is left untouched.
func (s *Store) With(entries ...Entry) (*Store, error) {
	m := make(map[int]Entry, s.Len()+len(entries))
	if s != nil {
		for n, e := range s.entries {
			m[n] = e
		}
	}
	for _, e := range entries {
		if e.Number <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidNumber, e.Number)
		}
		m[e.Number] = e
	}
	return &Store{entries: m}, nil
}

// concatenated text of every entry, used for language detection
func (s *Store) Text() string {
	var total int
	entries := s.Entries()
	for _, e := range entries {
		total += len(e.Text) + 1
	}
	buf := make([]byte, 0, total)
	for _, e := range entries {
		buf = append(buf, e.Text...)
		buf = append(buf, '\n')
	}
	return string(buf)
}
