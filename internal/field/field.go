// Package field stores per-node scalar time series and the value ranges the
// color scale is built from.
package field

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownVariable = errors.New("field: unknown variable")
	ErrDuplicate       = errors.New("field: variable already defined")
	ErrNoSteps         = errors.New("field: step count must be positive")
)

// Field maps a node id to its values, one per time step.
type Field map[int][]float64

// At returns the value of a node at a step. A node without data, or a series
// shorter than step, reads as 0.
func (f Field) At(node, step int) float64 {
	vals, ok := f[node]
	if !ok || step < 0 || step >= len(vals) {
		return 0
	}
	return vals[step]
}

// Series returns a copy of a node's values padded with zeros to steps entries.
func (f Field) Series(node, steps int) []float64 {
	out := make([]float64, steps)
	for i := range out {
		out[i] = f.At(node, i)
	}
	return out
}

// Set is a collection of named fields sharing one step count.
type Set struct {
	steps  int
	order  []string
	fields map[string]Field
}

func NewSet(steps int) (*Set, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNoSteps, steps)
	}
	return &Set{steps: steps, fields: make(map[string]Field)}, nil
}

func (s *Set) Steps() int { return s.steps }

// Add registers a field under name. Variables keep insertion order.
func (s *Set) Add(name string, f Field) error {
	if _, ok := s.fields[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	if f == nil {
		f = Field{}
	}
	s.fields[name] = f
	s.order = append(s.order, name)
	return nil
}

func (s *Set) Get(name string) (Field, error) {
	f, ok := s.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	return f, nil
}

func (s *Set) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

func (s *Set) Variables() []string { return slices.Clone(s.order) }

func (s *Set) Len() int { return len(s.order) }

// Next returns the variable after name, wrapping around. An unknown name
// yields the first variable.
func (s *Set) Next(name string) string {
	if len(s.order) == 0 {
		return ""
	}
	i := slices.Index(s.order, name)
	return s.order[(i+1)%len(s.order)]
}
