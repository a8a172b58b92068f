package render

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded indicates an operation on a renderer that has no geometry.
	ErrNotLoaded = errors.New("render: renderer not loaded")

	// ErrStepOutOfRange indicates a time step outside [0, T-1].
	ErrStepOutOfRange = errors.New("render: time step out of range")

	// ErrUnknownVariable indicates a variable that is not in the field set.
	ErrUnknownVariable = errors.New("render: unknown variable")

	// ErrNoFields indicates a load without any scalar field.
	ErrNoFields = errors.New("render: no field variables to display")

	// ErrUnknownNode indicates a node id that is not part of the geometry.
	ErrUnknownNode = errors.New("render: unknown node")
)

// StepError carries the rejected step alongside the valid bound.
type StepError struct {
	Step  int
	Steps int
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %d not in [0, %d]", ErrStepOutOfRange, e.Step, e.Steps-1)
}

func (e *StepError) Unwrap() error {
	return ErrStepOutOfRange
}
