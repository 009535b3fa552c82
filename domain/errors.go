package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrStepIncomplete    = errors.New("step incomplete")
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrAlreadySubmitted  = errors.New("application already submitted")
	ErrNoCalculator      = errors.New("no calculator for product category")
)
