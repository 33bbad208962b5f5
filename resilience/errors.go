package resilience

import "errors"

// ErrTimeout is returned when an operation exceeds its budget.
var ErrTimeout = errors.New("resilience: operation timed out")
