package http

// State is the classification of a buffer by a grammar rule.
type State uint8

const (
	// StateError means the buffer can never match, whatever is appended to it.
	StateError State = iota
	// StatePartial means the buffer is a valid prefix and more bytes are needed.
	StatePartial
	// StateComplete means a prefix of the buffer was consumed into a value.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StatePartial:
		return "partial"
	case StateComplete:
		return "complete"
	}
	return "error"
}

// Outcome is the result of running a grammar rule over a buffer.
// The zero value is an error outcome.
type Outcome[T any] struct {
	state State
	value T
}

func Complete[T any](v T) Outcome[T] { return Outcome[T]{state: StateComplete, value: v} }
func Partial[T any]() Outcome[T]     { return Outcome[T]{state: StatePartial} }
func Error[T any]() Outcome[T]       { return Outcome[T]{state: StateError} }

func (o Outcome[T]) State() State     { return o.state }
func (o Outcome[T]) IsComplete() bool { return o.state == StateComplete }
func (o Outcome[T]) IsPartial() bool  { return o.state == StatePartial }
func (o Outcome[T]) IsError() bool    { return o.state == StateError }

// Value returns the value of a complete outcome, or the zero value otherwise.
func (o Outcome[T]) Value() T { return o.value }

// Then continues with f only when o is complete.
// Partial and error outcomes are passed through unchanged.
func Then[T, U any](o Outcome[T], f func(T) Outcome[U]) Outcome[U] {
	if o.state != StateComplete {
		return recast[U](o)
	}
	return f(o.value)
}

// recast carries a non-complete state over to another value type.
func recast[U, T any](o Outcome[T]) Outcome[U] {
	if o.state == StateComplete {
		panic("BUG: recasting a complete outcome drops its value")
	}
	return Outcome[U]{state: o.state}
}
