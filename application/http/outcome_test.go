package http

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	c := Complete(7)
	assert.True(t, c.IsComplete())
	assert.Equal(t, StateComplete, c.State())
	assert.Equal(t, 7, c.Value())

	p := Partial[int]()
	assert.True(t, p.IsPartial())
	assert.Zero(t, p.Value())

	e := Error[int]()
	assert.True(t, e.IsError())
	assert.Zero(t, e.Value())

	var zero Outcome[int]
	assert.True(t, zero.IsError())
}

func TestThen(t *testing.T) {
	itoa := func(v int) Outcome[string] { return Complete(strconv.Itoa(v)) }

	testcases := []struct {
		desc     string
		input    Outcome[int]
		expected Outcome[string]
	}{
		{
			desc:     "complete continues",
			input:    Complete(42),
			expected: Complete("42"),
		},
		{
			desc:     "partial short-circuits",
			input:    Partial[int](),
			expected: Partial[string](),
		},
		{
			desc:     "error short-circuits",
			input:    Error[int](),
			expected: Error[string](),
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			called := false
			got := Then(tc.input, func(v int) Outcome[string] {
				called = true
				return itoa(v)
			})
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.input.IsComplete(), called)
		})
	}
}

func TestRecastComplete(t *testing.T) {
	assert.Panics(t, func() { recast[string](Complete(1)) })
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "partial", StatePartial.String())
	assert.Equal(t, "error", StateError.String())
}
