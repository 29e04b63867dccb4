// Package pipeline implements a short-circuiting named-step chain, used by
// the flat-table compactor to run its size-search/bucket-sizing/arena-
// layout/fill/terminate/publish steps in sequence and stop cleanly at the
// first one that fails. It is adapted from the teacher's continuity
// package, which chains disk-sync/close steps the same way; here the steps
// are in-memory arena operations rather than file operations.
package pipeline

import "fmt"

// Chain accumulates the first error encountered across a sequence of named
// steps. Once an error has occurred, subsequent Then calls are no-ops.
type Chain struct {
	err  error
	step string
}

// New returns an empty Chain.
func New() *Chain {
	return &Chain{}
}

// Then runs fn, unless a prior step already failed. If fn returns an error,
// it is wrapped with name and recorded as the chain's terminal error.
func (c *Chain) Then(name string, fn func() error) *Chain {
	if c.err != nil {
		return c
	}
	if err := fn(); err != nil {
		c.err = fmt.Errorf("%s: %w", name, err)
		c.step = name
	}
	return c
}

// Err returns the first error encountered, or nil if every step succeeded.
func (c *Chain) Err() error {
	return c.err
}

// FailedStep returns the name passed to the Then call that first failed, or
// the empty string if the chain has not failed.
func (c *Chain) FailedStep() string {
	return c.step
}
