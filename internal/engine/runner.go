package engine

import (
	"context"

	"tda/internal/domain"
)

// Filter selects the tests an exploration enumerates. The empty filter
// selects everything.
type Filter string

// EmptyFilter selects every test in the binary.
const EmptyFilter Filter = ""

// Runner is an engine session bound to a single binary.
type Runner interface {
	// Explore enumerates the tests in the bound binary without running them.
	Explore(ctx context.Context, filter Filter) (*domain.ResultNode, error)
	IsRunInProgress() bool
	StopRun(force bool) error
	Unload() error
	Dispose() error
}

// Factory acquires a fresh Runner for one binary.
type Factory interface {
	NewRunner(source string) (Runner, error)
}
