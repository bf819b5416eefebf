package app

import (
	"context"

	"github.com/vk/gridframe/internal/ctxlog"
	"github.com/vk/gridframe/internal/model"
)

// Solver fills in the model's decision variables between the load and export
// phases. The optimization itself happens in an external tool; implementations
// here only bridge to it.
type Solver interface {
	Solve(ctx context.Context, m *model.Model) error
}

// NoopSolver leaves every decision variable at its pre-solve zero. Builds run
// with it produce structurally complete result sets whose variable-backed
// values are all zero, which is exactly what a dry run should look like.
type NoopSolver struct{}

func (NoopSolver) Solve(ctx context.Context, m *model.Model) error {
	ctxlog.FromContext(ctx).Info("No solver attached; decision variables keep their pre-solve values.")
	return nil
}
