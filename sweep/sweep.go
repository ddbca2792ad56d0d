// Package sweep runs many independent golden-vector runs in parallel.
package sweep

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/fwftsim/config"
	"github.com/sarchlab/fwftsim/trace"
)

// Result pairs a run configuration with its trace.
type Result struct {
	Config *config.Config
	Trace  *trace.Trace
}

// Plan expands a base configuration into one configuration per
// (capacity, seed) pair, capacities outermost. Empty lists keep the base
// value.
func Plan(base *config.Config, seeds []uint64, capacities []int) []*config.Config {
	if len(seeds) == 0 {
		seeds = []uint64{base.Seed}
	}
	if len(capacities) == 0 {
		capacities = []int{base.Capacity}
	}

	plan := make([]*config.Config, 0, len(seeds)*len(capacities))
	for _, capacity := range capacities {
		for _, seed := range seeds {
			c := base.Clone()
			c.Capacity = capacity
			c.Seed = seed
			plan = append(plan, c)
		}
	}
	return plan
}

// Run executes every planned configuration with at most limit runs in
// flight (no limit when limit <= 0). Each run owns its model and computes
// its cycles in order; only whole runs execute concurrently. Results are
// returned in plan order. The first failing run cancels the runs that have
// not started yet.
func Run(
	ctx context.Context,
	plan []*config.Config,
	limit int,
	opts ...trace.DriverOption,
) ([]Result, error) {
	for i, c := range plan {
		if err := c.Validate(); err != nil {
			return nil, errors.Wrapf(err, "run %d", i)
		}
	}

	logger := logr.FromContextOrDiscard(ctx)
	results := make([]Result, len(plan))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, c := range plan {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			t, err := trace.RunConfig(c, opts...)
			if err != nil {
				return errors.Wrapf(err, "run %d (capacity %d, seed %d)",
					i, c.Capacity, c.Seed)
			}

			logger.V(1).Info("run finished",
				"index", i, "capacity", c.Capacity, "seed", c.Seed)
			results[i] = Result{Config: c, Trace: t}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
