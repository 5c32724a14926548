package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/implantsim/internal/config"
	"github.com/san-kum/implantsim/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no grid point evaluated")

// Objective scores one parameter point; lower is better.
type Objective func(ctx context.Context, params config.Params) (float64, error)

// GridSearch evaluates every combination of the named parameter ranges.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(ranges map[string][]float64) *GridSearch {
	names := make([]string, 0, len(ranges))
	for name := range ranges {
		names = append(names, name)
	}
	sort.Strings(names)

	g := &GridSearch{paramNames: names}
	for _, name := range names {
		g.ranges = append(g.ranges, ranges[name])
	}
	return g
}

// Points is the number of combinations Search will evaluate.
func (g *GridSearch) Points() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search returns the best point and its score. Points whose objective fails
// or returns NaN are skipped; ErrNoCandidate is returned if none succeeded.
// Ties keep the first point visited.
func (g *GridSearch) Search(ctx context.Context, fixed config.Params, objective Objective) (config.Params, float64, error) {
	best := math.Inf(1)
	var bestParams config.Params

	err := g.searchRecursive(ctx, 0, fixed.Clone(), objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current config.Params,
	objective Objective,
	best *float64,
	bestParams *config.Params,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := objective(ctx, current)
		if err != nil || math.IsNaN(val) {
			return nil
		}
		if *bestParams == nil || val < *best {
			*best = val
			*bestParams = current.Clone()
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Steps returns n evenly spaced values from lo to hi inclusive.
func Steps(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// MetricTarget scores a point by the absolute distance between a run's
// metric and target.
func MetricTarget(reg *experiment.Registry, kind, metric string, target float64, samples int) Objective {
	return func(ctx context.Context, params config.Params) (float64, error) {
		res, err := reg.Run(ctx, kind, params, samples)
		if err != nil {
			return 0, err
		}
		v, ok := res.Metrics[metric]
		if !ok {
			return 0, fmt.Errorf("kind %s has no metric %q", kind, metric)
		}
		return math.Abs(v - target), nil
	}
}
