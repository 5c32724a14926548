package experiment

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/implantsim/internal/config"
)

// Member is one labelled parameter set of an ensemble.
type Member struct {
	Label   string
	Params  config.Params
	Samples int
}

// Ensemble evaluates several parameter sets of one kind concurrently.
type Ensemble struct {
	reg     *Registry
	kind    string
	members []Member
}

func NewEnsemble(reg *Registry, kind string, members []Member) *Ensemble {
	return &Ensemble{reg: reg, kind: kind, members: members}
}

// Run returns one result per member in member order. The first failing
// member's error is returned, labelled.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.members))
	errs := make([]error, len(e.members))

	var wg sync.WaitGroup
	for i, m := range e.members {
		wg.Add(1)
		go func(idx int, m Member) {
			defer wg.Done()
			results[idx], errs[idx] = e.reg.Run(ctx, e.kind, m.Params, m.Samples)
		}(i, m)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.members[i].Label, err)
		}
	}
	return results, nil
}
