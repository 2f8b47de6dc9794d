package sim

import (
	"context"
	"sync"

	"github.com/hepv-lab/hepvsim/internal/config"
)

// Comparison pairs the two configurations over the same drive cycle.
type Comparison struct {
	Single *Result
	Dual   *Result
}

// EnergyDeltaKWh is dual minus single: negative means the pneumatic assist
// saved energy over the cycle.
func (c *Comparison) EnergyDeltaKWh() float64 {
	return c.Dual.TotalEnergyKWh - c.Single.TotalEnergyKWh
}

// Compare runs both integrators concurrently over the same cycle. Each run
// gets its own integrator, so nothing is shared but the immutable inputs.
func Compare(ctx context.Context, times, speeds []float64, params config.Params) (*Comparison, error) {
	var (
		wg        sync.WaitGroup
		cmp       Comparison
		errSingle error
		errDual   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cmp.Single, errSingle = NewSingleSource(params).Run(ctx, times, speeds)
	}()
	go func() {
		defer wg.Done()
		cmp.Dual, errDual = NewDualSource(params).Run(ctx, times, speeds)
	}()
	wg.Wait()

	if errSingle != nil {
		return nil, errSingle
	}
	if errDual != nil {
		return nil, errDual
	}
	return &cmp, nil
}

// Sweep runs the dual-source integrator once per parameter set, all in
// parallel, preserving input order. The first error wins; remaining runs
// still complete.
func Sweep(ctx context.Context, times, speeds []float64, sets []config.Params) ([]*Result, error) {
	results := make([]*Result, len(sets))
	errs := make([]error, len(sets))

	var wg sync.WaitGroup
	for i, params := range sets {
		wg.Add(1)
		go func(i int, params config.Params) {
			defer wg.Done()
			results[i], errs[i] = NewDualSource(params).Run(ctx, times, speeds)
		}(i, params)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
