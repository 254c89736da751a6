package analysis

import (
	"fmt"
	"math"

	"github.com/edacraft/circuitsim/internal/consts"
	"github.com/edacraft/circuitsim/pkg/device"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// Transient integrates the circuit from t=0 to a stop time at a fixed step
// using backward-Euler companion models for the reactive elements.
// Companion state starts at zero for every run; each step's converged
// solution seeds the next step's Newton-Raphson iteration.
type Transient struct {
	opts     Options
	stopTime float64
	timeStep float64
}

func NewTransient(stop, step float64) *Transient {
	return &Transient{opts: DefaultOptions(), stopTime: stop, timeStep: step}
}

func NewTransientWithOptions(stop, step float64, opts Options) *Transient {
	return &Transient{opts: opts, stopTime: stop, timeStep: step}
}

// Run executes the step loop. A step whose solution contains a non-finite
// or implausibly large value aborts the whole run with a DivergenceError;
// a step that merely exhausts its iteration budget is recorded and the run
// continues.
func (tr *Transient) Run(ckt *netlist.Circuit) (*TranResult, error) {
	if tr.timeStep <= 0 || tr.stopTime <= 0 {
		return nil, fmt.Errorf("transient: stop time and step must be positive")
	}

	nm := ckt.Resolve()
	if err := validate(ckt, nm); err != nil {
		return nil, err
	}
	if nm.NumNets == 0 {
		return nil, &netlist.ValidationError{Reason: "no nets to solve"}
	}

	l := device.PlanLayout(ckt, nm)
	st := device.NewState() // companion state resets to zero per run
	device.Seed(ckt, st)

	res := &TranResult{
		NodeVoltages:   make(map[int][]float64),
		BranchCurrents: make(map[string][]float64),
		Converged:      true,
	}

	var prev []float64
	h := tr.timeStep
	for t := h; t < tr.stopTime+h/2; t += h {
		ctx := &device.Context{Mode: device.TransientAnalysis, Time: t, TimeStep: h}

		nr, err := runNewton(ckt, l, ctx, st, prev, tr.opts.MaxIterStep, tr.opts.AbsTol)
		if err != nil {
			return nil, fmt.Errorf("t=%g: %w", t, err)
		}
		if !nr.Converged {
			res.Converged = false
		}

		if bad, v := checkFinite(nr.Solution); bad {
			return nil, &DivergenceError{Time: t, Value: v}
		}

		device.UpdateCompanions(ckt, l, nr.Solution, h, st)

		res.Times = append(res.Times, t)
		for n := 1; n <= nm.NumNets; n++ {
			res.NodeVoltages[n] = append(res.NodeVoltages[n], nr.Solution[n])
		}
		currents, _ := extractReal(ckt, l, nr.Solution, ctx, st)
		for id, i := range currents {
			res.BranchCurrents[id] = append(res.BranchCurrents[id], i)
		}

		prev = nr.Solution
	}

	return res, nil
}

// checkFinite scans a solution for divergence: NaN, Inf, or a magnitude
// beyond the divergence limit.
func checkFinite(sol []float64) (bool, float64) {
	for _, v := range sol {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > consts.DivergenceLimit {
			return true, v
		}
	}
	return false, 0
}
