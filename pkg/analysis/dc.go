package analysis

import (
	"github.com/edacraft/circuitsim/pkg/device"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// DC solves the steady-state operating point.
type DC struct {
	opts Options
}

func NewDC() *DC {
	return &DC{opts: DefaultOptions()}
}

func NewDCWithOptions(opts Options) *DC {
	return &DC{opts: opts}
}

// Run resolves nets, validates, sizes the extended system, and drives the
// Newton-Raphson engine. Linear circuits finish in one iteration.
func (dc *DC) Run(ckt *netlist.Circuit) (*Result, error) {
	nm := ckt.Resolve()
	if err := validate(ckt, nm); err != nil {
		return nil, err
	}
	if nm.NumNets == 0 {
		return nil, &netlist.ValidationError{Reason: "no nets to solve"}
	}

	l := device.PlanLayout(ckt, nm)
	st := device.NewState()
	device.Seed(ckt, st)

	ctx := &device.Context{Mode: device.DCAnalysis}
	nr, err := runNewton(ckt, l, ctx, st, nil, dc.opts.MaxIter, dc.opts.AbsTol)
	if err != nil {
		return nil, err
	}

	res := &Result{
		NodeVoltages: make(map[int]float64, nm.NumNets+1),
		Converged:    nr.Converged,
		Iterations:   nr.Iterations,
	}
	res.NodeVoltages[0] = 0 // ground reference
	for n := 1; n <= nm.NumNets; n++ {
		res.NodeVoltages[n] = nr.Solution[n]
	}
	res.BranchCurrents, res.Readings = extractReal(ckt, l, nr.Solution, ctx, st)

	return res, nil
}
