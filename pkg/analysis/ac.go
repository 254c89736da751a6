package analysis

import (
	"math"

	"github.com/edacraft/circuitsim/internal/consts"
	"github.com/edacraft/circuitsim/pkg/device"
	"github.com/edacraft/circuitsim/pkg/matrix"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// AC solves the sinusoidal steady state at a single frequency. The system
// is linear by construction: diodes are stamped with their small-signal
// conductance at the nominal operating point and amplifiers carry their
// dominant-pole admittance, so no Newton-Raphson iteration is needed.
type AC struct{}

func NewAC() *AC { return &AC{} }

// Run builds and solves the complex admittance system at w = 2*pi*freq.
func (ac *AC) Run(ckt *netlist.Circuit, freq float64) (*ACResult, error) {
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

	ctx := &device.Context{Mode: device.ACAnalysis, Omega: 2 * math.Pi * freq}
	sys := matrix.New[complex128](l.Size())
	for _, c := range ckt.Components {
		if err := device.StampAC(c, l.Placements[c.ID], sys, ctx, st); err != nil {
			return nil, err
		}
	}
	sys.LoadGmin(l.NodeRows(), complex(consts.GroundLeakage, 0))

	sol, err := sys.Solve()
	if err != nil {
		return nil, err
	}

	res := &ACResult{
		Frequency:    freq,
		NodeVoltages: make(map[int]complex128, nm.NumNets+1),
	}
	res.NodeVoltages[0] = 0
	for n := 1; n <= nm.NumNets; n++ {
		res.NodeVoltages[n] = sol[n]
	}
	res.BranchCurrents, res.Readings = extractAC(ckt, l, sol, ctx)

	return res, nil
}
