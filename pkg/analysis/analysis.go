// Package analysis contains the three solve orchestrators (DC, AC,
// transient) and the Newton-Raphson engine they share. Each orchestrator
// validates the circuit, sizes the extended system, drives the stamping,
// and extracts node voltages, branch currents, and meter readings.
//
// Failures are returned as data: typed errors for validation, singular
// matrices, and transient divergence. Newton-Raphson non-convergence is a
// warning carried on the result, not an error.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/edacraft/circuitsim/internal/consts"
	"github.com/edacraft/circuitsim/pkg/device"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// Options are the convergence and iteration knobs shared by the solvers.
type Options struct {
	MaxIter     int     // Newton-Raphson budget for DC
	MaxIterStep int     // Newton-Raphson budget per transient step
	AbsTol      float64 // V, max net-voltage change for convergence
}

func DefaultOptions() Options {
	return Options{
		MaxIter:     100,
		MaxIterStep: 50,
		AbsTol:      1e-6,
	}
}

// Result is a DC operating point: node voltages per net (ground included at
// exactly 0), branch currents per component, and meter readings.
type Result struct {
	NodeVoltages   map[int]float64
	BranchCurrents map[string]float64
	Readings       map[string]float64
	Converged      bool
	Iterations     int
}

// ACResult is a single-frequency phasor solution.
type ACResult struct {
	Frequency      float64
	NodeVoltages   map[int]complex128
	BranchCurrents map[string]complex128
	Readings       map[string]complex128
}

// Magnitude returns |V| of a net voltage.
func (r *ACResult) Magnitude(net int) float64 { return cmplx.Abs(r.NodeVoltages[net]) }

// PhaseDeg returns the phase of a net voltage in degrees.
func (r *ACResult) PhaseDeg(net int) float64 {
	return cmplx.Phase(r.NodeVoltages[net]) * 180 / math.Pi
}

// TranResult is an ordered time series per tracked net and branch.
type TranResult struct {
	Times          []float64
	NodeVoltages   map[int][]float64
	BranchCurrents map[string][]float64
	Converged      bool // false when any step exhausted its iteration budget
}

// DivergenceError aborts a transient run whose solution left the plausible
// range: a non-finite value or a magnitude beyond the divergence limit.
type DivergenceError struct {
	Time  float64
	Value float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("transient diverged at t=%g: value %g", e.Time, e.Value)
}

// validate checks the solve preconditions using the resolver output. It
// short-circuits straight to a failure before any matrix work.
func validate(ckt *netlist.Circuit, nm *netlist.NetMap) error {
	if len(ckt.Components) == 0 {
		return &netlist.ValidationError{Reason: "circuit is empty"}
	}
	if !nm.HasGround {
		return &netlist.ValidationError{Reason: "no ground net; connect a ground component"}
	}
	if !ckt.HasSource() {
		return &netlist.ValidationError{Reason: "no source present"}
	}
	return nil
}

// branchKeys names the rows of a multi-branch component.
var phaseSuffix = [3]string{".a", ".b", ".c"}

// extractReal pulls branch currents and readings out of a real solution.
// The branch unknown is the current flowing out of the first terminal into
// the element, so source currents are negated to report the current the
// source delivers. Inductor and R-L load currents come from the companion
// state in transient mode and from the steady-state model otherwise.
func extractReal(ckt *netlist.Circuit, l *device.Layout, sol []float64, ctx *device.Context, st *device.State) (map[string]float64, map[string]float64) {
	currents := make(map[string]float64)
	readings := make(map[string]float64)

	volt := func(n int) float64 {
		if n <= 0 || n >= len(sol) {
			return 0
		}
		return sol[n]
	}

	for _, c := range ckt.Components {
		p := l.Placements[c.ID]
		switch c.Kind {
		case netlist.Resistor:
			r := c.Props.Get("resistance", 1e3)
			currents[c.ID] = (volt(p.Nets[0]) - volt(p.Nets[1])) / r
		case netlist.Inductor:
			if ctx.Mode == device.TransientAnalysis {
				currents[c.ID] = st.IndCurrent[c.ID]
			} else {
				currents[c.ID] = consts.InductorDCConductance * (volt(p.Nets[0]) - volt(p.Nets[1]))
			}
		case netlist.RLLoad:
			if ctx.Mode == device.TransientAnalysis {
				currents[c.ID] = st.LoadCurrent[c.ID]
			} else {
				r := c.Props.Get("resistance", 1e3)
				currents[c.ID] = (volt(p.Nets[0]) - volt(p.Nets[1])) / r
			}
		case netlist.DCSource, netlist.ACSource:
			currents[c.ID] = -sol[p.Branch]
		case netlist.ThreePhaseSource:
			for k := 0; k < 3; k++ {
				currents[c.ID+phaseSuffix[k]] = -sol[p.Branch+k]
			}
		case netlist.Ammeter:
			currents[c.ID] = sol[p.Branch]
			readings[c.ID] = sol[p.Branch]
		case netlist.Voltmeter:
			readings[c.ID] = volt(p.Nets[0]) - volt(p.Nets[1])
		case netlist.Wattmeter:
			i := sol[p.Branch]
			v := volt(p.Nets[2]) - volt(p.Nets[3])
			currents[c.ID] = i
			readings[c.ID] = v * i
		case netlist.Transformer:
			currents[c.ID] = sol[p.Branch]
		}
	}
	return currents, readings
}

// extractAC is the phasor counterpart of extractReal. The wattmeter reading
// is the complex power of its coils; callers take the real part for active
// power.
func extractAC(ckt *netlist.Circuit, l *device.Layout, sol []complex128, ctx *device.Context) (map[string]complex128, map[string]complex128) {
	currents := make(map[string]complex128)
	readings := make(map[string]complex128)

	volt := func(n int) complex128 {
		if n <= 0 || n >= len(sol) {
			return 0
		}
		return sol[n]
	}

	for _, c := range ckt.Components {
		p := l.Placements[c.ID]
		switch c.Kind {
		case netlist.Resistor:
			r := c.Props.Get("resistance", 1e3)
			currents[c.ID] = (volt(p.Nets[0]) - volt(p.Nets[1])) / complex(r, 0)
		case netlist.Inductor:
			lv := c.Props.Get("inductance", 1e-3)
			currents[c.ID] = (volt(p.Nets[0]) - volt(p.Nets[1])) * complex(0, -1/(ctx.Omega*lv))
		case netlist.RLLoad:
			r := c.Props.Get("resistance", 1e3)
			lv := c.Props.Get("inductance", 1e-3)
			currents[c.ID] = (volt(p.Nets[0]) - volt(p.Nets[1])) / complex(r, ctx.Omega*lv)
		case netlist.DCSource, netlist.ACSource:
			currents[c.ID] = -sol[p.Branch]
		case netlist.ThreePhaseSource:
			for k := 0; k < 3; k++ {
				currents[c.ID+phaseSuffix[k]] = -sol[p.Branch+k]
			}
		case netlist.Ammeter:
			currents[c.ID] = sol[p.Branch]
			readings[c.ID] = sol[p.Branch]
		case netlist.Voltmeter:
			readings[c.ID] = volt(p.Nets[0]) - volt(p.Nets[1])
		case netlist.Wattmeter:
			i := sol[p.Branch]
			v := volt(p.Nets[2]) - volt(p.Nets[3])
			currents[c.ID] = i
			readings[c.ID] = v * cmplx.Conj(i)
		case netlist.Transformer:
			currents[c.ID] = sol[p.Branch]
		}
	}
	return currents, readings
}
