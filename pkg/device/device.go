// Package device implements per-component-kind stamping into the MNA
// system. Each kind has one contribution function per coefficient domain
// (real for DC/transient, complex for AC), collected in closed dispatch
// tables indexed by netlist.Kind.
package device

import (
	"fmt"

	"github.com/edacraft/circuitsim/internal/consts"
	"github.com/edacraft/circuitsim/pkg/matrix"
	"github.com/edacraft/circuitsim/pkg/netlist"
	"github.com/edacraft/circuitsim/pkg/util"
)

// Mode selects the analysis the stamp is contributing to.
type Mode int

const (
	DCAnalysis Mode = iota
	ACAnalysis
	TransientAnalysis
)

// Context carries the per-solve inputs a stamp may need: the analysis mode,
// simulation time and step for transient companion models, and the angular
// frequency for AC admittances.
type Context struct {
	Mode     Mode
	Time     float64
	TimeStep float64
	Omega    float64
}

// Placement is a component's position in the sized system: the net index of
// each terminal, the first branch row it owns (0 when it has none), and the
// first synthetic internal net reserved for it (0 when it has none).
type Placement struct {
	Nets     []int
	Branch   int
	Internal int
}

// Layout maps every component to its placement and fixes the system size
// before any stamping call. The block order is: resolver nets 1..NumNets,
// internal nets, then all branch unknowns in one contiguous block.
type Layout struct {
	Placements  map[string]Placement
	NumNets     int
	NumInternal int
	NumBranch   int
}

// NodeRows is the size of the net-voltage block, including internal nets.
func (l *Layout) NodeRows() int { return l.NumNets + l.NumInternal }

// Size is the full system dimension n+m.
func (l *Layout) Size() int { return l.NodeRows() + l.NumBranch }

// PlanLayout sizes the extended system for a resolved circuit. The branch
// block total is fixed here and must not change mid-solve.
func PlanLayout(ckt *netlist.Circuit, nm *netlist.NetMap) *Layout {
	l := &Layout{Placements: make(map[string]Placement), NumNets: nm.NumNets}

	for _, c := range ckt.Components {
		l.NumInternal += c.Kind.InternalNetCount()
		l.NumBranch += c.Kind.BranchCount()
	}

	internal := nm.NumNets
	branch := nm.NumNets + l.NumInternal
	for _, c := range ckt.Components {
		p := Placement{Nets: make([]int, c.Kind.TerminalCount())}
		for pin := range p.Nets {
			p.Nets[pin] = nm.Net(netlist.TerminalRef{Component: c.ID, Pin: pin})
		}
		if n := c.Kind.InternalNetCount(); n > 0 {
			p.Internal = internal + 1
			internal += n
		}
		if n := c.Kind.BranchCount(); n > 0 {
			p.Branch = branch + 1
			branch += n
		}
		l.Placements[c.ID] = p
	}

	return l
}

// State is the explicit companion and iterate state threaded through a
// single analysis run. Reactive companion values reset to zero at the start
// of a transient run; diode iterate voltages persist across time steps so
// the previous step's converged value seeds the next.
type State struct {
	CapVoltage   map[string]float64 // capacitor terminal voltage, previous step
	IndCurrent   map[string]float64 // inductor branch current, previous step
	LoadCurrent  map[string]float64 // series R-L load current, previous step
	DiodeVoltage map[string]float64 // diode junction voltage, previous iterate
}

func NewState() *State {
	return &State{
		CapVoltage:   make(map[string]float64),
		IndCurrent:   make(map[string]float64),
		LoadCurrent:  make(map[string]float64),
		DiodeVoltage: make(map[string]float64),
	}
}

// Seed initializes the Newton-Raphson iterate: diode junctions start at a
// forward-bias guess to aid convergence.
func Seed(ckt *netlist.Circuit, st *State) {
	for _, c := range ckt.Components {
		if c.Kind == netlist.Diode {
			st.DiodeVoltage[c.ID] = consts.DiodeSeedVoltage
		}
	}
}

// RealStampFunc contributes a component to the real system.
type RealStampFunc func(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error

// ACStampFunc contributes a component to the complex system.
type ACStampFunc func(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error

// The dispatch tables. Ground contributes nothing: its only job is to pin
// its net to index 0 during resolution.
var realStamps = [netlist.KindCount]RealStampFunc{
	netlist.Ground:           nil,
	netlist.Resistor:         stampResistorReal,
	netlist.Capacitor:        stampCapacitorReal,
	netlist.Inductor:         stampInductorReal,
	netlist.RLLoad:           stampRLLoadReal,
	netlist.DCSource:         stampDCSourceReal,
	netlist.ACSource:         stampACSourceReal,
	netlist.ThreePhaseSource: stampThreePhaseReal,
	netlist.CurrentSource:    stampCurrentSourceReal,
	netlist.Ammeter:          stampAmmeterReal,
	netlist.Voltmeter:        stampVoltmeterReal,
	netlist.Wattmeter:        stampWattmeterReal,
	netlist.Diode:            stampDiodeReal,
	netlist.Amplifier:        stampAmplifierReal,
	netlist.Transformer:      stampTransformerReal,
}

var acStamps = [netlist.KindCount]ACStampFunc{
	netlist.Ground:           nil,
	netlist.Resistor:         stampResistorAC,
	netlist.Capacitor:        stampCapacitorAC,
	netlist.Inductor:         stampInductorAC,
	netlist.RLLoad:           stampRLLoadAC,
	netlist.DCSource:         stampDCSourceAC,
	netlist.ACSource:         stampACSourceAC,
	netlist.ThreePhaseSource: stampThreePhaseAC,
	netlist.CurrentSource:    stampCurrentSourceAC,
	netlist.Ammeter:          stampAmmeterAC,
	netlist.Voltmeter:        stampVoltmeterAC,
	netlist.Wattmeter:        stampWattmeterAC,
	netlist.Diode:            stampDiodeAC,
	netlist.Amplifier:        stampAmplifierAC,
	netlist.Transformer:      stampTransformerAC,
}

// StampReal dispatches one component into the real system.
func StampReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	fn := realStamps[c.Kind]
	if fn == nil {
		return nil
	}
	if err := fn(c, p, sys, ctx, st); err != nil {
		return fmt.Errorf("stamping %s %s: %w", c.Kind, c.ID, err)
	}
	return nil
}

// StampAC dispatches one component into the complex system.
func StampAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	fn := acStamps[c.Kind]
	if fn == nil {
		return nil
	}
	if err := fn(c, p, sys, ctx, st); err != nil {
		return fmt.Errorf("stamping %s %s: %w", c.Kind, c.ID, err)
	}
	return nil
}

// UpdateIterate refreshes the Newton-Raphson linearization point from a
// solved iterate.
func UpdateIterate(ckt *netlist.Circuit, l *Layout, sol []float64, st *State) {
	for _, c := range ckt.Components {
		if c.Kind != netlist.Diode {
			continue
		}
		p := l.Placements[c.ID]
		st.DiodeVoltage[c.ID] = nodeVoltage(sol, p.Nets[0]) - nodeVoltage(sol, p.Nets[1])
	}
}

// ClampSaturation enforces amplifier output limits on a solved iterate.
// Saturation is applied post-hoc to the pole and output nets, not through
// the linear stamp.
func ClampSaturation(ckt *netlist.Circuit, l *Layout, sol []float64) {
	for _, c := range ckt.Components {
		if c.Kind != netlist.Amplifier {
			continue
		}
		p := l.Placements[c.ID]
		vsat := c.Props.Get("vsat", defaultAmpVsat)
		clampRow(sol, p.Internal, vsat)
		clampRow(sol, p.Nets[2], vsat)
	}
}

func clampRow(sol []float64, row int, vsat float64) {
	if row <= 0 || row >= len(sol) {
		return
	}
	sol[row] = util.Clamp(sol[row], -vsat, vsat)
}

// UpdateCompanions advances every reactive element's companion state from a
// completed transient step of size h.
func UpdateCompanions(ckt *netlist.Circuit, l *Layout, sol []float64, h float64, st *State) {
	for _, c := range ckt.Components {
		p := l.Placements[c.ID]
		vd := 0.0
		if len(p.Nets) >= 2 {
			vd = nodeVoltage(sol, p.Nets[0]) - nodeVoltage(sol, p.Nets[1])
		}
		switch c.Kind {
		case netlist.Capacitor:
			st.CapVoltage[c.ID] = vd
		case netlist.Inductor:
			lv := c.Props.Get("inductance", defaultInductance)
			st.IndCurrent[c.ID] += h / lv * vd
		case netlist.RLLoad:
			r := c.Props.Get("resistance", defaultResistance)
			lv := c.Props.Get("inductance", defaultInductance)
			req := r + lv/h
			st.LoadCurrent[c.ID] = (vd + lv/h*st.LoadCurrent[c.ID]) / req
		}
	}
}

func nodeVoltage(sol []float64, n int) float64 {
	if n <= 0 || n >= len(sol) {
		return 0
	}
	return sol[n]
}

// thermalVoltage is kT/q at the reference temperature.
func thermalVoltage() float64 {
	return consts.BOLTZMANN * consts.REFTEMP / consts.CHARGE
}
