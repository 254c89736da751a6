package device

import (
	"fmt"

	"github.com/edacraft/circuitsim/internal/consts"
	"github.com/edacraft/circuitsim/pkg/matrix"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// Property-bag fallbacks for passive elements.
const (
	defaultResistance  = 1e3  // Ohm
	defaultCapacitance = 1e-6 // F
	defaultInductance  = 1e-3 // H
)

func stampResistorReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	r := c.Props.Get("resistance", defaultResistance)
	if r <= 0 {
		return fmt.Errorf("non-positive resistance %g", r)
	}
	stampConductance(sys, p.Nets[0], p.Nets[1], 1/r)
	return nil
}

func stampResistorAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	r := c.Props.Get("resistance", defaultResistance)
	if r <= 0 {
		return fmt.Errorf("non-positive resistance %g", r)
	}
	stampAdmittance(sys, p.Nets[0], p.Nets[1], complex(1/r, 0))
	return nil
}

func stampCapacitorReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	if ctx.Mode != TransientAnalysis {
		// Open at DC; the diagonal leakage keeps its nets anchored.
		return nil
	}
	cv := c.Props.Get("capacitance", defaultCapacitance)
	n1, n2 := p.Nets[0], p.Nets[1]

	// Backward-Euler companion: geq = C/h, history current geq*Vprev.
	geq := cv / ctx.TimeStep
	ieq := geq * st.CapVoltage[c.ID]
	stampConductance(sys, n1, n2, geq)
	if n1 != 0 {
		sys.AddRHS(n1, ieq)
	}
	if n2 != 0 {
		sys.AddRHS(n2, -ieq)
	}
	return nil
}

func stampCapacitorAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	cv := c.Props.Get("capacitance", defaultCapacitance)
	stampAdmittance(sys, p.Nets[0], p.Nets[1], complex(0, ctx.Omega*cv))
	return nil
}

func stampInductorReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	lv := c.Props.Get("inductance", defaultInductance)
	n1, n2 := p.Nets[0], p.Nets[1]

	if ctx.Mode != TransientAnalysis {
		// Near-short at DC.
		stampConductance(sys, n1, n2, consts.InductorDCConductance)
		return nil
	}

	// Backward-Euler companion: geq = h/L, history current Iprev.
	geq := ctx.TimeStep / lv
	iPrev := st.IndCurrent[c.ID]
	stampConductance(sys, n1, n2, geq)
	if n1 != 0 {
		sys.AddRHS(n1, -iPrev)
	}
	if n2 != 0 {
		sys.AddRHS(n2, iPrev)
	}
	return nil
}

func stampInductorAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	lv := c.Props.Get("inductance", defaultInductance)
	if ctx.Omega == 0 {
		return fmt.Errorf("inductor admittance undefined at zero frequency")
	}
	// 1/(jwL) = -j/(wL)
	stampAdmittance(sys, p.Nets[0], p.Nets[1], complex(0, -1/(ctx.Omega*lv)))
	return nil
}

// RLLoad is a series resistor-inductor load folded into one element.
func stampRLLoadReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	r := c.Props.Get("resistance", defaultResistance)
	lv := c.Props.Get("inductance", defaultInductance)
	n1, n2 := p.Nets[0], p.Nets[1]

	if ctx.Mode != TransientAnalysis {
		// Inductive part is a short at steady state.
		stampConductance(sys, n1, n2, 1/r)
		return nil
	}

	// Combined companion resistance R + L/h with history (L/h)*Iprev.
	req := r + lv/ctx.TimeStep
	ihist := lv / ctx.TimeStep * st.LoadCurrent[c.ID] / req
	stampConductance(sys, n1, n2, 1/req)
	if n1 != 0 {
		sys.AddRHS(n1, -ihist)
	}
	if n2 != 0 {
		sys.AddRHS(n2, ihist)
	}
	return nil
}

func stampRLLoadAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	r := c.Props.Get("resistance", defaultResistance)
	lv := c.Props.Get("inductance", defaultInductance)
	stampAdmittance(sys, p.Nets[0], p.Nets[1], 1/complex(r, ctx.Omega*lv))
	return nil
}
