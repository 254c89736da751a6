package device

import (
	"math"

	"github.com/edacraft/circuitsim/internal/consts"
	"github.com/edacraft/circuitsim/pkg/matrix"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

const (
	defaultSaturationCurrent = 1e-14 // A
	defaultIdealityFactor    = 1.0

	// Exponent clamp; beyond this the junction model overflows float64
	// long before the solver can react.
	maxDiodeExponent = 40.0
)

// diodeLinearization evaluates the companion model at the previous iterate:
// gd = Is/(nVt) * exp(Vd/nVt), ieq = Id - gd*Vd.
func diodeLinearization(c *netlist.Component, vd float64) (gd, ieq float64) {
	is := c.Props.Get("is", defaultSaturationCurrent)
	nvt := c.Props.Get("n", defaultIdealityFactor) * thermalVoltage()

	arg := vd / nvt
	if arg > maxDiodeExponent {
		arg = maxDiodeExponent
	}
	evd := math.Exp(arg)

	id := is * (evd - 1)
	gd = is/nvt*evd + consts.GroundLeakage
	ieq = id - gd*vd
	return gd, ieq
}

// Terminal order: 0 = anode, 1 = cathode.
func stampDiodeReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	n1, n2 := p.Nets[0], p.Nets[1]
	gd, ieq := diodeLinearization(c, st.DiodeVoltage[c.ID])

	stampConductance(sys, n1, n2, gd)
	if n1 != 0 {
		sys.AddRHS(n1, -ieq)
	}
	if n2 != 0 {
		sys.AddRHS(n2, ieq)
	}
	return nil
}

// AC uses the small-signal conductance at the nominal operating point; the
// AC model is linear by construction and never iterated.
func stampDiodeAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	vd := consts.DiodeSeedVoltage
	if st != nil {
		if v, ok := st.DiodeVoltage[c.ID]; ok {
			vd = v
		}
	}
	gd, _ := diodeLinearization(c, vd)
	stampAdmittance(sys, p.Nets[0], p.Nets[1], complex(gd, 0))
	return nil
}
