package device

import (
	"github.com/edacraft/circuitsim/internal/consts"
	"github.com/edacraft/circuitsim/pkg/matrix"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// Measurement devices. The ammeter and the wattmeter's current coil are the
// same primitive as a voltage source with an enforced 0 V; the voltmeter and
// the wattmeter's voltage coil are near-ideal resistors.

func stampAmmeterReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	stampConstraint(sys, p.Nets[0], p.Nets[1], p.Branch, 0)
	return nil
}

func stampAmmeterAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	stampConstraintAC(sys, p.Nets[0], p.Nets[1], p.Branch, 0)
	return nil
}

func stampVoltmeterReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	stampConductance(sys, p.Nets[0], p.Nets[1], 1/consts.MeterResistance)
	return nil
}

func stampVoltmeterAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	stampAdmittance(sys, p.Nets[0], p.Nets[1], complex(1/consts.MeterResistance, 0))
	return nil
}

// Wattmeter terminals: 0/1 current coil in/out, 2/3 voltage coil +/-.
// The reading itself is computed at result extraction from the coil current
// and the coil voltage.
func stampWattmeterReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	stampConstraint(sys, p.Nets[0], p.Nets[1], p.Branch, 0)
	stampConductance(sys, p.Nets[2], p.Nets[3], 1/consts.MeterResistance)
	return nil
}

func stampWattmeterAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	stampConstraintAC(sys, p.Nets[0], p.Nets[1], p.Branch, 0)
	stampAdmittance(sys, p.Nets[2], p.Nets[3], complex(1/consts.MeterResistance, 0))
	return nil
}
