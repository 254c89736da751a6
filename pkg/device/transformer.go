package device

import (
	"github.com/edacraft/circuitsim/internal/consts"
	"github.com/edacraft/circuitsim/pkg/matrix"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// Ideal transformer with a referred equivalent circuit: the series
// impedance Req + jXeq between the primary positive terminal and a
// synthetic junction net, the magnetizing shunt 1/Rc + 1/(jXm) from the
// junction to the primary negative terminal, and one branch unknown
// enforcing v(junction) - v(p-) = a * (v(s+) - v(s-)).
//
// The secondary winding is galvanically isolated, so both secondary
// terminals get a small leakage conductance to ground. That is numerical
// regularization to keep the matrix non-singular, not a physical element.
const (
	defaultTurnsRatio  = 1.0
	defaultSeriesR     = 1.0  // Ohm, Req
	defaultSeriesX     = 0.0  // Ohm, Xeq
	defaultCoreLossR   = 1e5  // Ohm, Rc
	defaultMagnetizing = 1e4  // Ohm, Xm
)

// Terminal order: 0 = p+, 1 = p-, 2 = s+, 3 = s-.
func stampTransformerReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	a := c.Props.Get("turns", defaultTurnsRatio)
	req := c.Props.Get("req", defaultSeriesR)
	rc := c.Props.Get("rc", defaultCoreLossR)
	pp, pm, sp, sm := p.Nets[0], p.Nets[1], p.Nets[2], p.Nets[3]
	j, b := p.Internal, p.Branch

	stampConductance(sys, pp, j, 1/req)
	stampConductance(sys, j, pm, 1/rc)
	stampTransformerCoupling(sys, j, pm, sp, sm, b, a)

	if sp != 0 {
		sys.Add(sp, sp, consts.IsolatedLeakage)
	}
	if sm != 0 {
		sys.Add(sm, sm, consts.IsolatedLeakage)
	}
	return nil
}

func stampTransformerAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	a := c.Props.Get("turns", defaultTurnsRatio)
	req := c.Props.Get("req", defaultSeriesR)
	xeq := c.Props.Get("xeq", defaultSeriesX)
	rc := c.Props.Get("rc", defaultCoreLossR)
	xm := c.Props.Get("xm", defaultMagnetizing)
	pp, pm, sp, sm := p.Nets[0], p.Nets[1], p.Nets[2], p.Nets[3]
	j, b := p.Internal, p.Branch

	stampAdmittance(sys, pp, j, 1/complex(req, xeq))
	stampAdmittance(sys, j, pm, complex(1/rc, 0)+1/complex(0, xm))

	// Constraint row and the symmetric KCL coupling scaled by the turns
	// ratio. The branch unknown is the primary winding current.
	sys.Add(b, j, 1)
	sys.Add(j, b, 1)
	if pm != 0 {
		sys.Add(b, pm, -1)
		sys.Add(pm, b, -1)
	}
	if sp != 0 {
		sys.Add(b, sp, complex(-a, 0))
		sys.Add(sp, b, complex(-a, 0))
	}
	if sm != 0 {
		sys.Add(b, sm, complex(a, 0))
		sys.Add(sm, b, complex(a, 0))
	}

	if sp != 0 {
		sys.Add(sp, sp, complex(consts.IsolatedLeakage, 0))
	}
	if sm != 0 {
		sys.Add(sm, sm, complex(consts.IsolatedLeakage, 0))
	}
	return nil
}

func stampTransformerCoupling(sys *matrix.Real, j, pm, sp, sm, b int, a float64) {
	sys.Add(b, j, 1)
	sys.Add(j, b, 1)
	if pm != 0 {
		sys.Add(b, pm, -1)
		sys.Add(pm, b, -1)
	}
	if sp != 0 {
		sys.Add(b, sp, -a)
		sys.Add(sp, b, -a)
	}
	if sm != 0 {
		sys.Add(b, sm, a)
		sys.Add(sm, b, a)
	}
}
