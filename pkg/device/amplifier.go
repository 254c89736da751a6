package device

import (
	"math"

	"github.com/edacraft/circuitsim/pkg/matrix"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// Linearized op-amp macro-model: a gain stage driving a synthetic internal
// pole net, buffered to the output through the output conductance. The
// saturation limits are enforced post-solve by ClampSaturation, never by
// the stamp itself.
const (
	defaultAmpGain = 1e5  // open-loop gain
	defaultAmpGBW  = 1e6  // Hz, gain-bandwidth product
	defaultAmpVsat = 12.0 // V, output swing limit
	defaultAmpRout = 50.0 // Ohm, output stage resistance
)

// Terminal order: 0 = in+, 1 = in-, 2 = out.
func stampAmplifierReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	gain := c.Props.Get("gain", defaultAmpGain)
	gout := 1 / c.Props.Get("rout", defaultAmpRout)
	inP, inM, out := p.Nets[0], p.Nets[1], p.Nets[2]
	pole := p.Internal

	// Pole row: v(pole) = gain * (v+ - v-).
	sys.Add(pole, pole, 1)
	if inP != 0 {
		sys.Add(pole, inP, -gain)
	}
	if inM != 0 {
		sys.Add(pole, inM, gain)
	}

	// Unity buffer from the pole net through the output conductance.
	if out != 0 {
		sys.Add(out, out, gout)
		sys.Add(out, pole, -gout)
	}
	return nil
}

// AC adds the dominant pole: the pole row becomes (1 + jw*Cp) with Cp
// derived from the gain-bandwidth product and the open-loop gain, so the
// corner sits at GBW/gain.
func stampAmplifierAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	gain := c.Props.Get("gain", defaultAmpGain)
	gbw := c.Props.Get("gbw", defaultAmpGBW)
	gout := 1 / c.Props.Get("rout", defaultAmpRout)
	inP, inM, out := p.Nets[0], p.Nets[1], p.Nets[2]
	pole := p.Internal

	cp := gain / (2 * math.Pi * gbw)
	sys.Add(pole, pole, complex(1, ctx.Omega*cp))
	if inP != 0 {
		sys.Add(pole, inP, complex(-gain, 0))
	}
	if inM != 0 {
		sys.Add(pole, inM, complex(gain, 0))
	}

	if out != 0 {
		sys.Add(out, out, complex(gout, 0))
		sys.Add(out, pole, complex(-gout, 0))
	}
	return nil
}
