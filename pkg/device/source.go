package device

import (
	"math"
	"math/cmplx"

	"github.com/edacraft/circuitsim/pkg/matrix"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

const defaultFrequency = 50.0 // Hz, sinusoidal sources without an explicit frequency

// Terminal order for two-terminal sources: 0 = positive, 1 = negative.

func stampDCSourceReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	stampConstraint(sys, p.Nets[0], p.Nets[1], p.Branch, c.Props.Get("voltage", 0))
	return nil
}

// A DC source in AC analysis is a zero phasor: the branch stays and acts as
// a short, which is what superposition expects of a zeroed voltage source.
func stampDCSourceAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	stampConstraintAC(sys, p.Nets[0], p.Nets[1], p.Branch, 0)
	return nil
}

// acSourceWaveform is the time-domain value of a sinusoidal source.
func acSourceWaveform(c *netlist.Component, t float64) float64 {
	amp := c.Props.Get("amplitude", c.Props.Get("voltage", 0))
	freq := c.Props.Get("frequency", defaultFrequency)
	phase := c.Props.Get("phase", 0) * math.Pi / 180
	return amp * math.Sin(2*math.Pi*freq*t+phase)
}

func stampACSourceReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	v := acSourceWaveform(c, ctx.Time)
	if ctx.Mode == DCAnalysis {
		v = acSourceWaveform(c, 0)
	}
	stampConstraint(sys, p.Nets[0], p.Nets[1], p.Branch, v)
	return nil
}

func stampACSourceAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	mag := c.Props.Get("voltage", c.Props.Get("amplitude", 0))
	phase := c.Props.Get("phase", 0) * math.Pi / 180
	stampConstraintAC(sys, p.Nets[0], p.Nets[1], p.Branch, cmplx.Rect(mag, phase))
	return nil
}

// Three-phase source: terminals a, b, c, neutral; three independent branch
// constraints v(phase_k) - v(neutral) = Vline/sqrt(3) at shift + offset_k.
var phaseOffsets = [3]float64{0, -120, 120}

func stampThreePhaseReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	vp := c.Props.Get("linevoltage", 400) / math.Sqrt(3)
	shift := c.Props.Get("shift", 0)
	freq := c.Props.Get("frequency", defaultFrequency)
	neutral := p.Nets[3]

	// One waveform for DC and transient; the DC operating point is its
	// t = 0 instantaneous value.
	for k := 0; k < 3; k++ {
		angle := (shift + phaseOffsets[k]) * math.Pi / 180
		v := math.Sqrt2 * vp * math.Sin(2*math.Pi*freq*ctx.Time+angle)
		stampConstraint(sys, p.Nets[k], neutral, p.Branch+k, v)
	}
	return nil
}

func stampThreePhaseAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	vp := c.Props.Get("linevoltage", 400) / math.Sqrt(3)
	shift := c.Props.Get("shift", 0)
	neutral := p.Nets[3]

	for k := 0; k < 3; k++ {
		angle := (shift + phaseOffsets[k]) * math.Pi / 180
		stampConstraintAC(sys, p.Nets[k], neutral, p.Branch+k, cmplx.Rect(vp, angle))
	}
	return nil
}

func stampCurrentSourceReal(c *netlist.Component, p Placement, sys *matrix.Real, ctx *Context, st *State) error {
	stampCurrentInjection(sys, p.Nets[0], p.Nets[1], c.Props.Get("current", 0))
	return nil
}

func stampCurrentSourceAC(c *netlist.Component, p Placement, sys *matrix.Complex, ctx *Context, st *State) error {
	mag := c.Props.Get("current", 0)
	phase := c.Props.Get("phase", 0) * math.Pi / 180
	stampCurrentInjectionAC(sys, p.Nets[0], p.Nets[1], cmplx.Rect(mag, phase))
	return nil
}
