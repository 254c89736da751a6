package analysis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edacraft/circuitsim/pkg/analysis"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// rcCharge builds source -> R -> C -> ground and returns the capacitor's
// top net.
func rcCharge(t *testing.T, v, r, c float64) (*netlist.Circuit, int) {
	t.Helper()
	ckt := netlist.New()
	g := ckt.Add(netlist.Ground, nil)
	vs := ckt.AddNamed("V1", netlist.DCSource, netlist.Props{"voltage": v})
	rs := ckt.AddNamed("R1", netlist.Resistor, netlist.Props{"resistance": r})
	cs := ckt.AddNamed("C1", netlist.Capacitor, netlist.Props{"capacitance": c})

	require.NoError(t, ckt.Connect(netlist.Pin(vs.ID, 0), netlist.Pin(rs.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(rs.ID, 1), netlist.Pin(cs.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(cs.ID, 1), netlist.Pin(g.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(vs.ID, 1), netlist.Pin(g.ID, 0)))

	return ckt, ckt.Resolve().Net(netlist.Pin(cs.ID, 0))
}

func TestTransient_RCCharging(t *testing.T) {
	// tau = 100 us; after 5 tau the capacitor sits at 5*(1 - e^-5).
	ckt, top := rcCharge(t, 5, 1000, 100e-9)

	res, err := analysis.NewTransient(500e-6, 1e-6).Run(ckt)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Len(t, res.Times, 500)

	wave := res.NodeVoltages[top]
	require.InDelta(t, 4.966, wave[len(wave)-1], 0.05)

	// Monotone rise toward the source voltage.
	for i := 1; i < len(wave); i++ {
		require.GreaterOrEqual(t, wave[i], wave[i-1])
	}
	require.Less(t, wave[len(wave)-1], 5.0)
}

func TestTransient_RLCurrentRise(t *testing.T) {
	ckt := netlist.New()
	g := ckt.Add(netlist.Ground, nil)
	v := ckt.AddNamed("V1", netlist.DCSource, netlist.Props{"voltage": 10})
	r := ckt.AddNamed("R1", netlist.Resistor, netlist.Props{"resistance": 100})
	l := ckt.AddNamed("L1", netlist.Inductor, netlist.Props{"inductance": 10e-3})

	require.NoError(t, ckt.Connect(netlist.Pin(v.ID, 0), netlist.Pin(r.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(r.ID, 1), netlist.Pin(l.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(l.ID, 1), netlist.Pin(g.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(v.ID, 1), netlist.Pin(g.ID, 0)))

	// tau = L/R = 100 us.
	res, err := analysis.NewTransient(500e-6, 1e-6).Run(ckt)
	require.NoError(t, err)

	wave := res.BranchCurrents["R1"]
	require.Len(t, wave, 500)
	require.InDelta(t, 0.1*(1-math.Exp(-5)), wave[len(wave)-1], 5e-4)

	// The series inductor reports the same loop current.
	lwave := res.BranchCurrents["L1"]
	require.Len(t, lwave, 500)
	require.InDelta(t, wave[len(wave)-1], lwave[len(lwave)-1], 1e-6)
}

func TestTransient_RLLoadCurrentRise(t *testing.T) {
	ckt := netlist.New()
	g := ckt.Add(netlist.Ground, nil)
	v := ckt.AddNamed("V1", netlist.DCSource, netlist.Props{"voltage": 10})
	z := ckt.AddNamed("Z1", netlist.RLLoad, netlist.Props{"resistance": 100, "inductance": 10e-3})

	require.NoError(t, ckt.Connect(netlist.Pin(v.ID, 0), netlist.Pin(z.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(z.ID, 1), netlist.Pin(g.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(v.ID, 1), netlist.Pin(g.ID, 0)))

	res, err := analysis.NewTransient(500e-6, 1e-6).Run(ckt)
	require.NoError(t, err)

	wave := res.BranchCurrents["Z1"]
	require.Len(t, wave, 500)
	require.InDelta(t, 0.1*(1-math.Exp(-5)), wave[len(wave)-1], 5e-4)
	// Monotone rise toward V/R.
	for i := 1; i < len(wave); i++ {
		require.GreaterOrEqual(t, wave[i], wave[i-1])
	}
}

func TestTransient_SineSourceTracksWaveform(t *testing.T) {
	ckt := netlist.New()
	g := ckt.Add(netlist.Ground, nil)
	v := ckt.AddNamed("VAC1", netlist.ACSource, netlist.Props{"amplitude": 1, "frequency": 1000})
	r := ckt.AddNamed("R1", netlist.Resistor, nil)

	require.NoError(t, ckt.Connect(netlist.Pin(v.ID, 0), netlist.Pin(r.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(r.ID, 1), netlist.Pin(g.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(v.ID, 1), netlist.Pin(g.ID, 0)))

	top := ckt.Resolve().Net(netlist.Pin(v.ID, 0))
	res, err := analysis.NewTransient(1e-3, 1e-5).Run(ckt)
	require.NoError(t, err)
	require.Len(t, res.Times, 100)

	for i, ts := range res.Times {
		want := math.Sin(2 * math.Pi * 1000 * ts)
		require.InDelta(t, want, res.NodeVoltages[top][i], 1e-9, "t=%g", ts)
	}
}

func TestTransient_HalfWaveRectifier(t *testing.T) {
	ckt := netlist.New()
	g := ckt.Add(netlist.Ground, nil)
	v := ckt.AddNamed("VAC1", netlist.ACSource, netlist.Props{"amplitude": 5, "frequency": 50})
	d := ckt.AddNamed("D1", netlist.Diode, nil)
	r := ckt.AddNamed("R1", netlist.Resistor, netlist.Props{"resistance": 1000})

	require.NoError(t, ckt.Connect(netlist.Pin(v.ID, 0), netlist.Pin(d.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(d.ID, 1), netlist.Pin(r.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(r.ID, 1), netlist.Pin(g.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(v.ID, 1), netlist.Pin(g.ID, 0)))

	load := ckt.Resolve().Net(netlist.Pin(r.ID, 0))
	res, err := analysis.NewTransient(20e-3, 1e-4).Run(ckt)
	require.NoError(t, err)
	require.True(t, res.Converged)

	wave := res.NodeVoltages[load]
	// Positive peak at t = 5 ms passes minus one diode drop.
	peak := wave[49]
	require.InDelta(t, 4.3, peak, 0.3)
	// Negative half-cycle is blocked.
	require.Less(t, math.Abs(wave[149]), 1e-3)
}

func TestTransient_ThreePhaseContinuesFromDC(t *testing.T) {
	// The DC operating point is the t = 0 value of the same waveform the
	// transient stamps, so the first tiny step barely moves any phase.
	ckt, phases := threePhaseLoad(t)

	dc, err := analysis.NewDC().Run(ckt)
	require.NoError(t, err)

	res, err := analysis.NewTransient(2e-8, 1e-8).Run(ckt)
	require.NoError(t, err)
	require.Len(t, res.Times, 2)

	for k := 0; k < 3; k++ {
		require.InDelta(t, dc.NodeVoltages[phases[k]], res.NodeVoltages[phases[k]][0], 1e-2, "phase %d", k)
	}

	// And each sample tracks the waveform itself.
	amp := math.Sqrt2 * 400 / math.Sqrt(3)
	want := amp * math.Sin(2*math.Pi*50*res.Times[1])
	require.InDelta(t, want, res.NodeVoltages[phases[0]][1], 1e-9)
}

func TestTransient_DivergenceAborts(t *testing.T) {
	ckt, _ := rcCharge(t, 2e15, 1, 100e-9)

	_, err := analysis.NewTransient(1e-3, 1e-6).Run(ckt)
	var de *analysis.DivergenceError
	require.ErrorAs(t, err, &de)
	require.InDelta(t, 1e-6, de.Time, 1e-12)
	require.Greater(t, math.Abs(de.Value), 1e15)
}

func TestTransient_RejectsNonPositiveTiming(t *testing.T) {
	ckt, _ := rcCharge(t, 5, 1000, 100e-9)

	_, err := analysis.NewTransient(0, 1e-6).Run(ckt)
	require.Error(t, err)
	_, err = analysis.NewTransient(1e-3, 0).Run(ckt)
	require.Error(t, err)
	_, err = analysis.NewTransient(1e-3, -1e-6).Run(ckt)
	require.Error(t, err)
}

func TestTransient_StateResetsBetweenRuns(t *testing.T) {
	ckt, top := rcCharge(t, 5, 1000, 100e-9)
	tr := analysis.NewTransient(100e-6, 1e-6)

	first, err := tr.Run(ckt)
	require.NoError(t, err)
	second, err := tr.Run(ckt)
	require.NoError(t, err)

	// The capacitor starts discharged both times.
	require.Equal(t, first.NodeVoltages[top], second.NodeVoltages[top])
}
