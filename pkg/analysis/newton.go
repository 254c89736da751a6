package analysis

import (
	"math"

	"github.com/edacraft/circuitsim/internal/consts"
	"github.com/edacraft/circuitsim/pkg/device"
	"github.com/edacraft/circuitsim/pkg/matrix"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

// newtonOutcome is one engine run: the last iterate, whether it converged,
// and the per-iteration voltage deltas for diagnostics. Exhausting the
// budget is a soft failure: the last iterate is still usable.
type newtonOutcome struct {
	Solution   []float64
	Iterations int
	Converged  bool
	Deltas     []float64
}

// runNewton drives repeated build-and-solve cycles: stamp the linearized
// system at the previous iterate, solve, clamp saturating outputs, and
// check the maximum net-voltage change. Linear circuits take exactly one
// iteration. The previous iterate lives in st (diode voltages) and in prev
// (the full solution vector, used to seed transient steps); both are
// explicit inputs, the engine holds no hidden state.
func runNewton(ckt *netlist.Circuit, l *device.Layout, ctx *device.Context, st *device.State, prev []float64, maxIter int, absTol float64) (*newtonOutcome, error) {
	size := l.Size()
	nodeRows := l.NodeRows()
	nonlinear := ckt.HasNonlinear()

	out := &newtonOutcome{}
	old := prev

	for iter := 0; iter < maxIter; iter++ {
		// Rebuilt from scratch every iteration, never reused.
		sys := matrix.New[float64](size)
		for _, c := range ckt.Components {
			if err := device.StampReal(c, l.Placements[c.ID], sys, ctx, st); err != nil {
				return nil, err
			}
		}
		sys.LoadGmin(nodeRows, consts.GroundLeakage)

		sol, err := sys.Solve()
		if err != nil {
			return nil, err
		}
		device.ClampSaturation(ckt, l, sol)

		out.Solution = sol
		out.Iterations = iter + 1

		if !nonlinear {
			out.Converged = true
			return out, nil
		}

		if old != nil {
			delta := maxNodeDelta(old, sol, nodeRows)
			out.Deltas = append(out.Deltas, delta)
			if delta < absTol {
				out.Converged = true
				return out, nil
			}
		}

		device.UpdateIterate(ckt, l, sol, st)
		old = sol
	}

	// Budget exhausted: return the last iterate, annotated as
	// non-converged, rather than failing the whole solve.
	return out, nil
}

// maxNodeDelta is the convergence metric: the largest absolute voltage
// change across the net-voltage block only, branch currents excluded.
func maxNodeDelta(old, sol []float64, nodeRows int) float64 {
	maxDelta := 0.0
	for i := 1; i <= nodeRows && i < len(sol) && i < len(old); i++ {
		if d := math.Abs(sol[i] - old[i]); d > maxDelta {
			maxDelta = d
		}
	}
	return maxDelta
}
