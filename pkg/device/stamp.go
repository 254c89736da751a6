package device

import "github.com/edacraft/circuitsim/pkg/matrix"

// Shared stamp primitives. Every function guards against the ground net
// (index 0), which has no row or column in the system.

// stampConductance adds g between two net rows: +g on both diagonals, -g on
// the off-diagonals.
func stampConductance(sys *matrix.Real, n1, n2 int, g float64) {
	if n1 != 0 {
		sys.Add(n1, n1, g)
		if n2 != 0 {
			sys.Add(n1, n2, -g)
		}
	}
	if n2 != 0 {
		if n1 != 0 {
			sys.Add(n2, n1, -g)
		}
		sys.Add(n2, n2, g)
	}
}

// stampAdmittance is the complex counterpart of stampConductance.
func stampAdmittance(sys *matrix.Complex, n1, n2 int, y complex128) {
	if n1 != 0 {
		sys.Add(n1, n1, y)
		if n2 != 0 {
			sys.Add(n1, n2, -y)
		}
	}
	if n2 != 0 {
		if n1 != 0 {
			sys.Add(n2, n1, -y)
		}
		sys.Add(n2, n2, y)
	}
}

// stampConstraint enforces v(n1) - v(n2) = v through branch row b with the
// symmetric +/-1 coupling. The branch unknown is the current flowing out of
// n1 into the element. This one primitive serves voltage sources, ammeters
// (v = 0), wattmeter current coils, and the per-phase rows of a three-phase
// source.
func stampConstraint(sys *matrix.Real, n1, n2, b int, v float64) {
	if n1 != 0 {
		sys.Add(b, n1, 1)
		sys.Add(n1, b, 1)
	}
	if n2 != 0 {
		sys.Add(b, n2, -1)
		sys.Add(n2, b, -1)
	}
	sys.AddRHS(b, v)
}

// stampConstraintAC enforces the phasor constraint v(n1) - v(n2) = v.
func stampConstraintAC(sys *matrix.Complex, n1, n2, b int, v complex128) {
	if n1 != 0 {
		sys.Add(b, n1, 1)
		sys.Add(n1, b, 1)
	}
	if n2 != 0 {
		sys.Add(b, n2, -1)
		sys.Add(n2, b, -1)
	}
	sys.AddRHS(b, v)
}

// stampCurrentInjection injects current i flowing from n1 through the
// element to n2, so i leaves the circuit at n1 and re-enters at n2.
func stampCurrentInjection(sys *matrix.Real, n1, n2 int, i float64) {
	if n1 != 0 {
		sys.AddRHS(n1, -i)
	}
	if n2 != 0 {
		sys.AddRHS(n2, i)
	}
}

// stampCurrentInjectionAC is the phasor counterpart of stampCurrentInjection.
func stampCurrentInjectionAC(sys *matrix.Complex, n1, n2 int, i complex128) {
	if n1 != 0 {
		sys.AddRHS(n1, -i)
	}
	if n2 != 0 {
		sys.AddRHS(n2, i)
	}
}
