package consts

// Physical constants.
const (
	CHARGE    = 1.6021918e-19 // Elementary charge (C)
	BOLTZMANN = 1.3806226e-23 // Boltzmann constant (J/K)
	REFTEMP   = 300.15        // Reference temperature, 27degC (K)
)

// Numerical tunables. These encode deliberate stability trade-offs;
// do not re-derive them.
const (
	PivotTol              = 1e-12 // Pivot magnitude below this is a singular matrix
	GroundLeakage         = 1e-12 // S, diagonal regularization for isolated nets
	IsolatedLeakage       = 1e-9  // S, transformer secondary winding to ground
	InductorDCConductance = 1e6   // S, inductor stamped as near-short at DC
	MeterResistance       = 1e8   // Ohm, voltmeter and wattmeter voltage coil
	DivergenceLimit       = 1e15  // Transient solution magnitude abort threshold
	DiodeSeedVoltage      = 0.6   // V, Newton-Raphson forward-bias seed
)
