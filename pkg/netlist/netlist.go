// Package netlist holds the flattened circuit description consumed by the
// solver: components with typed kinds, their terminals, and the wires that
// join terminals into nets. It knows nothing about rendering or interaction.
package netlist

import "fmt"

// Kind enumerates every component the solver understands. The stamp
// dispatch tables in pkg/device are indexed by Kind, so adding a kind
// without a stamp entry fails loudly at init rather than at solve time.
type Kind int

const (
	Ground Kind = iota
	Resistor
	Capacitor
	Inductor
	RLLoad
	DCSource
	ACSource
	ThreePhaseSource
	CurrentSource
	Ammeter
	Voltmeter
	Wattmeter
	Diode
	Amplifier
	Transformer

	KindCount
)

var kindNames = [KindCount]string{
	Ground:           "ground",
	Resistor:         "resistor",
	Capacitor:        "capacitor",
	Inductor:         "inductor",
	RLLoad:           "rlload",
	DCSource:         "dcsource",
	ACSource:         "acsource",
	ThreePhaseSource: "threephase",
	CurrentSource:    "currentsource",
	Ammeter:          "ammeter",
	Voltmeter:        "voltmeter",
	Wattmeter:        "wattmeter",
	Diode:            "diode",
	Amplifier:        "amplifier",
	Transformer:      "transformer",
}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindByName returns the kind for a textual name, used by deck parsers.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

var terminalCounts = [KindCount]int{
	Ground:           1,
	Resistor:         2,
	Capacitor:        2,
	Inductor:         2,
	RLLoad:           2,
	DCSource:         2,
	ACSource:         2,
	ThreePhaseSource: 4, // a, b, c, neutral
	CurrentSource:    2,
	Ammeter:          2,
	Voltmeter:        2,
	Wattmeter:        4, // current coil in/out, voltage coil +/-
	Diode:            2, // anode, cathode
	Amplifier:        3, // in+, in-, out
	Transformer:      4, // p+, p-, s+, s-
}

// TerminalCount is the number of user-visible terminals of the kind.
func (k Kind) TerminalCount() int { return terminalCounts[k] }

// BranchCount is the number of branch-current unknowns the kind introduces:
// one per enforced voltage constraint. Anything listed here stamps through
// the same constraint primitive in pkg/device.
func (k Kind) BranchCount() int {
	switch k {
	case DCSource, ACSource, Ammeter, Wattmeter, Transformer:
		return 1
	case ThreePhaseSource:
		return 3
	}
	return 0
}

// InternalNetCount is the number of synthetic nets the kind needs beyond its
// wired terminals. These are never user-wired; the orchestrator reserves
// matrix rows for them during sizing.
func (k Kind) InternalNetCount() int {
	switch k {
	case Transformer: // junction between series impedance and ideal coupling
		return 1
	case Amplifier: // dominant-pole net
		return 1
	}
	return 0
}

// IsSource reports whether the kind can drive the circuit. Validation
// requires at least one of these.
func (k Kind) IsSource() bool {
	switch k {
	case DCSource, ACSource, ThreePhaseSource, CurrentSource:
		return true
	}
	return false
}

// IsNonlinear reports whether the kind requires Newton-Raphson iteration.
func (k Kind) IsNonlinear() bool {
	return k == Diode || k == Amplifier
}

// Props is a component property bag. Missing keys fall back to per-kind
// defaults at stamp time.
type Props map[string]float64

// Get returns the property value or def when absent.
func (p Props) Get(key string, def float64) float64 {
	if p == nil {
		return def
	}
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Component is one placed element. Terminals are addressed by pin index in
// [0, Kind.TerminalCount()).
type Component struct {
	ID    string
	Kind  Kind
	Props Props
}

// TerminalRef addresses a single terminal of a component.
type TerminalRef struct {
	Component string
	Pin       int
}

// Wire is a completed connection between two terminals. Wires with dangling
// endpoints never reach the netlist; the topology layer only hands over
// completed ones.
type Wire struct {
	A, B TerminalRef
}

// IDAllocator hands out sequential component IDs per kind prefix. It is
// owned by a Circuit; there is no process-wide counter state.
type IDAllocator struct {
	next map[string]int
}

// Next returns prefix1, prefix2, ... for each distinct prefix.
func (a *IDAllocator) Next(prefix string) string {
	if a.next == nil {
		a.next = make(map[string]int)
	}
	a.next[prefix]++
	return fmt.Sprintf("%s%d", prefix, a.next[prefix])
}

var idPrefixes = [KindCount]string{
	Ground:           "GND",
	Resistor:         "R",
	Capacitor:        "C",
	Inductor:         "L",
	RLLoad:           "Z",
	DCSource:         "V",
	ACSource:         "VAC",
	ThreePhaseSource: "V3",
	CurrentSource:    "I",
	Ammeter:          "AM",
	Voltmeter:        "VM",
	Wattmeter:        "WM",
	Diode:            "D",
	Amplifier:        "U",
	Transformer:      "T",
}

// Circuit is the mutable netlist under construction. It is read-only input
// for the duration of one solve call; the solver never mutates it.
type Circuit struct {
	Components []*Component
	Wires      []Wire

	alloc IDAllocator
	byID  map[string]*Component
}

func New() *Circuit {
	return &Circuit{byID: make(map[string]*Component)}
}

// Add places a component of the given kind and returns it. The ID comes
// from the circuit's allocator.
func (c *Circuit) Add(kind Kind, props Props) *Component {
	return c.AddNamed(c.alloc.Next(idPrefixes[kind]), kind, props)
}

// AddNamed places a component under a caller-chosen ID.
func (c *Circuit) AddNamed(id string, kind Kind, props Props) *Component {
	comp := &Component{ID: id, Kind: kind, Props: props}
	c.Components = append(c.Components, comp)
	c.byID[id] = comp
	return comp
}

// Component looks a component up by ID, nil when absent.
func (c *Circuit) Component(id string) *Component {
	return c.byID[id]
}

// Pin is a convenience constructor for a terminal reference.
func Pin(id string, pin int) TerminalRef {
	return TerminalRef{Component: id, Pin: pin}
}

// Connect records a completed wire between two terminals. Endpoints that do
// not name a placed component or a valid pin are rejected.
func (c *Circuit) Connect(a, b TerminalRef) error {
	for _, ref := range []TerminalRef{a, b} {
		comp := c.byID[ref.Component]
		if comp == nil {
			return fmt.Errorf("wire endpoint %s: no such component", ref.Component)
		}
		if ref.Pin < 0 || ref.Pin >= comp.Kind.TerminalCount() {
			return fmt.Errorf("wire endpoint %s.%d: %s has %d terminals",
				ref.Component, ref.Pin, comp.Kind, comp.Kind.TerminalCount())
		}
	}
	c.Wires = append(c.Wires, Wire{A: a, B: b})
	return nil
}

// HasSource reports whether any driving component is present.
func (c *Circuit) HasSource() bool {
	for _, comp := range c.Components {
		if comp.Kind.IsSource() {
			return true
		}
	}
	return false
}

// HasNonlinear reports whether Newton-Raphson iteration is needed.
func (c *Circuit) HasNonlinear() bool {
	for _, comp := range c.Components {
		if comp.Kind.IsNonlinear() {
			return true
		}
	}
	return false
}

// ValidationError is a precondition failure detected before any matrix work.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid circuit: " + e.Reason
}
