package netlist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edacraft/circuitsim/pkg/netlist"
)

func TestResolve_GroupsWiredTerminals(t *testing.T) {
	ckt := netlist.New()
	r1 := ckt.Add(netlist.Resistor, nil)
	r2 := ckt.Add(netlist.Resistor, nil)
	r3 := ckt.Add(netlist.Resistor, nil)

	// r1.1 -- r2.0 and r2.1 -- r3.0 form a chain: two shared nets.
	require.NoError(t, ckt.Connect(netlist.Pin(r1.ID, 1), netlist.Pin(r2.ID, 0)))
	require.NoError(t, ckt.Connect(netlist.Pin(r2.ID, 1), netlist.Pin(r3.ID, 0)))

	nm := ckt.Resolve()
	require.False(t, nm.HasGround)
	require.Equal(t, nm.Net(netlist.Pin(r1.ID, 1)), nm.Net(netlist.Pin(r2.ID, 0)))
	require.Equal(t, nm.Net(netlist.Pin(r2.ID, 1)), nm.Net(netlist.Pin(r3.ID, 0)))
	require.NotEqual(t, nm.Net(netlist.Pin(r1.ID, 1)), nm.Net(netlist.Pin(r2.ID, 1)))

	// Chain of three resistors: 2 shared nets + 2 dangling ends.
	require.Equal(t, 4, nm.NumNets)
}

func TestResolve_GroundForcesWholeNet(t *testing.T) {
	ckt := netlist.New()
	r := ckt.Add(netlist.Resistor, nil)
	g := ckt.Add(netlist.Ground, nil)
	v := ckt.Add(netlist.DCSource, netlist.Props{"voltage": 5})

	require.NoError(t, ckt.Connect(netlist.Pin(r.ID, 1), netlist.Pin(v.ID, 1)))
	require.NoError(t, ckt.Connect(netlist.Pin(v.ID, 1), netlist.Pin(g.ID, 0)))

	nm := ckt.Resolve()
	require.True(t, nm.HasGround)
	// Everything transitively wired to the ground component is net 0.
	require.Equal(t, 0, nm.Net(netlist.Pin(r.ID, 1)))
	require.Equal(t, 0, nm.Net(netlist.Pin(v.ID, 1)))
	require.Equal(t, 0, nm.Net(netlist.Pin(g.ID, 0)))
	// The unwired terminals are singleton nets.
	require.NotEqual(t, 0, nm.Net(netlist.Pin(r.ID, 0)))
	require.NotEqual(t, 0, nm.Net(netlist.Pin(v.ID, 0)))
	require.Equal(t, 2, nm.NumNets)
}

func TestResolve_UnwiredTerminalIsSingleton(t *testing.T) {
	ckt := netlist.New()
	r := ckt.Add(netlist.Resistor, nil)

	nm := ckt.Resolve()
	require.Equal(t, 2, nm.NumNets)
	require.NotEqual(t, nm.Net(netlist.Pin(r.ID, 0)), nm.Net(netlist.Pin(r.ID, 1)))
}

func TestResolve_UnknownTerminal(t *testing.T) {
	ckt := netlist.New()
	nm := ckt.Resolve()
	require.Equal(t, -1, nm.Net(netlist.Pin("nope", 0)))
}

func TestConnect_RejectsBadEndpoints(t *testing.T) {
	ckt := netlist.New()
	r := ckt.Add(netlist.Resistor, nil)

	err := ckt.Connect(netlist.Pin(r.ID, 0), netlist.Pin("missing", 0))
	require.Error(t, err)

	err = ckt.Connect(netlist.Pin(r.ID, 0), netlist.Pin(r.ID, 7))
	require.Error(t, err)
}

func TestAdd_AllocatorAssignsSequentialIDs(t *testing.T) {
	ckt := netlist.New()
	require.Equal(t, "R1", ckt.Add(netlist.Resistor, nil).ID)
	require.Equal(t, "R2", ckt.Add(netlist.Resistor, nil).ID)
	require.Equal(t, "V1", ckt.Add(netlist.DCSource, nil).ID)

	// A second circuit starts over: no shared counter state.
	other := netlist.New()
	require.Equal(t, "R1", other.Add(netlist.Resistor, nil).ID)
}

func TestKind_BranchAndInternalCounts(t *testing.T) {
	require.Equal(t, 1, netlist.DCSource.BranchCount())
	require.Equal(t, 1, netlist.Ammeter.BranchCount())
	require.Equal(t, 1, netlist.Wattmeter.BranchCount())
	require.Equal(t, 1, netlist.Transformer.BranchCount())
	require.Equal(t, 3, netlist.ThreePhaseSource.BranchCount())
	require.Equal(t, 0, netlist.Resistor.BranchCount())
	require.Equal(t, 0, netlist.Inductor.BranchCount())

	require.Equal(t, 1, netlist.Transformer.InternalNetCount())
	require.Equal(t, 1, netlist.Amplifier.InternalNetCount())
	require.Equal(t, 0, netlist.Resistor.InternalNetCount())
}

func TestKindByName_RoundTrip(t *testing.T) {
	for k := netlist.Kind(0); k < netlist.KindCount; k++ {
		got, ok := netlist.KindByName(k.String())
		require.True(t, ok, k.String())
		require.Equal(t, k, got)
	}
	_, ok := netlist.KindByName("flux-capacitor")
	require.False(t, ok)
}
