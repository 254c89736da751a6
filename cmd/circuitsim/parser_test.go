package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edacraft/circuitsim/pkg/analysis"
	"github.com/edacraft/circuitsim/pkg/netlist"
)

const sampleDeck = `
* simple divider
dcsource V1 voltage=5
resistor R1 resistance=1k
resistor R2 resistance=1k
ground G0
wire V1.0 R1.0
wire R1.1 R2.0
wire R2.1 G0.0
wire V1.1 G0.0
`

func TestParseDeck_BuildsSolvableCircuit(t *testing.T) {
	ckt, err := ParseDeck(strings.NewReader(sampleDeck))
	require.NoError(t, err)
	require.Len(t, ckt.Components, 4)
	require.Len(t, ckt.Wires, 4)

	mid := ckt.Resolve().Net(netlist.Pin("R2", 0))
	res, err := analysis.NewDC().Run(ckt)
	require.NoError(t, err)
	require.InDelta(t, 2.5, res.NodeVoltages[mid], 1e-6)
}

func TestParseDeck_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown kind":  "warpdrive W1 power=11",
		"missing id":    "resistor",
		"bad key=value": "resistor R1 resistance",
		"bad wire":      "wire R1.0",
		"bad terminal":  "resistor R1\nwire R1.0 R1-1",
		"bad value":     "resistor R1 resistance=abc",
	}
	for name, deck := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDeck(strings.NewReader(deck))
			require.Error(t, err)
		})
	}
}

func TestParseValue_Suffixes(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1k", 1e3},
		{"2.2meg", 2.2e6},
		{"100n", 100e-9},
		{"47u", 47e-6},
		{"10m", 10e-3},
		{"3p", 3e-12},
		{"1.5", 1.5},
		{"-5", -5},
	}
	for _, tc := range cases {
		got, err := parseValue(tc.in)
		require.NoError(t, err, tc.in)
		require.InEpsilon(t, tc.want, got, 1e-12, tc.in)
	}
}

func TestParseDeck_SkipsCommentsAndBlank(t *testing.T) {
	ckt, err := ParseDeck(strings.NewReader("* a comment\n\n# another\nground G0\n"))
	require.NoError(t, err)
	require.Len(t, ckt.Components, 1)
}
