package util_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edacraft/circuitsim/pkg/util"
)

func TestFormatValueFactor(t *testing.T) {
	require.Equal(t, "5.000 V", util.FormatValueFactor(5, "V"))
	require.Equal(t, "5.000 mA", util.FormatValueFactor(5e-3, "A"))
	require.Equal(t, "4.966 uV", util.FormatValueFactor(4.966e-6, "V"))
	require.Equal(t, "100.000 ns", util.FormatValueFactor(100e-9, "s"))
	require.Equal(t, "1.000 pF", util.FormatValueFactor(1e-12, "F"))
	require.Equal(t, "0.000e+00 V", util.FormatValueFactor(0, "V"))
	require.Equal(t, "-5.000 mA", util.FormatValueFactor(-5e-3, "A"))
}

func TestFormatFrequency(t *testing.T) {
	require.Equal(t, " 50.000 Hz ", util.FormatFrequency(50))
	require.Equal(t, "  1.000 kHz", util.FormatFrequency(1000))
	require.Equal(t, "  2.500 MHz", util.FormatFrequency(2.5e6))
}

func TestClamp(t *testing.T) {
	require.Equal(t, 12.0, util.Clamp(100.0, -12, 12))
	require.Equal(t, -12.0, util.Clamp(-100.0, -12, 12))
	require.Equal(t, 3.5, util.Clamp(3.5, -12, 12))
}
