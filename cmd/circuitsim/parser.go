package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/edacraft/circuitsim/pkg/netlist"
)

// ParseDeck reads the small text deck format:
//
//	* comment
//	resistor R1 resistance=1k
//	dcsource V1 voltage=5
//	ground G0
//	wire V1.0 R1.0
//	wire R1.1 G0.0
//
// Component lines are "kind id key=value...", wire lines join two
// terminals addressed as id.pin.
func ParseDeck(r io.Reader) (*netlist.Circuit, error) {
	ckt := netlist.New()
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if fields[0] == "wire" {
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: wire needs two endpoints", lineNo)
			}
			a, err := parseTerminal(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			b, err := parseTerminal(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			if err := ckt.Connect(a, b); err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			continue
		}

		kind, ok := netlist.KindByName(fields[0])
		if !ok {
			return nil, fmt.Errorf("line %d: unknown component kind %q", lineNo, fields[0])
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: missing component id", lineNo)
		}

		props := netlist.Props{}
		for _, kv := range fields[2:] {
			key, val, found := strings.Cut(kv, "=")
			if !found {
				return nil, fmt.Errorf("line %d: expected key=value, got %q", lineNo, kv)
			}
			v, err := parseValue(val)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %v", lineNo, key, err)
			}
			props[key] = v
		}
		ckt.AddNamed(fields[1], kind, props)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ckt, nil
}

func parseTerminal(s string) (netlist.TerminalRef, error) {
	id, pinStr, found := strings.Cut(s, ".")
	if !found {
		return netlist.TerminalRef{}, fmt.Errorf("terminal %q: expected id.pin", s)
	}
	pin, err := strconv.Atoi(pinStr)
	if err != nil {
		return netlist.TerminalRef{}, fmt.Errorf("terminal %q: bad pin: %v", s, err)
	}
	return netlist.Pin(id, pin), nil
}

// SPICE-style engineering suffixes: 1k, 100n, 2.2meg, ...
var valueSuffixes = []struct {
	suffix string
	factor float64
}{
	{"meg", 1e6},
	{"t", 1e12},
	{"g", 1e9},
	{"k", 1e3},
	{"m", 1e-3},
	{"u", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
	{"f", 1e-15},
}

func parseValue(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	factor := 1.0
	for _, vs := range valueSuffixes {
		if strings.HasSuffix(s, vs.suffix) {
			factor = vs.factor
			s = strings.TrimSuffix(s, vs.suffix)
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q", s)
	}
	return v * factor, nil
}
