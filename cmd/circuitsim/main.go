// Command circuitsim runs one analysis over a text netlist deck and prints
// the results; transient runs can additionally be plotted to a PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/edacraft/circuitsim/pkg/analysis"
	"github.com/edacraft/circuitsim/pkg/util"
)

func main() {
	deckPath := flag.String("i", "", "netlist deck file")
	mode := flag.String("a", "dc", "analysis: dc, ac, tran")
	freq := flag.Float64("f", 50, "AC frequency (Hz)")
	stop := flag.Float64("t", 1e-3, "transient stop time (s)")
	step := flag.Float64("s", 1e-6, "transient time step (s)")
	plotPath := flag.String("plot", "", "write transient waveforms to this PNG")
	flag.Parse()

	if *deckPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*deckPath)
	if err != nil {
		log.Fatalf("opening deck: %v", err)
	}
	defer f.Close()

	ckt, err := ParseDeck(f)
	if err != nil {
		log.Fatalf("parsing deck: %v", err)
	}

	switch *mode {
	case "dc":
		res, err := analysis.NewDC().Run(ckt)
		if err != nil {
			log.Fatalf("dc analysis: %v", err)
		}
		printDC(res)
	case "ac":
		res, err := analysis.NewAC().Run(ckt, *freq)
		if err != nil {
			log.Fatalf("ac analysis: %v", err)
		}
		printAC(res)
	case "tran":
		res, err := analysis.NewTransient(*stop, *step).Run(ckt)
		if err != nil {
			log.Fatalf("transient analysis: %v", err)
		}
		printTran(res)
		if *plotPath != "" {
			if err := plotTran(res, *plotPath); err != nil {
				log.Fatalf("plotting: %v", err)
			}
			fmt.Printf("waveforms written to %s\n", *plotPath)
		}
	default:
		log.Fatalf("unknown analysis %q", *mode)
	}
}

func printDC(res *analysis.Result) {
	fmt.Println("DC Operating Point")
	fmt.Println("==================")
	if !res.Converged {
		fmt.Printf("warning: did not fully converge in %d iterations\n", res.Iterations)
	}
	for _, n := range sortedNets(res.NodeVoltages) {
		fmt.Printf("  V(net%d) = %s\n", n, util.FormatValueFactor(res.NodeVoltages[n], "V"))
	}
	for _, id := range sortedIDs(res.BranchCurrents) {
		fmt.Printf("  I(%s) = %s\n", id, util.FormatValueFactor(res.BranchCurrents[id], "A"))
	}
	for _, id := range sortedIDs(res.Readings) {
		fmt.Printf("  reading(%s) = %g\n", id, res.Readings[id])
	}
}

func printAC(res *analysis.ACResult) {
	fmt.Printf("AC Analysis at %s\n", util.FormatFrequency(res.Frequency))
	fmt.Println("==================")
	for _, n := range sortedNets(res.NodeVoltages) {
		name := fmt.Sprintf("V(net%d)", n)
		fmt.Printf("  %s\n", util.FormatMagnitudePhase(name, res.Magnitude(n), res.PhaseDeg(n)))
	}
}

func printTran(res *analysis.TranResult) {
	fmt.Printf("Transient Analysis: %d points\n", len(res.Times))
	fmt.Println("==================")
	if !res.Converged {
		fmt.Println("warning: some steps did not fully converge")
	}
	if len(res.Times) == 0 {
		return
	}
	last := len(res.Times) - 1
	fmt.Printf("at t = %s:\n", util.FormatValueFactor(res.Times[last], "s"))
	for _, n := range sortedNets(res.NodeVoltages) {
		fmt.Printf("  V(net%d) = %s\n", n, util.FormatValueFactor(res.NodeVoltages[n][last], "V"))
	}
}

func plotTran(res *analysis.TranResult, path string) error {
	p := plot.New()
	p.Title.Text = "Transient response"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "V"

	for _, n := range sortedNets(res.NodeVoltages) {
		series := res.NodeVoltages[n]
		pts := make(plotter.XYs, len(series))
		for i := range series {
			pts[i].X = res.Times[i]
			pts[i].Y = series[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("net%d", n), line)
	}

	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}

func sortedNets[V any](m map[int]V) []int {
	nets := make([]int, 0, len(m))
	for n := range m {
		nets = append(nets, n)
	}
	sort.Ints(nets)
	return nets
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
