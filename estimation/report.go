package estimation

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
)

// ShowStats writes a human-readable report of the statistics. It does not
// change stats.
func (e *Estimation) ShowStats(w io.Writer, stats *GlobalStats) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "ESTIMATION REPORT: %s on %d cores\n",
		e.cnn.Name(), e.noc.NumCores())
	fmt.Fprintln(w, separator)

	if len(stats.LayerStats) != e.cnn.NumLayers() {
		fmt.Fprintf(w, "⚠ Only %d of %d layers were estimated; "+
			"totals are incomplete\n",
			len(stats.LayerStats), e.cnn.NumLayers())
	}

	fmt.Fprintln(w, layerTable(stats).Render())
	fmt.Fprintln(w)
	fmt.Fprintln(w, totalTable(stats, e.noc.Freq()).Render())
	fmt.Fprintln(w)
}

// SaveStatsToFile writes the report to a file.
func (e *Estimation) SaveStatsToFile(filename string, stats *GlobalStats) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	e.ShowStats(file, stats)

	return nil
}

func layerTable(stats *GlobalStats) table.Writer {
	t := table.NewWriter()
	t.SetTitle("Per-layer statistics (cycles, pJ, bytes)")
	t.AppendHeader(table.Row{
		"#", "Layer", "Kind", "Cores", "Ops/Core",
		"Comm", "MMem", "Comp",
		"Dyn. Energy", "Leak. Energy",
		"Load", "Store", "NoC",
	})

	for i, ls := range stats.LayerStats {
		energy := ls.Energy()
		t.AppendRow(table.Row{
			i, ls.Name, ls.Kind.Name(), ls.ActiveCores, ls.OpsPerCore,
			ls.CommLatency, ls.MainMemoryLatency, ls.CompLatency,
			fmt.Sprintf("%.2f", energy.Dynamic()),
			fmt.Sprintf("%.2f", energy.Leakage()),
			ls.MainMemoryTrafficLoad, ls.MainMemoryTrafficStore,
			ls.CommTraffic,
		})
	}

	return t
}

func totalTable(stats *GlobalStats, freq sim.Freq) table.Writer {
	t := table.NewWriter()
	t.SetTitle("Totals")
	t.AppendHeader(table.Row{"Domain", "Latency", "Energy", "Leakage"})

	t.AppendRows([]table.Row{
		{"Communication", stats.TotalCommLatency,
			fmt.Sprintf("%.2f", stats.TotalCommEnergy),
			fmt.Sprintf("%.2f", stats.TotalCommEnergyLeakage)},
		{"Main memory", stats.TotalMainMemoryLatency,
			fmt.Sprintf("%.2f", stats.TotalMainMemoryEnergy),
			fmt.Sprintf("%.2f", stats.TotalMainMemoryEnergyLeakage)},
		{"Compute", stats.TotalCompLatency,
			fmt.Sprintf("%.2f", stats.TotalCompEnergy),
			fmt.Sprintf("%.2f", stats.TotalCompEnergyLeakage)},
		{"Local memory", "-",
			fmt.Sprintf("%.2f", stats.TotalLocalMemEnergy),
			fmt.Sprintf("%.2f", stats.TotalLocalMemEnergyLeakage)},
	})
	t.AppendSeparator()

	cycles := stats.TotalLatency()
	t.AppendRow(table.Row{"Pass",
		fmt.Sprintf("%d (%.3e s)", cycles, CyclesToSeconds(cycles, freq)),
		fmt.Sprintf("%.2f", stats.TotalDynamicEnergy()),
		fmt.Sprintf("%.2f", stats.TotalLeakageEnergy())})
	t.AppendFooter(table.Row{"Traffic",
		fmt.Sprintf("load %d B", stats.TotalMainMemoryTrafficLoad),
		fmt.Sprintf("store %d B", stats.TotalMainMemoryTrafficStore),
		fmt.Sprintf("NoC %d B", stats.TotalCommTraffic)})

	return t
}

// CyclesToSeconds converts a latency in cycles to seconds at the given
// frequency.
func CyclesToSeconds(cycles int64, freq sim.Freq) float64 {
	return float64(sim.VTimeInSec(cycles) * freq.Period())
}
