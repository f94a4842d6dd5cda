package explore

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/nocperf/estimation"
)

// ShowResults writes the ranked results as a table.
func ShowResults(w io.Writer, results []Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Design space")
	t.AppendHeader(table.Row{
		"Rank", "Variant", "Cores", "Latency", "Time (s)",
		"Dyn. Energy", "Leak. Energy", "Load", "Store", "Status",
	})

	for i, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}

		var seconds float64
		if r.Estimation != nil {
			seconds = estimation.CyclesToSeconds(r.Stats.TotalLatency(),
				r.Estimation.CostModel().Freq())
		}

		t.AppendRow(table.Row{
			i + 1, r.Label(), r.MeshWidth * r.MeshHeight,
			r.Stats.TotalLatency(), fmt.Sprintf("%.3e", seconds),
			fmt.Sprintf("%.2f", r.Stats.TotalDynamicEnergy()),
			fmt.Sprintf("%.2f", r.Stats.TotalLeakageEnergy()),
			r.Stats.TotalMainMemoryTrafficLoad,
			r.Stats.TotalMainMemoryTrafficStore,
			status,
		})
	}

	t.Render()
}
