package estimation

import (
	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/noc"
)

// LayerStat holds the latency, energy and traffic of one layer. Latencies
// are in cycles, energies in picojoules and traffic in bytes.
type LayerStat struct {
	Name string
	Kind cnn.LayerKind

	CommLatency       int64
	CompLatency       int64
	MainMemoryLatency int64

	CommEnergy       float64
	CompEnergy       float64
	LocalMemEnergy   float64
	MainMemoryEnergy float64

	LocalMemEnergyLeakage   float64
	MainMemoryEnergyLeakage float64
	CommEnergyLeakage       float64
	CompEnergyLeakage       float64

	ActiveCores int
	OpsPerCore  int64

	MainMemoryTrafficLoad  int64
	MainMemoryTrafficStore int64
	CommTraffic            int64
}

// Reset zeroes all the numeric fields. The labels are kept.
func (s *LayerStat) Reset() {
	*s = LayerStat{Name: s.Name, Kind: s.Kind}
}

// AddLatencyComponents adds the three latency domains.
func (s *LayerStat) AddLatencyComponents(lc noc.LatencyComponents) {
	s.CommLatency += lc.Comm
	s.MainMemoryLatency += lc.MainMemory
	s.CompLatency += lc.Comp
}

// AddEnergyComponents adds the four dynamic and the four leakage domains.
func (s *LayerStat) AddEnergyComponents(ec noc.EnergyComponents) {
	s.CommEnergy += ec.Comm
	s.CompEnergy += ec.Comp
	s.LocalMemEnergy += ec.LocalMem
	s.MainMemoryEnergy += ec.MainMemory

	s.LocalMemEnergyLeakage += ec.LocalMemLeakage
	s.MainMemoryEnergyLeakage += ec.MainMemoryLeakage
	s.CommEnergyLeakage += ec.CommLeakage
	s.CompEnergyLeakage += ec.CompLeakage
}

// Latency returns the latency of the layer by domain.
func (s LayerStat) Latency() noc.LatencyComponents {
	return noc.LatencyComponents{
		Comm:       s.CommLatency,
		MainMemory: s.MainMemoryLatency,
		Comp:       s.CompLatency,
	}
}

// Energy returns the energy of the layer by domain.
func (s LayerStat) Energy() noc.EnergyComponents {
	return noc.EnergyComponents{
		Comm:              s.CommEnergy,
		Comp:              s.CompEnergy,
		LocalMem:          s.LocalMemEnergy,
		MainMemory:        s.MainMemoryEnergy,
		CommLeakage:       s.CommEnergyLeakage,
		CompLeakage:       s.CompEnergyLeakage,
		LocalMemLeakage:   s.LocalMemEnergyLeakage,
		MainMemoryLeakage: s.MainMemoryEnergyLeakage,
	}
}

// GlobalStats accumulates the statistics of all the layers of a pass. Every
// total equals the sum of the same field over LayerStats.
type GlobalStats struct {
	TotalCommLatency       int64
	TotalCompLatency       int64
	TotalMainMemoryLatency int64

	TotalCommEnergy       float64
	TotalCompEnergy       float64
	TotalMainMemoryEnergy float64
	TotalLocalMemEnergy   float64

	TotalMainMemoryEnergyLeakage float64
	TotalLocalMemEnergyLeakage   float64
	TotalCommEnergyLeakage       float64
	TotalCompEnergyLeakage       float64

	TotalMainMemoryTrafficLoad  int64
	TotalMainMemoryTrafficStore int64
	TotalCommTraffic            int64

	LayerStats []LayerStat
}

// Reset zeroes all the totals and forgets the layers.
func (g *GlobalStats) Reset() {
	*g = GlobalStats{}
}

// AddLayerStat appends a finished layer and adds it to the totals.
func (g *GlobalStats) AddLayerStat(ls LayerStat) {
	g.LayerStats = append(g.LayerStats, ls)

	g.TotalCommLatency += ls.CommLatency
	g.TotalCompLatency += ls.CompLatency
	g.TotalMainMemoryLatency += ls.MainMemoryLatency

	g.TotalCommEnergy += ls.CommEnergy
	g.TotalCompEnergy += ls.CompEnergy
	g.TotalMainMemoryEnergy += ls.MainMemoryEnergy
	g.TotalLocalMemEnergy += ls.LocalMemEnergy

	g.TotalMainMemoryEnergyLeakage += ls.MainMemoryEnergyLeakage
	g.TotalLocalMemEnergyLeakage += ls.LocalMemEnergyLeakage
	g.TotalCommEnergyLeakage += ls.CommEnergyLeakage
	g.TotalCompEnergyLeakage += ls.CompEnergyLeakage

	g.TotalMainMemoryTrafficLoad += ls.MainMemoryTrafficLoad
	g.TotalMainMemoryTrafficStore += ls.MainMemoryTrafficStore
	g.TotalCommTraffic += ls.CommTraffic
}

// TotalLatency returns the wall-clock latency of the pass. Within a layer
// the domains overlap, so each layer contributes its longest domain.
func (g *GlobalStats) TotalLatency() int64 {
	var total int64
	for _, ls := range g.LayerStats {
		total += ls.Latency().Max()
	}

	return total
}

// TotalEnergy returns the sum of the dynamic and leakage energy of all
// domains.
func (g *GlobalStats) TotalEnergy() float64 {
	return g.TotalDynamicEnergy() + g.TotalLeakageEnergy()
}

// TotalDynamicEnergy returns the dynamic energy of all domains.
func (g *GlobalStats) TotalDynamicEnergy() float64 {
	return g.TotalCommEnergy + g.TotalCompEnergy + g.TotalLocalMemEnergy +
		g.TotalMainMemoryEnergy
}

// TotalLeakageEnergy returns the leakage energy of all domains.
func (g *GlobalStats) TotalLeakageEnergy() float64 {
	return g.TotalCommEnergyLeakage + g.TotalCompEnergyLeakage +
		g.TotalLocalMemEnergyLeakage + g.TotalMainMemoryEnergyLeakage
}

// HistorySample records how a past layer left its output: on how many cores,
// how many bytes in total and how many bytes per core.
type HistorySample struct {
	ActiveCores    int
	FMBytes        int64
	PerCoreFMBytes int64
}
