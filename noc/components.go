package noc

// LatencyComponents is the latency of one operation or traffic event, split
// by domain. All fields are in NoC clock cycles.
type LatencyComponents struct {
	Comm       int64
	MainMemory int64
	Comp       int64
}

// Add returns the elementwise sum.
func (l LatencyComponents) Add(o LatencyComponents) LatencyComponents {
	return LatencyComponents{
		Comm:       l.Comm + o.Comm,
		MainMemory: l.MainMemory + o.MainMemory,
		Comp:       l.Comp + o.Comp,
	}
}

// Max returns the longest of the three domains.
func (l LatencyComponents) Max() int64 {
	m := l.Comm
	if l.MainMemory > m {
		m = l.MainMemory
	}

	if l.Comp > m {
		m = l.Comp
	}

	return m
}

// EnergyComponents is the energy of one operation or traffic event, split by
// domain. All fields are in picojoules.
type EnergyComponents struct {
	Comm       float64
	Comp       float64
	LocalMem   float64
	MainMemory float64

	CommLeakage       float64
	CompLeakage       float64
	LocalMemLeakage   float64
	MainMemoryLeakage float64
}

// Add returns the elementwise sum.
func (e EnergyComponents) Add(o EnergyComponents) EnergyComponents {
	return EnergyComponents{
		Comm:       e.Comm + o.Comm,
		Comp:       e.Comp + o.Comp,
		LocalMem:   e.LocalMem + o.LocalMem,
		MainMemory: e.MainMemory + o.MainMemory,

		CommLeakage:       e.CommLeakage + o.CommLeakage,
		CompLeakage:       e.CompLeakage + o.CompLeakage,
		LocalMemLeakage:   e.LocalMemLeakage + o.LocalMemLeakage,
		MainMemoryLeakage: e.MainMemoryLeakage + o.MainMemoryLeakage,
	}
}

// Dynamic returns the sum of the four dynamic domains.
func (e EnergyComponents) Dynamic() float64 {
	return e.Comm + e.Comp + e.LocalMem + e.MainMemory
}

// Leakage returns the sum of the four leakage domains.
func (e EnergyComponents) Leakage() float64 {
	return e.CommLeakage + e.CompLeakage + e.LocalMemLeakage +
		e.MainMemoryLeakage
}

// WorkloadKind tells what a workload does.
type WorkloadKind int

// The kinds of workloads the cost model can price.
const (
	UnknownWorkload WorkloadKind = iota
	Compute
	Scatter
	Gather
	Exchange
	MainMemoryRead
	MainMemoryWrite
)

// Name returns the name of the workload kind.
func (k WorkloadKind) Name() string {
	switch k {
	case Compute:
		return "Compute"
	case Scatter:
		return "Scatter"
	case Gather:
		return "Gather"
	case Exchange:
		return "Exchange"
	case MainMemoryRead:
		return "MainMemoryRead"
	case MainMemoryWrite:
		return "MainMemoryWrite"
	default:
		return "Unknown"
	}
}

// A Workload describes a piece of work or traffic that runs on a set of
// active cores.
type Workload struct {
	Kind WorkloadKind

	// Bytes moved, for traffic workloads.
	Bytes int64

	// OpsPerCore is the number of MACs the busiest core performs.
	OpsPerCore int64

	// TotalOps is the number of MACs performed by all the cores.
	TotalOps int64

	// Cores is the number of active cores.
	Cores int
}

func (w Workload) empty() bool {
	if w.Kind == Compute {
		return w.OpsPerCore == 0 && w.TotalOps == 0
	}

	return w.Bytes == 0
}

// LeakagePowers are the static power of one leaking unit of each domain, in
// picojoules per cycle.
type LeakagePowers struct {
	Router     float64
	Core       float64
	LocalMem   float64
	MainMemory float64
}

// LeakageUnits are the number of leaking units of each domain. Idle units
// leak as well as active ones.
type LeakageUnits struct {
	Routers           int
	Cores             int
	LocalMems         int
	MemoryControllers int
}
