package noc

import "github.com/sarchlab/akita/v4/sim"

// DefaultConfig returns the parameters of a 4x4 mesh with 16-bit elements.
func DefaultConfig() Config {
	return Config{
		MeshWidth:  4,
		MeshHeight: 4,
		Freq:       1 * sim.GHz,

		ElementBytes:     2,
		LocalMemoryBytes: 64 * 1024,

		FlitBytes:           16,
		HopLatency:          1,
		MainMemoryLatency:   100,
		MainMemoryBandwidth: 32,
		OpsPerCycle:         16,
		MemoryControllers:   1,

		EnergyPerOp:             0.5,
		EnergyPerLocalAccess:    0.2,
		EnergyPerFlitHop:        1.0,
		EnergyPerMainMemoryByte: 20.0,

		RouterLeakage:      0.01,
		CoreLeakage:        0.05,
		LocalMemoryLeakage: 0.02,
		MainMemoryLeakage:  0.5,
	}
}

// Builder can build NoCs.
type Builder struct {
	cfg Config
}

// MakeBuilder creates a builder that starts from DefaultConfig.
func MakeBuilder() Builder {
	return Builder{cfg: DefaultConfig()}
}

// WithConfig replaces all the parameters.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// Config returns the parameters the builder currently holds.
func (b Builder) Config() Config {
	return b.cfg
}

// WithMeshSize sets the width and height of the mesh.
func (b Builder) WithMeshSize(width, height int) Builder {
	b.cfg.MeshWidth = width
	b.cfg.MeshHeight = height

	return b
}

// WithFreq sets the clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.cfg.Freq = freq
	return b
}

// WithElementBytes sets the size of one element.
func (b Builder) WithElementBytes(n int64) Builder {
	b.cfg.ElementBytes = n
	return b
}

// WithLocalMemoryBytes sets the capacity of each core's local memory.
func (b Builder) WithLocalMemoryBytes(n int64) Builder {
	b.cfg.LocalMemoryBytes = n
	return b
}

// WithFlitBytes sets the width of a link.
func (b Builder) WithFlitBytes(n int64) Builder {
	b.cfg.FlitBytes = n
	return b
}

// WithHopLatency sets the number of cycles a flit spends per hop.
func (b Builder) WithHopLatency(cycles int64) Builder {
	b.cfg.HopLatency = cycles
	return b
}

// WithMainMemory sets the access latency in cycles and the bandwidth in
// bytes per cycle of the main memory.
func (b Builder) WithMainMemory(latency, bandwidth int64) Builder {
	b.cfg.MainMemoryLatency = latency
	b.cfg.MainMemoryBandwidth = bandwidth

	return b
}

// WithOpsPerCycle sets the MAC throughput of one core.
func (b Builder) WithOpsPerCycle(n int64) Builder {
	b.cfg.OpsPerCycle = n
	return b
}

// WithMemoryControllers sets the number of main memory controllers.
func (b Builder) WithMemoryControllers(n int) Builder {
	b.cfg.MemoryControllers = n
	return b
}

// WithDynamicEnergy sets the energy per MAC, per local memory access, per
// flit-hop and per main memory byte, in picojoules.
func (b Builder) WithDynamicEnergy(op, localAccess, flitHop, mainMemByte float64) Builder {
	b.cfg.EnergyPerOp = op
	b.cfg.EnergyPerLocalAccess = localAccess
	b.cfg.EnergyPerFlitHop = flitHop
	b.cfg.EnergyPerMainMemoryByte = mainMemByte

	return b
}

// WithLeakage sets the static power of one router, core, local memory and
// memory controller, in picojoules per cycle.
func (b Builder) WithLeakage(p LeakagePowers) Builder {
	b.cfg.RouterLeakage = p.Router
	b.cfg.CoreLeakage = p.Core
	b.cfg.LocalMemoryLeakage = p.LocalMem
	b.cfg.MainMemoryLeakage = p.MainMemory

	return b
}

// Build creates the NoC. It panics if the parameters are not valid.
func (b Builder) Build() *NoC {
	if err := b.cfg.Validate(); err != nil {
		panic(err)
	}

	return &NoC{
		cfg:  b.cfg,
		mesh: Mesh{Width: b.cfg.MeshWidth, Height: b.cfg.MeshHeight},
	}
}
