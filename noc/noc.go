// Package noc provides the cost primitives of a many-core accelerator whose
// cores are connected by a mesh network-on-chip.
package noc

import (
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInfeasible is returned when a workload asks for cores the NoC
	// cannot provide.
	ErrInfeasible = errors.New("infeasible resource request")

	// ErrUnknownWorkload is returned for workloads the model cannot price.
	ErrUnknownWorkload = errors.New("unknown workload")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid NoC configuration")
)

// Config holds every parameter of the cost model.
type Config struct {
	MeshWidth  int      `yaml:"mesh_width"`
	MeshHeight int      `yaml:"mesh_height"`
	Freq       sim.Freq `yaml:"freq_hz"`

	ElementBytes     int64 `yaml:"element_bytes"`
	LocalMemoryBytes int64 `yaml:"local_memory_bytes"`

	FlitBytes           int64 `yaml:"flit_bytes"`
	HopLatency          int64 `yaml:"hop_latency"`
	MainMemoryLatency   int64 `yaml:"main_memory_latency"`
	MainMemoryBandwidth int64 `yaml:"main_memory_bandwidth"`
	OpsPerCycle         int64 `yaml:"ops_per_cycle"`
	MemoryControllers   int   `yaml:"memory_controllers"`

	EnergyPerOp             float64 `yaml:"energy_per_op"`
	EnergyPerLocalAccess    float64 `yaml:"energy_per_local_access"`
	EnergyPerFlitHop        float64 `yaml:"energy_per_flit_hop"`
	EnergyPerMainMemoryByte float64 `yaml:"energy_per_main_memory_byte"`

	RouterLeakage      float64 `yaml:"router_leakage"`
	CoreLeakage        float64 `yaml:"core_leakage"`
	LocalMemoryLeakage float64 `yaml:"local_memory_leakage"`
	MainMemoryLeakage  float64 `yaml:"main_memory_leakage"`
}

// Validate checks that the configuration describes a usable NoC. A mesh with
// no cores is allowed; the estimator reports it as infeasible when work is
// assigned to it.
func (c Config) Validate() error {
	switch {
	case c.MeshWidth < 0 || c.MeshHeight < 0:
		return fmt.Errorf("%w: mesh %dx%d", ErrInvalidConfig,
			c.MeshWidth, c.MeshHeight)
	case c.Freq <= 0:
		return fmt.Errorf("%w: frequency %v", ErrInvalidConfig, c.Freq)
	case c.ElementBytes <= 0:
		return fmt.Errorf("%w: element size %d", ErrInvalidConfig,
			c.ElementBytes)
	case c.FlitBytes <= 0:
		return fmt.Errorf("%w: flit size %d", ErrInvalidConfig, c.FlitBytes)
	case c.MainMemoryBandwidth <= 0:
		return fmt.Errorf("%w: main memory bandwidth %d", ErrInvalidConfig,
			c.MainMemoryBandwidth)
	case c.OpsPerCycle <= 0:
		return fmt.Errorf("%w: %d ops per cycle", ErrInvalidConfig,
			c.OpsPerCycle)
	case c.MemoryControllers <= 0:
		return fmt.Errorf("%w: %d memory controllers", ErrInvalidConfig,
			c.MemoryControllers)
	case c.LocalMemoryBytes < 0 || c.HopLatency < 0 ||
		c.MainMemoryLatency < 0:
		return fmt.Errorf("%w: negative capacity or latency", ErrInvalidConfig)
	}

	return nil
}

// LoadConfig reads a NoC configuration from a YAML file. Fields that are not
// present keep the values of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read NoC config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML NoC configuration on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse NoC config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// A NoC is a read-only cost model. It never changes after it is built, so
// it can be shared by any number of estimations.
type NoC struct {
	cfg  Config
	mesh Mesh
}

// Config returns the parameters of the NoC.
func (n *NoC) Config() Config {
	return n.cfg
}

// Mesh returns the topology of the NoC.
func (n *NoC) Mesh() Mesh {
	return n.mesh
}

// NumCores returns the total number of cores.
func (n *NoC) NumCores() int {
	return n.mesh.NumTiles()
}

// Freq returns the clock frequency of the NoC.
func (n *NoC) Freq() sim.Freq {
	return n.cfg.Freq
}

// ElementBytes returns the size of one feature-map or weight element.
func (n *NoC) ElementBytes() int64 {
	return n.cfg.ElementBytes
}

// LocalMemoryBytes returns the capacity of the local memory of one core.
func (n *NoC) LocalMemoryBytes() int64 {
	return n.cfg.LocalMemoryBytes
}

// Leakage returns the static power of one unit of each domain.
func (n *NoC) Leakage() LeakagePowers {
	return LeakagePowers{
		Router:     n.cfg.RouterLeakage,
		Core:       n.cfg.CoreLeakage,
		LocalMem:   n.cfg.LocalMemoryLeakage,
		MainMemory: n.cfg.MainMemoryLeakage,
	}
}

// LeakageUnits returns how many units of each domain leak.
func (n *NoC) LeakageUnits() LeakageUnits {
	return LeakageUnits{
		Routers:           n.NumCores(),
		Cores:             n.NumCores(),
		LocalMems:         n.NumCores(),
		MemoryControllers: n.cfg.MemoryControllers,
	}
}

// Latency returns the latency of a workload.
func (n *NoC) Latency(w Workload) (LatencyComponents, error) {
	if err := n.mustBeFeasible(w); err != nil {
		return LatencyComponents{}, err
	}

	if w.empty() {
		return LatencyComponents{}, nil
	}

	switch w.Kind {
	case Compute:
		return LatencyComponents{
			Comp: ceilDiv(w.OpsPerCore, n.cfg.OpsPerCycle),
		}, nil
	case Scatter, Gather:
		hops := int64(n.mesh.MaxHops(w.Cores))
		return LatencyComponents{
			Comm: hops*n.cfg.HopLatency + n.flits(w.Bytes),
		}, nil
	case Exchange:
		return LatencyComponents{
			Comm: n.cfg.HopLatency + ceilDiv(n.flits(w.Bytes), int64(w.Cores)),
		}, nil
	case MainMemoryRead, MainMemoryWrite:
		return LatencyComponents{
			MainMemory: n.cfg.MainMemoryLatency +
				ceilDiv(w.Bytes, n.cfg.MainMemoryBandwidth),
		}, nil
	}

	return LatencyComponents{}, fmt.Errorf("%w: %s", ErrUnknownWorkload,
		w.Kind.Name())
}

// Energy returns the dynamic energy of a workload. Leakage is not part of
// any workload; see Leakage.
func (n *NoC) Energy(w Workload) (EnergyComponents, error) {
	if err := n.mustBeFeasible(w); err != nil {
		return EnergyComponents{}, err
	}

	if w.empty() {
		return EnergyComponents{}, nil
	}

	switch w.Kind {
	case Compute:
		return EnergyComponents{
			Comp:     float64(w.TotalOps) * n.cfg.EnergyPerOp,
			LocalMem: float64(w.TotalOps) * n.cfg.EnergyPerLocalAccess,
		}, nil
	case Scatter, Gather:
		return EnergyComponents{
			Comm: float64(n.flits(w.Bytes)) * n.mesh.AverageHops(w.Cores) *
				n.cfg.EnergyPerFlitHop,
		}, nil
	case Exchange:
		return EnergyComponents{
			Comm: float64(n.flits(w.Bytes)) * n.cfg.EnergyPerFlitHop,
		}, nil
	case MainMemoryRead, MainMemoryWrite:
		return EnergyComponents{
			MainMemory: float64(w.Bytes) * n.cfg.EnergyPerMainMemoryByte,
		}, nil
	}

	return EnergyComponents{}, fmt.Errorf("%w: %s", ErrUnknownWorkload,
		w.Kind.Name())
}

func (n *NoC) mustBeFeasible(w Workload) error {
	if w.empty() {
		return nil
	}

	if w.Cores <= 0 || w.Cores > n.NumCores() {
		return fmt.Errorf("%w: %s on %d of %d cores",
			ErrInfeasible, w.Kind.Name(), w.Cores, n.NumCores())
	}

	return nil
}

func (n *NoC) flits(bytes int64) int64 {
	return ceilDiv(bytes, n.cfg.FlitBytes)
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}

	return (a + b - 1) / b
}
