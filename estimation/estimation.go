// Package estimation estimates the latency and energy of running a CNN on a
// many-core accelerator connected by a network-on-chip.
//
// The estimator walks the layers of the network in order. For each layer it
// decides how many cores take part, prices the loading of the input feature
// map and the weights, the computation and the storing of the output, and
// finally charges the leakage of the whole chip for the time the layer
// takes. The layout a layer leaves its output in is remembered, so that the
// next layer can read its input from local memory instead of main memory.
package estimation

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/noc"
)

var (
	// ErrUnsupportedLayer is returned for layers of unknown kind.
	ErrUnsupportedLayer = errors.New("unsupported layer kind")

	// ErrInfeasible is returned when the NoC cannot provide the cores a
	// layer needs.
	ErrInfeasible = noc.ErrInfeasible
)

// CostModel is what the estimator needs to know about the NoC.
type CostModel interface {
	NumCores() int
	Freq() sim.Freq
	ElementBytes() int64
	LocalMemoryBytes() int64
	Latency(w noc.Workload) (noc.LatencyComponents, error)
	Energy(w noc.Workload) (noc.EnergyComponents, error)
	Leakage() noc.LeakagePowers
	LeakageUnits() noc.LeakageUnits
}

// Estimation runs estimation passes of one network on one NoC. Both are
// read-only; the only state that changes is the history of the running
// pass.
type Estimation struct {
	noc CostModel
	cnn *cnn.CNN

	history []HistorySample
}

// New creates an Estimation.
func New(costModel CostModel, network *cnn.CNN) *Estimation {
	if costModel == nil || network == nil {
		panic("estimation needs both a cost model and a network")
	}

	return &Estimation{
		noc: costModel,
		cnn: network,
	}
}

// Network returns the network being estimated.
func (e *Estimation) Network() *cnn.CNN {
	return e.cnn
}

// CostModel returns the cost model used for the estimation.
func (e *Estimation) CostModel() CostModel {
	return e.noc
}

// History returns a copy of the history samples of the last pass.
func (e *Estimation) History() []HistorySample {
	h := make([]HistorySample, len(e.history))
	copy(h, e.history)

	return h
}

// ResetHistory forgets all the history samples.
func (e *Estimation) ResetHistory() {
	e.history = nil
}

// Stime runs one pass over all the layers and adds one LayerStat per layer
// to stats. It does not reset stats. It stops at the first layer that cannot
// be estimated; the layers before it stay in stats, but the totals no longer
// describe the whole network.
func (e *Estimation) Stime(stats *GlobalStats) error {
	e.ResetHistory()

	for i := 0; i < e.cnn.NumLayers(); i++ {
		layer := e.cnn.Layer(i)

		stat := LayerStat{Name: layer.Name, Kind: layer.Kind}

		err := e.stimeLayer(i, layer, &stat)
		if err != nil {
			Trace("LayerFailed",
				"Network", e.cnn.Name(),
				"Layer", i,
				"Name", layer.Name,
				"Error", err.Error(),
			)

			return fmt.Errorf("layer %d (%s): %w", i, layer.Name, err)
		}

		stats.AddLayerStat(stat)

		Trace("LayerEstimated",
			"Network", e.cnn.Name(),
			"Layer", i,
			"Name", layer.Name,
			"Kind", layer.Kind.Name(),
			"ActiveCores", stat.ActiveCores,
			"OpsPerCore", stat.OpsPerCore,
			"CommLatency", stat.CommLatency,
			"MainMemoryLatency", stat.MainMemoryLatency,
			"CompLatency", stat.CompLatency,
			"DynamicEnergy", stat.Energy().Dynamic(),
			"LeakageEnergy", stat.Energy().Leakage(),
			"Load", stat.MainMemoryTrafficLoad,
			"Store", stat.MainMemoryTrafficStore,
		)
	}

	return nil
}

func (e *Estimation) stimeLayer(
	layerNo int,
	layer cnn.Layer,
	stat *LayerStat,
) error {
	switch layer.Kind {
	case cnn.Conv:
		return e.stimeConv(layerNo, layer, stat, false)
	case cnn.DepthwiseConv:
		return e.stimeConv(layerNo, layer, stat, true)
	case cnn.FullyConnected:
		return e.stimeFC(layerNo, layer, stat)
	case cnn.Pooling:
		return e.stimePool(layerNo, layer, stat)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedLayer, layer.Kind.Name())
	}
}

// charge prices a workload and adds it to the layer.
func (e *Estimation) charge(stat *LayerStat, w noc.Workload) error {
	lc, err := e.noc.Latency(w)
	if err != nil {
		return err
	}

	ec, err := e.noc.Energy(w)
	if err != nil {
		return err
	}

	stat.AddLatencyComponents(lc)
	stat.AddEnergyComponents(ec)

	return nil
}
