package estimation

import (
	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/noc"
)

// stimeLoadFeatureMap brings the input feature map to the cores. If the
// previous layer left it in local memory in a compatible layout, the cores
// only exchange data among themselves. Otherwise, the input is read from
// main memory and scattered.
func (e *Estimation) stimeLoadFeatureMap(
	layerNo int,
	layer cnn.Layer,
	stat *LayerStat,
	activeCores int,
	channelwise bool,
) error {
	eb := e.noc.ElementBytes()
	inputBytes := layer.InputElems() * eb
	distBytes := int64(activeCores) *
		e.perCoreInputElems(layer, stat.OpsPerCore, channelwise) * eb

	resident := e.inputResident(inputBytes, activeCores)

	Trace("FeatureMapLoad",
		"Layer", layerNo,
		"InputBytes", inputBytes,
		"DistributedBytes", distBytes,
		"Resident", resident,
	)

	stat.CommTraffic += distBytes

	if resident {
		return e.charge(stat, noc.Workload{
			Kind:  noc.Exchange,
			Bytes: distBytes,
			Cores: activeCores,
		})
	}

	stat.MainMemoryTrafficLoad += inputBytes

	err := e.charge(stat, noc.Workload{
		Kind:  noc.MainMemoryRead,
		Bytes: inputBytes,
		Cores: activeCores,
	})
	if err != nil {
		return err
	}

	return e.charge(stat, noc.Workload{
		Kind:  noc.Scatter,
		Bytes: distBytes,
		Cores: activeCores,
	})
}

// perCoreInputElems is the part of the input one core reads. A standard
// convolution task needs kernel-high stripes of every input channel, a
// channelwise task only of its own channel. A fully-connected layer
// broadcasts the whole input.
func (e *Estimation) perCoreInputElems(
	layer cnn.Layer,
	opsPerCore int64,
	channelwise bool,
) int64 {
	if layer.Kind == cnn.FullyConnected {
		return layer.InputElems()
	}

	stripe := opsPerCore * int64(layer.KernelH) * int64(layer.InW)
	if !channelwise {
		stripe *= int64(layer.InC)
	}

	return min(layer.InputElems(), stripe)
}

// inputResident tells if the most recent history sample left exactly this
// input in local memory on a core set that maps cleanly onto activeCores. The
// input must also fit local memory when it is spread over activeCores.
func (e *Estimation) inputResident(inputBytes int64, activeCores int) bool {
	if len(e.history) == 0 || activeCores <= 0 {
		return false
	}

	h := e.history[len(e.history)-1]
	if h.ActiveCores <= 0 {
		return false
	}

	if h.PerCoreFMBytes > e.noc.LocalMemoryBytes() {
		return false
	}

	if h.FMBytes != inputBytes {
		return false
	}

	if ceilDiv(inputBytes, int64(activeCores)) > e.noc.LocalMemoryBytes() {
		return false
	}

	return h.ActiveCores%activeCores == 0 || activeCores%h.ActiveCores == 0
}

// stimeLoadWeights reads the weights of the layer from main memory once and
// scatters them. Cores working on the same output channel each need their
// own copy of that channel's kernels. A fully-connected layer has no reuse
// and moves the whole weight set.
func (e *Estimation) stimeLoadWeights(
	layer cnn.Layer,
	stat *LayerStat,
	activeCores int,
) error {
	eb := e.noc.ElementBytes()

	weightBytes := layer.WeightElems() * eb
	if weightBytes == 0 {
		return nil
	}

	var distBytes int64
	switch layer.Kind {
	case cnn.FullyConnected:
		distBytes = weightBytes
	default:
		perChannel := layer.KernelElems()
		if layer.Kind == cnn.Conv {
			perChannel *= int64(layer.InC)
		}

		channelsPerCore := min(stat.OpsPerCore, int64(layer.OutC))
		distBytes = int64(activeCores) * channelsPerCore * perChannel * eb
	}

	stat.MainMemoryTrafficLoad += weightBytes
	stat.CommTraffic += distBytes

	err := e.charge(stat, noc.Workload{
		Kind:  noc.MainMemoryRead,
		Bytes: weightBytes,
		Cores: activeCores,
	})
	if err != nil {
		return err
	}

	return e.charge(stat, noc.Workload{
		Kind:  noc.Scatter,
		Bytes: distBytes,
		Cores: activeCores,
	})
}

// stimeStoreFeatureMap keeps the output in local memory when it fits and
// another layer follows. Otherwise, the output is gathered and written to
// main memory. Either way, the layout of the output is recorded for the
// next layer.
func (e *Estimation) stimeStoreFeatureMap(
	layerNo int,
	layer cnn.Layer,
	stat *LayerStat,
	activeCores int,
) error {
	outputBytes := layer.OutputElems() * e.noc.ElementBytes()
	perCoreBytes := ceilDiv(outputBytes, int64(max(activeCores, 1)))

	lastLayer := layerNo == e.cnn.NumLayers()-1
	spill := lastLayer || perCoreBytes > e.noc.LocalMemoryBytes()

	Trace("FeatureMapStore",
		"Layer", layerNo,
		"OutputBytes", outputBytes,
		"PerCoreBytes", perCoreBytes,
		"Spill", spill,
	)

	e.history = append(e.history, HistorySample{
		ActiveCores:    activeCores,
		FMBytes:        outputBytes,
		PerCoreFMBytes: perCoreBytes,
	})

	if !spill {
		return nil
	}

	stat.MainMemoryTrafficStore += outputBytes
	stat.CommTraffic += outputBytes

	err := e.charge(stat, noc.Workload{
		Kind:  noc.Gather,
		Bytes: outputBytes,
		Cores: activeCores,
	})
	if err != nil {
		return err
	}

	return e.charge(stat, noc.Workload{
		Kind:  noc.MainMemoryWrite,
		Bytes: outputBytes,
		Cores: activeCores,
	})
}
