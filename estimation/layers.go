package estimation

import (
	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/noc"
)

// stimeConv estimates a standard or a depthwise convolution. A task produces
// one output row of one output channel.
func (e *Estimation) stimeConv(
	layerNo int,
	layer cnn.Layer,
	stat *LayerStat,
	depthwise bool,
) error {
	tasks := int64(layer.OutC) * int64(layer.OutH)

	macsPerTask := int64(layer.OutW) * layer.KernelElems()
	if !depthwise {
		macsPerTask *= int64(layer.InC)
	}

	return e.stimeLayerSequence(layerNo, layer, stat, tasks, macsPerTask,
		depthwise)
}

// stimeFC estimates a fully-connected layer. A task is the reduction of one
// output neuron over the whole input.
func (e *Estimation) stimeFC(
	layerNo int,
	layer cnn.Layer,
	stat *LayerStat,
) error {
	tasks := int64(layer.OutC)
	macsPerTask := layer.InputElems()

	return e.stimeLayerSequence(layerNo, layer, stat, tasks, macsPerTask,
		false)
}

// stimePool estimates a pooling layer. It has no weights and each task
// reduces the windows of one output row of one channel.
func (e *Estimation) stimePool(
	layerNo int,
	layer cnn.Layer,
	stat *LayerStat,
) error {
	tasks := int64(layer.OutC) * int64(layer.OutH)
	macsPerTask := int64(layer.OutW) * layer.KernelElems()

	return e.stimeLayerSequence(layerNo, layer, stat, tasks, macsPerTask,
		true)
}

// stimeLayerSequence runs load, compute, store and leakage for a layer whose
// work is split into tasks of macsPerTask operations each. With channelwise
// set, a task only reads the input channel it produces.
func (e *Estimation) stimeLayerSequence(
	layerNo int,
	layer cnn.Layer,
	stat *LayerStat,
	tasks, macsPerTask int64,
	channelwise bool,
) error {
	activeCores, opsPerCore, err := e.RequiredCores(tasks)
	if err != nil {
		return err
	}

	stat.ActiveCores = activeCores
	stat.OpsPerCore = opsPerCore

	err = e.stimeLoadFeatureMap(layerNo, layer, stat, activeCores, channelwise)
	if err != nil {
		return err
	}

	err = e.stimeLoadWeights(layer, stat, activeCores)
	if err != nil {
		return err
	}

	err = e.charge(stat, noc.Workload{
		Kind:       noc.Compute,
		OpsPerCore: opsPerCore * macsPerTask,
		TotalOps:   layer.MACs(),
		Cores:      activeCores,
	})
	if err != nil {
		return err
	}

	err = e.stimeStoreFeatureMap(layerNo, layer, stat, activeCores)
	if err != nil {
		return err
	}

	e.stimeLeakage(stat)

	return nil
}
