package estimation

import (
	"fmt"

	"github.com/sarchlab/nocperf/noc"
)

// RequiredCores spreads taskCount equally-sized tasks over the cores of the
// NoC. With no more tasks than cores, each task gets its own core.
// Otherwise, all the cores are used and each runs ceil(taskCount/cores)
// tasks.
func (e *Estimation) RequiredCores(taskCount int64) (
	activeCores int,
	opsPerCore int64,
	err error,
) {
	if taskCount <= 0 {
		return 0, 0, nil
	}

	totalCores := e.noc.NumCores()
	if totalCores <= 0 {
		return 0, 0, fmt.Errorf("%w: %d tasks on %d cores",
			ErrInfeasible, taskCount, totalCores)
	}

	if taskCount <= int64(totalCores) {
		return int(taskCount), 1, nil
	}

	return totalCores, ceilDiv(taskCount, int64(totalCores)), nil
}

// stimeLeakage charges the static energy of the whole chip for as long as
// the layer takes. The domains overlap in time, so the layer takes as long
// as its longest domain.
func (e *Estimation) stimeLeakage(stat *LayerStat) {
	elapsed := float64(stat.Latency().Max())
	power := e.noc.Leakage()
	units := e.noc.LeakageUnits()

	stat.AddEnergyComponents(noc.EnergyComponents{
		CommLeakage:       power.Router * elapsed * float64(units.Routers),
		CompLeakage:       power.Core * elapsed * float64(units.Cores),
		LocalMemLeakage:   power.LocalMem * elapsed * float64(units.LocalMems),
		MainMemoryLeakage: power.MainMemory * elapsed * float64(units.MemoryControllers),
	})
}
