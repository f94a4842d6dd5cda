package estimation

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/noc"
)

var _ = Describe("LayerStat", func() {
	It("should accumulate components", func() {
		s := LayerStat{Name: "c1", Kind: cnn.Conv}

		s.AddLatencyComponents(noc.LatencyComponents{Comm: 3, Comp: 5})
		s.AddLatencyComponents(noc.LatencyComponents{Comm: 1, MainMemory: 7})
		s.AddEnergyComponents(noc.EnergyComponents{Comm: 1.5, CompLeakage: 2})
		s.AddEnergyComponents(noc.EnergyComponents{Comm: 0.5, LocalMem: 4})

		Expect(s.Latency()).To(Equal(noc.LatencyComponents{
			Comm: 4, MainMemory: 7, Comp: 5,
		}))
		Expect(s.CommEnergy).To(Equal(2.0))
		Expect(s.LocalMemEnergy).To(Equal(4.0))
		Expect(s.CompEnergyLeakage).To(Equal(2.0))
		Expect(s.Energy().Dynamic()).To(Equal(6.0))
		Expect(s.Energy().Leakage()).To(Equal(2.0))
	})

	It("should keep the labels on reset", func() {
		s := LayerStat{Name: "c1", Kind: cnn.Conv, CommLatency: 9,
			ActiveCores: 4, CommTraffic: 12, CompEnergyLeakage: 1}

		s.Reset()

		Expect(s).To(Equal(LayerStat{Name: "c1", Kind: cnn.Conv}))
	})
})

var _ = Describe("GlobalStats", func() {
	var (
		a, b LayerStat
		g    GlobalStats
	)

	BeforeEach(func() {
		a = LayerStat{
			Name: "a", CommLatency: 10, CompLatency: 30, MainMemoryLatency: 5,
			CommEnergy: 1, CompEnergy: 2, LocalMemEnergy: 3,
			MainMemoryEnergy: 4, CommEnergyLeakage: 0.5,
			MainMemoryTrafficLoad: 100, CommTraffic: 40,
		}
		b = LayerStat{
			Name: "b", CommLatency: 50, CompLatency: 20, MainMemoryLatency: 5,
			CompEnergy: 8, MainMemoryEnergyLeakage: 0.25,
			LocalMemEnergyLeakage: 0.125, CompEnergyLeakage: 1,
			MainMemoryTrafficStore: 64, CommTraffic: 2,
		}
		g = GlobalStats{}
	})

	It("should sum every field over the layers", func() {
		g.AddLayerStat(a)
		g.AddLayerStat(b)

		Expect(g.LayerStats).To(Equal([]LayerStat{a, b}))
		Expect(g.TotalCommLatency).To(Equal(int64(60)))
		Expect(g.TotalCompLatency).To(Equal(int64(50)))
		Expect(g.TotalMainMemoryLatency).To(Equal(int64(10)))
		Expect(g.TotalCommEnergy).To(Equal(1.0))
		Expect(g.TotalCompEnergy).To(Equal(10.0))
		Expect(g.TotalLocalMemEnergy).To(Equal(3.0))
		Expect(g.TotalMainMemoryEnergy).To(Equal(4.0))
		Expect(g.TotalCommEnergyLeakage).To(Equal(0.5))
		Expect(g.TotalCompEnergyLeakage).To(Equal(1.0))
		Expect(g.TotalLocalMemEnergyLeakage).To(Equal(0.125))
		Expect(g.TotalMainMemoryEnergyLeakage).To(Equal(0.25))
		Expect(g.TotalMainMemoryTrafficLoad).To(Equal(int64(100)))
		Expect(g.TotalMainMemoryTrafficStore).To(Equal(int64(64)))
		Expect(g.TotalCommTraffic).To(Equal(int64(42)))
	})

	It("should take the longest domain of each layer as its latency", func() {
		g.AddLayerStat(a)
		g.AddLayerStat(b)

		Expect(g.TotalLatency()).To(Equal(int64(30 + 50)))
	})

	It("should split energy into dynamic and leakage", func() {
		g.AddLayerStat(a)
		g.AddLayerStat(b)

		Expect(g.TotalDynamicEnergy()).To(Equal(18.0))
		Expect(g.TotalLeakageEnergy()).To(Equal(1.875))
		Expect(g.TotalEnergy()).To(Equal(19.875))
	})

	It("should start over after reset", func() {
		g.AddLayerStat(a)
		g.Reset()

		Expect(g).To(Equal(GlobalStats{}))
		Expect(g.TotalLatency()).To(BeZero())

		g.AddLayerStat(b)
		Expect(g.TotalCommLatency).To(Equal(int64(50)))
	})
})
