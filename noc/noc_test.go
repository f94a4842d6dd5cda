package noc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/nocperf/noc"
)

var _ = Describe("Mesh", func() {
	mesh := noc.Mesh{Width: 4, Height: 4}

	It("should place cores row-major", func() {
		Expect(mesh.Coord(5)).To(Equal(noc.MeshCoordinate{X: 1, Y: 1}))
		Expect(mesh.Coord(15)).To(Equal(noc.MeshCoordinate{X: 3, Y: 3}))
	})

	It("should measure hops from the memory interface", func() {
		Expect(mesh.MaxHops(1)).To(Equal(0))
		Expect(mesh.MaxHops(4)).To(Equal(3))
		Expect(mesh.MaxHops(16)).To(Equal(6))
		Expect(mesh.MaxHops(100)).To(Equal(6))
		Expect(mesh.AverageHops(16)).To(BeNumerically("~", 3.0, 1e-12))
		Expect(mesh.AverageHops(4)).To(BeNumerically("~", 1.5, 1e-12))
		Expect(mesh.AverageHops(0)).To(BeZero())
	})
})

var _ = Describe("NoC", func() {
	var n *noc.NoC

	BeforeEach(func() {
		n = noc.MakeBuilder().
			WithMeshSize(4, 4).
			WithFreq(1 * sim.GHz).
			WithElementBytes(1).
			WithLocalMemoryBytes(4096).
			WithFlitBytes(4).
			WithHopLatency(1).
			WithMainMemory(100, 16).
			WithOpsPerCycle(4).
			WithDynamicEnergy(1.0, 0.5, 0.25, 10.0).
			WithLeakage(noc.LeakagePowers{
				Router: 0.01, Core: 0.02, LocalMem: 0.005, MainMemory: 0.1,
			}).
			Build()
	})

	It("should report its resources", func() {
		Expect(n.NumCores()).To(Equal(16))
		Expect(n.LocalMemoryBytes()).To(Equal(int64(4096)))
		Expect(n.LeakageUnits()).To(Equal(noc.LeakageUnits{
			Routers: 16, Cores: 16, LocalMems: 16, MemoryControllers: 1,
		}))
		Expect(n.Leakage().Core).To(Equal(0.02))
	})

	It("should price compute", func() {
		w := noc.Workload{Kind: noc.Compute,
			OpsPerCore: 2304, TotalOps: 36864, Cores: 16}

		l, err := n.Latency(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(l).To(Equal(noc.LatencyComponents{Comp: 576}))

		e, err := n.Energy(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Comp).To(BeNumerically("~", 36864, 1e-9))
		Expect(e.LocalMem).To(BeNumerically("~", 18432, 1e-9))
		Expect(e.Leakage()).To(BeZero())
	})

	It("should price a scatter from the memory interface", func() {
		w := noc.Workload{Kind: noc.Scatter, Bytes: 4096, Cores: 16}

		l, err := n.Latency(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(l).To(Equal(noc.LatencyComponents{Comm: 6 + 1024}))

		e, err := n.Energy(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Comm).To(BeNumerically("~", 768, 1e-9))
	})

	It("should price an exchange between neighbours", func() {
		w := noc.Workload{Kind: noc.Exchange, Bytes: 1024, Cores: 16}

		l, err := n.Latency(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(l).To(Equal(noc.LatencyComponents{Comm: 17}))

		e, err := n.Energy(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Comm).To(BeNumerically("~", 64, 1e-9))
	})

	It("should price main memory accesses", func() {
		w := noc.Workload{Kind: noc.MainMemoryRead, Bytes: 256, Cores: 16}

		l, err := n.Latency(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(l).To(Equal(noc.LatencyComponents{MainMemory: 116}))

		e, err := n.Energy(w)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.MainMemory).To(BeNumerically("~", 2560, 1e-9))
	})

	It("should not charge empty workloads", func() {
		l, err := n.Latency(noc.Workload{Kind: noc.Gather, Cores: 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(l).To(BeZero())
	})

	It("should reject workloads on missing cores", func() {
		_, err := n.Latency(noc.Workload{Kind: noc.Scatter, Bytes: 8, Cores: 17})
		Expect(err).To(MatchError(noc.ErrInfeasible))

		_, err = n.Energy(noc.Workload{Kind: noc.Compute, OpsPerCore: 1, Cores: 0})
		Expect(err).To(MatchError(noc.ErrInfeasible))
	})

	It("should reject unknown workloads", func() {
		_, err := n.Latency(noc.Workload{Bytes: 8, Cores: 1})
		Expect(err).To(MatchError(noc.ErrUnknownWorkload))
	})
})

var _ = Describe("Components", func() {
	It("should add latency elementwise", func() {
		a := noc.LatencyComponents{Comm: 1, MainMemory: 2, Comp: 3}
		b := noc.LatencyComponents{Comm: 10, MainMemory: 20, Comp: 30}

		Expect(a.Add(b)).To(Equal(noc.LatencyComponents{
			Comm: 11, MainMemory: 22, Comp: 33}))
		Expect(a.Add(b).Max()).To(Equal(int64(33)))
	})

	It("should add energy elementwise", func() {
		a := noc.EnergyComponents{Comm: 1, CompLeakage: 2}
		b := noc.EnergyComponents{Comm: 1, MainMemoryLeakage: 4}

		sum := a.Add(b)
		Expect(sum.Comm).To(Equal(2.0))
		Expect(sum.Dynamic()).To(Equal(2.0))
		Expect(sum.Leakage()).To(Equal(6.0))
	})
})

var _ = Describe("Config", func() {
	It("should fill missing fields from the defaults", func() {
		cfg, err := noc.ParseConfig([]byte("mesh_width: 8\nmesh_height: 2\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.MeshWidth).To(Equal(8))
		Expect(cfg.MeshHeight).To(Equal(2))
		Expect(cfg.FlitBytes).To(Equal(noc.DefaultConfig().FlitBytes))
		Expect(cfg.Freq).To(Equal(1 * sim.GHz))
	})

	It("should reject invalid parameters", func() {
		_, err := noc.ParseConfig([]byte("flit_bytes: 0\n"))
		Expect(err).To(MatchError(noc.ErrInvalidConfig))
	})

	It("should allow an empty mesh", func() {
		n := noc.MakeBuilder().WithMeshSize(0, 0).Build()
		Expect(n.NumCores()).To(BeZero())
	})

	It("should panic when building an invalid NoC", func() {
		Expect(func() {
			noc.MakeBuilder().WithOpsPerCycle(0).Build()
		}).To(Panic())
	})
})
