package cnn_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/nocperf/cnn"
)

var _ = Describe("Layer", func() {
	It("should infer the output of a padded convolution", func() {
		l := cnn.Layer{Kind: cnn.Conv,
			InW: 8, InH: 8, InC: 4, OutC: 16, KernelW: 3, Padding: 1}.
			WithInferredOutput()

		Expect(l.OutW).To(Equal(8))
		Expect(l.OutH).To(Equal(8))
		Expect(l.Stride).To(Equal(1))
		Expect(l.KernelH).To(Equal(3))
		Expect(l.Validate()).To(Succeed())
	})

	It("should keep the channels of a pooling layer", func() {
		l := cnn.Layer{Kind: cnn.Pooling,
			InW: 8, InH: 8, InC: 16, KernelW: 2, Stride: 2}.
			WithInferredOutput()

		Expect(l.OutW).To(Equal(4))
		Expect(l.OutC).To(Equal(16))
		Expect(l.WeightElems()).To(BeZero())
		Expect(l.MACs()).To(Equal(int64(4 * 4 * 16 * 4)))
	})

	It("should count weights and MACs", func() {
		conv := cnn.Layer{Kind: cnn.Conv,
			InW: 8, InH: 8, InC: 4, OutC: 16, KernelW: 3, Padding: 1}.
			WithInferredOutput()
		dw := cnn.Layer{Kind: cnn.DepthwiseConv,
			InW: 8, InH: 8, InC: 4, KernelW: 3, Padding: 1}.
			WithInferredOutput()
		fc := cnn.Layer{Kind: cnn.FullyConnected,
			InW: 2, InH: 2, InC: 4, OutC: 10}.
			WithInferredOutput()

		Expect(conv.WeightElems()).To(Equal(int64(576)))
		Expect(conv.MACs()).To(Equal(int64(36864)))
		Expect(dw.WeightElems()).To(Equal(int64(36)))
		Expect(dw.MACs()).To(Equal(int64(8 * 8 * 4 * 9)))
		Expect(fc.OutputElems()).To(Equal(int64(10)))
		Expect(fc.WeightElems()).To(Equal(int64(160)))
		Expect(fc.MACs()).To(Equal(int64(160)))
	})

	It("should reject a depthwise layer that changes channels", func() {
		l := cnn.Layer{Kind: cnn.DepthwiseConv,
			InW: 8, InH: 8, InC: 4, OutC: 8, KernelW: 3}.
			WithInferredOutput()

		Expect(errors.Is(l.Validate(), cnn.ErrInvalidGeometry)).To(BeTrue())
	})

	It("should reject a kernel larger than the input", func() {
		l := cnn.Layer{Kind: cnn.Conv,
			InW: 2, InH: 2, InC: 1, OutC: 1, KernelW: 5}.
			WithInferredOutput()

		Expect(l.Validate()).To(MatchError(cnn.ErrInvalidGeometry))
	})

	It("should parse kind names", func() {
		Expect(cnn.ParseKind("DWConv")).To(Equal(cnn.DepthwiseConv))
		Expect(cnn.ParseKind("fc")).To(Equal(cnn.FullyConnected))
		Expect(cnn.ParseKind("softmax")).To(Equal(cnn.InvalidKind))
	})
})

var _ = Describe("Builder", func() {
	It("should keep the declared order and name unnamed layers", func() {
		n, err := cnn.Builder{}.
			WithName("net").
			AddLayer(cnn.Layer{Kind: cnn.Conv,
				InW: 8, InH: 8, InC: 4, OutC: 16, KernelW: 3, Padding: 1}).
			AddLayer(cnn.Layer{Name: "pool", Kind: cnn.Pooling,
				InW: 8, InH: 8, InC: 16, KernelW: 2, Stride: 2}).
			Build()

		Expect(err).NotTo(HaveOccurred())
		Expect(n.Name()).To(Equal("net"))
		Expect(n.NumLayers()).To(Equal(2))
		Expect(n.Layer(0).Name).To(Equal("conv0"))
		Expect(n.Layer(1).Name).To(Equal("pool"))
	})

	It("should not share layers between builders", func() {
		base := cnn.Builder{}.AddLayer(cnn.Layer{Kind: cnn.Pooling,
			InW: 4, InH: 4, InC: 1, KernelW: 2, Stride: 2})
		a := base.AddLayer(cnn.Layer{Kind: cnn.Pooling,
			InW: 2, InH: 2, InC: 1, KernelW: 2, Stride: 2})
		b := base.AddLayer(cnn.Layer{Kind: cnn.FullyConnected,
			InW: 2, InH: 2, InC: 1, OutC: 3})

		na, err := a.Build()
		Expect(err).NotTo(HaveOccurred())
		nb, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(na.Layer(1).Kind).To(Equal(cnn.Pooling))
		Expect(nb.Layer(1).Kind).To(Equal(cnn.FullyConnected))
	})

	It("should report the failing layer", func() {
		_, err := cnn.Builder{}.
			AddLayer(cnn.Layer{Kind: cnn.Conv, InW: 0, InH: 8, InC: 1, OutC: 1}).
			Build()

		Expect(err).To(MatchError(ContainSubstring("layer 0")))
	})

	It("should return copies of the layers", func() {
		n, _ := cnn.Lookup("LeNet5")

		layers := n.Layers()
		layers[0].InC = 99

		Expect(n.Layer(0).InC).To(Equal(1))
	})
})

var _ = Describe("YAML", func() {
	It("should parse a network file", func() {
		n, err := cnn.Parse([]byte(`
name: small
layers:
  - name: c1
    kind: conv
    in_w: 8
    in_h: 8
    in_c: 4
    out_c: 16
    kernel_w: 3
    padding: 1
  - name: p1
    kind: pool
    in_w: 8
    in_h: 8
    in_c: 16
    kernel_w: 2
    stride: 2
  - name: s1
    kind: softmax
    in_w: 4
    in_h: 4
    in_c: 16
    out_c: 16
`))

		Expect(err).NotTo(HaveOccurred())
		Expect(n.Name()).To(Equal("small"))
		Expect(n.NumLayers()).To(Equal(3))
		Expect(n.Layer(0).OutW).To(Equal(8))
		Expect(n.Layer(1).OutW).To(Equal(4))
		Expect(n.Layer(2).Kind).To(Equal(cnn.InvalidKind))
	})

	It("should keep the channels of an unknown layer", func() {
		n, err := cnn.Parse([]byte(`
name: tail
layers:
  - name: s1
    kind: softmax
    in_w: 4
    in_h: 4
    in_c: 16
`))

		Expect(err).NotTo(HaveOccurred())
		Expect(n.Layer(0).Kind).To(Equal(cnn.InvalidKind))
		Expect(n.Layer(0).OutW).To(Equal(4))
		Expect(n.Layer(0).OutH).To(Equal(4))
		Expect(n.Layer(0).OutC).To(Equal(16))
	})

	It("should read back what it writes", func() {
		n, _ := cnn.Lookup("MobileNetBlock")

		data, err := cnn.Marshal(n)
		Expect(err).NotTo(HaveOccurred())

		back, err := cnn.Parse(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Layers()).To(Equal(n.Layers()))
	})

	It("should fail on a missing file", func() {
		_, err := cnn.Load("does-not-exist.yaml")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Zoo", func() {
	It("should build every listed network", func() {
		for _, name := range cnn.Names() {
			n, ok := cnn.Lookup(name)
			Expect(ok).To(BeTrue(), name)
			Expect(n.NumLayers()).To(BeNumerically(">", 0))
		}
	})

	It("should chain the LeNet5 volumes", func() {
		n, _ := cnn.Lookup("LeNet5")
		layers := n.Layers()

		for i := 1; i < len(layers); i++ {
			Expect(layers[i].InputElems()).
				To(Equal(layers[i-1].OutputElems()), layers[i].Name)
		}
	})

	It("should not find unknown networks", func() {
		_, ok := cnn.Lookup("AlexNet")
		Expect(ok).To(BeFalse())
	})
})
