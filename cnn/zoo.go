package cnn

var zoo = [...]struct {
	name  string
	build func() Builder
}{
	{"LeNet5", leNet5},
	{"MobileNetBlock", mobileNetBlock},
	{"TinyVGG", tinyVGG},
}

// Names lists the networks that can be retrieved with Lookup.
func Names() []string {
	names := make([]string, len(zoo))
	for i := range &zoo {
		names[i] = zoo[i].name
	}

	return names
}

// Lookup builds a network from the zoo. It returns false if the name is not
// known.
func Lookup(name string) (*CNN, bool) {
	for i := range &zoo {
		if zoo[i].name != name {
			continue
		}

		n, err := zoo[i].build().WithName(name).Build()
		if err != nil {
			panic(err)
		}

		return n, true
	}

	return nil, false
}

func leNet5() Builder {
	return Builder{}.
		AddLayer(Layer{Name: "conv1", Kind: Conv,
			InW: 32, InH: 32, InC: 1, OutC: 6, KernelW: 5}).
		AddLayer(Layer{Name: "pool1", Kind: Pooling,
			InW: 28, InH: 28, InC: 6, KernelW: 2, Stride: 2}).
		AddLayer(Layer{Name: "conv2", Kind: Conv,
			InW: 14, InH: 14, InC: 6, OutC: 16, KernelW: 5}).
		AddLayer(Layer{Name: "pool2", Kind: Pooling,
			InW: 10, InH: 10, InC: 16, KernelW: 2, Stride: 2}).
		AddLayer(Layer{Name: "fc1", Kind: FullyConnected,
			InW: 5, InH: 5, InC: 16, OutC: 120}).
		AddLayer(Layer{Name: "fc2", Kind: FullyConnected,
			InW: 1, InH: 1, InC: 120, OutC: 84}).
		AddLayer(Layer{Name: "fc3", Kind: FullyConnected,
			InW: 1, InH: 1, InC: 84, OutC: 10})
}

// mobileNetBlock is the stem and first two separable blocks of MobileNetV1.
func mobileNetBlock() Builder {
	return Builder{}.
		AddLayer(Layer{Name: "conv1", Kind: Conv,
			InW: 224, InH: 224, InC: 3, OutC: 32,
			KernelW: 3, Stride: 2, Padding: 1}).
		AddLayer(Layer{Name: "dw1", Kind: DepthwiseConv,
			InW: 112, InH: 112, InC: 32, KernelW: 3, Padding: 1}).
		AddLayer(Layer{Name: "pw1", Kind: Conv,
			InW: 112, InH: 112, InC: 32, OutC: 64, KernelW: 1}).
		AddLayer(Layer{Name: "dw2", Kind: DepthwiseConv,
			InW: 112, InH: 112, InC: 64, KernelW: 3, Stride: 2, Padding: 1}).
		AddLayer(Layer{Name: "pw2", Kind: Conv,
			InW: 56, InH: 56, InC: 64, OutC: 128, KernelW: 1}).
		AddLayer(Layer{Name: "pool", Kind: Pooling,
			InW: 56, InH: 56, InC: 128, KernelW: 56}).
		AddLayer(Layer{Name: "fc", Kind: FullyConnected,
			InW: 1, InH: 1, InC: 128, OutC: 1000})
}

func tinyVGG() Builder {
	return Builder{}.
		AddLayer(Layer{Name: "conv1_1", Kind: Conv,
			InW: 32, InH: 32, InC: 3, OutC: 16, KernelW: 3, Padding: 1}).
		AddLayer(Layer{Name: "conv1_2", Kind: Conv,
			InW: 32, InH: 32, InC: 16, OutC: 16, KernelW: 3, Padding: 1}).
		AddLayer(Layer{Name: "pool1", Kind: Pooling,
			InW: 32, InH: 32, InC: 16, KernelW: 2, Stride: 2}).
		AddLayer(Layer{Name: "conv2_1", Kind: Conv,
			InW: 16, InH: 16, InC: 16, OutC: 32, KernelW: 3, Padding: 1}).
		AddLayer(Layer{Name: "conv2_2", Kind: Conv,
			InW: 16, InH: 16, InC: 32, OutC: 32, KernelW: 3, Padding: 1}).
		AddLayer(Layer{Name: "pool2", Kind: Pooling,
			InW: 16, InH: 16, InC: 32, KernelW: 2, Stride: 2}).
		AddLayer(Layer{Name: "fc", Kind: FullyConnected,
			InW: 8, InH: 8, InC: 32, OutC: 10})
}
