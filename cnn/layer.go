// Package cnn describes convolutional neural networks as ordered lists of
// layers with their geometry.
package cnn

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LayerKind defines the kind of computation a layer performs.
type LayerKind int

const (
	// InvalidKind marks a layer whose kind could not be recognized.
	InvalidKind LayerKind = iota
	Conv
	DepthwiseConv
	FullyConnected
	Pooling
)

var kindNames = map[LayerKind]string{
	Conv:           "conv",
	DepthwiseConv:  "dwconv",
	FullyConnected: "fc",
	Pooling:        "pool",
}

// Name returns the short name of the kind.
func (k LayerKind) Name() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "invalid"
}

func (k LayerKind) String() string {
	return k.Name()
}

// ParseKind converts a short name into a LayerKind. Unknown names map to
// InvalidKind.
func ParseKind(name string) LayerKind {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range kindNames {
		if n == name {
			return kind
		}
	}

	return InvalidKind
}

// MarshalYAML writes the kind as its short name.
func (k LayerKind) MarshalYAML() (interface{}, error) {
	return k.Name(), nil
}

// UnmarshalYAML reads the kind from its short name. Unknown names are kept as
// InvalidKind so that the layer can still be described and rejected later.
func (k *LayerKind) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}

	*k = ParseKind(name)

	return nil
}

// ErrInvalidGeometry is returned when a layer's dimensions are not usable.
var ErrInvalidGeometry = errors.New("invalid layer geometry")

// A Layer is one step of the network. Dimensions are counted in elements.
type Layer struct {
	Name string    `yaml:"name"`
	Kind LayerKind `yaml:"kind"`

	InW int `yaml:"in_w"`
	InH int `yaml:"in_h"`
	InC int `yaml:"in_c"`

	OutW int `yaml:"out_w,omitempty"`
	OutH int `yaml:"out_h,omitempty"`
	OutC int `yaml:"out_c,omitempty"`

	KernelW int `yaml:"kernel_w,omitempty"`
	KernelH int `yaml:"kernel_h,omitempty"`
	Stride  int `yaml:"stride,omitempty"`
	Padding int `yaml:"padding,omitempty"`
}

// WithInferredOutput returns a copy of the layer with zero output dimensions
// filled in from the input, kernel, stride and padding. Layers of unknown
// kind keep their channels so that they can be loaded and rejected later.
func (l Layer) WithInferredOutput() Layer {
	if l.Stride == 0 {
		l.Stride = 1
	}

	switch l.Kind {
	case FullyConnected:
		l.OutW, l.OutH = 1, 1
		l.KernelW, l.KernelH = 1, 1
	case DepthwiseConv, Pooling, InvalidKind:
		if l.OutC == 0 {
			l.OutC = l.InC
		}
	}

	if l.KernelW == 0 {
		l.KernelW = 1
	}

	if l.KernelH == 0 {
		l.KernelH = l.KernelW
	}

	if l.OutW == 0 {
		l.OutW = (l.InW+2*l.Padding-l.KernelW)/l.Stride + 1
	}

	if l.OutH == 0 {
		l.OutH = (l.InH+2*l.Padding-l.KernelH)/l.Stride + 1
	}

	return l
}

// Validate checks that the layer can be estimated.
func (l Layer) Validate() error {
	if l.InW <= 0 || l.InH <= 0 || l.InC <= 0 {
		return fmt.Errorf("%w: layer %q has input %dx%dx%d",
			ErrInvalidGeometry, l.Name, l.InW, l.InH, l.InC)
	}

	if l.OutW <= 0 || l.OutH <= 0 || l.OutC <= 0 {
		return fmt.Errorf("%w: layer %q has output %dx%dx%d",
			ErrInvalidGeometry, l.Name, l.OutW, l.OutH, l.OutC)
	}

	if l.KernelW <= 0 || l.KernelH <= 0 || l.Stride <= 0 || l.Padding < 0 {
		return fmt.Errorf("%w: layer %q has kernel %dx%d, stride %d, padding %d",
			ErrInvalidGeometry, l.Name, l.KernelW, l.KernelH, l.Stride, l.Padding)
	}

	if l.Kind == DepthwiseConv && l.InC != l.OutC {
		return fmt.Errorf("%w: depthwise layer %q maps %d channels to %d",
			ErrInvalidGeometry, l.Name, l.InC, l.OutC)
	}

	return nil
}

// InputElems returns the number of elements in the input feature map.
func (l Layer) InputElems() int64 {
	return int64(l.InW) * int64(l.InH) * int64(l.InC)
}

// OutputElems returns the number of elements in the output feature map.
func (l Layer) OutputElems() int64 {
	return int64(l.OutW) * int64(l.OutH) * int64(l.OutC)
}

// KernelElems returns the number of elements in one kernel window of a
// single channel.
func (l Layer) KernelElems() int64 {
	return int64(l.KernelW) * int64(l.KernelH)
}

// WeightElems returns the number of weights the layer holds.
func (l Layer) WeightElems() int64 {
	switch l.Kind {
	case Conv:
		return l.KernelElems() * int64(l.InC) * int64(l.OutC)
	case DepthwiseConv:
		return l.KernelElems() * int64(l.InC)
	case FullyConnected:
		return l.InputElems() * int64(l.OutC)
	default:
		return 0
	}
}

// MACs returns the number of multiply-accumulate (or compare, for pooling)
// operations needed to produce the output.
func (l Layer) MACs() int64 {
	switch l.Kind {
	case Conv:
		return l.OutputElems() * l.KernelElems() * int64(l.InC)
	case DepthwiseConv, Pooling:
		return l.OutputElems() * l.KernelElems()
	case FullyConnected:
		return l.InputElems() * int64(l.OutC)
	default:
		return 0
	}
}

func (l Layer) String() string {
	return fmt.Sprintf("%s(%s %dx%dx%d->%dx%dx%d k%dx%d s%d p%d)",
		l.Name, l.Kind.Name(),
		l.InW, l.InH, l.InC, l.OutW, l.OutH, l.OutC,
		l.KernelW, l.KernelH, l.Stride, l.Padding)
}
