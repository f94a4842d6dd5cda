package cnn

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// A CNN is a named, ordered and immutable sequence of layers.
type CNN struct {
	name   string
	layers []Layer
}

// Name returns the name of the network.
func (n *CNN) Name() string {
	return n.name
}

// NumLayers returns the number of layers in the network.
func (n *CNN) NumLayers() int {
	return len(n.layers)
}

// Layer returns the i-th layer.
func (n *CNN) Layer(i int) Layer {
	return n.layers[i]
}

// Layers returns a copy of the layers in declared order.
func (n *CNN) Layers() []Layer {
	layers := make([]Layer, len(n.layers))
	copy(layers, n.layers)

	return layers
}

// Builder can build CNNs.
type Builder struct {
	name   string
	layers []Layer
}

// WithName sets the name of the network.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// AddLayer appends a layer to the network.
func (b Builder) AddLayer(l Layer) Builder {
	layers := make([]Layer, len(b.layers), len(b.layers)+1)
	copy(layers, b.layers)
	b.layers = append(layers, l)

	return b
}

// Build validates all the layers and creates the network. Output dimensions
// that are left as zero are inferred.
func (b Builder) Build() (*CNN, error) {
	n := &CNN{
		name:   b.name,
		layers: make([]Layer, 0, len(b.layers)),
	}

	for i, l := range b.layers {
		if l.Name == "" {
			l.Name = fmt.Sprintf("%s%d", l.Kind.Name(), i)
		}

		l = l.WithInferredOutput()
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}

		if i > 0 {
			prev := n.layers[i-1]
			if prev.OutputElems() != l.InputElems() {
				slog.Log(context.Background(), slog.LevelDebug,
					"LayerVolumeMismatch",
					"Network", b.name,
					"Layer", l.Name,
					"PrevOutput", prev.OutputElems(),
					"Input", l.InputElems(),
				)
			}
		}

		n.layers = append(n.layers, l)
	}

	return n, nil
}

type networkFile struct {
	Name   string  `yaml:"name"`
	Layers []Layer `yaml:"layers"`
}

// Parse creates a network from its YAML description.
func Parse(data []byte) (*CNN, error) {
	var f networkFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse network: %w", err)
	}

	b := Builder{}.WithName(f.Name)
	for _, l := range f.Layers {
		b = b.AddLayer(l)
	}

	return b.Build()
}

// Load reads a network from a YAML file.
func Load(path string) (*CNN, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network file: %w", err)
	}

	return Parse(data)
}

// Marshal writes the network in the YAML format that Parse reads.
func Marshal(n *CNN) ([]byte, error) {
	return yaml.Marshal(networkFile{
		Name:   n.name,
		Layers: n.layers,
	})
}
