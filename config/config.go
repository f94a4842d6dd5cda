// Package config assembles a platform: a NoC and the network to estimate on
// it.
package config

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/estimation"
	"github.com/sarchlab/nocperf/noc"
)

// ErrNoNetwork is returned when a platform is built without a network.
var ErrNoNetwork = errors.New("platform has no network")

// A Platform is a NoC together with the network that runs on it.
type Platform struct {
	Name    string
	NoC     *noc.NoC
	Network *cnn.CNN
}

// NewEstimation creates an estimation of the network on the NoC.
func (p *Platform) NewEstimation() *estimation.Estimation {
	return estimation.New(p.NoC, p.Network)
}

// PlatformBuilder can build platforms.
type PlatformBuilder struct {
	name       string
	nocBuilder noc.Builder
	network    *cnn.CNN
	zooName    string
}

// MakePlatformBuilder creates a builder with the default NoC and no network.
func MakePlatformBuilder() PlatformBuilder {
	return PlatformBuilder{
		name:       "platform",
		nocBuilder: noc.MakeBuilder(),
	}
}

// WithName sets the name of the platform.
func (b PlatformBuilder) WithName(name string) PlatformBuilder {
	b.name = name
	return b
}

// WithNoCConfig replaces all the NoC parameters.
func (b PlatformBuilder) WithNoCConfig(cfg noc.Config) PlatformBuilder {
	b.nocBuilder = b.nocBuilder.WithConfig(cfg)
	return b
}

// WithMeshSize sets the width and height of the mesh.
func (b PlatformBuilder) WithMeshSize(width, height int) PlatformBuilder {
	b.nocBuilder = b.nocBuilder.WithMeshSize(width, height)
	return b
}

// WithLocalMemoryBytes sets the local memory capacity of each core.
func (b PlatformBuilder) WithLocalMemoryBytes(n int64) PlatformBuilder {
	b.nocBuilder = b.nocBuilder.WithLocalMemoryBytes(n)
	return b
}

// WithFreq sets the frequency of the NoC.
func (b PlatformBuilder) WithFreq(freq sim.Freq) PlatformBuilder {
	b.nocBuilder = b.nocBuilder.WithFreq(freq)
	return b
}

// WithNetwork sets the network to run. It takes precedence over
// WithZooNetwork.
func (b PlatformBuilder) WithNetwork(network *cnn.CNN) PlatformBuilder {
	b.network = network
	return b
}

// WithZooNetwork selects a network of the zoo by name.
func (b PlatformBuilder) WithZooNetwork(name string) PlatformBuilder {
	b.zooName = name
	return b
}

// NoCConfig returns the NoC parameters the builder currently holds.
func (b PlatformBuilder) NoCConfig() noc.Config {
	return b.nocBuilder.Config()
}

// Build creates the platform.
func (b PlatformBuilder) Build() (*Platform, error) {
	if err := b.nocBuilder.Config().Validate(); err != nil {
		return nil, err
	}

	network := b.network
	if network == nil && b.zooName != "" {
		n, ok := cnn.Lookup(b.zooName)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not in the zoo (%v)",
				ErrNoNetwork, b.zooName, cnn.Names())
		}

		network = n
	}

	if network == nil {
		return nil, ErrNoNetwork
	}

	return &Platform{
		Name:    b.name,
		NoC:     b.nocBuilder.Build(),
		Network: network,
	}, nil
}
