package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/noc"
	"gopkg.in/yaml.v3"
)

// platformFile is the YAML layout of a platform. The network is either a
// path to a network file, relative to the platform file, or a zoo name.
type platformFile struct {
	Name    string     `yaml:"name"`
	NoC     noc.Config `yaml:"noc"`
	Network string     `yaml:"network,omitempty"`
	Zoo     string     `yaml:"zoo,omitempty"`
}

// LoadPlatform reads a platform from a YAML file.
func LoadPlatform(path string) (*Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform file: %w", err)
	}

	return ParsePlatform(data, filepath.Dir(path))
}

// ParsePlatform decodes a platform. NoC parameters that are not given keep
// their default values. Network paths are resolved against dir.
func ParsePlatform(data []byte, dir string) (*Platform, error) {
	f := platformFile{NoC: noc.DefaultConfig()}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse platform: %w", err)
	}

	b := MakePlatformBuilder().
		WithNoCConfig(f.NoC).
		WithZooNetwork(f.Zoo)

	if f.Name != "" {
		b = b.WithName(f.Name)
	}

	if f.Network != "" {
		path := f.Network
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		network, err := cnn.Load(path)
		if err != nil {
			return nil, err
		}

		b = b.WithNetwork(network)
	}

	return b.Build()
}

// MarshalPlatform writes the NoC parameters of a platform and the name of a
// zoo network in the format ParsePlatform reads.
func MarshalPlatform(p *Platform, zooName string) ([]byte, error) {
	return yaml.Marshal(platformFile{
		Name: p.Name,
		NoC:  p.NoC.Config(),
		Zoo:  zooName,
	})
}
