// Package explore runs one network over many NoC variants and ranks them.
package explore

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/config"
	"github.com/sarchlab/nocperf/estimation"
)

// A Variant is one point of the design space.
type Variant struct {
	MeshWidth        int
	MeshHeight       int
	LocalMemoryBytes int64
}

// Label names the variant in reports and recordings.
func (v Variant) Label() string {
	return fmt.Sprintf("%dx%d/%dB", v.MeshWidth, v.MeshHeight,
		v.LocalMemoryBytes)
}

// A Result is the outcome of one variant. Err is set when the variant could
// not be built or estimated; Stats then holds the layers that were finished.
type Result struct {
	Variant
	Stats estimation.GlobalStats
	Err   error

	Estimation *estimation.Estimation
}

// PassRecorder persists finished passes.
type PassRecorder interface {
	RecordPass(
		label string,
		e *estimation.Estimation,
		stats *estimation.GlobalStats,
	) (string, error)
}

// Explorer sweeps mesh sizes and local memory sizes.
type Explorer struct {
	platform    config.PlatformBuilder
	network     *cnn.CNN
	meshes      [][2]int
	localMems   []int64
	parallelism int
	recorder    PassRecorder
}

// Builder can build explorers.
type Builder struct {
	platform    config.PlatformBuilder
	network     *cnn.CNN
	meshes      [][2]int
	localMems   []int64
	parallelism int
	recorder    PassRecorder
}

// MakeBuilder creates a builder that sweeps the default platform.
func MakeBuilder() Builder {
	return Builder{
		platform:    config.MakePlatformBuilder(),
		parallelism: runtime.NumCPU(),
	}
}

// WithPlatform sets the platform the variants are derived from.
func (b Builder) WithPlatform(p config.PlatformBuilder) Builder {
	b.platform = p
	return b
}

// WithNetwork sets the network to estimate.
func (b Builder) WithNetwork(n *cnn.CNN) Builder {
	b.network = n
	return b
}

// WithMeshSizes sets the mesh sizes to try, as width and height pairs.
func (b Builder) WithMeshSizes(sizes ...[2]int) Builder {
	b.meshes = slices.Clone(sizes)
	return b
}

// WithLocalMemorySizes sets the local memory capacities to try.
func (b Builder) WithLocalMemorySizes(sizes ...int64) Builder {
	b.localMems = slices.Clone(sizes)
	return b
}

// WithParallelism sets how many variants are estimated at the same time.
func (b Builder) WithParallelism(n int) Builder {
	b.parallelism = n
	return b
}

// WithRecorder sets where the passes are recorded.
func (b Builder) WithRecorder(r PassRecorder) Builder {
	b.recorder = r
	return b
}

// Build creates the explorer. Without mesh or memory sizes, the ones of the
// platform are used.
func (b Builder) Build() *Explorer {
	b.parametersMustBeValid()

	cfg := b.platform.NoCConfig()

	if len(b.meshes) == 0 {
		b.meshes = [][2]int{{cfg.MeshWidth, cfg.MeshHeight}}
	}

	if len(b.localMems) == 0 {
		b.localMems = []int64{cfg.LocalMemoryBytes}
	}

	return &Explorer{
		platform:    b.platform,
		network:     b.network,
		meshes:      b.meshes,
		localMems:   b.localMems,
		parallelism: b.parallelism,
		recorder:    b.recorder,
	}
}

func (b Builder) parametersMustBeValid() {
	if b.network == nil {
		panic("network is not specified")
	}

	if b.parallelism <= 0 {
		panic("parallelism must be positive")
	}
}

// Variants lists the design points in sweep order.
func (x *Explorer) Variants() []Variant {
	variants := make([]Variant, 0, len(x.meshes)*len(x.localMems))

	for _, m := range x.meshes {
		for _, lm := range x.localMems {
			variants = append(variants, Variant{
				MeshWidth:        m[0],
				MeshHeight:       m[1],
				LocalMemoryBytes: lm,
			})
		}
	}

	return variants
}

// Run estimates every variant and returns the results ranked. Variants that
// fail are kept in the results with their error. Run stops early only when
// ctx is done or a pass cannot be recorded.
func (x *Explorer) Run(ctx context.Context) ([]Result, error) {
	variants := x.Variants()
	results := make([]Result, len(variants))

	sem := make(chan struct{}, x.parallelism)
	var wg sync.WaitGroup

	for i, v := range variants {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, v Variant) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = x.runVariant(v)
		}(i, v)
	}

	wg.Wait()

	if err := x.record(results); err != nil {
		return nil, err
	}

	Rank(results)

	return results, nil
}

func (x *Explorer) runVariant(v Variant) Result {
	r := Result{Variant: v}

	p, err := x.platform.
		WithMeshSize(v.MeshWidth, v.MeshHeight).
		WithLocalMemoryBytes(v.LocalMemoryBytes).
		WithNetwork(x.network).
		Build()
	if err != nil {
		r.Err = err
		return r
	}

	r.Estimation = p.NewEstimation()
	r.Err = r.Estimation.Stime(&r.Stats)

	estimation.Trace("VariantEstimated",
		"Variant", v.Label(),
		"Latency", r.Stats.TotalLatency(),
		"Energy", r.Stats.TotalEnergy(),
		"Failed", r.Err != nil,
	)

	return r
}

func (x *Explorer) record(results []Result) error {
	if x.recorder == nil {
		return nil
	}

	for i := range results {
		if results[i].Estimation == nil {
			continue
		}

		_, err := x.recorder.RecordPass(results[i].Label(),
			results[i].Estimation, &results[i].Stats)
		if err != nil {
			return err
		}
	}

	return nil
}

// Rank orders results from best to worst: finished passes first, then by
// total latency, total energy and label.
func Rank(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		if (a.Err == nil) != (b.Err == nil) {
			if a.Err == nil {
				return -1
			}

			return 1
		}

		return cmp.Or(
			cmp.Compare(a.Stats.TotalLatency(), b.Stats.TotalLatency()),
			cmp.Compare(a.Stats.TotalEnergy(), b.Stats.TotalEnergy()),
			cmp.Compare(a.Label(), b.Label()),
		)
	})
}
