package main

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/sarchlab/nocperf/explore"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Estimate one network over many mesh and memory sizes.",
	Long: "`sweep --mesh 4x4,8x8 --local-mem 16384,65536` estimates every " +
		"combination on the platform and ranks them by latency, then energy.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := platformFromFlags(cmd)
		if err != nil {
			return err
		}

		p, err := b.Build()
		if err != nil {
			return err
		}

		meshFlags, _ := cmd.Flags().GetStringSlice("mesh")
		meshes, err := parseMeshSizes(meshFlags)
		if err != nil {
			return err
		}

		localMems, _ := cmd.Flags().GetInt64Slice("local-mem")
		parallelism, _ := cmd.Flags().GetInt("parallel")

		xb := explore.MakeBuilder().
			WithPlatform(b).
			WithNetwork(p.Network).
			WithMeshSizes(meshes...).
			WithLocalMemorySizes(localMems...).
			WithParallelism(parallelism)

		recorder, err := recorderFromFlags(cmd)
		if err != nil {
			return err
		}

		if recorder != nil {
			xb = xb.WithRecorder(recorder)
		}

		results, err := xb.Build().Run(cmd.Context())
		if err != nil {
			return err
		}

		explore.ShowResults(cmd.OutOrStdout(), results)

		if recorder != nil {
			return recorder.Close()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	addPlatformFlags(sweepCmd)
	sweepCmd.Flags().StringSlice("mesh", nil,
		"Mesh sizes as WIDTHxHEIGHT (default: the platform mesh)")
	sweepCmd.Flags().Int64Slice("local-mem", nil,
		"Local memory sizes in bytes (default: the platform size)")
	sweepCmd.Flags().Int("parallel", runtime.NumCPU(),
		"Number of variants estimated at the same time")
}

func parseMeshSizes(specs []string) ([][2]int, error) {
	meshes := make([][2]int, 0, len(specs))

	for _, s := range specs {
		w, h, ok := strings.Cut(strings.ToLower(s), "x")
		if !ok {
			return nil, fmt.Errorf("mesh size %q is not WIDTHxHEIGHT", s)
		}

		width, err := strconv.Atoi(w)
		if err != nil {
			return nil, fmt.Errorf("mesh size %q: %w", s, err)
		}

		height, err := strconv.Atoi(h)
		if err != nil {
			return nil, fmt.Errorf("mesh size %q: %w", s, err)
		}

		meshes = append(meshes, [2]int{width, height})
	}

	return meshes, nil
}
