package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/config"
	"github.com/sarchlab/nocperf/estimation"
	"github.com/sarchlab/nocperf/recording"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nocperf",
	Short: "nocperf estimates CNN inference on many-core NoC accelerators.",
	Long: `nocperf estimates the latency and energy of running a ` +
		`convolutional neural network on a mesh of cores. It can estimate ` +
		`one platform, sweep a design space and list the bundled networks.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logFile, _ := cmd.Flags().GetString("log")
		return setupLogging(logFile)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log", "",
		"Write per-layer trace records as JSON to this file")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// setupLogging sends trace records to path. Without a path, only warnings
// and errors are logged, to stderr.
func setupLogging(path string) error {
	if path == "" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})
		slog.SetDefault(slog.New(handler))

		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	atexit.Register(func() { f.Close() })

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: estimation.LevelTrace,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

func addPlatformFlags(cmd *cobra.Command) {
	cmd.Flags().String("platform", "", "Platform YAML file")
	cmd.Flags().String("network", "", "Network YAML file")
	cmd.Flags().String("zoo", "", "Network from the zoo")
	cmd.Flags().Bool("record", false, "Record the results in SQLite")
	cmd.Flags().String("db", "",
		"Database name, without the .sqlite3 suffix (generated if empty)")
}

// platformFromFlags loads the platform and replaces its network when one is
// given on the command line. Without any network, LeNet5 is used.
func platformFromFlags(cmd *cobra.Command) (config.PlatformBuilder, error) {
	b := config.MakePlatformBuilder().WithZooNetwork("LeNet5")

	platformFile, _ := cmd.Flags().GetString("platform")
	if platformFile != "" {
		p, err := config.LoadPlatform(platformFile)
		if err != nil {
			return b, err
		}

		b = b.WithName(p.Name).
			WithNoCConfig(p.NoC.Config()).
			WithNetwork(p.Network)
	}

	networkFile, _ := cmd.Flags().GetString("network")
	zooName, _ := cmd.Flags().GetString("zoo")

	switch {
	case networkFile != "":
		n, err := cnn.Load(networkFile)
		if err != nil {
			return b, err
		}

		b = b.WithNetwork(n)
	case zooName != "":
		b = b.WithNetwork(nil).WithZooNetwork(zooName)
	}

	return b, nil
}

func recorderFromFlags(cmd *cobra.Command) (*recording.Recorder, error) {
	record, _ := cmd.Flags().GetBool("record")
	if !record {
		return nil, nil
	}

	dbName, _ := cmd.Flags().GetString("db")

	r, err := recording.New(dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to create recorder: %w", err)
	}

	return r, nil
}
