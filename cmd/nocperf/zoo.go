package main

import (
	"fmt"

	"github.com/sarchlab/nocperf/cnn"
	"github.com/sarchlab/nocperf/config"
	"github.com/spf13/cobra"
)

var zooCmd = &cobra.Command{
	Use:   "zoo [name]",
	Short: "List the bundled networks, or print one as YAML.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			for _, name := range cnn.Names() {
				n, _ := cnn.Lookup(name)
				fmt.Fprintf(out, "%-16s %2d layers\n", name, n.NumLayers())
			}

			return nil
		}

		n, ok := cnn.Lookup(args[0])
		if !ok {
			return fmt.Errorf("%q is not in the zoo", args[0])
		}

		data, err := cnn.Marshal(n)
		if err != nil {
			return err
		}

		_, err = out.Write(data)

		return err
	},
}

var platformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Print the default platform as YAML, to start a platform file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		zooName, _ := cmd.Flags().GetString("zoo")

		p, err := config.MakePlatformBuilder().
			WithZooNetwork(zooName).
			Build()
		if err != nil {
			return err
		}

		data, err := config.MarshalPlatform(p, zooName)
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	},
}

func init() {
	rootCmd.AddCommand(zooCmd)
	rootCmd.AddCommand(platformCmd)
	platformCmd.Flags().String("zoo", "LeNet5", "Network from the zoo")
}
