package main

import (
	"github.com/sarchlab/nocperf/estimation"
	"github.com/spf13/cobra"
)

var stimeCmd = &cobra.Command{
	Use:   "stime",
	Short: "Estimate one network on one platform.",
	Long: "`stime --platform p.yaml` runs one estimation pass and prints " +
		"the per-layer and total latency and energy. A pass that stops " +
		"early still prints the layers it finished.",
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

		recorder, err := recorderFromFlags(cmd)
		if err != nil {
			return err
		}

		e := p.NewEstimation()
		stats := &estimation.GlobalStats{}
		passErr := e.Stime(stats)

		e.ShowStats(cmd.OutOrStdout(), stats)

		if report, _ := cmd.Flags().GetString("report"); report != "" {
			if err := e.SaveStatsToFile(report, stats); err != nil {
				return err
			}
		}

		if recorder != nil {
			if _, err := recorder.RecordPass(p.Name, e, stats); err != nil {
				return err
			}

			if err := recorder.Close(); err != nil {
				return err
			}
		}

		return passErr
	},
}

func init() {
	rootCmd.AddCommand(stimeCmd)
	addPlatformFlags(stimeCmd)
	stimeCmd.Flags().String("report", "", "Also write the report to this file")
}
