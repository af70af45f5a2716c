package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func datasetCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Copy datasets between sources",
		Long: `Read the samples of a dataset, check them against the metadata and dump them into another one.
Use it to load CSV files into SQL or MongoDB databases, or to export them back as CSV.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			md, err := config.metadata()
			if err != nil {
				return err
			}
			input, closeInput, err := config.openDataset(ctx, config.v.GetString("input"), md, false)
			if err != nil {
				return err
			}
			defer closeInput()
			samples, err := input.Samples(ctx)
			if err != nil {
				return fmt.Errorf("reading input dataset: %w", err)
			}
			output, closeOutput, err := config.openOutput(ctx, cmd, config.v.GetString("output"), md)
			if err != nil {
				return err
			}
			n, err := output.Write(ctx, samples)
			if cerr := closeOutput(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("dumping samples into output dataset after %d samples: %w", n, err)
			}
			config.Logf("Dumped %d samples", n)
			return nil
		},
	}
	addDatasetFlags(cmd, "dataset to read")
	cmd.Flags().StringP("output", "o", "", fmt.Sprintf("dataset to write: %s (defaults to STDOUT in CSV)", locationHelp))
	return cmd
}
