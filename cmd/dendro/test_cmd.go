package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/pbanos/dendro/tree"
)

func testCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			md, err := config.metadata()
			if err != nil {
				return err
			}
			root, err := config.loadTree(ctx, md)
			if err != nil {
				return err
			}
			ds, closeDataset, err := config.openDataset(ctx, config.v.GetString("input"), md, false)
			if err != nil {
				return err
			}
			defer closeDataset()
			samples, err := ds.Samples(ctx)
			if err != nil {
				return fmt.Errorf("reading testing set: %w", err)
			}
			config.Logf("Testing tree against testset with %d samples...", len(samples))
			report, err := tree.Evaluate(ctx, root, samples, md.LabelOf)
			if err != nil {
				return fmt.Errorf("testing tree: %w", err)
			}
			config.Logf("Done")
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	addDatasetFlags(cmd, "data to test the tree against")
	addRedisFlags(cmd)
	cmd.Flags().StringP("tree", "t", "", "path to a file from which the tree to test will be read and parsed as JSON, or its name on Redis (required)")
	return cmd
}

func renderReport(w io.Writer, report *tree.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("TREE TEST REPORT")
	t.AppendHeader(table.Row{"Label", "Samples", "Correct", "Unclassifiable", "Success rate"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Samples", Align: text.AlignRight},
		{Name: "Correct", Align: text.AlignRight},
		{Name: "Unclassifiable", Align: text.AlignRight},
		{Name: "Success rate", Align: text.AlignRight},
	})
	for _, lr := range report.Labels {
		t.AppendRow(table.Row{lr.Label, lr.Samples, lr.Correct, lr.Unclassifiable, percentage(lr.SuccessRate())})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"Total", report.Samples, report.Correct, report.Unclassifiable, percentage(report.SuccessRate())})
	t.Render()
}

func percentage(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}
