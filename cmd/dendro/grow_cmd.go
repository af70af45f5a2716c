package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbanos/dendro"
	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/tree"
)

func growCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a tree from a set of data to predict a certain feature.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			md, err := config.metadata()
			if err != nil {
				return err
			}
			opts, err := config.options()
			if err != nil {
				return err
			}
			learner, err := dendro.New[dataset.Sample](md.LabelOf, opts,
				dendro.WithLogger(config.logger),
				dendro.WithNodeBudget(config.v.GetInt("node-budget")),
			)
			if err != nil {
				return err
			}
			for _, f := range md.Predictors() {
				if err = learner.AddFeature(f); err != nil {
					return err
				}
			}
			ds, closeDataset, err := config.openDataset(ctx, config.v.GetString("input"), md, false)
			if err != nil {
				return err
			}
			defer closeDataset()
			samples, err := ds.Samples(ctx)
			if err != nil {
				return fmt.Errorf("reading training set: %w", err)
			}
			config.Logf("Growing tree from a set with %d samples and %d features to predict %s ...", len(samples), len(learner.Features()), md.Label)
			root, err := learner.Learn(ctx, samples)
			if err != nil {
				return fmt.Errorf("growing the tree: %w", err)
			}
			var nodes, leaves int
			err = tree.Traverse(ctx, root, false, func(_ context.Context, n *tree.Node[dataset.Sample]) error {
				nodes++
				if n.IsLeaf() {
					leaves++
				}
				return nil
			})
			if err != nil {
				return err
			}
			config.Logf("Grown tree has %d nodes, %d of them leaves", nodes, leaves)
			config.logger.Sugar().Debugf("Grown tree:\n%s", tree.String(root))
			return config.outputTree(ctx, md, root, cmd.OutOrStdout())
		},
	}
	addDatasetFlags(cmd, "data to grow the tree from")
	addRedisFlags(cmd)
	defaults := dendro.DefaultOptions()
	cmd.Flags().StringP("output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.Flags().String("tree-name", "", "name to store the tree under on Redis (defaults to a generated one)")
	cmd.Flags().Int("max-depth", defaults.MaxDepth, "depth at which nodes are no longer branched out (0 grows a single leaf)")
	cmd.Flags().Int("min-data-count", defaults.MinDataCountForBranch, "minimum number of samples a node needs to be branched out")
	cmd.Flags().Float64("probability-limit", defaults.HigherProbabilityLimitForBranch, "proportion of the majority label above which a node is not branched out")
	cmd.Flags().StringP("qualifier", "q", defaults.QualifierName, fmt.Sprintf("split qualifier to use: %s, %s or %s", dendro.EntropyQualifier, dendro.GiniQualifier, dendro.InformationGainQualifier))
	cmd.Flags().Int("node-budget", 0, "maximum number of nodes the tree may have (0 means no limit)")
	return cmd
}

// options returns the training options from the configuration
func (rcc *rootCmdConfig) options() (dendro.Options, error) {
	opts := dendro.DefaultOptions()
	if err := rcc.v.Unmarshal(&opts); err != nil {
		return opts, fmt.Errorf("reading training options: %w", err)
	}
	return opts, opts.Validate()
}
