package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/tree"
	"github.com/pbanos/dendro/tree/dot"
)

const (
	textFormat = "text"
	dotFormat  = "dot"
)

func treeCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show and manage decision trees",
		Long:  `Show a decision tree as text or as a Graphviz DOT graph, and manage the trees stored on Redis`,
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := config.metadata()
			if err != nil {
				return err
			}
			root, err := config.loadTree(cmd.Context(), md)
			if err != nil {
				return err
			}
			switch format := config.v.GetString("format"); format {
			case textFormat:
				_, err = fmt.Fprint(cmd.OutOrStdout(), tree.String(root))
			case dotFormat:
				err = dot.Write(cmd.OutOrStdout(), root)
			default:
				err = fmt.Errorf("unknown format %s, expected %s or %s", format, textFormat, dotFormat)
			}
			return err
		},
	}
	cmd.PersistentFlags().StringP("metadata", "m", "", "path to a YML file with metadata describing the different features used on a tree (required)")
	cmd.PersistentFlags().StringP("label", "l", "", "name of the feature the tree predicts (defaults to the label in the metadata)")
	cmd.PersistentFlags().String("redis-addr", "", "address of a Redis server storing trees; when set trees are loaded by name instead of from files")
	cmd.PersistentFlags().String("redis-prefix", redisKeyPrefix, "prefix of the keys under which trees are stored on Redis")
	cmd.Flags().StringP("tree", "t", "", "path to a file from which the tree to show will be read and parsed as JSON, or its name on Redis (required)")
	cmd.Flags().StringP("format", "f", textFormat, fmt.Sprintf("output format: %s or %s", textFormat, dotFormat))
	cmd.AddCommand(treeListCmd(config), treeDeleteCmd(config))
	return cmd
}

func treeListCmd(config *rootCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the trees stored on Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.requireTreeStore()
			if err != nil {
				return err
			}
			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func treeDeleteCmd(config *rootCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME...",
		Short: "Delete trees stored on Redis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.requireTreeStore()
			if err != nil {
				return err
			}
			for _, name := range args {
				if err = store.Delete(cmd.Context(), name); err != nil {
					return err
				}
				config.Logf("Tree %s deleted", name)
			}
			return nil
		},
	}
}

func (rcc *rootCmdConfig) requireTreeStore() (tree.Store[dataset.Sample], error) {
	md, err := rcc.metadata()
	if err != nil {
		return nil, err
	}
	if rcc.trees == nil && rcc.v.GetString("redis-addr") == "" {
		return nil, fmt.Errorf("required redis-addr flag was not set")
	}
	return rcc.treeStore(md)
}
