package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/dataset/inputsample"
	"github.com/pbanos/dendro/feature"
	"github.com/pbanos/dendro/tree"
)

type writerFeatureValueRequester struct {
	w io.Writer
}

func predictCmd(config *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a value for a sample answering questions",
		Long: `Use the loaded tree to predict the label for a sample answering a reduced set of questions about its features.
Values for features can also be given with the value flag, in which case no question is asked.`,
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
			values, err := cmd.Flags().GetStringToString("value")
			if err != nil {
				return err
			}
			var prediction *tree.Prediction
			if len(values) > 0 {
				s, err := parseSample(md, values)
				if err != nil {
					return err
				}
				prediction, err = tree.Predict(root, s)
				if err != nil {
					return err
				}
			} else {
				rd := inputsample.New(cmd.InOrStdin(), md, writerFeatureValueRequester{cmd.OutOrStdout()})
				prediction, err = inputsample.Predict(root, rd)
				if err != nil {
					return err
				}
			}
			label, probability := prediction.PredictedValue()
			fmt.Fprintf(cmd.OutOrStdout(), "Predicted %s is %v with probability %g\n", md.Label, label, probability)
			fmt.Fprintf(cmd.OutOrStdout(), "Predicted values along their probabilities are %v\n", prediction)
			return nil
		},
	}
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file with metadata describing the different features of samples (required)")
	cmd.Flags().StringP("label", "l", "", "name of the feature to predict (defaults to the label in the metadata)")
	cmd.Flags().StringP("tree", "t", "", "path to a file from which the tree will be read and parsed as JSON, or its name on Redis (required)")
	cmd.Flags().StringToString("value", nil, "value of a feature of the sample as name=value, can be repeated")
	addRedisFlags(cmd)
	return cmd
}

// parseSample takes raw feature values by name and returns the sample they describe
func parseSample(md *dataset.Metadata, values map[string]string) (dataset.Sample, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	s := make(dataset.Sample, len(values))
	for _, name := range names {
		spec, ok := md.Spec(name)
		if !ok {
			return nil, fmt.Errorf("unknown feature %s", name)
		}
		v, err := spec.Parse(values[name])
		if err != nil {
			return nil, err
		}
		s[name] = v
	}
	return s, nil
}

func (wfvr writerFeatureValueRequester) RequestValueFor(s dataset.Spec) error {
	var err error
	switch {
	case s.Kind == feature.Continuous:
		_, err = fmt.Fprintf(wfvr.w, "Please provide the sample's %s:\n(valid values are real numbers)\n", s.Name)
	case len(s.Values) > 0:
		_, err = fmt.Fprintf(wfvr.w, "Please provide the sample's %s:\n(valid values are %v)\n", s.Name, s.Values)
	default:
		_, err = fmt.Fprintf(wfvr.w, "Please provide the sample's %s:\n", s.Name)
	}
	return err
}

func (wfvr writerFeatureValueRequester) RejectValueFor(s dataset.Spec, value string, reason error) error {
	_, err := fmt.Fprintf(wfvr.w, "%q is not a valid value for the sample's %s: %v. Please try again.\n", value, s.Name, reason)
	return err
}
