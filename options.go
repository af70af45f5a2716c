package dendro

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pbanos/dendro/tree"
)

var optionsValidate = validator.New()

/*
Options holds the configuration for a training run: the rules that stop a
node from being branched out further and the qualifier used to score
candidate splits.
*/
type Options struct {
	// MaxDepth is the depth at which nodes are no longer branched out.
	// The root is at depth 0, so a MaxDepth of 0 grows a single leaf.
	MaxDepth int `mapstructure:"max-depth" validate:"gte=0"`
	// MinDataCountForBranch is the minimum number of training records a
	// node must have to be branched out.
	MinDataCountForBranch int `mapstructure:"min-data-count" validate:"gte=0"`
	// HigherProbabilityLimitForBranch is the proportion of the majority
	// label above which a node is considered pure enough and is not
	// branched out.
	HigherProbabilityLimitForBranch float64 `mapstructure:"probability-limit" validate:"gt=0,lte=1"`
	// QualifierName selects the split qualifier when SplitQualifier is nil.
	QualifierName string `mapstructure:"qualifier" validate:"omitempty,oneof=entropy gini information-gain"`
	// SplitQualifier scores candidate splits. It takes precedence over
	// QualifierName.
	SplitQualifier SplitQualifier `mapstructure:"-" validate:"-"`
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		MaxDepth:                        5,
		MinDataCountForBranch:           2,
		HigherProbabilityLimitForBranch: 1.0,
		QualifierName:                   EntropyQualifier,
	}
}

/*
Validate returns an error matching ErrInvalidOptions describing the first
options that are out of range, or nil if the options are valid.
*/
func (o Options) Validate() error {
	if err := optionsValidate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// Qualifier returns the split qualifier selected by the options
func (o Options) Qualifier() (SplitQualifier, error) {
	if o.SplitQualifier != nil {
		return o.SplitQualifier, nil
	}
	if o.QualifierName == "" {
		return Entropy, nil
	}
	return QualifierByName(o.QualifierName)
}

/*
stops takes the depth of a node and its distribution and returns the name of
the stopping rule that prevents the node from being branched out, or "" if
none applies.
*/
func (o Options) stops(depth int, d *tree.Distribution) string {
	switch {
	case depth >= o.MaxDepth:
		return "max depth"
	case d.Total() < o.MinDataCountForBranch:
		return "min data count"
	case d.MaxProportion() > o.HigherProbabilityLimitForBranch:
		return "probability limit"
	}
	return ""
}
