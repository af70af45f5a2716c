package dendro

import (
	"fmt"
	"math"

	"github.com/pbanos/dendro/tree"
)

/*
SplitQualifier scores a distribution of labels. Higher values mean purer
distributions and therefore more desirable splits.
*/
type SplitQualifier func(d *tree.Distribution) float64

/*
WorstQuality is the quality of an empty distribution. It is lower than the
quality of any non-empty distribution, so a split scored with it is never
preferred over a real alternative.
*/
const WorstQuality = -math.MaxFloat64

// Names of the split qualifiers that QualifierByName resolves
const (
	EntropyQualifier         = "entropy"
	GiniQualifier            = "gini"
	InformationGainQualifier = "information-gain"
)

/*
Gini returns 1 - Σ p(1-p) over the proportions p of the labels in the
distribution. A pure distribution scores 1.
*/
func Gini(d *tree.Distribution) float64 {
	total := d.Total()
	if total == 0 {
		return WorstQuality
	}
	var impurity float64
	d.Each(func(_ interface{}, count int) {
		p := float64(count) / float64(total)
		impurity += p * (1 - p)
	})
	return 1 - impurity
}

/*
InformationGain returns Σ p log2(p) over the proportions p of the labels in
the distribution. A pure distribution scores 0 and mixed ones score below 0.
*/
func InformationGain(d *tree.Distribution) float64 {
	total := d.Total()
	if total == 0 {
		return WorstQuality
	}
	var gain float64
	d.Each(func(_ interface{}, count int) {
		p := float64(count) / float64(total)
		gain += p * math.Log2(p)
	})
	return gain
}

/*
Entropy returns Σ p ln(p) over the proportions p of the labels in the
distribution, leaving out a label that accounts for the whole distribution.
*/
func Entropy(d *tree.Distribution) float64 {
	total := d.Total()
	if total == 0 {
		return WorstQuality
	}
	var entropy float64
	d.Each(func(_ interface{}, count int) {
		if count == total {
			return
		}
		p := float64(count) / float64(total)
		entropy += p * math.Log(p)
	})
	return entropy
}

/*
WeightedQuality takes a split qualifier and the distributions of the children
of a split and returns the sum of the quality of each distribution weighted
by its total.
*/
func WeightedQuality(q SplitQualifier, ds ...*tree.Distribution) float64 {
	var quality float64
	for _, d := range ds {
		quality += q(d) * float64(d.Total())
	}
	return quality
}

/*
QualifierByName takes the name of a split qualifier and returns it, or an
error matching ErrUnknownQualifier if there is no qualifier with that name.
*/
func QualifierByName(name string) (SplitQualifier, error) {
	switch name {
	case EntropyQualifier:
		return Entropy, nil
	case GiniQualifier:
		return Gini, nil
	case InformationGainQualifier:
		return InformationGain, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownQualifier, name)
}
