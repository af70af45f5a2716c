/*
Package dendro grows decision trees from labeled records and provides the
split qualifiers and options used to do so.

Records are of any type R. A Learner is given a function that extracts the
label of a record and a list of features that extract the values the tree
can branch on. Its Learn method returns the root of the grown tree, which
the tree package can classify records with.
*/
package dendro

import (
	"cmp"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pbanos/dendro/feature"
	"github.com/pbanos/dendro/tree"
)

/*
Learner grows decision trees over records of type R that predict a label
using an ordered list of features. Features registered earlier win ties
between equally good splits.
*/
type Learner[R any] struct {
	label     func(R) interface{}
	features  []*feature.Feature[R]
	opts      Options
	qualifier SplitQualifier
	settings
}

type settings struct {
	logger     *zap.Logger
	nodeBudget int
}

// LearnerOption configures optional behaviour of a Learner
type LearnerOption func(*settings)

// WithLogger sets the logger a Learner reports its progress to
func WithLogger(l *zap.Logger) LearnerOption {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

/*
WithNodeBudget limits the number of nodes a Learner may create for a tree.
Learn fails with ErrNodeBudgetExceeded when growing the tree would need
more. A budget of 0 or less means no limit.
*/
func WithNodeBudget(n int) LearnerOption {
	return func(s *settings) {
		s.nodeBudget = n
	}
}

/*
New takes a function that extracts the label of a record, the training
options and optional learner options and returns a Learner with no
features. It returns ErrNoLabel if label is nil and an error matching
ErrInvalidOptions if the options are not valid.
*/
func New[R any](label func(R) interface{}, opts Options, lopts ...LearnerOption) (*Learner[R], error) {
	if label == nil {
		return nil, ErrNoLabel
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	q, err := opts.Qualifier()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	l := &Learner[R]{
		label:     label,
		opts:      opts,
		qualifier: q,
		settings:  settings{logger: zap.NewNop()},
	}
	for _, o := range lopts {
		o(&l.settings)
	}
	return l, nil
}

/*
NewWithLabel is like New but takes a label extractor returning values of a
comparable type.
*/
func NewWithLabel[R any, L comparable](label func(R) L, opts Options, lopts ...LearnerOption) (*Learner[R], error) {
	if label == nil {
		return nil, ErrNoLabel
	}
	return New(func(r R) interface{} { return label(r) }, opts, lopts...)
}

/*
AddFeature takes a feature and registers it on the learner after the
features already registered. It returns an error if the feature is not
valid or a feature with the same name is already registered.
*/
func (l *Learner[R]) AddFeature(f *feature.Feature[R]) error {
	if err := f.Validate(); err != nil {
		return err
	}
	for _, rf := range l.features {
		if rf.Name() == f.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateFeature, f.Name())
		}
	}
	l.features = append(l.features, f)
	return nil
}

// AddDiscreteFeature registers a discrete feature with the given name and extractor
func (l *Learner[R]) AddDiscreteFeature(name string, extract func(R) interface{}) error {
	return l.AddFeature(feature.NewDynamicDiscrete(name, extract))
}

/*
AddContinuousFeature registers a continuous feature with the given name and
extractor. The extracted values must be ordered by feature.Compare.
*/
func (l *Learner[R]) AddContinuousFeature(name string, extract func(R) interface{}) error {
	return l.AddFeature(feature.NewDynamicContinuous(name, extract))
}

// AddDiscrete registers on l a discrete feature extracting values of type V
func AddDiscrete[R any, V comparable](l *Learner[R], name string, extract func(R) V) error {
	return l.AddFeature(feature.NewDiscrete(name, extract))
}

// AddContinuous registers on l a continuous feature extracting ordered values of type V
func AddContinuous[R any, V cmp.Ordered](l *Learner[R], name string, extract func(R) V) error {
	return l.AddFeature(feature.NewContinuous(name, extract))
}

// Features returns the registered features in registration order
func (l *Learner[R]) Features() []*feature.Feature[R] {
	features := make([]*feature.Feature[R], len(l.features))
	copy(features, l.features)
	return features
}

// Options returns the training options of the learner
func (l *Learner[R]) Options() Options {
	return l.opts
}

/*
Learn takes a context and a slice of records and grows a tree predicting the
label of the records. The records are not modified.

The root node holds the distribution of labels over all the records. Every
node is then branched out on the feature whose best partition has the
highest weighted quality, as long as it improves on the quality of the node
itself. Children are branched out in turn unless a stopping rule applies to
them.

Learn returns ErrNoFeatures if no feature is registered, the context error
if the context is cancelled while growing the tree and an error if a record
holds a value that cannot be branched on. No tree is returned on error.
*/
func (l *Learner[R]) Learn(ctx context.Context, records []R) (*tree.Node[R], error) {
	if len(l.features) == 0 {
		return nil, ErrNoFeatures
	}
	samples := make([]sample[R], len(records))
	d := tree.NewDistribution()
	for i, r := range records {
		label := l.label(r)
		if !feature.Hashable(label) {
			return nil, fmt.Errorf("%w: label of record %d is %T", feature.ErrNotHashable, i, label)
		}
		samples[i] = sample[R]{record: r, label: label}
		d.Add(label)
	}
	root := tree.NewNode[R](nil, d)
	g := &grower[R]{Learner: l, ctx: ctx, nodes: 1}
	if l.opts.MaxDepth > 0 {
		if err := g.expand(root, samples, 0); err != nil {
			return nil, err
		}
	}
	l.logger.Info("tree grown",
		zap.Int("records", len(records)),
		zap.Int("nodes", g.nodes),
		zap.Int("depth", root.Height()),
	)
	return root, nil
}

// grower holds the state of a single training run
type grower[R any] struct {
	*Learner[R]
	ctx   context.Context
	nodes int
}

func (g *grower[R]) expand(n *tree.Node[R], samples []sample[R], depth int) error {
	if err := g.ctx.Err(); err != nil {
		return err
	}
	baseline := g.qualifier(n.Distribution) * float64(n.Distribution.Total())
	var best *Partition[R]
	for _, f := range g.features {
		p, err := partition(f, n.Distribution, samples, g.qualifier)
		if err != nil {
			return err
		}
		if len(p.Children) == 0 {
			continue
		}
		if best == nil || p.Quality > best.Quality {
			best = p
		}
	}
	if best == nil || best.Quality <= baseline {
		return nil
	}
	if g.nodeBudget > 0 && g.nodes+len(best.Children) > g.nodeBudget {
		return fmt.Errorf("%w: %d nodes", ErrNodeBudgetExceeded, g.nodeBudget)
	}
	n.Split(best.Feature, best.Children)
	g.nodes += len(best.Children)
	g.logger.Debug("node branched out",
		zap.String("feature", best.Feature.Name()),
		zap.Int("depth", depth),
		zap.Int("children", len(best.Children)),
		zap.Float64("quality", best.Quality),
		zap.Float64("baseline", baseline),
	)
	for _, c := range n.Children {
		if rule := g.opts.stops(depth+1, c.Distribution); rule != "" {
			g.logger.Debug("leaf reached",
				zap.Stringer("key", c.Key),
				zap.Int("depth", depth+1),
				zap.String("rule", rule),
			)
			continue
		}
		subset, err := filter(best.Feature, c.Key, samples)
		if err != nil {
			return err
		}
		if err := g.expand(c, subset, depth+1); err != nil {
			return err
		}
	}
	return nil
}
