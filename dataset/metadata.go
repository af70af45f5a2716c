package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pbanos/dendro/feature"
)

// Error is the type of the errors returned when describing or parsing samples
type Error string

const (
	// ErrMissingValue is returned when a sample has no value for a feature
	ErrMissingValue = Error("missing value")
	// ErrInvalidValue is returned when a value cannot be taken by a feature
	ErrInvalidValue = Error("invalid value")
	// ErrInvalidMetadata is returned by Metadata.Validate
	ErrInvalidMetadata = Error("invalid metadata")
)

func (e Error) Error() string {
	return string(e)
}

// UndefinedValue is the raw value that stands for an unknown value
const UndefinedValue = "?"

/*
Spec describes a feature of a sample: its name, its kind and, for discrete
features, the values it may take. A discrete Spec with no values accepts any
value.
*/
type Spec struct {
	Name   string
	Kind   feature.Kind
	Values []string
}

/*
Metadata describes the samples of a dataset: the ordered list of feature
specs and the name of the one to use as label.
*/
type Metadata struct {
	Features []Spec
	Label    string
}

/*
Feature returns a feature.Feature that extracts the value of the spec from
samples.
*/
func (s Spec) Feature() *feature.Feature[Sample] {
	name := s.Name
	extract := func(smp Sample) interface{} { return smp[name] }
	if s.Kind == feature.Continuous {
		return feature.NewDynamicContinuous(name, extract)
	}
	return feature.NewDynamicDiscrete(name, extract)
}

/*
Parse takes a raw string value for the spec, as found on a CSV field or
typed by a user, and returns the value for samples: a float64 for continuous
specs and the string itself for discrete ones. An empty string or the
UndefinedValue is a missing value.
*/
func (s Spec) Parse(raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == UndefinedValue {
		return nil, fmt.Errorf("%w for feature %s", ErrMissingValue, s.Name)
	}
	if s.Kind == feature.Continuous {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q for continuous feature %s", ErrInvalidValue, raw, s.Name)
		}
		return v, nil
	}
	return s.discrete(raw)
}

/*
Coerce takes a value for the spec as returned by a database driver and
returns the value for samples, converting numbers into float64 for
continuous specs and anything into its string form for discrete ones.
*/
func (s Spec) Coerce(v interface{}) (interface{}, error) {
	switch tv := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w for feature %s", ErrMissingValue, s.Name)
	case []byte:
		return s.Parse(string(tv))
	case string:
		return s.Parse(tv)
	}
	if s.Kind == feature.Continuous {
		switch tv := v.(type) {
		case float64:
			return tv, nil
		case float32:
			return float64(tv), nil
		case int:
			return float64(tv), nil
		case int32:
			return float64(tv), nil
		case int64:
			return float64(tv), nil
		}
		return nil, fmt.Errorf("%w %v of type %T for continuous feature %s", ErrInvalidValue, v, v, s.Name)
	}
	return s.discrete(fmt.Sprint(v))
}

// Format returns the raw string form of a sample value for the spec
func (s Spec) Format(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return UndefinedValue
	case float64:
		return strconv.FormatFloat(tv, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

func (s Spec) discrete(raw string) (interface{}, error) {
	if len(s.Values) == 0 {
		return raw, nil
	}
	for _, v := range s.Values {
		if v == raw {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("%w %q for discrete feature %s, expected one of %v", ErrInvalidValue, raw, s.Name, s.Values)
}

/*
Validate returns an error wrapping ErrInvalidMetadata if the metadata has
no label, its label is not among its specs or is not discrete, it has no
other spec, or two specs share a name.
*/
func (md *Metadata) Validate() error {
	if md.Label == "" {
		return fmt.Errorf("%w: no label", ErrInvalidMetadata)
	}
	seen := make(map[string]bool, len(md.Features))
	for _, s := range md.Features {
		if s.Name == "" {
			return fmt.Errorf("%w: feature with no name", ErrInvalidMetadata)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate feature %s", ErrInvalidMetadata, s.Name)
		}
		seen[s.Name] = true
	}
	label, ok := md.Spec(md.Label)
	if !ok {
		return fmt.Errorf("%w: label %s is not a feature", ErrInvalidMetadata, md.Label)
	}
	if label.Kind != feature.Discrete {
		return fmt.Errorf("%w: label %s is not discrete", ErrInvalidMetadata, md.Label)
	}
	if len(md.Features) < 2 {
		return fmt.Errorf("%w: no features besides label %s", ErrInvalidMetadata, md.Label)
	}
	return nil
}

// Spec returns the spec with the given name and whether it was found
func (md *Metadata) Spec(name string) (Spec, bool) {
	for _, s := range md.Features {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Names returns the names of all the specs, label included, in order
func (md *Metadata) Names() []string {
	names := make([]string, 0, len(md.Features))
	for _, s := range md.Features {
		names = append(names, s.Name)
	}
	return names
}

/*
Predictors returns the features of the metadata other than the label, in
the order they are declared.
*/
func (md *Metadata) Predictors() []*feature.Feature[Sample] {
	features := make([]*feature.Feature[Sample], 0, len(md.Features))
	for _, s := range md.Features {
		if s.Name == md.Label {
			continue
		}
		features = append(features, s.Feature())
	}
	return features
}

// LabelFeature returns the feature for the label of the metadata
func (md *Metadata) LabelFeature() (*feature.Feature[Sample], error) {
	s, ok := md.Spec(md.Label)
	if !ok {
		return nil, fmt.Errorf("%w: label %s is not a feature", ErrInvalidMetadata, md.Label)
	}
	return s.Feature(), nil
}

/*
LabelOf returns the label of the given sample. It is suitable as the label
function of a dendro.Learner.
*/
func (md *Metadata) LabelOf(s Sample) interface{} {
	return s[md.Label]
}
