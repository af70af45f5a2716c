/*
Package yaml provides methods to parse dataset metadata, the description
of the features of a dataset, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/feature"
)

const continuousDeclaration = "continuous"
const discreteDeclaration = "discrete"

/*
ReadMetadata takes a slice of bytes with a metadata description in YAML and
returns the dataset.Metadata parsed from it or an error.

The YAML is expected to be an object containing a label property with the
name of the feature to predict and a features property. The value for this
should be an object with a property for each feature with its name and
either a string value of 'continuous' for continuous features, a string value
of 'discrete' for discrete features taking any value or a list of valid values
for discrete features. Features keep the order they are declared in.

The label may be left out and set afterwards; callers should check the
result with the Validate method of dataset.Metadata before using it.
*/
func ReadMetadata(data []byte) (*dataset.Metadata, error) {
	doc := struct {
		Label    string    `yaml:"label"`
		Features yaml.Node `yaml:"features"`
	}{}
	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	if doc.Features.Kind == 0 {
		return nil, fmt.Errorf("metadata has no feature information")
	}
	if doc.Features.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: features must be an object", doc.Features.Line)
	}
	md := &dataset.Metadata{Label: doc.Label}
	content := doc.Features.Content
	for i := 0; i+1 < len(content); i += 2 {
		spec, err := readSpec(content[i], content[i+1])
		if err != nil {
			return nil, err
		}
		md.Features = append(md.Features, spec)
	}
	return md, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*dataset.Metadata, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %v", filepath, err)
	}
	md, err := ReadMetadata(data)
	if err != nil {
		err = fmt.Errorf("parsing metadata yml file %s: %w", filepath, err)
	}
	return md, err
}

func readSpec(name, declaration *yaml.Node) (dataset.Spec, error) {
	spec := dataset.Spec{Name: name.Value, Kind: feature.Discrete}
	switch declaration.Kind {
	case yaml.ScalarNode:
		switch declaration.Value {
		case continuousDeclaration:
			spec.Kind = feature.Continuous
		case discreteDeclaration:
		default:
			return spec, fmt.Errorf("line %d: invalid declaration %q for feature %s", declaration.Line, declaration.Value, spec.Name)
		}
	case yaml.SequenceNode:
		for _, v := range declaration.Content {
			if v.Kind != yaml.ScalarNode {
				return spec, fmt.Errorf("line %d: values of feature %s must be scalars", v.Line, spec.Name)
			}
			spec.Values = append(spec.Values, v.Value)
		}
	default:
		return spec, fmt.Errorf("line %d: invalid declaration for feature %s", declaration.Line, spec.Name)
	}
	return spec, nil
}
