/*
Package json encodes the keys of tree branches and the values of features
as JSON.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/dendro/feature"
)

/*
KeyEncodeDecoder is an interface for objects that allow encoding branch keys
into slices of bytes and decoding them back to branch keys.
*/
type KeyEncodeDecoder[R any] interface {

	//Encode receives a feature.Value and returns a slice
	//of bytes with the key encoded or an error if the
	//encoding could not be performed for some reason.
	Encode(feature.Value) ([]byte, error)

	//Decode receives the feature a key belongs to and a
	//slice of bytes and returns the feature.Value decoded
	//from the slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode(*feature.Feature[R], []byte) (feature.Value, error)
}

type keyEncodeDecoder[R any] struct{}

type jsonKey struct {
	Type  string           `json:"type"`
	Value *json.RawMessage `json:"value,omitempty"`
	From  *json.RawMessage `json:"from,omitempty"`
	To    *json.RawMessage `json:"to,omitempty"`
}

// NewKeyEncodeDecoder returns a KeyEncodeDecoder that marshals and
// unmarshals keys into/from slices of bytes as JSON.
// Specifically, keys are encoded as a JSON object with a "type" property
// that can be one of "discrete" or "continuous":
//   - If the key is discrete it will have a "value" property with the value
//     of the feature that activates it
//   - If the key is continuous it will have "from" and "to" properties
//     defining the start (inclusive) and end (exclusive) of the interval of
//     values activating it. A missing property means that end of the
//     interval is unbounded.
//
// Decoded values are converted to the type of the feature's values with
// the feature's Normalize method.
func NewKeyEncodeDecoder[R any]() KeyEncodeDecoder[R] {
	return keyEncodeDecoder[R]{}
}

func (keyEncodeDecoder[R]) Encode(key feature.Value) ([]byte, error) {
	switch k := key.(type) {
	case feature.DiscreteValue:
		v, err := rawValue(k.Value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&jsonKey{Type: "discrete", Value: v})
	case feature.ContinuousRange:
		jk := &jsonKey{Type: "continuous"}
		var err error
		if k.From != nil {
			if jk.From, err = rawValue(k.From); err != nil {
				return nil, err
			}
		}
		if k.To != nil {
			if jk.To, err = rawValue(k.To); err != nil {
				return nil, err
			}
		}
		return json.Marshal(jk)
	}
	return nil, fmt.Errorf("unknown type of feature.Value %T", key)
}

func (keyEncodeDecoder[R]) Decode(f *feature.Feature[R], data []byte) (feature.Value, error) {
	jk := &jsonKey{}
	err := json.Unmarshal(data, jk)
	if err != nil {
		return nil, err
	}
	switch jk.Type {
	case "discrete":
		if f.Kind() != feature.Discrete {
			return nil, fmt.Errorf("expected discrete feature for discrete key but found %v feature %v", f.Kind(), f.Name())
		}
		if jk.Value == nil {
			return nil, fmt.Errorf("discrete key for feature %v has no value", f.Name())
		}
		v, err := DecodeValue(f.Normalize, *jk.Value)
		if err != nil {
			return nil, err
		}
		return feature.DiscreteValue{Value: v}, nil
	case "continuous":
		if f.Kind() != feature.Continuous {
			return nil, fmt.Errorf("expected continuous feature for continuous key but found %v feature %v", f.Kind(), f.Name())
		}
		var cr feature.ContinuousRange
		if jk.From != nil {
			if cr.From, err = DecodeValue(f.Normalize, *jk.From); err != nil {
				return nil, err
			}
		}
		if jk.To != nil {
			if cr.To, err = DecodeValue(f.Normalize, *jk.To); err != nil {
				return nil, err
			}
		}
		return cr, nil
	}
	return nil, fmt.Errorf("unknown key type '%s'", jk.Type)
}

/*
DecodeValue takes a normalizing function and a JSON value, unmarshals the
value and returns the result of normalizing it. A nil normalize function
returns the unmarshalled value as is. Values that cannot be compared for
equality are rejected.
*/
func DecodeValue(normalize func(interface{}) (interface{}, error), data json.RawMessage) (interface{}, error) {
	var v interface{}
	err := json.Unmarshal(data, &v)
	if err != nil {
		return nil, err
	}
	if normalize != nil {
		v, err = normalize(v)
		if err != nil {
			return nil, err
		}
	}
	if !feature.Hashable(v) {
		return nil, fmt.Errorf("%w: decoded %T value", feature.ErrNotHashable, v)
	}
	return v, nil
}

func rawValue(v interface{}) (*json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	raw := json.RawMessage(data)
	return &raw, nil
}
