package dataset

import (
	"context"
	"fmt"
)

/*
Dataset represents a collection of samples described by some Metadata.

Its Samples method returns all the samples it contains and its Count method
returns how many there are. Its Write method adds the given samples to it and
returns the number of samples written.
*/
type Dataset interface {
	Metadata() *Metadata
	Samples(context.Context) ([]Sample, error)
	Count(context.Context) (int, error)
	Write(context.Context, []Sample) (int, error)
}

type memoryDataset struct {
	md      *Metadata
	samples []Sample
}

/*
New takes metadata and a slice of samples and returns a Dataset that keeps
them in memory.
*/
func New(md *Metadata, samples []Sample) Dataset {
	return &memoryDataset{md, samples}
}

func (mds *memoryDataset) Metadata() *Metadata {
	return mds.md
}

func (mds *memoryDataset) Samples(ctx context.Context) ([]Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return mds.samples, nil
}

func (mds *memoryDataset) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(mds.samples), nil
}

func (mds *memoryDataset) Write(ctx context.Context, samples []Sample) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	mds.samples = append(mds.samples, samples...)
	return len(samples), nil
}

/*
Check takes metadata and a sample and returns an error if the sample lacks
a value for any of the metadata specs or has a value a spec cannot take.
*/
func Check(md *Metadata, s Sample) error {
	for _, spec := range md.Features {
		v, ok := s[spec.Name]
		if !ok || v == nil {
			return fmt.Errorf("%w for feature %s", ErrMissingValue, spec.Name)
		}
		if _, err := spec.Coerce(v); err != nil {
			return err
		}
	}
	return nil
}
