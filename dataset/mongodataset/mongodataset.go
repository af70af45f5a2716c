/*
Package mongodataset provides an implementation of dataset.Dataset
that uses a collection of a MongoDB database as backend, with a document
for each sample and a field on it for each feature.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/dendro/dataset"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

type mongodataset struct {
	session    *mgo.Session
	collection string
	md         *dataset.Metadata
}

/*
Open takes a MongoDB database session, the name of a collection and the
metadata describing the samples on it and returns a dataset.Dataset that
works on the collection of the default database for that session. An error
is returned if a feature name cannot be used as a document field or the
indexes on the collection cannot be ensured.
*/
func Open(ctx context.Context, session *mgo.Session, collection string, md *dataset.Metadata) (dataset.Dataset, error) {
	if collection == "" || strings.ContainsAny(collection, "$") {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}
	mds := &mongodataset{session, collection, md}
	err := mds.ensureIndexes(ctx)
	if err != nil {
		return nil, err
	}
	return mds, nil
}

/*
Load takes a context, a MongoDB database session, the name of a collection
and the metadata describing its samples and returns all the samples on the
collection.
*/
func Load(ctx context.Context, session *mgo.Session, collection string, md *dataset.Metadata) ([]dataset.Sample, error) {
	ds, err := Open(ctx, session, collection, md)
	if err != nil {
		return nil, err
	}
	return ds.Samples(ctx)
}

func (mds *mongodataset) Metadata() *dataset.Metadata {
	return mds.md
}

func (mds *mongodataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	samples := []dataset.Sample{}
	var doc bson.M
	iter := mds.samplesCollection().Find(nil).Iter()
	defer iter.Close()
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := make(dataset.Sample, len(mds.md.Features))
		for _, spec := range mds.md.Features {
			v, err := spec.Coerce(doc[spec.Name])
			if err != nil {
				return nil, fmt.Errorf("reading document %v: %w", doc["_id"], err)
			}
			s[spec.Name] = v
		}
		samples = append(samples, s)
		doc = nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func (mds *mongodataset) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return mds.samplesCollection().Count()
}

func (mds *mongodataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc := make(bson.M, len(mds.md.Features))
		for _, spec := range mds.md.Features {
			v, err := spec.Coerce(s[spec.Name])
			if err != nil {
				return 0, err
			}
			doc[spec.Name] = v
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err := mds.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

func (mds *mongodataset) ensureIndexes(ctx context.Context) error {
	for _, spec := range mds.md.Features {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := spec.Name
		if name == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(name, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", name, ".", "$")
		}
		if name == mds.md.Label {
			continue
		}
		index := mgo.Index{
			Key:        []string{name},
			Background: true,
			Sparse:     true,
		}
		err := mds.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (mds *mongodataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(mds.collection)
}
