package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
	// Import of SQLite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/dataset/csv"
	"github.com/pbanos/dendro/dataset/mongodataset"
	"github.com/pbanos/dendro/dataset/sqldataset"
	"github.com/pbanos/dendro/feature/yaml"
)

const (
	defaultTable     = "samples"
	locationHelp     = "a CSV (.csv) or SQLite3 (.db) file, a PostgreSQL DB connection URL (postgres://) or a MongoDB connection URL (mongodb://)"
	postgresPrefix   = "postgres://"
	postgresqlPrefix = "postgresql://"
	mongoPrefix      = "mongodb://"
	sqlite3Suffix    = ".db"
)

type sampleWriter interface {
	Write(context.Context, []dataset.Sample) (int, error)
}

type csvOutput struct {
	csv.Writer
	f *os.File
}

func addDatasetFlags(cmd *cobra.Command, inputUsage string) {
	cmd.Flags().StringP("input", "i", "", fmt.Sprintf("%s: %s (defaults to STDIN, interpreted as CSV)", inputUsage, locationHelp))
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file with metadata describing the different features available on the input (required)")
	cmd.Flags().StringP("label", "l", "", "name of the feature to predict (defaults to the label in the metadata)")
	cmd.Flags().String("table", defaultTable, "name of the table or collection holding the samples on SQL and MongoDB databases")
}

/*
metadata reads the metadata from the file on the metadata flag, overrides
its label with the label flag if given and validates it.
*/
func (rcc *rootCmdConfig) metadata() (*dataset.Metadata, error) {
	path, err := rcc.requireString("metadata")
	if err != nil {
		return nil, err
	}
	rcc.Logf("Reading features from metadata at %s...", path)
	md, err := yaml.ReadMetadataFromFile(path)
	if err != nil {
		return nil, err
	}
	if label := rcc.v.GetString("label"); label != "" {
		md.Label = label
	}
	if err = md.Validate(); err != nil {
		return nil, fmt.Errorf("metadata at %s: %w", path, err)
	}
	return md, nil
}

/*
openDataset takes a location and returns the dataset on it along a function
to release the resources held by it. When create is true SQL tables are
created if they do not exist.
*/
func (rcc *rootCmdConfig) openDataset(ctx context.Context, location string, md *dataset.Metadata, create bool) (dataset.Dataset, func() error, error) {
	table := rcc.v.GetString("table")
	if table == "" {
		table = defaultTable
	}
	switch {
	case strings.HasPrefix(location, postgresPrefix), strings.HasPrefix(location, postgresqlPrefix):
		rcc.Logf("Opening table %s on PostgreSQL database...", table)
		return openSQLDataset(ctx, sqldataset.PostgreSQL, location, table, md, create)
	case strings.HasPrefix(location, mongoPrefix):
		rcc.Logf("Opening collection %s on MongoDB database...", table)
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to MongoDB: %v", err)
		}
		ds, err := mongodataset.Open(ctx, session, table, md)
		if err != nil {
			session.Close()
			return nil, nil, err
		}
		return ds, func() error { session.Close(); return nil }, nil
	case strings.HasSuffix(location, sqlite3Suffix):
		rcc.Logf("Opening table %s on SQLite3 file %s...", table, location)
		return openSQLDataset(ctx, sqldataset.SQLite3, location, table, md, create)
	}
	if location == "" {
		rcc.Logf("Reading dataset from STDIN...")
	} else {
		rcc.Logf("Reading dataset from %s...", location)
	}
	samples, err := csv.ReadFromFilePath(location, md)
	if err != nil {
		return nil, nil, err
	}
	return dataset.New(md, samples), func() error { return nil }, nil
}

func openSQLDataset(ctx context.Context, driver, dsn, table string, md *dataset.Metadata, create bool) (dataset.Dataset, func() error, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	var ds dataset.Dataset
	if create {
		ds, err = sqldataset.Create(ctx, db, driver, table, md)
	} else {
		ds, err = sqldataset.Open(db, driver, table, md)
	}
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return ds, db.Close, nil
}

/*
openOutput takes a location and returns a sampleWriter to dump samples on
along a function to flush them and release the resources held by it. CSV
output goes to STDOUT when the location is "".
*/
func (rcc *rootCmdConfig) openOutput(ctx context.Context, cmd *cobra.Command, location string, md *dataset.Metadata) (sampleWriter, func() error, error) {
	if strings.HasPrefix(location, postgresPrefix) || strings.HasPrefix(location, postgresqlPrefix) ||
		strings.HasPrefix(location, mongoPrefix) || strings.HasSuffix(location, sqlite3Suffix) {
		return rcc.openDataset(ctx, location, md, true)
	}
	out := &csvOutput{}
	w := cmd.OutOrStdout()
	if location != "" {
		rcc.Logf("Creating %s to dump output dataset...", location)
		f, err := os.Create(location)
		if err != nil {
			return nil, nil, err
		}
		out.f = f
		w = f
	}
	cw, err := csv.NewWriter(w, md)
	if err != nil {
		if out.f != nil {
			out.f.Close()
		}
		return nil, nil, err
	}
	out.Writer = cw
	return out, out.Close, nil
}

func (co *csvOutput) Close() error {
	err := co.Flush()
	if co.f != nil {
		if cerr := co.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
