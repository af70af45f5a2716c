/*
Package sqldataset provides an implementation of dataset.Dataset that works
over a table of a SQL database, with a column for each feature of the
dataset metadata. Tables on SQLite3 and PostgreSQL databases are supported.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/feature"
)

const (
	// MaxSampleInsertionsPerStatement is the maximum number
	// of samples that are inserted with a single statement
	// by the Write method of a dataset. Writing more will
	// result in running more insertion statements
	MaxSampleInsertionsPerStatement = 10

	// PostgreSQL is the driver name for PostgreSQL databases
	PostgreSQL = "postgres"
	// SQLite3 is the driver name for SQLite3 databases
	SQLite3 = "sqlite3"
)

type sqlDataset struct {
	db      *sql.DB
	driver  string
	table   string
	md      *dataset.Metadata
	columns []string
}

/*
Open takes a database, the name of its driver, the name of a table and the
metadata describing the samples on it and returns a dataset.Dataset that
reads and writes samples on the table. An error is returned if the table or
any feature name cannot be used as a SQL identifier.
*/
func Open(db *sql.DB, driver, table string, md *dataset.Metadata) (dataset.Dataset, error) {
	t, err := quoteIdentifier(table)
	if err != nil {
		return nil, fmt.Errorf("table: %v", err)
	}
	columns := make([]string, 0, len(md.Features))
	for _, s := range md.Features {
		c, err := quoteIdentifier(s.Name)
		if err != nil {
			return nil, fmt.Errorf("feature: %v", err)
		}
		columns = append(columns, c)
	}
	return &sqlDataset{db: db, driver: driver, table: t, md: md, columns: columns}, nil
}

/*
Load takes a context, a database, the name of a table on it and the metadata
describing its samples and returns all the samples on the table.
*/
func Load(ctx context.Context, db *sql.DB, table string, md *dataset.Metadata) ([]dataset.Sample, error) {
	ds, err := Open(db, "", table, md)
	if err != nil {
		return nil, err
	}
	return ds.Samples(ctx)
}

/*
Create takes a context, a database, the name of its driver, the name of a
table and the metadata describing the samples to store and creates the table
if it does not exist, returning a dataset.Dataset over it.
*/
func Create(ctx context.Context, db *sql.DB, driver, table string, md *dataset.Metadata) (dataset.Dataset, error) {
	ds, err := Open(db, driver, table, md)
	if err != nil {
		return nil, err
	}
	sds := ds.(*sqlDataset)
	var stmt bytes.Buffer
	stmt.WriteString("CREATE TABLE IF NOT EXISTS ")
	stmt.WriteString(sds.table)
	stmt.WriteString(" (")
	for i, s := range md.Features {
		if i > 0 {
			stmt.WriteString(", ")
		}
		stmt.WriteString(sds.columns[i])
		if s.Kind == feature.Continuous {
			stmt.WriteString(" DOUBLE PRECISION NOT NULL")
		} else {
			stmt.WriteString(" TEXT NOT NULL")
		}
	}
	stmt.WriteString(")")
	_, err = db.ExecContext(ctx, stmt.String())
	if err != nil {
		return nil, fmt.Errorf("ensuring table %s exists: %v", table, err)
	}
	return sds, nil
}

func (sds *sqlDataset) Metadata() *dataset.Metadata {
	return sds.md
}

func (sds *sqlDataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(sds.columns, ", "), sds.table)
	rows, err := sds.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %v", err)
	}
	defer rows.Close()
	samples := []dataset.Sample{}
	values := make([]interface{}, len(sds.columns))
	pointers := make([]interface{}, len(sds.columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		err = rows.Scan(pointers...)
		if err != nil {
			return nil, fmt.Errorf("scanning sample %d: %v", len(samples)+1, err)
		}
		s := make(dataset.Sample, len(values))
		for i, spec := range sds.md.Features {
			v, err := spec.Coerce(values[i])
			if err != nil {
				return nil, fmt.Errorf("reading sample %d: %w", len(samples)+1, err)
			}
			s[spec.Name] = v
		}
		samples = append(samples, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("querying samples: %v", err)
	}
	return samples, nil
}

func (sds *sqlDataset) Count(ctx context.Context) (int, error) {
	var count int
	err := sds.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", sds.table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting samples: %v", err)
	}
	return count, nil
}

/*
Write inserts the given samples on the table in chunks of up to
MaxSampleInsertionsPerStatement samples and returns the number of samples
inserted.
*/
func (sds *sqlDataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	written := 0
	for written < len(samples) {
		end := written + MaxSampleInsertionsPerStatement
		if end > len(samples) {
			end = len(samples)
		}
		err := sds.insert(ctx, samples[written:end])
		if err != nil {
			return written, err
		}
		written = end
	}
	return written, nil
}

func (sds *sqlDataset) insert(ctx context.Context, samples []dataset.Sample) error {
	var stmt bytes.Buffer
	stmt.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ", sds.table, strings.Join(sds.columns, ", ")))
	args := make([]interface{}, 0, len(samples)*len(sds.columns))
	for i, s := range samples {
		if i > 0 {
			stmt.WriteString(", ")
		}
		stmt.WriteString("(")
		for j, spec := range sds.md.Features {
			if j > 0 {
				stmt.WriteString(", ")
			}
			v, err := spec.Coerce(s[spec.Name])
			if err != nil {
				return fmt.Errorf("inserting sample %v: %w", s, err)
			}
			args = append(args, v)
			stmt.WriteString(sds.placeholder(len(args)))
		}
		stmt.WriteString(")")
	}
	_, err := sds.db.ExecContext(ctx, stmt.String(), args...)
	if err != nil {
		return fmt.Errorf("inserting %d samples: %v", len(samples), err)
	}
	return nil
}

func (sds *sqlDataset) placeholder(n int) string {
	if sds.driver == PostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func quoteIdentifier(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty identifier")
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`name '%s' contains invalid character '"'`, name)
	}
	return `"` + name + `"`, nil
}
