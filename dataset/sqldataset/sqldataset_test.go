package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	// Import of SQLite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/feature"
)

var loanMetadata = &dataset.Metadata{
	Features: []dataset.Spec{
		{Name: "income", Kind: feature.Continuous},
		{Name: "employed", Kind: feature.Discrete, Values: []string{"yes", "no"}},
		{Name: "approved", Kind: feature.Discrete},
	},
	Label: "approved",
}

func openDB(t *testing.T) *sql.DB {
	db, err := sql.Open(SQLite3, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateWriteLoad(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	ds, err := Create(ctx, db, SQLite3, "loans", loanMetadata)
	require.NoError(t, err)
	assert.Same(t, loanMetadata, ds.Metadata())

	samples := make([]dataset.Sample, 0, 25)
	for i := 0; i < 25; i++ {
		samples = append(samples, dataset.Sample{
			"income":   float64(1000 * i),
			"employed": []string{"yes", "no"}[i%2],
			"approved": fmt.Sprint(i%3 == 0),
		})
	}
	n, err := ds.Write(ctx, samples)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	count, err := ds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	loaded, err := Load(ctx, db, "loans", loanMetadata)
	require.NoError(t, err)
	assert.ElementsMatch(t, samples, loaded)
}

func TestLoadExistingTable(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	_, err := db.Exec(`CREATE TABLE applications (id INTEGER PRIMARY KEY, income INTEGER, employed TEXT, approved INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO applications (income, employed, approved) VALUES (1200, 'yes', 1), (300, 'no', 0)`)
	require.NoError(t, err)

	loaded, err := Load(ctx, db, "applications", loanMetadata)
	require.NoError(t, err)
	assert.Equal(t, []dataset.Sample{
		{"income": 1200.0, "employed": "yes", "approved": "1"},
		{"income": 300.0, "employed": "no", "approved": "0"},
	}, loaded)

	_, err = db.Exec(`INSERT INTO applications (income, employed, approved) VALUES (NULL, 'no', 0)`)
	require.NoError(t, err)
	_, err = Load(ctx, db, "applications", loanMetadata)
	assert.ErrorIs(t, err, dataset.ErrMissingValue)
}

func TestInvalidIdentifiers(t *testing.T) {
	db := openDB(t)
	_, err := Open(db, SQLite3, `loans"; DROP TABLE x; --`, loanMetadata)
	assert.Error(t, err)
	_, err = Open(db, SQLite3, "", loanMetadata)
	assert.Error(t, err)
	md := &dataset.Metadata{Features: []dataset.Spec{{Name: `a"b`}}}
	_, err = Open(db, SQLite3, "loans", md)
	assert.Error(t, err)

	_, err = Load(context.Background(), db, "missing", loanMetadata)
	assert.Error(t, err)
}

func TestWriteInvalidSample(t *testing.T) {
	ctx := context.Background()
	ds, err := Create(ctx, openDB(t), SQLite3, "loans", loanMetadata)
	require.NoError(t, err)
	n, err := ds.Write(ctx, []dataset.Sample{
		{"income": 1.0, "employed": "yes", "approved": "true"},
		{"income": 1.0, "employed": "maybe", "approved": "true"},
	})
	assert.ErrorIs(t, err, dataset.ErrInvalidValue)
	assert.Equal(t, 0, n)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$3", (&sqlDataset{driver: PostgreSQL}).placeholder(3))
	assert.Equal(t, "?", (&sqlDataset{driver: SQLite3}).placeholder(3))
}
