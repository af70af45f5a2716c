/*
Package csv reads and writes dataset samples as CSV.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/dendro/dataset"
)

/*
Writer is an interface for a CSV stream to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given samples
	// and will return the actually written number of
	// samples and an error (if not all samples
	// could be written)
	Write(context.Context, []dataset.Sample) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count int
	specs []dataset.Spec
	w     *csv.Writer
}

/*
Read takes an io.Reader for a CSV stream and the metadata describing its
samples and returns the samples parsed from the reader or an error.

The header or first row of the CSV content is expected to contain the names
of all the features in the metadata, in any order. Columns for other names
are ignored. The rest of the rows should consist of valid values for all the
features; the '?' string stands for an undefined value, which is rejected.
*/
func Read(reader io.Reader, md *dataset.Metadata) ([]dataset.Sample, error) {
	samples := []dataset.Sample{}
	err := ReadBySample(reader, md, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

/*
ReadBySample takes an io.Reader for a CSV stream, the metadata describing its
samples and a lambda function on an integer and a dataset.Sample that returns
a boolean value. It parses the samples from the reader and for each it calls
the lambda function with the sample and its index as parameters. If the lambda
function returns true, it will continue processing the next sample, otherwise
it will stop. An error is returned if something goes wrong when reading the
stream or parsing a sample.
*/
func ReadBySample(reader io.Reader, md *dataset.Metadata, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns, err := parseHeader(header, md)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseRow(row, columns)
		if err != nil {
			return fmt.Errorf("parsing line %d: %w", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadFromFilePath takes a filepath string and the metadata describing the
samples, opens the file to which the filepath points to and uses Read to
return the samples read from it. If the filepath is "" os.Stdin is read
instead. It will return an error if the given filepath cannot be opened for
reading.
*/
func ReadFromFilePath(filepath string, md *dataset.Metadata) ([]dataset.Sample, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	samples, err := Read(f, md)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %w", filepath, err)
	}
	return samples, err
}

/*
NewWriter takes an io.Writer and the metadata describing the samples to
write and returns a Writer that will write any samples on the io.Writer,
with a column for each of the metadata features in order.
*/
func NewWriter(writer io.Writer, md *dataset.Metadata) (Writer, error) {
	w := csv.NewWriter(writer)
	err := w.Write(md.Names())
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{specs: md.Features, w: w}, nil
}

/*
Write takes a context, an io.Writer, a slice of samples and the metadata
describing them and dumps the samples onto the writer in CSV format.
*/
func Write(ctx context.Context, writer io.Writer, samples []dataset.Sample, md *dataset.Metadata) error {
	cw, err := NewWriter(writer, md)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, samples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

type column struct {
	index int
	spec  dataset.Spec
}

func parseHeader(header []string, md *dataset.Metadata) ([]column, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := positions[name]; ok {
			return nil, fmt.Errorf("parsing header: duplicate column %s", name)
		}
		positions[name] = i
	}
	columns := make([]column, 0, len(md.Features))
	for _, s := range md.Features {
		i, ok := positions[s.Name]
		if !ok {
			return nil, fmt.Errorf("parsing header: no column for feature %s", s.Name)
		}
		columns = append(columns, column{i, s})
	}
	return columns, nil
}

func parseRow(row []string, columns []column) (dataset.Sample, error) {
	s := make(dataset.Sample, len(columns))
	for _, c := range columns {
		if c.index >= len(row) {
			return nil, fmt.Errorf("%w for feature %s", dataset.ErrMissingValue, c.spec.Name)
		}
		v, err := c.spec.Parse(row[c.index])
		if err != nil {
			return nil, err
		}
		s[c.spec.Name] = v
	}
	return s, nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n, s := range samples {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := cw.writeSample(s); err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(s dataset.Sample) error {
	record := make([]string, len(cw.specs))
	for j, spec := range cw.specs {
		record[j] = spec.Format(s[spec.Name])
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
