/*
Package csv provides methods to read records from CSV streams and write them
to CSV streams.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/feature"
)

// UndefinedValue is the CSV value of a feature a record holds no value for
const UndefinedValue = "?"

/*
Writer is an interface for a CSV stream to which records
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given records
	// and will return the actually written number of
	// records and an error (if not all records could
	// be written)
	Write(context.Context, []dataset.Record) (int, error)
	// Count returns the total number of records written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count     int
	features  []feature.Feature
	label     string
	predicted bool
	w         *csv.Writer
}

/*
ReadRecords takes an io.Reader for a CSV stream, a slice of features and the
name of the label column and returns the records parsed from the reader or
an error.

The header or first row of the CSV content is expected to consist of the names
of the features in the given slice and optionally the label column, in any
order. The rest of the rows should consist of valid values for the features
and/or the '?' string to indicate an undefined value. Records read from a
stream without label column have an empty label.
*/
func ReadRecords(reader io.Reader, features []feature.Feature, label string) ([]dataset.Record, error) {
	var records []dataset.Record
	err := ReadRecordsByRecord(reader, features, label, func(_ int, r dataset.Record) (bool, error) {
		records = append(records, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

/*
ReadRecordsByRecord takes an io.Reader for a CSV stream, a slice of features,
the name of the label column and a lambda function on an integer and a
dataset.Record that returns a boolean value. It parses the records from the
reader and for each it calls the lambda function with the record and its
index as parameters. If the lambda function returns true, it will continue
processing the next record, otherwise it will stop. An error is returned if
something goes wrong when reading the stream or parsing a record.
*/
func ReadRecordsByRecord(reader io.Reader, features []feature.Feature, label string, lambda func(int, dataset.Record) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns, labelColumn, err := parseHeader(header, features, label)
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
		record, err := parseRow(row, columns, labelColumn, features)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, record)
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
ReadRecordsFromFilePath takes a filepath string, a slice of features and the
name of the label column, opens the file to which the filepath points to and
uses ReadRecords to return the records in it or an error. If the filepath is
"" os.Stdin is read instead.
*/
func ReadRecordsFromFilePath(filepath string, features []feature.Feature, label string) ([]dataset.Record, error) {
	f := os.Stdin
	if filepath != "" {
		var err error
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading records: %v", err)
		}
		defer f.Close()
	}
	records, err := ReadRecords(f, features, label)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return records, err
}

/*
NewWriter takes an io.Writer, a slice of feature.Features and the name of the
label column and returns a Writer that will write records on the io.Writer,
starting with a header row.
*/
func NewWriter(writer io.Writer, features []feature.Feature, label string) (Writer, error) {
	return newWriter(writer, features, label, false)
}

/*
NewPredictionWriter works like NewWriter but writes the predicted label of
the records in the label column instead of their label.
*/
func NewPredictionWriter(writer io.Writer, features []feature.Feature, label string) (Writer, error) {
	return newWriter(writer, features, label, true)
}

func newWriter(writer io.Writer, features []feature.Feature, label string, predicted bool) (Writer, error) {
	w := csv.NewWriter(writer)
	row := append(feature.Names(features), label)
	err := w.Write(row)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{features: features, label: label, predicted: predicted, w: w}, nil
}

/*
WriteRecords takes a context, a writer, a slice of records, a slice of
features and the label column name and dumps the records to the writer in
CSV format, specifying only the features in the given slice. It returns an
error if something went wrong when writing to the writer.
*/
func WriteRecords(ctx context.Context, writer io.Writer, records []dataset.Record, features []feature.Feature, label string) error {
	cw, err := NewWriter(writer, features, label)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, records)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func parseHeader(header []string, features []feature.Feature, label string) ([]feature.Feature, int, error) {
	columns := make([]feature.Feature, len(header))
	labelColumn := -1
	for i, name := range header {
		if name == label {
			labelColumn = i
			continue
		}
		f := feature.Find(features, name)
		if f == nil {
			return nil, 0, fmt.Errorf("parsing header: reference to unknown feature %s", name)
		}
		columns[i] = f
	}
	return columns, labelColumn, nil
}

func parseRow(row []string, columns []feature.Feature, labelColumn int, features []feature.Feature) (dataset.Record, error) {
	values := make(map[string]string, len(row))
	var label string
	for i, v := range row {
		if i == labelColumn {
			if v != UndefinedValue {
				label = v
			}
			continue
		}
		if v == UndefinedValue {
			continue
		}
		f := columns[i]
		if ok, err := f.Valid(v); !ok {
			return nil, fmt.Errorf("invalid value %q for feature %s: %v", v, f.Name(), err)
		}
		values[f.Name()] = v
	}
	return dataset.New(features, values, label), nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, records []dataset.Record) (int, error) {
	for n, r := range records {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		err := cw.writeRecord(r)
		if err != nil {
			return n, err
		}
	}
	return len(records), nil
}

func (cw *csvWriter) writeRecord(r dataset.Record) error {
	row := make([]string, 0, len(cw.features)+1)
	for _, f := range cw.features {
		v, err := r.Value(f.Name())
		if err != nil {
			v = UndefinedValue
		}
		row = append(row, v)
	}
	label := r.Label()
	if cw.predicted {
		label = r.PredictedLabel()
	}
	if label == "" {
		label = UndefinedValue
	}
	err := cw.w.Write(append(row, label))
	if err != nil {
		return fmt.Errorf("writing CSV row for record %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
