package sqldataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/feature"
)

/*
Dataset is a record store on an SQL database to which records can
be added and from which records can be sequentially read
*/
type Dataset struct {
	adapter  Adapter
	features []feature.Feature
	label    string
	columns  []string
}

/*
Open takes a context, an Adapter, a slice of features and the name of the
label and returns a Dataset that works on the adapter's database, creating
the records table if it does not exist, or an error.
*/
func Open(ctx context.Context, adapter Adapter, features []feature.Feature, label string) (*Dataset, error) {
	ds := &Dataset{adapter: adapter, features: features, label: label}
	seen := make(map[string]bool)
	for _, name := range append(feature.Names(features), label) {
		c, err := adapter.ColumnName(name)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			return nil, fmt.Errorf("column %s is used more than once", c)
		}
		seen[c] = true
		ds.columns = append(ds.columns, c)
	}
	err := adapter.CreateRecordTable(ctx, ds.columns)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

/*
Write takes a context and a slice of records and adds them to the
database. It returns the number of records added and an error if not all
of them could be.
*/
func (ds *Dataset) Write(ctx context.Context, records []dataset.Record) (int, error) {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		row := make([]interface{}, 0, len(ds.columns))
		for _, f := range ds.features {
			v, err := r.Value(f.Name())
			if err != nil {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		if r.Label() == "" {
			row = append(row, nil)
		} else {
			row = append(row, r.Label())
		}
		rows = append(rows, row)
	}
	return ds.adapter.AddRecords(ctx, ds.columns, rows)
}

/*
Read takes a context and returns a channel on which the records in the
database are sent in insertion order and a channel that receives an
error if the records cannot be read. Both are closed when reading ends.
*/
func (ds *Dataset) Read(ctx context.Context) (<-chan dataset.Record, <-chan error) {
	records := make(chan dataset.Record)
	errs := make(chan error, 1)
	go func() {
		defer close(records)
		defer close(errs)
		err := ds.adapter.IterateOnRecords(ctx, ds.columns, func(_ int, values []sql.NullString) (bool, error) {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case records <- ds.record(values):
				return true, nil
			}
		})
		if err != nil {
			errs <- err
		}
	}()
	return records, errs
}

/*
Records takes a context and returns all the records in the database in
insertion order or an error.
*/
func (ds *Dataset) Records(ctx context.Context) ([]dataset.Record, error) {
	var result []dataset.Record
	err := ds.adapter.IterateOnRecords(ctx, ds.columns, func(_ int, values []sql.NullString) (bool, error) {
		result = append(result, ds.record(values))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of records in the database
func (ds *Dataset) Count(ctx context.Context) (int, error) {
	return ds.adapter.CountRecords(ctx)
}

// Close closes the database of the dataset
func (ds *Dataset) Close() error {
	return ds.adapter.Close()
}

func (ds *Dataset) record(values []sql.NullString) dataset.Record {
	fv := make(map[string]string, len(ds.features))
	for i, f := range ds.features {
		if values[i].Valid {
			fv[f.Name()] = values[i].String
		}
	}
	var label string
	if l := values[len(ds.features)]; l.Valid {
		label = l.String
	}
	return dataset.New(ds.features, fv, label)
}
