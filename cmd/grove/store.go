package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/dataset/csv"
	"github.com/grovekit/grove/dataset/mongodataset"
	"github.com/grovekit/grove/dataset/sqldataset"
	"github.com/grovekit/grove/dataset/sqldataset/pgadapter"
	"github.com/grovekit/grove/dataset/sqldataset/sqlite3adapter"
	"github.com/grovekit/grove/feature"
	"github.com/grovekit/grove/feature/yaml"
	mgo "gopkg.in/mgo.v2"
)

const storeFlagUsage = "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL"

type recordWriter interface {
	Write(context.Context, []dataset.Record) (int, error)
	Flush() error
}

type recordStream interface {
	Read(context.Context) (<-chan dataset.Record, <-chan error)
}

type closableRecordWriter struct {
	recordWriter
	close func() error
}

func (crw *closableRecordWriter) Flush() error {
	err := crw.recordWriter.Flush()
	if cerr := crw.close(); err == nil {
		err = cerr
	}
	return err
}

type storeWriter struct {
	w interface {
		Write(context.Context, []dataset.Record) (int, error)
	}
}

func (sw storeWriter) Write(ctx context.Context, records []dataset.Record) (int, error) {
	return sw.w.Write(ctx, records)
}

func (sw storeWriter) Flush() error {
	return nil
}

type csvStream struct {
	r        io.ReadCloser
	features []feature.Feature
	label    string
}

func (cs *csvStream) Read(ctx context.Context) (<-chan dataset.Record, <-chan error) {
	records := make(chan dataset.Record)
	errs := make(chan error, 1)
	go func() {
		defer close(records)
		defer close(errs)
		defer cs.r.Close()
		err := csv.ReadRecordsByRecord(cs.r, cs.features, cs.label, func(_ int, r dataset.Record) (bool, error) {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case records <- r:
			}
			return true, nil
		})
		if err != nil {
			errs <- err
		}
	}()
	return records, errs
}

func (rcc *rootCmdConfig) readMetadata(path, label string) (*yaml.Metadata, error) {
	if path == "" {
		return nil, fmt.Errorf("required metadata flag was not set")
	}
	rcc.Logf("Reading features from metadata at %s...", path)
	md, err := yaml.ReadMetadataFromFile(path)
	if err != nil {
		return nil, err
	}
	if label != "" {
		md.Label = label
		var features []feature.Feature
		for _, f := range md.Features {
			if f.Name() != label {
				features = append(features, f)
			}
		}
		md.Features = features
	}
	if md.Label == "" {
		return nil, fmt.Errorf("no label defined in metadata nor with the label flag")
	}
	return md, nil
}

/*
openStream takes a location and metadata and returns a stream of the
records at the location. CSV content is read from STDIN when the location
is "".
*/
func (rcc *rootCmdConfig) openStream(location string, md *yaml.Metadata) (recordStream, error) {
	switch {
	case strings.HasPrefix(location, "postgresql://"):
		rcc.Logf("Creating PostgreSQL adapter for url %s...", location)
		adapter, err := pgadapter.New(location)
		if err != nil {
			return nil, err
		}
		return sqldataset.Open(rcc.Context(), adapter, md.Features, md.Label)
	case strings.HasPrefix(location, "mongodb://"):
		rcc.Logf("Connecting to MongoDB at %s...", location)
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %v", location, err)
		}
		return mongodataset.Open(rcc.Context(), session, md.Features, md.Label)
	case strings.HasSuffix(location, ".db"):
		rcc.Logf("Creating SQLite3 adapter for file %s...", location)
		adapter, err := sqlite3adapter.New(location)
		if err != nil {
			return nil, err
		}
		return sqldataset.Open(rcc.Context(), adapter, md.Features, md.Label)
	case location == "":
		rcc.Logf("Reading records from STDIN...")
		return &csvStream{io.NopCloser(os.Stdin), md.Features, md.Label}, nil
	}
	rcc.Logf("Opening %s to read records...", location)
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("opening records at %s: %v", location, err)
	}
	return &csvStream{f, md.Features, md.Label}, nil
}

/*
readRecords takes a location and metadata and returns all the records at
the location.
*/
func (rcc *rootCmdConfig) readRecords(location string, md *yaml.Metadata) ([]dataset.Record, error) {
	stream, err := rcc.openStream(location, md)
	if err != nil {
		return nil, err
	}
	var records []dataset.Record
	ch, errs := stream.Read(rcc.Context())
	for r := range ch {
		records = append(records, r)
	}
	err = <-errs
	if err != nil {
		return nil, fmt.Errorf("reading records from %s: %v", location, err)
	}
	rcc.Logf("Read %d records", len(records))
	return records, nil
}

/*
openWriter takes a location and metadata and returns a writer that stores
records at the location. CSV content is written to STDOUT when the location
is "".
*/
func (rcc *rootCmdConfig) openWriter(location string, md *yaml.Metadata) (recordWriter, error) {
	switch {
	case strings.HasPrefix(location, "postgresql://"):
		adapter, err := pgadapter.New(location)
		if err != nil {
			return nil, err
		}
		ds, err := sqldataset.Open(rcc.Context(), adapter, md.Features, md.Label)
		if err != nil {
			return nil, err
		}
		return &closableRecordWriter{storeWriter{ds}, ds.Close}, nil
	case strings.HasPrefix(location, "mongodb://"):
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %v", location, err)
		}
		ds, err := mongodataset.Open(rcc.Context(), session, md.Features, md.Label)
		if err != nil {
			return nil, err
		}
		return &closableRecordWriter{storeWriter{ds}, func() error {
			session.Close()
			return nil
		}}, nil
	case strings.HasSuffix(location, ".db"):
		adapter, err := sqlite3adapter.New(location)
		if err != nil {
			return nil, err
		}
		ds, err := sqldataset.Open(rcc.Context(), adapter, md.Features, md.Label)
		if err != nil {
			return nil, err
		}
		return &closableRecordWriter{storeWriter{ds}, ds.Close}, nil
	case location == "":
		rcc.Logf("Using STDOUT to dump records...")
		return csv.NewWriter(os.Stdout, md.Features, md.Label)
	}
	rcc.Logf("Creating %s to dump records...", location)
	f, err := os.Create(location)
	if err != nil {
		return nil, err
	}
	w, err := csv.NewWriter(f, md.Features, md.Label)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &closableRecordWriter{w, f.Close}, nil
}
