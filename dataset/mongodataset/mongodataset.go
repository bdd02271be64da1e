/*
Package mongodataset provides a record store that uses
a MongoDB database as backend.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	recordsCollectionName = "records"
)

/*
Dataset is a record store on a MongoDB database to which records can
be added and from which records can be sequentially read. Each record is a
document with a field per defined feature value and a field for its label.
*/
type Dataset struct {
	session  *mgo.Session
	features []feature.Feature
	label    string
}

/*
Open takes a context, a MongoDB database session, a slice of features and
the name of the label and returns a Dataset that works on the default
database for that session, ensuring a sparse index for every feature, or
an error.
*/
func Open(ctx context.Context, session *mgo.Session, features []feature.Feature, label string) (*Dataset, error) {
	mds := &Dataset{session, features, label}
	err := mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

/*
Write takes a context and a slice of records and inserts them in the
database. It returns the number of records inserted or an error.
*/
func (mds *Dataset) Write(ctx context.Context, records []dataset.Record) (int, error) {
	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, mds.document(r))
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err := mds.recordsCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

/*
Read takes a context and returns a channel on which the records in the
database are sent and a channel that receives an error if the records
cannot be read. Both are closed when reading ends.
*/
func (mds *Dataset) Read(ctx context.Context) (<-chan dataset.Record, <-chan error) {
	records := make(chan dataset.Record)
	errs := make(chan error, 1)
	go func() {
		defer close(records)
		defer close(errs)
		var doc bson.M
		var err error
		iter := mds.recordsCollection().Find(nil).Iter()
	loop:
		for iter.Next(&doc) {
			r := mds.record(doc)
			doc = nil
			select {
			case <-ctx.Done():
				err = ctx.Err()
				break loop
			case records <- r:
			}
		}
		if cerr := iter.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			errs <- err
		}
	}()
	return records, errs
}

/*
Records takes a context and returns all the records in the database or an
error.
*/
func (mds *Dataset) Records(ctx context.Context) ([]dataset.Record, error) {
	var records []dataset.Record
	count, err := mds.Count(ctx)
	if err == nil {
		records = make([]dataset.Record, 0, count)
	}
	ch, errs := mds.Read(ctx)
	for r := range ch {
		records = append(records, r)
	}
	err = <-errs
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of records in the database
func (mds *Dataset) Count(context.Context) (int, error) {
	return mds.recordsCollection().Find(nil).Count()
}

func (mds *Dataset) document(r dataset.Record) bson.M {
	doc := make(bson.M)
	for _, f := range mds.features {
		v, err := r.Value(f.Name())
		if err == nil {
			doc[f.Name()] = v
		}
	}
	if r.Label() != "" {
		doc[mds.label] = r.Label()
	}
	return doc
}

func (mds *Dataset) record(doc bson.M) dataset.Record {
	values := make(map[string]string, len(mds.features))
	for _, f := range mds.features {
		if v, ok := doc[f.Name()]; ok && v != nil {
			values[f.Name()] = fmt.Sprintf("%v", v)
		}
	}
	var label string
	if v, ok := doc[mds.label]; ok && v != nil {
		label = fmt.Sprintf("%v", v)
	}
	return dataset.New(mds.features, values, label)
}

func (mds *Dataset) ensureIndexes() error {
	for _, name := range append(feature.Names(mds.features), mds.label) {
		if err := validFieldName(name); err != nil {
			return err
		}
	}
	for _, f := range mds.features {
		index := mgo.Index{
			Key:        []string{f.Name()},
			Background: true,
			Sparse:     true,
		}
		err := mds.recordsCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func validFieldName(name string) error {
	if name == "_id" {
		return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
	}
	if name == "" || strings.ContainsAny(name, ".$") {
		return fmt.Errorf("invalid feature name %q: empty or contains reserved characters %q or %q", name, ".", "$")
	}
	return nil
}

func (mds *Dataset) recordsCollection() *mgo.Collection {
	return mds.session.DB("").C(recordsCollectionName)
}
