/*
Package inputsample provides an implementation of dataset.Record whose
feature values are read from an io.Reader when they are first needed.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/feature"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string) error
}

type readRecord struct {
	obtainedValues        map[string]*string
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              []feature.Feature
	label                 string
	predictedLabel        string
}

/*
New takes an io.Reader, a slice of features, a FeatureValueRequester and an
undefinedValue coding string and returns a Record.

The returned Record Value method reads feature values first requesting them
with the given FeatureValueRequester and then parsing the values from the
reader. Values read are kept, so each is requested once.

The parsing expects each value to be presented ending with the '\n'
character, that is in new lines. Also, the undefinedValue string followed
by the '\n' character will be interpreted as an undefined value, for which
Value returns dataset.ErrMissingFeatureValue.

Lines will be read from the reader until one holding a valid value for the
feature is found. Values that are not valid are rejected with the
FeatureValueRequester's RejectValueFor method.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester, undefinedValue string) dataset.Record {
	return &readRecord{
		obtainedValues:        make(map[string]*string),
		undefinedValue:        undefinedValue,
		scanner:               bufio.NewScanner(r),
		featureValueRequester: featureValueRequester,
		features:              features,
	}
}

func (rr *readRecord) Value(name string) (string, error) {
	value, ok := rr.obtainedValues[name]
	if !ok {
		f := feature.Find(rr.features, name)
		if f == nil {
			return "", fmt.Errorf("%w: have no information about feature %s", dataset.ErrMissingFeatureValue, name)
		}
		var err error
		value, err = rr.readValue(f)
		if err != nil {
			return "", err
		}
		rr.obtainedValues[name] = value
	}
	if value == nil {
		return "", fmt.Errorf("%w: %s", dataset.ErrMissingFeatureValue, name)
	}
	return *value, nil
}

func (rr *readRecord) readValue(f feature.Feature) (*string, error) {
	err := rr.featureValueRequester.RequestValueFor(f)
	if err != nil {
		return nil, err
	}
	for rr.scanner.Scan() {
		line := rr.scanner.Text()
		if line == rr.undefinedValue {
			return nil, nil
		}
		if ok, _ := f.Valid(line); ok {
			return &line, nil
		}
		err = rr.featureValueRequester.RejectValueFor(f, line)
		if err != nil {
			return nil, err
		}
	}
	err = rr.scanner.Err()
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value for %s", f.Name())
}

func (rr *readRecord) SetValue(name, value string) {
	rr.obtainedValues[name] = &value
}

func (rr *readRecord) Label() string {
	return rr.label
}

func (rr *readRecord) SetLabel(label string) {
	rr.label = label
}

func (rr *readRecord) PredictedLabel() string {
	return rr.predictedLabel
}

func (rr *readRecord) SetPredictedLabel(label string) {
	rr.predictedLabel = label
}

func (rr *readRecord) FeatureNames() []string {
	return feature.Names(rr.features)
}

func (rr *readRecord) IsCategorical(name string) bool {
	f := feature.Find(rr.features, name)
	return f == nil || f.Categorical()
}

func (rr *readRecord) FeatureCount() int {
	return len(rr.features)
}
