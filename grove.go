/*
Package grove grows interpretable classifiers from records: ID3 and C4.5
decision trees, with error-reduction pruning, rule post-pruning and
cost-sensitive feature selection, and random forests of them.
*/
package grove

import (
	"context"

	"github.com/grovekit/grove/dataset"
)

/*
Classifier is a model that can be trained from labelled records and then
predict the label of other records. Predict returns false when the model has
no prediction for the record.
*/
type Classifier interface {
	Predictor
	Train(ctx context.Context, records []dataset.Record) error
}

/*
Predictor wraps the Predict method, which returns the label predicted for a
record and true, or false when there is no prediction.
*/
type Predictor interface {
	Predict(r dataset.Record) (string, bool)
}

/*
ClassifierError is an error found when training, pruning or configuring a
classifier
*/
type ClassifierError string

func (ce ClassifierError) Error() string {
	return string(ce)
}

const (
	// ErrEmptyValidationSet is returned when pruning without validation records
	ErrEmptyValidationSet = ClassifierError("cannot prune with an empty validation set")
	// ErrMissingFeatureCost is returned when cost-sensitive training finds a feature with no cost
	ErrMissingFeatureCost = ClassifierError("missing feature cost")
	// ErrInvalidCost is returned when a cost is not valid for the cost strategy
	ErrInvalidCost = ClassifierError("invalid feature cost")
	// ErrUnknownModel is returned when decoding a model of an unknown kind
	ErrUnknownModel = ClassifierError("unknown model kind")
)

/*
PredictBatch takes a predictor and a slice of records and sets the predicted
label of every record to the predictor's prediction, or to the empty string
when the predictor has none.
*/
func PredictBatch(c Predictor, records []dataset.Record) {
	for _, r := range records {
		label, _ := c.Predict(r)
		r.SetPredictedLabel(label)
	}
}

/*
Evaluate takes a predictor and a slice of records and returns the number of
records whose label the predictor fails to predict, records without a
prediction included.
*/
func Evaluate(c Predictor, records []dataset.Record) int {
	mismatches := 0
	for _, r := range records {
		label, ok := c.Predict(r)
		if !ok || label != r.Label() {
			mismatches++
		}
	}
	return mismatches
}
