package dataset

import (
	"fmt"
	"sort"

	"github.com/grovekit/grove/feature"
)

/*
Record represents an item to classify or from which to learn how to classify
them. Feature values are strings: continuous features hold their number in
text form until discretization rewrites them into inequality tokens.

Value returns ErrMissingFeatureValue (wrapped with the feature name) when the
record holds no value for the given feature.
*/
type Record interface {
	Value(feature string) (string, error)
	SetValue(feature, value string)
	Label() string
	SetLabel(string)
	PredictedLabel() string
	SetPredictedLabel(string)
	FeatureNames() []string
	IsCategorical(feature string) bool
	FeatureCount() int
}

type record struct {
	features       []feature.Feature
	values         map[string]string
	label          string
	predictedLabel string
}

/*
New takes a slice of features, a map of feature names to values and a label
and returns a Record. Features absent from the map are missing on the record.
*/
func New(features []feature.Feature, values map[string]string, label string) Record {
	vs := make(map[string]string, len(values))
	for k, v := range values {
		vs[k] = v
	}
	return &record{features: features, values: vs, label: label}
}

func (r *record) Value(f string) (string, error) {
	v, ok := r.values[f]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingFeatureValue, f)
	}
	return v, nil
}

func (r *record) SetValue(f, value string) {
	r.values[f] = value
}

func (r *record) Label() string {
	return r.label
}

func (r *record) SetLabel(label string) {
	r.label = label
}

func (r *record) PredictedLabel() string {
	return r.predictedLabel
}

func (r *record) SetPredictedLabel(label string) {
	r.predictedLabel = label
}

func (r *record) FeatureNames() []string {
	return feature.Names(r.features)
}

/*
IsCategorical returns whether the feature with the given name is categorical.
Features the record knows nothing about are considered categorical, so
their values are only ever matched literally.
*/
func (r *record) IsCategorical(f string) bool {
	ft := feature.Find(r.features, f)
	if ft == nil {
		return true
	}
	return ft.Categorical()
}

func (r *record) FeatureCount() int {
	return len(r.features)
}

func (r *record) String() string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := "["
	for i, k := range keys {
		if i > 0 {
			result += " "
		}
		result += fmt.Sprintf("%s:%s", k, r.values[k])
	}
	return fmt.Sprintf("%s] => %s", result, r.label)
}

/*
Labels takes a slice of records and returns the sorted set of distinct labels
among them.
*/
func Labels(records []Record) []string {
	seen := make(map[string]bool)
	var result []string
	for _, r := range records {
		if !seen[r.Label()] {
			seen[r.Label()] = true
			result = append(result, r.Label())
		}
	}
	sort.Strings(result)
	return result
}
