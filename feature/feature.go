package feature

import (
	"fmt"
	"strconv"
)

/*
Feature represents a property that can be observed on a record
*/
type Feature interface {
	Name() string
	Valid(string) (bool, error)
	Categorical() bool
}

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite set.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
ContinuousFeature represents a property that can be observed and that can take
a numeric value
*/
type ContinuousFeature struct {
	name string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
An empty slice of available values makes the feature accept any value.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
NewContinuousFeature takes a name string and returns a continuous feature with
the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives a value string and returns a boolean and an error. When the
value is included in the available values of the feature, the method
returns true and nil. Otherwise it returns false and an error describing the
reason.
*/
func (df *DiscreteFeature) Valid(value string) (bool, error) {
	if len(df.availableValues) == 0 {
		return true, nil
	}
	for _, av := range df.availableValues {
		if av == value {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), value)
}

// Categorical returns true
func (df *DiscreteFeature) Categorical() bool {
	return true
}

/*
AvailableValues returns a string slice with the values available for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

/*
Valid receives a value string and returns a boolean and an error. When the
value parses as a float64 it returns true and nil, otherwise it returns
false and an error describing the reason.
*/
func (cf *ContinuousFeature) Valid(value string) (bool, error) {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return false, fmt.Errorf("continuous feature %s expects a number, got %q", cf.Name(), value)
	}
	return true, nil
}

// Categorical returns false
func (cf *ContinuousFeature) Categorical() bool {
	return false
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}

/*
Names takes a slice of features and returns a slice with their names in the
same order.
*/
func Names(features []Feature) []string {
	result := make([]string, 0, len(features))
	for _, f := range features {
		result = append(result, f.Name())
	}
	return result
}

/*
Find takes a slice of features and a name and returns the feature in the
slice with that name, or nil if there is none.
*/
func Find(features []Feature, name string) Feature {
	for _, f := range features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}
