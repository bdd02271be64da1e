package dataset

/*
RecordError is an error found when reading values from records or
when training from a set of them
*/
type RecordError string

func (re RecordError) Error() string {
	return string(re)
}

const (
	// ErrEmptyTrainingSet is returned when training is requested with no records
	ErrEmptyTrainingSet = RecordError("cannot train from an empty set of records")
	// ErrMissingFeatureValue is returned when a record holds no value for a feature
	ErrMissingFeatureValue = RecordError("missing feature value")
	// ErrUnparsableNumericValue is returned when a value of a continuous feature is not a number
	ErrUnparsableNumericValue = RecordError("unparsable numeric value")
)
