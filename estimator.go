package grove

import "math"

// z-score of a 95% confidence bound
const confidenceZ = 1.96

/*
Estimator takes the observed accuracy of a rule over n records and returns
a pessimistic estimate of its accuracy.
*/
type Estimator func(observed float64, n int) float64

/*
NormalApproximation is the lower bound of the 95% normal-approximation
interval of a proportion: acc - 1.96·sqrt(acc·(1-acc)/n).
*/
func NormalApproximation(observed float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return observed - confidenceZ*math.Sqrt(observed*(1-observed)/float64(n))
}

/*
UnscaledVariance subtracts 1.96·sqrt(n·acc·(1-acc)) from the observed
accuracy, without dividing the variance by n. Estimates quickly fall below
zero, so pruning favours rules that are right on every record.
*/
func UnscaledVariance(observed float64, n int) float64 {
	return observed - confidenceZ*math.Sqrt(float64(n)*observed*(1-observed))
}
