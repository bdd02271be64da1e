package grove

import (
	"fmt"
	"sort"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/tree"
	"go.uber.org/zap"
)

type labelledValue struct {
	value float64
	label string
}

/*
Discretize takes a slice of records and the name of a continuous feature and
rewrites the value of every record for the feature into "<= b" or "> b",
choosing the boundary b with the highest information gain. Candidate
boundaries are the midpoints between adjacent distinct values whose records
do not all share one label; among equal gains the lowest boundary wins. When
there is no candidate the boundary is the highest value.
It returns the chosen boundary, or an error wrapping
dataset.ErrMissingFeatureValue or dataset.ErrUnparsableNumericValue, in which
case no record is modified. NaN and infinities count as unparsable.
*/
func (id3 *ID3) Discretize(records []dataset.Record, feature string) (float64, error) {
	values, err := numericValues(records, feature)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, dataset.ErrEmptyTrainingSet
	}
	boundary, gain := bestBoundary(values)
	rewrite(records, values, feature, boundary)
	id3.logger.Debug("feature discretized",
		zap.String("feature", feature),
		zap.Float64("boundary", boundary),
		zap.Float64("gain", gain),
	)
	return boundary, nil
}

/*
DiscretizeAt takes a slice of records, the name of a continuous feature and a
boundary and rewrites the value of every record for the feature into
"<= boundary" or "> boundary". It fails like Discretize.
*/
func (id3 *ID3) DiscretizeAt(records []dataset.Record, feature string, boundary float64) error {
	values, err := numericValues(records, feature)
	if err != nil {
		return err
	}
	rewrite(records, values, feature, boundary)
	return nil
}

func numericValues(records []dataset.Record, feature string) ([]labelledValue, error) {
	result := make([]labelledValue, 0, len(records))
	for _, r := range records {
		v, err := r.Value(feature)
		if err != nil {
			return nil, fmt.Errorf("discretizing %s: %w", feature, err)
		}
		x, ok := tree.ParseNumber(v)
		if !ok {
			return nil, fmt.Errorf("discretizing %s: %w: %q", feature, dataset.ErrUnparsableNumericValue, v)
		}
		result = append(result, labelledValue{x, r.Label()})
	}
	return result, nil
}

func rewrite(records []dataset.Record, values []labelledValue, feature string, boundary float64) {
	le, gt := tree.LessOrEqualToken(boundary), tree.GreaterToken(boundary)
	for i, r := range records {
		if values[i].value <= boundary {
			r.SetValue(feature, le)
		} else {
			r.SetValue(feature, gt)
		}
	}
}

/*
bestBoundary returns the boundary with the highest information gain among
the candidates and that gain.
*/
func bestBoundary(values []labelledValue) (float64, float64) {
	sorted := make([]labelledValue, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].value < sorted[j].value })

	// group labels by distinct value
	type group struct {
		value  float64
		labels map[string]int
	}
	var groups []group
	for _, lv := range sorted {
		if len(groups) == 0 || groups[len(groups)-1].value != lv.value {
			groups = append(groups, group{lv.value, make(map[string]int)})
		}
		groups[len(groups)-1].labels[lv.label]++
	}

	total := make(map[string]int)
	for _, lv := range sorted {
		total[lv.label]++
	}
	n := len(sorted)
	entropy := tree.Entropy(total, n)

	boundary := groups[len(groups)-1].value
	bestGain := -1.0
	lower := make(map[string]int)
	lowerCount := 0
	for i := 0; i < len(groups)-1; i++ {
		for l, c := range groups[i].labels {
			lower[l] += c
			lowerCount += c
		}
		if !boundaryPoint(groups[i].labels, groups[i+1].labels) {
			continue
		}
		higher := make(map[string]int, len(total))
		for l, c := range total {
			if c-lower[l] > 0 {
				higher[l] = c - lower[l]
			}
		}
		higherCount := n - lowerCount
		gain := entropy -
			float64(lowerCount)/float64(n)*tree.Entropy(lower, lowerCount) -
			float64(higherCount)/float64(n)*tree.Entropy(higher, higherCount)
		if gain > bestGain {
			bestGain = gain
			boundary = (groups[i].value + groups[i+1].value) / 2
		}
	}
	if bestGain < 0 {
		bestGain = 0
	}
	return boundary, bestGain
}

// boundaryPoint returns false only when both groups hold a single, equal label
func boundaryPoint(a, b map[string]int) bool {
	if len(a) != 1 || len(b) != 1 {
		return true
	}
	for l := range a {
		_, ok := b[l]
		return !ok
	}
	return true
}
