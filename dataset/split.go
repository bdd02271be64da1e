package dataset

import "math/rand"

/*
Split takes a slice of records, a probability between 0 and 1 and a random
source and returns two slices: the records kept and the records assigned to
the split set, each record being assigned to the split set with the given
probability. Record order is preserved in both slices.
*/
func Split(records []Record, probability float64, rnd *rand.Rand) ([]Record, []Record) {
	var kept, split []Record
	for _, r := range records {
		if rnd.Float64() < probability {
			split = append(split, r)
		} else {
			kept = append(kept, r)
		}
	}
	return kept, split
}
