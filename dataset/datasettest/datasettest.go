/*
Package datasettest provides record fixtures shared by the tests of the
packages that train and evaluate classifiers.
*/
package datasettest

import (
	"math/rand"
	"strconv"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/feature"
)

// Play and DontPlay are the labels of the play-tennis records
const (
	Play     = "play"
	DontPlay = "don't play"
)

var playTennisRows = [][]string{
	{"sunny", "85", "85", "false", DontPlay},
	{"sunny", "80", "90", "true", DontPlay},
	{"overcast", "83", "86", "false", Play},
	{"rain", "70", "96", "false", Play},
	{"rain", "68", "80", "false", Play},
	{"rain", "65", "70", "true", DontPlay},
	{"overcast", "64", "65", "true", Play},
	{"sunny", "72", "95", "false", DontPlay},
	{"sunny", "69", "70", "false", Play},
	{"rain", "75", "80", "false", Play},
	{"sunny", "75", "70", "true", Play},
	{"overcast", "72", "90", "true", Play},
	{"overcast", "81", "75", "false", Play},
	{"rain", "71", "91", "true", DontPlay},
}

/*
PlayTennisFeatures returns the features of the play-tennis records: outlook,
temperature, humidity and windy, in that order.
*/
func PlayTennisFeatures() []feature.Feature {
	return []feature.Feature{
		feature.NewDiscreteFeature("outlook", []string{"sunny", "overcast", "rain"}),
		feature.NewContinuousFeature("temperature"),
		feature.NewContinuousFeature("humidity"),
		feature.NewDiscreteFeature("windy", []string{"true", "false"}),
	}
}

/*
PlayTennis returns a fresh copy of the 14 classic play-tennis records with
temperature and humidity as raw numbers.
*/
func PlayTennis() []dataset.Record {
	features := PlayTennisFeatures()
	result := make([]dataset.Record, 0, len(playTennisRows))
	for _, row := range playTennisRows {
		values := make(map[string]string, len(features))
		for i, f := range features {
			values[f.Name()] = row[i]
		}
		result = append(result, dataset.New(features, values, row[len(row)-1]))
	}
	return result
}

/*
Synthetic takes a record count and a random source and returns records with
four categorical features a, b, c and d and a label that is a noisy function
of a and b, so trees grown from them have several levels and some leaves
that validation records will disagree with.
*/
func Synthetic(count int, rnd *rand.Rand) []dataset.Record {
	features := []feature.Feature{
		feature.NewDiscreteFeature("a", nil),
		feature.NewDiscreteFeature("b", nil),
		feature.NewDiscreteFeature("c", nil),
		feature.NewDiscreteFeature("d", nil),
	}
	result := make([]dataset.Record, 0, count)
	for i := 0; i < count; i++ {
		values := map[string]string{
			"a": strconv.Itoa(rnd.Intn(3)),
			"b": strconv.Itoa(rnd.Intn(2)),
			"c": strconv.Itoa(rnd.Intn(4)),
			"d": strconv.Itoa(rnd.Intn(2)),
		}
		label := "no"
		if values["a"] == "0" || (values["a"] == "1" && values["b"] == "1") {
			label = "yes"
		}
		if rnd.Float64() < 0.15 {
			if label == "yes" {
				label = "no"
			} else {
				label = "yes"
			}
		}
		result = append(result, dataset.New(features, values, label))
	}
	return result
}
