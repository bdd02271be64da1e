package grove

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/dataset/datasettest"
	"github.com/grovekit/grove/feature"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func discretizedPlayTennis(t *testing.T, id3 *ID3) []dataset.Record {
	records := datasettest.PlayTennis()
	if err := id3.DiscretizeAt(records, "temperature", 75); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := id3.DiscretizeAt(records, "humidity", 80); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return records
}

func TestID3PlayTennis(t *testing.T) {
	id3 := NewID3(WithRand(rand.New(rand.NewSource(1))))
	records := discretizedPlayTennis(t, id3)
	if v, _ := records[0].Value("temperature"); v != "> 75" {
		t.Fatalf("expected temperature 85 to become > 75, got %q", v)
	}
	err := id3.Train(context.Background(), records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root := id3.Tree().Root().SplitFeature; root != "outlook" {
		t.Errorf("expected root to split on outlook, got %s", root)
	}
	if errs := Evaluate(id3, records); errs != 0 {
		t.Errorf("expected no training errors, got %d", errs)
	}
	raw := datasettest.PlayTennis()
	if errs := Evaluate(id3, raw); errs != 0 {
		t.Errorf("expected raw numbers to follow the continuous splits, got %d errors", errs)
	}
	PredictBatch(id3, raw)
	for _, r := range raw {
		if r.PredictedLabel() != r.Label() {
			t.Errorf("expected predicted label %q, got %q", r.Label(), r.PredictedLabel())
		}
	}
	unknown := dataset.New(datasettest.PlayTennisFeatures(), map[string]string{"outlook": "foggy"}, datasettest.Play)
	PredictBatch(id3, []dataset.Record{unknown})
	if unknown.PredictedLabel() != "" {
		t.Errorf("expected no predicted label, got %q", unknown.PredictedLabel())
	}
	if Evaluate(id3, []dataset.Record{unknown}) != 1 {
		t.Errorf("expected a record without prediction to count as a mismatch")
	}
}

func TestID3TrainEmpty(t *testing.T) {
	if err := NewID3().Train(context.Background(), nil); err != dataset.ErrEmptyTrainingSet {
		t.Errorf("expected ErrEmptyTrainingSet, got %v", err)
	}
}

func continuousRecords(values []string, labels []string) []dataset.Record {
	features := []feature.Feature{feature.NewContinuousFeature("x")}
	result := make([]dataset.Record, 0, len(values))
	for i, v := range values {
		result = append(result, dataset.New(features, map[string]string{"x": v}, labels[i]))
	}
	return result
}

func TestDiscretize(t *testing.T) {
	id3 := NewID3()
	records := continuousRecords([]string{"4", "1", "3", "2"}, []string{"b", "a", "b", "a"})
	boundary, err := id3.Discretize(records, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if boundary != 2.5 {
		t.Errorf("expected boundary 2.5, got %v", boundary)
	}
	expected := []string{"> 2.5", "<= 2.5", "> 2.5", "<= 2.5"}
	for i, r := range records {
		if v, _ := r.Value("x"); v != expected[i] {
			t.Errorf("expected record %d to hold %q, got %q", i, expected[i], v)
		}
	}

	records = continuousRecords([]string{"1", "5", "3"}, []string{"a", "a", "a"})
	boundary, err = id3.Discretize(records, "x")
	if err != nil || boundary != 5 {
		t.Errorf("expected boundary 5 without candidates, got %v %v", boundary, err)
	}

	records = continuousRecords([]string{"1", "2", "3", "4", "5", "6"}, []string{"a", "b", "b", "b", "a", "a"})
	boundary, _ = id3.Discretize(records, "x")
	if boundary != 4.5 {
		t.Errorf("expected the boundary with the highest gain, 4.5, got %v", boundary)
	}
}

func TestDiscretizeErrors(t *testing.T) {
	id3 := NewID3()
	records := continuousRecords([]string{"1", "warm"}, []string{"a", "b"})
	_, err := id3.Discretize(records, "x")
	if !errors.Is(err, dataset.ErrUnparsableNumericValue) {
		t.Errorf("expected ErrUnparsableNumericValue, got %v", err)
	}
	if v, _ := records[0].Value("x"); v != "1" {
		t.Errorf("expected records to be left untouched, got %q", v)
	}
	err = id3.DiscretizeAt(records, "x", 3)
	if !errors.Is(err, dataset.ErrUnparsableNumericValue) {
		t.Errorf("expected ErrUnparsableNumericValue, got %v", err)
	}
	_, err = id3.Discretize(records, "y")
	if !errors.Is(err, dataset.ErrMissingFeatureValue) {
		t.Errorf("expected ErrMissingFeatureValue, got %v", err)
	}
	for _, v := range []string{"NaN", "Inf", "+Inf", "-inf"} {
		records = continuousRecords([]string{"1", v, "3", "2"}, []string{"a", "b", "a", "b"})
		_, err = id3.Discretize(records, "x")
		if !errors.Is(err, dataset.ErrUnparsableNumericValue) {
			t.Errorf("expected ErrUnparsableNumericValue for %s, got %v", v, err)
		}
		for i, expected := range []string{"1", v, "3", "2"} {
			if got, _ := records[i].Value("x"); got != expected {
				t.Errorf("expected records to be left untouched with %s, got %q", v, got)
			}
		}
	}
}

func TestErrorReducePrune(t *testing.T) {
	training := datasettest.Synthetic(300, rand.New(rand.NewSource(21)))
	validation := datasettest.Synthetic(150, rand.New(rand.NewSource(22)))
	id3 := NewID3(WithRand(rand.New(rand.NewSource(1))))
	if err := id3.Train(context.Background(), training); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	initial := Evaluate(id3, validation)
	branches, _, _ := id3.Tree().Stats()
	errs, err := id3.ErrorReducePrune(context.Background(), validation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errs > initial {
		t.Errorf("expected pruning not to increase validation errors, %d > %d", errs, initial)
	}
	if got := Evaluate(id3, validation); got != errs {
		t.Errorf("expected %d validation errors after pruning, got %d", errs, got)
	}
	pruned, _, _ := id3.Tree().Stats()
	if pruned > branches {
		t.Errorf("expected pruning not to add branches")
	}
	again, err := id3.ErrorReducePrune(context.Background(), validation)
	if err != nil || again != errs {
		t.Errorf("expected pruning again to change nothing, got %d %v", again, err)
	}
	if _, err = id3.ErrorReducePrune(context.Background(), nil); err != ErrEmptyValidationSet {
		t.Errorf("expected ErrEmptyValidationSet, got %v", err)
	}
}

func TestErrorReducePruneRoundsReduceErrors(t *testing.T) {
	training := datasettest.Synthetic(300, rand.New(rand.NewSource(31)))
	validation := datasettest.Synthetic(150, rand.New(rand.NewSource(32)))
	core, logs := observer.New(zap.DebugLevel)
	id3 := NewID3(WithRand(rand.New(rand.NewSource(1))), WithLogger(zap.New(core)))
	if err := id3.Train(context.Background(), training); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	previous := int64(Evaluate(id3, validation))
	errs, err := id3.ErrorReducePrune(context.Background(), validation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rounds := logs.FilterMessage("node pruned").All()
	for i, entry := range rounds {
		roundErrors, ok := entry.ContextMap()["errors"].(int64)
		if !ok {
			t.Fatalf("expected round %d to log its errors, got %v", i, entry.ContextMap())
		}
		if roundErrors >= previous {
			t.Errorf("expected round %d to reduce errors below %d, got %d", i, previous, roundErrors)
		}
		previous = roundErrors
	}
	if previous != int64(errs) {
		t.Errorf("expected the last round to end with %d errors, got %d", errs, previous)
	}
}

func TestRandomShuffle(t *testing.T) {
	records := datasettest.PlayTennis()
	shuffled := append([]dataset.Record(nil), records...)
	NewID3(WithRand(rand.New(rand.NewSource(3)))).RandomShuffle(shuffled)
	seen := make(map[dataset.Record]bool)
	moved := false
	for i, r := range shuffled {
		seen[r] = true
		if r != records[i] {
			moved = true
		}
	}
	if len(seen) != len(records) || !moved {
		t.Errorf("expected a permutation of the records")
	}
}
