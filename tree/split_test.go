package tree

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/dataset/datasettest"
	"github.com/grovekit/grove/feature"
)

var playTennisFeatures = []string{"outlook", "temperature", "humidity", "windy"}

func discretizeAt(records []dataset.Record, f string, boundary float64) {
	for _, r := range records {
		v, _ := r.Value(f)
		x, _ := strconv.ParseFloat(v, 64)
		if x <= boundary {
			r.SetValue(f, LessOrEqualToken(boundary))
		} else {
			r.SetValue(f, GreaterToken(boundary))
		}
	}
}

func discretizedPlayTennis() []dataset.Record {
	records := datasettest.PlayTennis()
	discretizeAt(records, "temperature", 75)
	discretizeAt(records, "humidity", 80)
	return records
}

func TestEntropy(t *testing.T) {
	if e := Entropy(map[string]int{"a": 7}, 7); e != 0 {
		t.Errorf("expected entropy 0 for a single class, got %v", e)
	}
	for _, k := range []int{2, 3, 4, 8} {
		d := make(map[string]int)
		for i := 0; i < k; i++ {
			d[strconv.Itoa(i)] = 5
		}
		e := Entropy(d, 5*k)
		if math.Abs(e-math.Log2(float64(k))) > 1e-12 {
			t.Errorf("expected entropy log2(%d) for %d equal classes, got %v", k, k, e)
		}
	}
	if e := Entropy(map[string]int{}, 0); e != 0 {
		t.Errorf("expected entropy 0 for no records, got %v", e)
	}
}

func TestInformationGainIsNotNegative(t *testing.T) {
	records := datasettest.Synthetic(300, rand.New(rand.NewSource(1)))
	p := NewPartition(RootID, records)
	for _, f := range []string{"a", "b", "c", "d"} {
		gain, subsets, err := InformationGain(p, f, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gain < 0 {
			t.Errorf("expected non-negative gain for %s, got %v", f, gain)
		}
		count := 0
		for _, s := range subsets {
			count += len(s)
		}
		if count != len(records) {
			t.Errorf("expected subsets of %s to hold %d records, got %d", f, len(records), count)
		}
	}
}

func TestInformationGainPlayTennis(t *testing.T) {
	p := NewPartition(RootID, discretizedPlayTennis())
	expected := map[string]float64{
		"outlook":     0.2467,
		"temperature": 0.0251,
		"humidity":    0.1518,
		"windy":       0.0481,
	}
	for f, e := range expected {
		gain, _, err := InformationGain(p, f, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(gain-e) > 1e-3 {
			t.Errorf("expected gain %v for %s, got %v", e, f, gain)
		}
	}
	var adjustedFeature string
	gain, _, _ := InformationGain(p, "outlook", func(g float64, f string) float64 {
		adjustedFeature = f
		return g * 2
	})
	if adjustedFeature != "outlook" || math.Abs(gain-2*0.2467) > 2e-3 {
		t.Errorf("expected adjusted gain for outlook, got %v for %q", gain, adjustedFeature)
	}
}

func TestBuildPlayTennis(t *testing.T) {
	records := discretizedPlayTennis()
	tr := New(rand.New(rand.NewSource(1)))
	err := tr.Build(context.Background(), playTennisFeatures, records, BuildOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Root().SplitFeature != "outlook" {
		t.Fatalf("expected root to split on outlook, got %s", tr.Root().SplitFeature)
	}
	for _, r := range records {
		label, ok := tr.Predict(r)
		if !ok || label != r.Label() {
			t.Errorf("expected %q for %v, got %q (%v)", r.Label(), r, label, ok)
		}
	}
	splits := make(map[string]string)
	for _, id := range tr.Root().SubtreeIDs {
		n := tr.Node(id)
		splits[n.Value] = n.SplitFeature
	}
	if splits["overcast"] != ClassFeature || splits["rain"] != "windy" || splits["sunny"] != "humidity" {
		t.Errorf("unexpected splits under the root: %v", splits)
	}
	if err = tr.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
	if tr.Root().RecordCount != 14 || tr.Root().Distribution[datasettest.Play] != 9 {
		t.Errorf("unexpected root counts %d %v", tr.Root().RecordCount, tr.Root().Distribution)
	}
}

func TestBuildLeafChildrenHoldClassSupport(t *testing.T) {
	tr := New(nil)
	err := tr.Build(context.Background(), playTennisFeatures, discretizedPlayTennis(), BuildOptions{MaxDepth: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range tr.FlattenLeafNodes() {
		leaf := tr.Node(id)
		total := 0
		for _, cid := range leaf.SubtreeIDs {
			c := tr.Node(cid)
			if c.Feature != ClassFeature || c.RecordCount != leaf.Distribution[c.Value] {
				t.Errorf("unexpected class count node %+v under leaf %d", c, id)
			}
			total += c.RecordCount
		}
		if total != leaf.RecordCount {
			t.Errorf("expected class counts of leaf %d to add to %d, got %d", id, leaf.RecordCount, total)
		}
	}
	if _, _, depth := tr.Stats(); depth != 1 {
		t.Errorf("expected depth 1, got %d", depth)
	}
}

func TestBuildErrors(t *testing.T) {
	tr := New(nil)
	err := tr.Build(context.Background(), playTennisFeatures, nil, BuildOptions{})
	if err != dataset.ErrEmptyTrainingSet {
		t.Errorf("expected ErrEmptyTrainingSet, got %v", err)
	}
	records := discretizedPlayTennis()
	records = append(records, dataset.New(datasettest.PlayTennisFeatures(), map[string]string{"temperature": "> 75"}, datasettest.Play))
	err = tr.Build(context.Background(), playTennisFeatures, records, BuildOptions{})
	if !errors.Is(err, dataset.ErrMissingFeatureValue) {
		t.Errorf("expected ErrMissingFeatureValue, got %v", err)
	}
	if tr.Root().IsBranch() {
		t.Errorf("expected failed build to leave the tree cleared")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = tr.Build(ctx, playTennisFeatures, discretizedPlayTennis(), BuildOptions{})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPredictWithoutBranch(t *testing.T) {
	tr := New(nil)
	if _, ok := tr.Predict(datasettest.PlayTennis()[0]); ok {
		t.Errorf("expected an empty tree not to predict")
	}
	err := tr.Build(context.Background(), playTennisFeatures, discretizedPlayTennis(), BuildOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	features := datasettest.PlayTennisFeatures()
	missing := dataset.New(features, map[string]string{"windy": "true"}, "")
	if _, ok := tr.Predict(missing); ok {
		t.Errorf("expected no prediction for a record without outlook")
	}
	unknown := dataset.New(features, map[string]string{"outlook": "foggy", "windy": "true"}, "")
	if _, ok := tr.Predict(unknown); ok {
		t.Errorf("expected no prediction for an unknown categorical value")
	}
}

func TestPredictContinuousSplit(t *testing.T) {
	tr := New(rand.New(rand.NewSource(5)))
	err := tr.Build(context.Background(), playTennisFeatures, discretizedPlayTennis(), BuildOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	features := datasettest.PlayTennisFeatures()
	cases := map[string]string{
		"72":    datasettest.Play,
		"80":    datasettest.Play,
		"80.5":  datasettest.DontPlay,
		"<= 80": datasettest.Play,
	}
	for humidity, expected := range cases {
		r := dataset.New(features, map[string]string{"outlook": "sunny", "humidity": humidity}, "")
		label, ok := tr.Predict(r)
		if !ok || label != expected {
			t.Errorf("expected %q for humidity %s, got %q (%v)", expected, humidity, label, ok)
		}
	}
	r := dataset.New(features, map[string]string{"outlook": "sunny", "humidity": "muggy"}, "")
	for i := 0; i < 10; i++ {
		if _, ok := tr.Predict(r); !ok {
			t.Fatalf("expected unparsable numbers to take a random branch")
		}
	}
	for _, humidity := range []string{"NaN", "+Inf"} {
		r = dataset.New(features, map[string]string{"outlook": "sunny", "humidity": humidity}, "")
		seen := make(map[string]int)
		for i := 0; i < 200; i++ {
			label, ok := tr.Predict(r)
			if !ok {
				t.Fatalf("expected humidity %s to take a random branch", humidity)
			}
			seen[label]++
		}
		if seen[datasettest.Play] == 0 || seen[datasettest.DontPlay] == 0 {
			t.Errorf("expected humidity %s to take both branches, got %v", humidity, seen)
		}
	}
	categorical := []feature.Feature{feature.NewDiscreteFeature("outlook", nil), feature.NewDiscreteFeature("humidity", nil)}
	r = dataset.New(categorical, map[string]string{"outlook": "sunny", "humidity": "72"}, "")
	if _, ok := tr.Predict(r); ok {
		t.Errorf("expected categorical values to be matched literally")
	}
}

func TestValidateInvalidContinuousSplit(t *testing.T) {
	tr := New(nil)
	tr.nodes = []Node{
		{ID: 0, ParentID: -1, SplitFeature: "x", SubtreeIDs: []int{1, 2}},
		{ID: 1, ParentID: 0, Feature: "x", Value: "<= 3", SplitFeature: ClassFeature},
		{ID: 2, ParentID: 0, Feature: "x", Value: "> 4", SplitFeature: ClassFeature},
	}
	if err := tr.Validate(); !errors.Is(err, ErrInvalidContinuousSplit) {
		t.Errorf("expected ErrInvalidContinuousSplit, got %v", err)
	}
	r := dataset.New([]feature.Feature{feature.NewContinuousFeature("x")}, map[string]string{"x": "3.5"}, "")
	if _, ok := tr.Predict(r); ok {
		t.Errorf("expected no prediction from an invalid continuous split")
	}
}

func TestFeatureSubset(t *testing.T) {
	candidates := []string{"a", "b", "c", "d", "e"}
	if s := featureSubset(candidates, 0, nil); len(s) != 5 {
		t.Errorf("expected all candidates without a subset size, got %v", s)
	}
	if s := featureSubset(candidates, 7, nil); len(s) != 5 {
		t.Errorf("expected all candidates for a subset size over their number, got %v", s)
	}
	rnd := rand.New(rand.NewSource(9))
	for i := 0; i < 20; i++ {
		s := featureSubset(candidates, 3, rnd)
		if len(s) != 3 {
			t.Fatalf("expected 3 candidates, got %v", s)
		}
		if !(s[0] < s[1] && s[1] < s[2]) {
			t.Errorf("expected candidates in canonical order, got %v", s)
		}
	}
}

func TestBuildForestModeKeepsFeatures(t *testing.T) {
	records := datasettest.Synthetic(200, rand.New(rand.NewSource(2)))
	tr := New(rand.New(rand.NewSource(3)))
	err := tr.Build(context.Background(), []string{"a", "b", "c", "d"}, records, BuildOptions{FeatureSubsetSize: 2, MaxDepth: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, depth := tr.Stats(); depth > 6 {
		t.Errorf("expected depth to be capped at 6, got %d", depth)
	}
	if !tr.Root().IsBranch() {
		t.Errorf("expected the root to split")
	}
}
