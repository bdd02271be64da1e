package grove

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/dataset/datasettest"
	"github.com/grovekit/grove/tree"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func assertSamePredictions(t *testing.T, expected, got Predictor, records []dataset.Record) {
	t.Helper()
	for _, r := range records {
		p1, ok1 := expected.Predict(r)
		p2, ok2 := got.Predict(r)
		if p1 != p2 || ok1 != ok2 {
			t.Fatalf("expected %q (%v), decoded model predicted %q (%v)", p1, ok1, p2, ok2)
		}
	}
}

func roundTrip(t *testing.T, c Classifier) Classifier {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteModel(&buf, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := ReadModel(&buf, WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return decoded
}

func TestModelRoundTrip(t *testing.T) {
	ctx := context.Background()
	training := datasettest.Synthetic(300, rand.New(rand.NewSource(41)))
	heldOut := datasettest.Synthetic(200, rand.New(rand.NewSource(42)))

	id3 := NewID3()
	if err := id3.Train(ctx, training); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := roundTrip(t, id3)
	if _, ok := decoded.(*ID3); !ok {
		t.Fatalf("expected an ID3, got %T", decoded)
	}
	assertSamePredictions(t, id3, decoded, heldOut)

	c := NewC45()
	if err := c.Train(ctx, training); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSamePredictions(t, c, roundTrip(t, c), heldOut)
	if _, err := c.RulePostPrune(ctx, heldOut[:100]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded = roundTrip(t, c)
	dc, ok := decoded.(*C45)
	if !ok {
		t.Fatalf("expected a C45, got %T", decoded)
	}
	if len(dc.Rules()) != len(c.Rules()) {
		t.Errorf("expected %d rules, got %d", len(c.Rules()), len(dc.Rules()))
	}
	assertSamePredictions(t, c, decoded, heldOut)

	f := NewForest(WithForestSize(5), WithRand(rand.New(rand.NewSource(3))))
	if err := f.Train(ctx, training); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded = roundTrip(t, f)
	df, ok := decoded.(*Forest)
	if !ok {
		t.Fatalf("expected a Forest, got %T", decoded)
	}
	if len(df.Members()) != 5 || df.FeatureSubsetSize() != f.FeatureSubsetSize() {
		t.Errorf("unexpected decoded forest with %d members", len(df.Members()))
	}
	assertSamePredictions(t, f, decoded, heldOut)
}

func TestModelCodec(t *testing.T) {
	id3 := NewID3()
	if err := id3.Train(context.Background(), datasettest.Synthetic(50, rand.New(rand.NewSource(1)))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	codec := ModelCodec{}
	data, err := codec.Encode(id3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSamePredictions(t, id3, decoded, datasettest.Synthetic(50, rand.New(rand.NewSource(2))))
}

func TestUnmarshalUnknownModel(t *testing.T) {
	_, err := UnmarshalModel([]byte(`{"kind":"svm"}`))
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
	if _, err = UnmarshalModel([]byte(`{`)); err == nil {
		t.Errorf("expected an error decoding invalid JSON")
	}
	if _, err = MarshalModel(&votingMember{}); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestUnmarshalModelValidatesTree(t *testing.T) {
	invalidSplit := `{"split":"x","count":2,"children":[` +
		`{"split":"@class","feature":"x","value":"<= 3","count":1,"distribution":[{"label":"a","count":1}],"children":[{"feature":"@class","value":"a","count":1}]},` +
		`{"split":"@class","feature":"x","value":"> 4","count":1,"distribution":[{"label":"b","count":1}],"children":[{"feature":"@class","value":"b","count":1}]}]}`
	for _, kind := range []string{"id3", "c45"} {
		core, logs := observer.New(zap.WarnLevel)
		c, err := UnmarshalModel([]byte(`{"kind":"`+kind+`","tree":`+invalidSplit+`}`), WithLogger(zap.New(core)))
		if err != nil {
			t.Fatalf("unexpected error decoding %s: %v", kind, err)
		}
		if c == nil {
			t.Fatalf("expected a %s classifier", kind)
		}
		if n := logs.FilterMessage("continuous split will only match values literally").Len(); n != 1 {
			t.Errorf("expected a warning about the continuous split of the %s model, got %d", kind, n)
		}
	}
	_, err := UnmarshalModel([]byte(`{"kind":"id3","tree":{"split":"x","count":2}}`))
	if !errors.Is(err, tree.ErrMalformedTree) {
		t.Errorf("expected ErrMalformedTree, got %v", err)
	}
}
