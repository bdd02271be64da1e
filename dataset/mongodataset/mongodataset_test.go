package mongodataset

import (
	"testing"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/dataset/datasettest"
	"gopkg.in/mgo.v2/bson"
)

func TestDocuments(t *testing.T) {
	mds := &Dataset{features: datasettest.PlayTennisFeatures(), label: "play"}
	r := dataset.New(mds.features, map[string]string{"outlook": "sunny", "humidity": "70"}, datasettest.Play)
	doc := mds.document(r)
	expected := bson.M{"outlook": "sunny", "humidity": "70", "play": datasettest.Play}
	if len(doc) != len(expected) {
		t.Fatalf("expected document %v, got %v", expected, doc)
	}
	for k, v := range expected {
		if doc[k] != v {
			t.Errorf("expected %s to be %v, got %v", k, v, doc[k])
		}
	}
	back := mds.record(bson.M{"_id": bson.NewObjectId(), "outlook": "rain", "temperature": 71.5, "windy": nil})
	if v, _ := back.Value("outlook"); v != "rain" {
		t.Errorf("expected outlook rain, got %q", v)
	}
	if v, _ := back.Value("temperature"); v != "71.5" {
		t.Errorf("expected temperature 71.5, got %q", v)
	}
	if _, err := back.Value("windy"); err == nil {
		t.Errorf("expected a null field to be an undefined value")
	}
	if back.Label() != "" {
		t.Errorf("expected no label, got %q", back.Label())
	}
}

func TestValidFieldName(t *testing.T) {
	for _, name := range []string{"_id", "a.b", "$a", ""} {
		if validFieldName(name) == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
	if err := validFieldName("outlook"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
