package yaml

import (
	"testing"

	"github.com/grovekit/grove/feature"
)

const playTennisMetadata = `
label: play
features:
  outlook: [sunny, overcast, rain]
  temperature: continuous
  humidity: continuous
  windy: [true, false]
  play: [play, "don't play"]
costs:
  outlook: 1
  temperature: 2.5
`

func TestReadMetadata(t *testing.T) {
	md, err := ReadMetadata([]byte(playTennisMetadata))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md.Label != "play" {
		t.Errorf("expected label play, got %q", md.Label)
	}
	names := feature.Names(md.Features)
	expected := []string{"outlook", "temperature", "humidity", "windy"}
	if len(names) != len(expected) {
		t.Fatalf("expected features %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected feature %d to be %s, got %s", i, expected[i], names[i])
		}
	}
	if md.Features[1].Categorical() {
		t.Errorf("expected temperature to be continuous")
	}
	if ok, _ := md.Features[3].Valid("true"); !ok {
		t.Errorf("expected windy to accept value true")
	}
	if md.Costs["temperature"] != 2.5 || md.Costs["outlook"] != 1 {
		t.Errorf("unexpected costs %v", md.Costs)
	}
}

func TestReadMetadataErrors(t *testing.T) {
	cases := map[string]string{
		"no features":      "label: play\n",
		"bad declaration":  "features:\n  a: discrete\n",
		"unknown cost":     "features:\n  a: continuous\ncosts:\n  b: 1\n",
		"invalid document": "features: [",
	}
	for name, doc := range cases {
		if _, err := ReadMetadata([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
