package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/dataset/datasettest"
)

const playTennisCSV = `outlook,temperature,humidity,windy,play
sunny,85,85,false,don't play
overcast,?,86,false,play
rain,70,96,?,play
`

func TestReadRecords(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(playTennisCSV), datasettest.PlayTennisFeatures(), "play")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if v, _ := records[0].Value("temperature"); v != "85" {
		t.Errorf("expected temperature 85, got %q", v)
	}
	if records[0].Label() != datasettest.DontPlay || records[1].Label() != datasettest.Play {
		t.Errorf("unexpected labels %q and %q", records[0].Label(), records[1].Label())
	}
	if _, err = records[1].Value("temperature"); err == nil {
		t.Errorf("expected ? to leave temperature undefined")
	}
	if _, err = records[2].Value("windy"); err == nil {
		t.Errorf("expected ? to leave windy undefined")
	}
	if records[2].FeatureCount() != 4 {
		t.Errorf("expected records to know all 4 features, got %d", records[2].FeatureCount())
	}
}

func TestReadRecordsWithoutLabel(t *testing.T) {
	input := "windy,outlook\ntrue,rain\n"
	records, err := ReadRecords(strings.NewReader(input), datasettest.PlayTennisFeatures(), "play")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Label() != "" {
		t.Fatalf("expected a record with no label, got %v", records)
	}
	if v, _ := records[0].Value("outlook"); v != "rain" {
		t.Errorf("expected outlook rain, got %q", v)
	}
}

func TestReadRecordsErrors(t *testing.T) {
	features := datasettest.PlayTennisFeatures()
	inputs := []string{
		"",
		"outlook,pressure,play\nsunny,1000,play\n",
		"outlook,play\nfoggy,play\n",
		"humidity,play\nhigh,play\n",
	}
	for _, input := range inputs {
		if _, err := ReadRecords(strings.NewReader(input), features, "play"); err == nil {
			t.Errorf("expected an error reading %q", input)
		}
	}
}

func TestReadRecordsByRecordStops(t *testing.T) {
	count := 0
	err := ReadRecordsByRecord(strings.NewReader(playTennisCSV), datasettest.PlayTennisFeatures(), "play", func(i int, _ dataset.Record) (bool, error) {
		count++
		return i < 1, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected reading to stop after 2 records, got %d", count)
	}
}

func TestWriteRecords(t *testing.T) {
	ctx := context.Background()
	features := datasettest.PlayTennisFeatures()
	records, err := ReadRecords(strings.NewReader(playTennisCSV), features, "play")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err = WriteRecords(ctx, &buf, records, features, "play"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != playTennisCSV {
		t.Errorf("expected\n%s\ngot\n%s", playTennisCSV, buf.String())
	}
}

func TestPredictionWriter(t *testing.T) {
	ctx := context.Background()
	features := datasettest.PlayTennisFeatures()[:1]
	records := []dataset.Record{
		dataset.New(features, map[string]string{"outlook": "sunny"}, ""),
		dataset.New(features, map[string]string{"outlook": "foggy"}, ""),
	}
	records[0].SetPredictedLabel(datasettest.Play)
	var buf bytes.Buffer
	w, err := NewPredictionWriter(&buf, features, "play")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, err := w.Write(ctx, records); n != 2 || err != nil {
		t.Fatalf("expected 2 records written, got %d %v", n, err)
	}
	if err = w.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "outlook,play\nsunny,play\nfoggy,?\n"
	if buf.String() != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, buf.String())
	}
	if w.Count() != 2 {
		t.Errorf("expected a count of 2, got %d", w.Count())
	}
}
