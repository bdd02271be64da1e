package main

import (
	"fmt"

	"github.com/grovekit/grove"
	"github.com/grovekit/grove/dataset"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	modelInput    string
	dataInput     string
	metadataInput string
	label         string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a model",
		Long:  `Test the performance of a tree or forest against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			md, err := config.readMetadata(config.metadataInput, config.label)
			config.exitOnError(err, 2)
			c, err := config.loadModel(config.modelInput, grove.WithRand(config.newRand()))
			config.exitOnError(err, 3)
			records, err := config.readRecords(config.dataInput, md)
			config.exitOnError(err, 4)
			if len(records) == 0 {
				config.exitOnError(fmt.Errorf("no records to test the model against"), 5)
			}
			config.Logf("Testing model against a set with %d records...", len(records))
			grove.PredictBatch(c, records)
			mismatches, unpredicted, err := countOutcomes(records)
			config.exitOnError(err, 6)
			config.Logf("Done")
			successRate := float64(len(records)-mismatches-unpredicted) / float64(len(records))
			fmt.Printf("%f success rate, %d wrong predictions, failed to make a prediction for %d records\n", successRate, mismatches, unpredicted)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", storeFlagUsage+" with data to test the model against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the label and features available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "t", "", modelFlagUsage+" from which the model to test will be read (required)")
	cmd.PersistentFlags().StringVarP(&(config.label), "label", "l", "", "name of the column the model predicts (defaults to the label in the metadata)")
	return cmd
}

/*
countOutcomes takes records with predicted labels and returns how many were
predicted wrong and how many got no prediction, or an error if a record has
no label to compare its prediction with.
*/
func countOutcomes(records []dataset.Record) (mismatches, unpredicted int, err error) {
	for i, r := range records {
		if r.Label() == "" {
			return 0, 0, fmt.Errorf("record %d has no label to test the prediction against", i)
		}
		switch r.PredictedLabel() {
		case "":
			unpredicted++
		case r.Label():
		default:
			mismatches++
		}
	}
	return mismatches, unpredicted, nil
}
