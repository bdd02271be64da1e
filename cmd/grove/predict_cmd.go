package main

import (
	"fmt"
	"os"

	"github.com/grovekit/grove"
	"github.com/grovekit/grove/dataset/csv"
	"github.com/grovekit/grove/dataset/inputsample"
	"github.com/grovekit/grove/feature"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	modelInput     string
	metadataInput  string
	label          string
	dataInput      string
	output         string
	undefinedValue string
}

type stdoutFeatureValueRequester string

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the label of records",
		Long: `Use the loaded model to predict the label of a record answering a reduced set of questions about its features,
or the labels of a set of records given as input`,
		Run: func(cmd *cobra.Command, args []string) {
			md, err := config.readMetadata(config.metadataInput, config.label)
			config.exitOnError(err, 2)
			c, err := config.loadModel(config.modelInput, grove.WithRand(config.newRand()))
			config.exitOnError(err, 3)
			if config.dataInput == "" {
				r := inputsample.New(os.Stdin, md.Features, stdoutFeatureValueRequester(config.undefinedValue), config.undefinedValue)
				label, ok := c.Predict(r)
				if !ok {
					fmt.Println("No prediction could be made for the record")
					return
				}
				fmt.Printf("Predicted %s is %s\n", md.Label, label)
				return
			}
			records, err := config.readRecords(config.dataInput, md)
			config.exitOnError(err, 4)
			grove.PredictBatch(c, records)
			f := os.Stdout
			if config.output != "" {
				f, err = os.Create(config.output)
				config.exitOnError(err, 5)
				defer f.Close()
			}
			w, err := csv.NewPredictionWriter(f, md.Features, md.Label)
			config.exitOnError(err, 5)
			_, err = w.Write(config.Context(), records)
			config.exitOnError(err, 6)
			config.exitOnError(w.Flush(), 6)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the label and features available (required)")
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "t", "", modelFlagUsage+" from which the model will be read (required)")
	cmd.PersistentFlags().StringVarP(&(config.label), "label", "l", "", "name of the column the model predicts (defaults to the label in the metadata)")
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", storeFlagUsage+" with records to predict (defaults to asking for the values of a single record)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a CSV file to which the records are written with their predicted label (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a record's value for a feature as undefined")
	return cmd
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		if len(f.AvailableValues()) == 0 {
			fmt.Printf("Please provide the record's %s:\n(any value is valid, %s if undefined)\n", f.Name(), string(sfvr))
			return nil
		}
		fmt.Printf("Please provide the record's %s:\n(valid values are %v or %s if undefined)\n", f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("Please provide the record's %s:\n(valid values are real numbers or %s if undefined)\n", f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value string) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		fmt.Printf("%v is not a valid value for the record's %s. Please provide one of %v or %s if undefined.\n", value, f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("%v is not a valid value for the record's %s. Please provide a real number or %s if undefined.\n", value, f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}
