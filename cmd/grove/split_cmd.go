package main

import (
	"fmt"

	"github.com/grovekit/grove/dataset"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*setCmdConfig
	splitOutput string
	probability float64
}

func splitCmd(setConfig *setCmdConfig) *cobra.Command {
	config := &splitCmdConfig{setCmdConfig: setConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set of data in two",
		Long:  `Split a set of data into two sets, with every record going to the second set with the given probability`,
		Run: func(cmd *cobra.Command, args []string) {
			config.exitOnError(config.Validate(), 1)
			md, err := config.readMetadata(config.metadataInput, config.label)
			config.exitOnError(err, 2)
			records, err := config.readRecords(config.setInput, md)
			config.exitOnError(err, 3)
			kept, split := dataset.Split(records, config.probability, config.newRand())
			config.Logf("Splitting %d records into sets of %d and %d records...", len(records), len(kept), len(split))
			output, err := config.openWriter(config.setOutput, md)
			config.exitOnError(err, 4)
			config.exitOnError(config.flush(output, kept, config.setOutput), 5)
			splitOutput, err := config.openWriter(config.splitOutput, md)
			config.exitOnError(err, 6)
			config.exitOnError(config.flush(splitOutput, split, config.splitOutput), 7)
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", storeFlagUsage+" to dump the split set (required)")
	cmd.PersistentFlags().Float64VarP(&(config.probability), "probability", "p", 0.2, "probability of a record going to the split set")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitOutput == scc.setOutput {
		return fmt.Errorf("output and split-output must be different")
	}
	if !(scc.probability > 0 && scc.probability < 1) {
		return fmt.Errorf("probability must be between 0 and 1")
	}
	return nil
}
