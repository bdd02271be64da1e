package main

import (
	"fmt"

	"github.com/grovekit/grove/dataset"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput      string
	metadataInput string
	label         string
	setOutput     string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage sets of data",
		Long:  `Manage sets of data: dump a set of records from one store into another`,
		Run: func(cmd *cobra.Command, args []string) {
			md, err := config.readMetadata(config.metadataInput, config.label)
			config.exitOnError(err, 2)
			output, err := config.openWriter(config.setOutput, md)
			config.exitOnError(err, 3)
			input, err := config.openStream(config.setInput, md)
			config.exitOnError(err, 7)
			config.Logf("Dumping input set into output set...")
			inputStream, errStream := input.Read(config.Context())
			count := 0
			for r := range inputStream {
				_, err = output.Write(config.Context(), []dataset.Record{r})
				if err != nil {
					config.ContextCancelFunc()()
					break
				}
				count++
			}
			config.exitOnError(err, 8)
			config.exitOnError(<-errStream, 9)
			config.Logf("Flushing output set...")
			config.exitOnError(output.Flush(), 9)
			config.Logf("Done, %d records dumped", count)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", storeFlagUsage+" with the input set (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the label and features available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.label), "label", "l", "", "name of the label column (defaults to the label in the metadata)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", storeFlagUsage+" to dump the output set (defaults to STDOUT in CSV)")
	cmd.AddCommand(splitCmd(config))
	return cmd
}

func (scc *setCmdConfig) flush(w recordWriter, records []dataset.Record, location string) error {
	_, err := w.Write(scc.Context(), records)
	if err != nil {
		return fmt.Errorf("writing records to %s: %v", location, err)
	}
	return w.Flush()
}
