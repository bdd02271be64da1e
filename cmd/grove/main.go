package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootCmdConfig struct {
	verbose bool
	logFile string
	seed    int64
	*logger
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "grove",
		Short: "grove is a tool to grow decision trees and forests",
		Long:  `A tool to grow ID3 and C4.5 decision trees and random forests from your data, test them, and use them to make predictions`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.logger = newLogger(config.verbose, config.logFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			config.Sync()
		},
	}
	config.logger = &logger{zap.NewNop()}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress and debug information")
	rootCmd.PersistentFlags().StringVar(&(config.logFile), "log-file", "", "path to a file to which logs are written in JSON, rotated when it grows over 100MB (defaults to STDERR)")
	rootCmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the random source (defaults to 0: seeded with the current time)")
	rootCmd.AddCommand(versionCmd(), growCmd(config), testCmd(config), predictCmd(config), rulesCmd(config), setCmd(config))
	return rootCmd
}

func (rcc *rootCmdConfig) Context() context.Context {
	rcc.setContextAndCancelFunc()
	return rcc.ctx
}

func (rcc *rootCmdConfig) ContextCancelFunc() context.CancelFunc {
	rcc.setContextAndCancelFunc()
	return rcc.cancelFunc
}

func (rcc *rootCmdConfig) setContextAndCancelFunc() {
	if rcc.ctx == nil {
		rcc.ctx, rcc.cancelFunc = context.WithCancel(context.Background())
	}
}

var exit = os.Exit

/*
exitOnError prints the error to STDERR and exits with the code when the
error is not nil, flushing the logger first.
*/
func (rcc *rootCmdConfig) exitOnError(err error, code int) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		rcc.Sync()
		exit(code)
	}
}
