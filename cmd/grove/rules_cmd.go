package main

import (
	"fmt"

	"github.com/grovekit/grove"
	"github.com/grovekit/grove/tree"
	"github.com/spf13/cobra"
)

type rulesCmdConfig struct {
	*rootCmdConfig
	modelInput string
	showTree   bool
}

func rulesCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &rulesCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the rules of a model",
		Long: `Print the post-pruned rules of a C4.5 model in the order they are tried,
or the rules extracted from the leaves of a tree model`,
		Run: func(cmd *cobra.Command, args []string) {
			c, err := config.loadModel(config.modelInput)
			config.exitOnError(err, 3)
			var rules []*tree.Rule
			var t *tree.Tree
			switch c := c.(type) {
			case *grove.C45:
				rules, t = c.Rules(), c.Tree()
			case *grove.ID3:
				t = c.Tree()
			default:
				config.exitOnError(fmt.Errorf("cannot extract rules from a %T", c), 4)
			}
			if config.showTree {
				fmt.Println(t)
			}
			if rules == nil {
				config.Logf("Extracting rules from the tree...")
				rules = t.ToRules()
			}
			for _, r := range rules {
				fmt.Println(r)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "t", "", modelFlagUsage+" from which the model will be read (required)")
	cmd.PersistentFlags().BoolVar(&(config.showTree), "tree", false, "print the tree before the rules")
	return cmd
}
