package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/grovekit/grove"
	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/feature/yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput       string
	metadataInput   string
	output          string
	label           string
	algorithm       string
	discretize      bool
	validationSplit float64
	pruneStrategy   string
	costStrategy    string
	estimator       string
	maxDepth        int
	minSplit        int
	forestSize      int
	featureSubset   int
	dataUsage       float64
	workers         int
	member          string
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree or a forest from a set of data",
		Long:  `Grow an ID3 or C4.5 tree or a random forest from a set of data to predict its label.`,
		Run: func(cmd *cobra.Command, args []string) {
			config.exitOnError(config.Validate(), 1)
			md, err := config.readMetadata(config.metadataInput, config.label)
			config.exitOnError(err, 2)
			records, err := config.readRecords(config.dataInput, md)
			config.exitOnError(err, 3)
			rnd := config.newRand()
			opts, err := config.options(rnd)
			config.exitOnError(err, 4)
			if config.discretize {
				config.exitOnError(config.discretizeRecords(records, md, opts), 5)
			}
			var validation []dataset.Record
			if config.validationSplit > 0 {
				records, validation = dataset.Split(records, config.validationSplit, rnd)
				config.Logf("Kept %d records for training and %d for validation", len(records), len(validation))
			}
			c, err := config.classifier(md, opts)
			config.exitOnError(err, 6)
			config.Logf("Growing %s from a set with %d records and %d features to predict %s ...", config.algorithm, len(records), len(md.Features), md.Label)
			err = c.Train(config.Context(), records)
			if err != nil {
				config.exitOnError(fmt.Errorf("growing the %s: %v", config.algorithm, err), 7)
			}
			config.exitOnError(config.prune(c, validation), 8)
			config.Logf("Done")
			config.exitOnError(config.saveModel(config.output, c), 9)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", storeFlagUsage+" with data to use to grow the model (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the label and features available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", modelFlagUsage+" to which the model will be written (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.label), "label", "l", "", "name of the column the model should predict (defaults to the label in the metadata)")
	cmd.PersistentFlags().StringVarP(&(config.algorithm), "algorithm", "a", "id3", "algorithm to grow the model with: id3, c45 or forest")
	cmd.PersistentFlags().BoolVarP(&(config.discretize), "discretize", "d", false, "discretize continuous features at the boundary with the highest information gain before growing")
	cmd.PersistentFlags().Float64Var(&(config.validationSplit), "validation-split", 0, "probability of a record being kept apart for pruning validation")
	cmd.PersistentFlags().StringVarP(&(config.pruneStrategy), "prune", "p", "none", "pruning strategy to apply with the validation records, the following are valid: none, error-reduction, rules (c45 only)")
	cmd.PersistentFlags().StringVar(&(config.costStrategy), "cost", "", "cost-sensitive gain with the costs in the metadata (c45 only), the following are valid: tan-schlimmer, nunez:[WEIGHT]")
	cmd.PersistentFlags().StringVar(&(config.estimator), "estimator", "normal", "rule accuracy estimator for rule pruning: normal or unscaled")
	cmd.PersistentFlags().IntVar(&(config.maxDepth), "max-depth", 0, "maximum depth of the trees (defaults to 0: unlimited, 32 for forest members)")
	cmd.PersistentFlags().IntVar(&(config.minSplit), "min-split", 0, "minimum number of records a node needs to split")
	cmd.PersistentFlags().IntVar(&(config.forestSize), "forest-size", grove.DefaultForestSize, "number of trees in the forest")
	cmd.PersistentFlags().IntVar(&(config.featureSubset), "feature-subset", 0, "number of features forest members choose from at every split (defaults to 0: square root of the number of features)")
	cmd.PersistentFlags().Float64Var(&(config.dataUsage), "data-usage", grove.DefaultDataUsage, "fraction of the records drawn to train each forest member")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 1, "number of forest members trained at a time")
	cmd.PersistentFlags().StringVar(&(config.member), "member", "id3", "algorithm of the forest members: id3 or c45")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	switch gcc.algorithm {
	case "id3", "c45", "forest":
	default:
		return fmt.Errorf("unknown algorithm %s", gcc.algorithm)
	}
	switch gcc.pruneStrategy {
	case "none":
	case "error-reduction":
		if gcc.algorithm == "forest" {
			return fmt.Errorf("forests cannot be pruned")
		}
	case "rules":
		if gcc.algorithm != "c45" {
			return fmt.Errorf("rule post-pruning requires the c45 algorithm")
		}
	default:
		return fmt.Errorf("unknown pruning strategy %s", gcc.pruneStrategy)
	}
	if gcc.pruneStrategy != "none" && !(gcc.validationSplit > 0 && gcc.validationSplit < 1) {
		return fmt.Errorf("pruning requires a validation-split between 0 and 1")
	}
	if gcc.costStrategy != "" && gcc.algorithm != "c45" {
		return fmt.Errorf("cost-sensitive growing requires the c45 algorithm")
	}
	if gcc.member != "id3" && gcc.member != "c45" {
		return fmt.Errorf("unknown forest member algorithm %s", gcc.member)
	}
	return nil
}

func (rcc *rootCmdConfig) newRand() *rand.Rand {
	seed := rcc.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rcc.Logf("Using random seed %d", seed)
	return rand.New(rand.NewSource(seed))
}

func (gcc *growCmdConfig) options(rnd *rand.Rand) ([]grove.Option, error) {
	opts := []grove.Option{
		grove.WithRand(rnd),
		grove.WithLogger(gcc.Logger),
		grove.WithMaxDepth(gcc.maxDepth),
		grove.WithMinSplit(gcc.minSplit),
		grove.WithForestSize(gcc.forestSize),
		grove.WithFeatureSubsetSize(gcc.featureSubset),
		grove.WithDataUsage(gcc.dataUsage),
		grove.WithWorkers(gcc.workers),
	}
	switch gcc.estimator {
	case "normal":
		opts = append(opts, grove.WithEstimator(grove.NormalApproximation))
	case "unscaled":
		opts = append(opts, grove.WithEstimator(grove.UnscaledVariance))
	default:
		return nil, fmt.Errorf("unknown estimator %s", gcc.estimator)
	}
	if gcc.member == "c45" {
		opts = append(opts, grove.WithMemberGenerator(func(int) grove.ForestMember {
			return grove.NewC45(opts...)
		}))
	}
	return opts, nil
}

func (gcc *growCmdConfig) discretizeRecords(records []dataset.Record, md *yaml.Metadata, opts []grove.Option) error {
	id3 := grove.NewID3(opts...)
	for _, f := range md.Features {
		if f.Categorical() {
			continue
		}
		boundary, err := id3.Discretize(records, f.Name())
		if err != nil {
			return err
		}
		gcc.Logger.Info("feature discretized", zap.String("feature", f.Name()), zap.Float64("boundary", boundary))
	}
	return nil
}

func (gcc *growCmdConfig) classifier(md *yaml.Metadata, opts []grove.Option) (grove.Classifier, error) {
	switch gcc.algorithm {
	case "c45":
		c := grove.NewC45(opts...)
		if gcc.costStrategy == "" {
			return c, nil
		}
		strategy, err := costStrategy(gcc.costStrategy)
		if err != nil {
			return nil, err
		}
		err = c.EnableCost(md.Costs, strategy)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "forest":
		return grove.NewForest(opts...), nil
	}
	return grove.NewID3(opts...), nil
}

func (gcc *growCmdConfig) prune(c grove.Classifier, validation []dataset.Record) error {
	var errs int
	var err error
	switch gcc.pruneStrategy {
	case "error-reduction":
		pruner, ok := c.(interface {
			ErrorReducePrune(ctx context.Context, validation []dataset.Record) (int, error)
		})
		if !ok {
			return fmt.Errorf("%T cannot be pruned", c)
		}
		errs, err = pruner.ErrorReducePrune(gcc.Context(), validation)
	case "rules":
		errs, err = c.(*grove.C45).RulePostPrune(gcc.Context(), validation)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("pruning: %v", err)
	}
	gcc.Logf("Pruned with %d validation errors out of %d records", errs, len(validation))
	return nil
}

func costStrategy(cs string) (grove.CostStrategy, error) {
	parsedCS := strings.Split(cs, ":")
	cs = parsedCS[0]
	csParams := parsedCS[1:]
	switch cs {
	case "tan-schlimmer":
		return grove.TanSchlimmer(), nil
	case "nunez":
		if len(csParams) == 0 {
			return grove.Nunez(1), nil
		}
		weight, err := strconv.ParseFloat(csParams[0], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing nunez weight parameter: %v", err)
		}
		return grove.Nunez(weight), nil
	}
	return nil, fmt.Errorf("unknown cost strategy %s", cs)
}
