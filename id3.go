package grove

import (
	"context"
	"math/rand"
	"time"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/tree"
	"go.uber.org/zap"
)

/*
ID3 is a classifier that grows a decision tree splitting on the feature with
the highest information gain at every node, using each feature at most once
along a path. Continuous features must be discretized before training.
*/
type ID3 struct {
	tree    *tree.Tree
	rnd     *rand.Rand
	logger  *zap.Logger
	options tree.BuildOptions
}

/*
NewID3 takes options and returns an untrained ID3 classifier. WithRand,
WithLogger, WithMaxDepth and WithMinSplit apply to it.
*/
func NewID3(opts ...Option) *ID3 {
	return newID3(newSettings(opts))
}

func newID3(s *settings) *ID3 {
	return &ID3{
		tree:    tree.New(s.rnd),
		rnd:     s.rnd,
		logger:  s.logger,
		options: tree.BuildOptions{MaxDepth: s.maxDepth, MinSplit: s.minSplit, Rand: s.rnd},
	}
}

/*
Train takes a context and a slice of records and grows the tree from them,
splitting on the features the first record names. It returns
dataset.ErrEmptyTrainingSet when there are no records.
*/
func (id3 *ID3) Train(ctx context.Context, records []dataset.Record) error {
	if len(records) == 0 {
		return dataset.ErrEmptyTrainingSet
	}
	start := time.Now()
	err := id3.tree.Build(ctx, records[0].FeatureNames(), records, id3.options)
	if err != nil {
		return err
	}
	id3.validateTree()
	branches, leaves, depth := id3.tree.Stats()
	id3.logger.Debug("tree grown",
		zap.Int("records", len(records)),
		zap.Int("branches", branches),
		zap.Int("leaves", leaves),
		zap.Int("depth", depth),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Predict returns the label the tree predicts for the record, if any
func (id3 *ID3) Predict(r dataset.Record) (string, bool) {
	return id3.tree.Predict(r)
}

// Tree returns the tree of the classifier
func (id3 *ID3) Tree() *tree.Tree {
	return id3.tree
}

/*
ErrorReducePrune takes a context and a slice of validation records and prunes
the tree while doing so reduces the number of validation records it
mispredicts. Every round tries pruning each branch node, keeps the pruning
with the largest reduction, if any, and starts over. It returns the final
number of mispredicted validation records, which is never greater than the
initial one, or ErrEmptyValidationSet.

Records holding values that are not numbers on continuous splits take random
branches, so every measurement draws again from the tree's random source and
the comparison between rounds only holds for the measured counts.
*/
func (id3 *ID3) ErrorReducePrune(ctx context.Context, validation []dataset.Record) (int, error) {
	if len(validation) == 0 {
		return 0, ErrEmptyValidationSet
	}
	t := id3.tree
	baseline := Evaluate(t, validation)
	initial := baseline
	for {
		best, bestErrors := -1, baseline
		for _, id := range t.FlattenBranchNodes() {
			if err := ctx.Err(); err != nil {
				t.Compact()
				return baseline, err
			}
			s, err := t.Prune(id)
			if err != nil {
				return baseline, err
			}
			errors := Evaluate(t, validation)
			if err = t.Join(s); err != nil {
				return baseline, err
			}
			if errors < bestErrors {
				best, bestErrors = id, errors
			}
		}
		if best < 0 {
			break
		}
		if _, err := t.Prune(best); err != nil {
			return baseline, err
		}
		id3.logger.Debug("node pruned", zap.Int("node", best), zap.Int("errors", bestErrors))
		baseline = bestErrors
	}
	t.Compact()
	id3.logger.Info("error-reduction pruning done",
		zap.Int("validation", len(validation)),
		zap.Int("initialErrors", initial),
		zap.Int("errors", baseline),
	)
	return baseline, nil
}

// validateTree logs a warning if the tree has an invalid continuous split
func (id3 *ID3) validateTree() {
	if err := id3.tree.Validate(); err != nil {
		id3.logger.Warn("continuous split will only match values literally", zap.Error(err))
	}
}

/*
RandomShuffle takes a slice of records and shuffles them in place using the
classifier's random source.
*/
func (id3 *ID3) RandomShuffle(records []dataset.Record) {
	id3.rnd.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
}

func (id3 *ID3) setForestMode(subsetSize int, rnd *rand.Rand) {
	id3.rnd = rnd
	id3.tree = tree.New(rnd)
	id3.options.FeatureSubsetSize = subsetSize
	id3.options.Rand = rnd
	if id3.options.MaxDepth <= 0 {
		id3.options.MaxDepth = DefaultForestMaxDepth
	}
}
