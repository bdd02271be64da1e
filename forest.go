package grove

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/queue"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

/*
ForestMember is a classifier that can be part of a forest: ID3 and C45
classifiers.
*/
type ForestMember interface {
	Classifier
	setForestMode(subsetSize int, rnd *rand.Rand)
}

/*
MemberGenerator takes the position of a member in a forest and returns the
untrained classifier for it.
*/
type MemberGenerator func(i int) ForestMember

/*
Forest is a random forest: every member is trained on its own bootstrap
sample of the training records, choosing each split among a random subset of
the features, and the forest predicts the label most members vote for.
*/
type Forest struct {
	members    []ForestMember
	size       int
	subsetSize int
	dataUsage  float64
	workers    int
	generator  MemberGenerator
	rnd        *rand.Rand
	logger     *zap.Logger
}

/*
NewForest takes options and returns an untrained forest. Without
WithMemberGenerator members are ID3 classifiers created with the same
options.
*/
func NewForest(opts ...Option) *Forest {
	s := newSettings(opts)
	f := &Forest{
		size:       s.forestSize,
		subsetSize: s.subsetSize,
		dataUsage:  s.dataUsage,
		workers:    s.workers,
		generator:  s.generator,
		rnd:        s.rnd,
		logger:     s.logger,
	}
	if f.generator == nil {
		f.generator = func(int) ForestMember {
			return newID3(s)
		}
	}
	if f.size < 1 {
		f.size = 1
	}
	if f.workers < 1 {
		f.workers = 1
	}
	if !(f.dataUsage > 0) {
		f.dataUsage = DefaultDataUsage
	}
	return f
}

/*
Train takes a context and a slice of records and trains every member of the
forest on a bootstrap sample of floor(len(records) × data usage) records,
at least one, drawn with replacement. The seed of each member's random
source is drawn from the forest's before training starts, so the result does
not depend on the number of workers.
A feature subset size that is not positive or exceeds the number of features
of the records is resolved here to the square root of that number.
It returns dataset.ErrEmptyTrainingSet when there are no records, or the
first error from training a member.
*/
func (f *Forest) Train(ctx context.Context, records []dataset.Record) error {
	if len(records) == 0 {
		return dataset.ErrEmptyTrainingSet
	}
	total := records[0].FeatureCount()
	if f.subsetSize <= 0 || f.subsetSize > total {
		f.subsetSize = int(math.Sqrt(float64(total)))
	}
	if f.subsetSize < 1 {
		f.subsetSize = 1
	}
	sampleSize := int(float64(len(records)) * f.dataUsage)
	if sampleSize < 1 {
		sampleSize = 1
	}
	members := make([]ForestMember, f.size)
	q := queue.New()
	for i := range members {
		members[i] = f.generator(i)
		err := q.Push(ctx, &queue.Task{Member: i, Seed: f.rnd.Int63()})
		if err != nil {
			return err
		}
	}
	f.logger.Info("training forest",
		zap.Int("members", f.size),
		zap.Int("records", len(records)),
		zap.Int("sampleSize", sampleSize),
		zap.Int("featureSubsetSize", f.subsetSize),
		zap.Int("workers", f.workers),
	)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < f.workers; w++ {
		g.Go(func() error {
			return Work(gctx, q, func(ctx context.Context, task *queue.Task) error {
				return f.trainMember(ctx, members[task.Member], task, records, sampleSize)
			}, 10*time.Millisecond)
		})
	}
	err := g.Wait()
	q.Stop(ctx)
	if err != nil {
		return err
	}
	f.members = members
	f.logger.Info("forest trained", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (f *Forest) trainMember(ctx context.Context, m ForestMember, task *queue.Task, records []dataset.Record, sampleSize int) error {
	start := time.Now()
	rnd := rand.New(rand.NewSource(task.Seed))
	sample := Bootstrap(records, sampleSize, rnd)
	m.setForestMode(f.subsetSize, rnd)
	err := m.Train(ctx, sample)
	if err != nil {
		return fmt.Errorf("training member %d: %w", task.Member, err)
	}
	f.logger.Debug("forest member trained",
		zap.Int("member", task.Member),
		zap.Int("sampleSize", len(sample)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

/*
Predict returns the label predicted by most members, members without a
prediction abstaining. Votes are tallied in member order and a label needs
strictly more votes than the first one seen to replace it. It returns false
when no member has a prediction.
*/
func (f *Forest) Predict(r dataset.Record) (string, bool) {
	votes := make(map[string]int)
	var order []string
	for _, m := range f.members {
		label, ok := m.Predict(r)
		if !ok {
			continue
		}
		if votes[label] == 0 {
			order = append(order, label)
		}
		votes[label]++
	}
	var result string
	best := 0
	for _, l := range order {
		if votes[l] > best {
			result, best = l, votes[l]
		}
	}
	return result, best > 0
}

// Members returns the trained members of the forest
func (f *Forest) Members() []ForestMember {
	return f.members
}

// FeatureSubsetSize returns the number of features members choose from at every split
func (f *Forest) FeatureSubsetSize() int {
	return f.subsetSize
}

/*
Bootstrap takes a slice of records, a size and a random source and returns
size records drawn uniformly from the slice with replacement.
*/
func Bootstrap(records []dataset.Record, size int, rnd *rand.Rand) []dataset.Record {
	result := make([]dataset.Record, size)
	for i := range result {
		result[i] = records[rnd.Intn(len(records))]
	}
	return result
}
