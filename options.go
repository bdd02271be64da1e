package grove

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultForestSize is the number of members of a forest
	DefaultForestSize = 100
	// DefaultDataUsage is the fraction of the training records drawn for each forest member
	DefaultDataUsage = 0.6667
	// DefaultForestMaxDepth caps the depth of forest members that set no maximum depth
	DefaultForestMaxDepth = 32
)

type settings struct {
	rnd        *rand.Rand
	logger     *zap.Logger
	maxDepth   int
	minSplit   int
	estimator  Estimator
	forestSize int
	subsetSize int
	dataUsage  float64
	workers    int
	generator  MemberGenerator
}

/*
Option configures classifiers. Options that do not apply to the classifier
being built are ignored, except that NewForest passes its options on to the
members it generates by default.
*/
type Option func(*settings)

func newSettings(opts []Option) *settings {
	s := &settings{
		logger:     zap.NewNop(),
		estimator:  NormalApproximation,
		forestSize: DefaultForestSize,
		dataUsage:  DefaultDataUsage,
		workers:    1,
	}
	for _, o := range opts {
		o(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// WithRand sets the random source of a classifier
func WithRand(rnd *rand.Rand) Option {
	return func(s *settings) {
		s.rnd = rnd
	}
}

// WithLogger sets the logger of a classifier
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxDepth sets the maximum depth of the branches of a tree
func WithMaxDepth(depth int) Option {
	return func(s *settings) {
		s.maxDepth = depth
	}
}

// WithMinSplit sets the minimum number of records a tree node needs to split
func WithMinSplit(n int) Option {
	return func(s *settings) {
		s.minSplit = n
	}
}

// WithEstimator sets the rule accuracy estimator of a C4.5 classifier
func WithEstimator(e Estimator) Option {
	return func(s *settings) {
		if e != nil {
			s.estimator = e
		}
	}
}

// WithForestSize sets the number of members of a forest
func WithForestSize(n int) Option {
	return func(s *settings) {
		s.forestSize = n
	}
}

/*
WithFeatureSubsetSize sets the number of features forest members choose
from at every split. Values that are not positive or exceed the number of
features are replaced by the square root of the number of features.
*/
func WithFeatureSubsetSize(n int) Option {
	return func(s *settings) {
		s.subsetSize = n
	}
}

// WithDataUsage sets the fraction of the training records drawn for each forest member
func WithDataUsage(fraction float64) Option {
	return func(s *settings) {
		s.dataUsage = fraction
	}
}

// WithWorkers sets the number of goroutines training forest members
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.workers = n
	}
}

// WithMemberGenerator sets the function creating the members of a forest
func WithMemberGenerator(g MemberGenerator) Option {
	return func(s *settings) {
		s.generator = g
	}
}
