package grove

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/grovekit/grove/dataset"
	"github.com/grovekit/grove/tree"
	"go.uber.org/zap"
)

/*
C45 is an ID3 classifier that can turn its tree into rules and prune them,
and weigh information gains with feature costs.

Until RulePostPrune is called it predicts with its tree. Afterwards it
predicts the consequent of the first rule, by decreasing estimated accuracy,
that the record fires, and has no prediction when none fires.
*/
type C45 struct {
	*ID3
	rules     []*tree.Rule
	estimator Estimator
	costs     map[string]float64
	strategy  CostStrategy
}

/*
NewC45 takes options and returns an untrained C4.5 classifier. WithEstimator
applies to it besides the ID3 options.
*/
func NewC45(opts ...Option) *C45 {
	return newC45(newSettings(opts))
}

func newC45(s *settings) *C45 {
	return &C45{ID3: newID3(s), estimator: s.estimator}
}

/*
EnableCost takes a map of feature names to costs and a cost strategy and
makes the classifier adjust every information gain with the strategy and the
cost of the feature. It returns an error wrapping ErrInvalidCost if a cost is
not valid for the strategy. Training fails with ErrMissingFeatureCost if a
feature of the training records has no cost.
*/
func (c *C45) EnableCost(costs map[string]float64, strategy CostStrategy) error {
	cs := make(map[string]float64, len(costs))
	for f, cost := range costs {
		if err := strategy.ValidCost(cost); err != nil {
			return fmt.Errorf("feature %s: %w", f, err)
		}
		cs[f] = cost
	}
	c.costs = cs
	c.strategy = strategy
	c.options.GainAdjuster = func(gain float64, feature string) float64 {
		return strategy.Adjust(gain, cs[feature])
	}
	return nil
}

// DisableCost stops adjusting information gains with feature costs
func (c *C45) DisableCost() {
	c.costs = nil
	c.strategy = nil
	c.options.GainAdjuster = nil
}

/*
Train takes a context and a slice of records and grows the tree from them,
dropping any rules from a previous training.
*/
func (c *C45) Train(ctx context.Context, records []dataset.Record) error {
	if len(records) == 0 {
		return dataset.ErrEmptyTrainingSet
	}
	if c.strategy != nil {
		for _, f := range records[0].FeatureNames() {
			if _, ok := c.costs[f]; !ok {
				return fmt.Errorf("%w: %s", ErrMissingFeatureCost, f)
			}
		}
	}
	c.rules = nil
	return c.ID3.Train(ctx, records)
}

/*
ErrorReducePrune prunes the tree like ID3's and drops any pruned rules, which
no longer match the tree.
*/
func (c *C45) ErrorReducePrune(ctx context.Context, validation []dataset.Record) (int, error) {
	c.rules = nil
	return c.ID3.ErrorReducePrune(ctx, validation)
}

// Predict returns the label predicted for the record, if any
func (c *C45) Predict(r dataset.Record) (string, bool) {
	if c.rules == nil {
		return c.ID3.Predict(r)
	}
	for _, rule := range c.rules {
		if rule.IsFired(r) {
			return rule.Consequent, true
		}
	}
	return "", false
}

// Rules returns the rules of the classifier in firing order, nil before RulePostPrune
func (c *C45) Rules() []*tree.Rule {
	return c.rules
}

/*
RulePostPrune takes a context and a slice of validation records, turns every
leaf of the tree into a rule and prunes each rule, removing one antecedent
at a time while that improves its estimated accuracy over the validation
records. A rule errs on a record when it fires with a wrong label or does
not fire at all. Rules are then sorted by decreasing estimated accuracy and
used for predictions from then on.
It returns the number of validation records the rules mispredict, or
ErrEmptyValidationSet.
*/
func (c *C45) RulePostPrune(ctx context.Context, validation []dataset.Record) (int, error) {
	if len(validation) == 0 {
		return 0, ErrEmptyValidationSet
	}
	rules := c.tree.ToRules()
	if rules == nil {
		rules = []*tree.Rule{}
	}
	removed := 0
	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		r.Estimate = c.estimate(r, validation)
		for len(r.Antecedents) > 0 {
			var bestFeature string
			bestEstimate := math.Inf(-1)
			for _, f := range r.Features() {
				v := r.Antecedents[f]
				delete(r.Antecedents, f)
				e := c.estimate(r, validation)
				r.Antecedents[f] = v
				if e > bestEstimate {
					bestFeature, bestEstimate = f, e
				}
			}
			if !(bestEstimate > r.Estimate) {
				break
			}
			delete(r.Antecedents, bestFeature)
			r.Estimate = bestEstimate
			removed++
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Estimate > rules[j].Estimate
	})
	c.rules = rules
	errors := Evaluate(c, validation)
	c.logger.Info("rule post-pruning done",
		zap.Int("rules", len(rules)),
		zap.Int("antecedentsRemoved", removed),
		zap.Int("validation", len(validation)),
		zap.Int("errors", errors),
	)
	return errors, nil
}

/*
RuleOutcomes takes a slice of records and returns how many of them fire a
rule with their label first, how many fire a rule with another label first
and how many fire no rule.
*/
func (c *C45) RuleOutcomes(records []dataset.Record) (correct, incorrect, unfired int) {
	for _, r := range records {
		fired := false
		for _, rule := range c.rules {
			if rule.IsFired(r) {
				fired = true
				if rule.Consequent == r.Label() {
					correct++
				} else {
					incorrect++
				}
				break
			}
		}
		if !fired {
			unfired++
		}
	}
	return correct, incorrect, unfired
}

func (c *C45) estimate(r *tree.Rule, validation []dataset.Record) float64 {
	errors := 0
	for _, rec := range validation {
		if !r.IsFired(rec) || r.Consequent != rec.Label() {
			errors++
		}
	}
	n := len(validation)
	return c.estimator(float64(n-errors)/float64(n), n)
}
