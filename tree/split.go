package tree

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/grovekit/grove/dataset"
)

/*
GainAdjuster takes the information gain obtained by splitting on a feature and
the name of the feature and returns the gain to use when comparing features.
*/
type GainAdjuster func(gain float64, feature string) float64

/*
BuildOptions holds the configuration for growing a tree.
*/
type BuildOptions struct {
	// GainAdjuster, when set, is applied to every information gain
	// computed during the build.
	GainAdjuster GainAdjuster
	// FeatureSubsetSize, when positive, makes every node choose its
	// split among a random subset of that many features and keeps used
	// features available to descendants.
	FeatureSubsetSize int
	// MaxDepth is the maximum depth of branch nodes, 0 for no limit
	MaxDepth int
	// MinSplit is the minimum number of records needed to split a node.
	// Values below 2 are taken as 2.
	MinSplit int
	// Rand is the source for the feature subsets. The tree's own source
	// is used when nil.
	Rand *rand.Rand
}

/*
Entropy takes a label distribution and the number of records it accounts for
and returns -Σ p·log2(p) over the labels present.
*/
func Entropy(distribution map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	var result float64
	for _, l := range sortedKeys(distribution) {
		c := distribution[l]
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		result -= p * math.Log2(p)
	}
	return result
}

/*
PartitionByClass takes a slice of records and returns the number of records
for each label.
*/
func PartitionByClass(records []dataset.Record) map[string]int {
	result := make(map[string]int)
	for _, r := range records {
		result[r.Label()]++
	}
	return result
}

/*
PartitionByFeature takes a slice of records and a feature name and returns
the records grouped by their exact value for the feature. It fails if a record
has no value for the feature.
*/
func PartitionByFeature(records []dataset.Record, feature string) (map[string][]dataset.Record, error) {
	result := make(map[string][]dataset.Record)
	for _, r := range records {
		v, err := r.Value(feature)
		if err != nil {
			return nil, err
		}
		result[v] = append(result[v], r)
	}
	return result, nil
}

/*
InformationGain takes a partition, a feature name and an optional
GainAdjuster and returns the information gain of splitting the partition
on the feature, the sub-partitions of records by feature value and an error
if a record has no value for the feature. When adjust is not nil, the
returned gain is the adjusted one.
*/
func InformationGain(p *Partition, feature string, adjust GainAdjuster) (float64, map[string][]dataset.Record, error) {
	subsets, err := PartitionByFeature(p.Records, feature)
	if err != nil {
		return 0, nil, err
	}
	gain := p.Entropy()
	total := float64(p.Count())
	values := make([]string, 0, len(subsets))
	for v := range subsets {
		values = append(values, v)
	}
	sort.Strings(values)
	for _, v := range values {
		s := subsets[v]
		gain -= Entropy(PartitionByClass(s), len(s)) * float64(len(s)) / total
	}
	if gain < 0 {
		// rounding
		gain = 0
	}
	if adjust != nil {
		gain = adjust(gain, feature)
	}
	return gain, subsets, nil
}

/*
Build takes a context, the names of the features to split on, a slice of
records and build options and grows the tree from scratch: it clears the
tree, places all records in a partition for the root and splits it
recursively. Features are considered in the given order.
It returns dataset.ErrEmptyTrainingSet when there are no records, an error if
a record lacks a value for a feature being evaluated or the context error if
it is cancelled. On error the tree is left cleared.
*/
func (t *Tree) Build(ctx context.Context, features []string, records []dataset.Record, opts BuildOptions) error {
	t.Clear()
	if len(records) == 0 {
		return dataset.ErrEmptyTrainingSet
	}
	if opts.MinSplit < 2 {
		opts.MinSplit = 2
	}
	if opts.Rand == nil {
		opts.Rand = t.rnd
	}
	candidates := make([]string, len(features))
	copy(candidates, features)
	err := t.split(ctx, NewPartition(RootID, records), candidates, 0, &opts)
	if err != nil {
		t.Clear()
		return err
	}
	return nil
}

func (t *Tree) split(ctx context.Context, p *Partition, candidates []string, depth int, opts *BuildOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.nodes[p.NodeID].Distribution = copyDistribution(p.Distribution())
	t.nodes[p.NodeID].RecordCount = p.Count()
	var (
		bestFeature string
		bestGain    float64
		bestSubsets map[string][]dataset.Record
	)
	if p.Count() >= opts.MinSplit && (opts.MaxDepth <= 0 || depth < opts.MaxDepth) && p.Entropy() > 0 {
		for _, f := range featureSubset(candidates, opts.FeatureSubsetSize, opts.Rand) {
			gain, subsets, err := InformationGain(p, f, opts.GainAdjuster)
			if err != nil {
				return fmt.Errorf("evaluating split on %s: %w", f, err)
			}
			if gain > bestGain {
				bestFeature, bestGain, bestSubsets = f, gain, subsets
			}
		}
	}
	if bestFeature == "" {
		t.makeLeaf(p.NodeID)
		return nil
	}
	values := make([]string, 0, len(bestSubsets))
	for v := range bestSubsets {
		values = append(values, v)
	}
	sort.Strings(values)
	subtreeIDs := make([]int, 0, len(values))
	for _, v := range values {
		id := len(t.nodes)
		t.nodes = append(t.nodes, Node{ID: id, ParentID: p.NodeID, Feature: bestFeature, Value: v})
		subtreeIDs = append(subtreeIDs, id)
	}
	t.nodes[p.NodeID].SplitFeature = bestFeature
	t.nodes[p.NodeID].SubtreeIDs = subtreeIDs
	t.nodes[p.NodeID].InformationGain = bestGain
	remaining := candidates
	if opts.FeatureSubsetSize <= 0 {
		remaining = make([]string, 0, len(candidates)-1)
		for _, f := range candidates {
			if f != bestFeature {
				remaining = append(remaining, f)
			}
		}
	}
	for i, v := range values {
		err := t.split(ctx, NewPartition(subtreeIDs[i], bestSubsets[v]), remaining, depth+1, opts)
		if err != nil {
			return err
		}
	}
	return nil
}

/*
makeLeaf turns the node with the given ID into a leaf, adding a class count
node under it for every label in its distribution.
*/
func (t *Tree) makeLeaf(id int) {
	t.nodes[id].SplitFeature = ClassFeature
	t.nodes[id].SubtreeIDs = nil
	t.nodes[id].InformationGain = 0
	distribution := t.nodes[id].Distribution
	for _, l := range sortedKeys(distribution) {
		cid := len(t.nodes)
		t.nodes = append(t.nodes, Node{
			ID:           cid,
			ParentID:     id,
			Feature:      ClassFeature,
			Value:        l,
			Distribution: map[string]int{l: distribution[l]},
			RecordCount:  distribution[l],
		})
		t.nodes[id].SubtreeIDs = append(t.nodes[id].SubtreeIDs, cid)
	}
}

/*
featureSubset returns size features drawn at random from the candidates,
in the order they have among the candidates. All candidates are returned
when size is not positive or not lower than their number.
*/
func featureSubset(candidates []string, size int, rnd *rand.Rand) []string {
	if size <= 0 || size >= len(candidates) {
		return candidates
	}
	indexes := rnd.Perm(len(candidates))[:size]
	sort.Ints(indexes)
	result := make([]string, 0, size)
	for _, i := range indexes {
		result = append(result, candidates[i])
	}
	return result
}
