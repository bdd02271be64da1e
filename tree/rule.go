package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grovekit/grove/dataset"
)

/*
Rule is a conjunction of feature values (the antecedents) that implies a
label (the consequent). Estimate is the estimated accuracy of the rule,
used to decide which rules fire first.
*/
type Rule struct {
	Antecedents map[string]string `json:"antecedents"`
	Consequent  string            `json:"consequent"`
	Estimate    float64           `json:"estimate"`
}

// NewRule returns a rule with no antecedents
func NewRule() *Rule {
	return &Rule{Antecedents: make(map[string]string)}
}

/*
IsFired takes a record and returns whether the value of the record for every
antecedent feature is exactly the value the antecedent requires. Records
lacking a value for an antecedent feature do not fire the rule.
*/
func (r *Rule) IsFired(rec dataset.Record) bool {
	for f, required := range r.Antecedents {
		v, err := rec.Value(f)
		if err != nil || v != required {
			return false
		}
	}
	return true
}

// Features returns the sorted names of the antecedent features
func (r *Rule) Features() []string {
	result := make([]string, 0, len(r.Antecedents))
	for f := range r.Antecedents {
		result = append(result, f)
	}
	sort.Strings(result)
	return result
}

// Clone returns a deep copy of the rule
func (r *Rule) Clone() *Rule {
	result := &Rule{Antecedents: make(map[string]string, len(r.Antecedents)), Consequent: r.Consequent, Estimate: r.Estimate}
	for f, v := range r.Antecedents {
		result.Antecedents[f] = v
	}
	return result
}

func (r *Rule) String() string {
	features := r.Features()
	conditions := make([]string, 0, len(features))
	for _, f := range features {
		conditions = append(conditions, fmt.Sprintf("%s = %s", f, r.Antecedents[f]))
	}
	if len(conditions) == 0 {
		return fmt.Sprintf("ALWAYS %s (%.4f)", r.Consequent, r.Estimate)
	}
	return fmt.Sprintf("IF %s THEN %s (%.4f)", strings.Join(conditions, " AND "), r.Consequent, r.Estimate)
}

/*
BuildRule takes the ID of a leaf and returns the rule for the path from the
root to it: an antecedent for every edge on the path and the leaf's majority
label as consequent.
*/
func (t *Tree) BuildRule(leafID int) (*Rule, error) {
	n := t.Node(leafID)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, leafID)
	}
	if !n.IsLeaf() {
		return nil, fmt.Errorf("building rule from node %d: %w", leafID, ErrNotALeaf)
	}
	r := NewRule()
	r.Consequent, _ = n.Majority()
	for n.ParentID >= 0 {
		parent := &t.nodes[n.ParentID]
		if _, ok := r.Antecedents[parent.SplitFeature]; !ok {
			r.Antecedents[parent.SplitFeature] = n.Value
		}
		n = parent
	}
	return r, nil
}

/*
ToRules returns a rule for every leaf of the tree that predicts a label, in
the depth-first order of the leaves.
*/
func (t *Tree) ToRules() []*Rule {
	var result []*Rule
	for _, id := range t.FlattenLeafNodes() {
		if _, ok := t.nodes[id].Majority(); !ok {
			continue
		}
		r, err := t.BuildRule(id)
		if err == nil {
			result = append(result, r)
		}
	}
	return result
}
