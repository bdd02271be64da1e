package tree

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

/*
ClassFeature is the split feature of leaf nodes and the edge feature of their
children, which hold the support of each class label.
*/
const ClassFeature = "@class"

/*
Node is a node of the tree
*/
type Node struct {
	// Position of the node in the tree's arena
	ID int
	// The ID of the parent of the node in the tree, -1 for the root.
	// It is only used to walk up the tree.
	ParentID int
	// The IDs of the nodes directly under this node, ordered by their Value
	SubtreeIDs []int
	// The feature tested on the nodes directly under this node, ClassFeature
	// for leaves and empty for the class count nodes under a leaf.
	SplitFeature string
	// The feature and value on the edge from the parent to this node
	Feature string
	Value   string
	// Count of training records per label that reached the node
	Distribution map[string]int
	RecordCount  int
	// Information gain of the split on SplitFeature, after adjustment
	InformationGain float64
}

// IsLeaf returns whether the node splits its records by class label
func (n *Node) IsLeaf() bool {
	return n.SplitFeature == ClassFeature
}

// IsBranch returns whether the node splits its records by a feature
func (n *Node) IsBranch() bool {
	return n.SplitFeature != ClassFeature && n.SplitFeature != ""
}

/*
Majority returns the label with the highest count in the node's distribution
and true, or an empty string and false if the distribution is empty. Labels
are compared in ascending order and only a strictly greater count replaces
the current choice, so ties go to the smallest label.
*/
func (n *Node) Majority() (string, bool) {
	labels := make([]string, 0, len(n.Distribution))
	for l := range n.Distribution {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	var result string
	best := 0
	for _, l := range labels {
		if n.Distribution[l] > best {
			best = n.Distribution[l]
			result = l
		}
	}
	return result, best > 0
}

/*
LessOrEqualToken takes a boundary and returns the value token for records
whose number is lower or equal to it, like "<= 75".
*/
func LessOrEqualToken(boundary float64) string {
	return "<= " + strconv.FormatFloat(boundary, 'f', -1, 64)
}

/*
GreaterToken takes a boundary and returns the value token for records whose
number is greater than it, like "> 75".
*/
func GreaterToken(boundary float64) string {
	return "> " + strconv.FormatFloat(boundary, 'f', -1, 64)
}

// parseToken returns the operator and boundary of an inequality token
func parseToken(v string) (string, float64, bool) {
	var op string
	switch {
	case strings.HasPrefix(v, "<="):
		op = "<="
	case strings.HasPrefix(v, ">") && !strings.HasPrefix(v, ">="):
		op = ">"
	default:
		return "", 0, false
	}
	boundary, ok := ParseNumber(v[len(op):])
	if !ok {
		return "", 0, false
	}
	return op, boundary, true
}

/*
ParseNumber takes a value and returns the finite number it holds and true,
or 0 and false when it holds no number, NaN or an infinity.
*/
func ParseNumber(v string) (float64, bool) {
	x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

func copyDistribution(d map[string]int) map[string]int {
	result := make(map[string]int, len(d))
	for k, v := range d {
		result[k] = v
	}
	return result
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
