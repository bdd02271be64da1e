package tree

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/grovekit/grove/dataset"
)

// RootID is the ID of the root node of every tree
const RootID = 0

/*
TreeError is an error found when operating on the structure of a tree
*/
type TreeError string

func (te TreeError) Error() string {
	return string(te)
}

const (
	// ErrInvalidContinuousSplit is returned by Validate for branch nodes whose
	// children mix inequality tokens without forming a "<=" and ">" pair
	ErrInvalidContinuousSplit = TreeError("invalid continuous split")
	// ErrNotABranch is returned when pruning a node that is not a branch
	ErrNotABranch = TreeError("node is not a branch")
	// ErrNotALeaf is returned when building a rule from a node that is not a leaf
	ErrNotALeaf = TreeError("node is not a leaf")
	// ErrUnknownNode is returned for node IDs not present in the tree
	ErrUnknownNode = TreeError("unknown node")
	// ErrMalformedTree is returned when decoding a tree with a node that is
	// neither a branch with children, a leaf nor a class count under a leaf
	ErrMalformedTree = TreeError("malformed tree")
)

/*
Tree is a classification tree. Its nodes live in an arena addressed by ID,
the root always having RootID. Trees must not be used from several goroutines
at a time: predictions may draw from the tree's random source.
*/
type Tree struct {
	nodes []Node
	rnd   *rand.Rand
}

/*
New takes a random source and returns an empty tree that will use it to
choose the branch for records with unparsable numbers on continuous splits
and to draw feature subsets. A nil source is replaced by one seeded with
the current time.
*/
func New(rnd *rand.Rand) *Tree {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	t := &Tree{rnd: rnd}
	t.Clear()
	return t
}

/*
Clear resets the tree to an empty root, which cannot predict anything.
*/
func (t *Tree) Clear() {
	t.nodes = []Node{{ID: RootID, ParentID: -1, SplitFeature: ClassFeature, Distribution: map[string]int{}}}
}

// Root returns the root node of the tree
func (t *Tree) Root() *Node {
	return &t.nodes[RootID]
}

/*
Node takes an ID and returns the node with that ID or nil if there is none.
The returned node must not be modified.
*/
func (t *Tree) Node(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

/*
Predict takes a record and returns the label the tree predicts for it and
true, or an empty string and false when the tree cannot make a prediction:
the record lacks a value for a feature on its path or has a value no branch
accepts.

Values are matched against branch values literally first. On a branch whose
children are exactly a "<= b" and a "> b" token for a feature the record
does not flag as categorical, the record value is compared numerically with
b, and a value that is not a finite number (NaN and infinities included)
takes one of the two branches at random.
*/
func (t *Tree) Predict(r dataset.Record) (string, bool) {
	id := RootID
	for {
		n := &t.nodes[id]
		if !n.IsBranch() {
			return n.Majority()
		}
		next, ok := t.route(n, r)
		if !ok {
			return "", false
		}
		id = next
	}
}

func (t *Tree) route(n *Node, r dataset.Record) (int, bool) {
	v, err := r.Value(n.SplitFeature)
	if err != nil {
		return 0, false
	}
	for _, id := range n.SubtreeIDs {
		if t.nodes[id].Value == v {
			return id, true
		}
	}
	if r.IsCategorical(n.SplitFeature) {
		return 0, false
	}
	le, gt, boundary, ok := t.continuousSplit(n)
	if !ok {
		return 0, false
	}
	x, ok := ParseNumber(v)
	if !ok {
		if t.rnd.Intn(2) == 0 {
			return le, true
		}
		return gt, true
	}
	if x <= boundary {
		return le, true
	}
	return gt, true
}

/*
continuousSplit returns the IDs of the "<=" and ">" children of the node and
their boundary when the node's children are exactly such a pair.
*/
func (t *Tree) continuousSplit(n *Node) (int, int, float64, bool) {
	if len(n.SubtreeIDs) != 2 {
		return 0, 0, 0, false
	}
	le, gt := -1, -1
	var boundaries [2]float64
	for i, id := range n.SubtreeIDs {
		op, b, ok := parseToken(t.nodes[id].Value)
		if !ok {
			return 0, 0, 0, false
		}
		boundaries[i] = b
		if op == "<=" {
			le = id
		} else {
			gt = id
		}
	}
	if le < 0 || gt < 0 || boundaries[0] != boundaries[1] {
		return 0, 0, 0, false
	}
	return le, gt, boundaries[0], true
}

/*
Validate returns ErrInvalidContinuousSplit, wrapped with the offending node,
if a branch has children with inequality tokens that do not form exactly
one "<= b" and one "> b" pair. Such branches only ever match values
literally.
*/
func (t *Tree) Validate() error {
	for _, id := range t.FlattenBranchNodes() {
		n := &t.nodes[id]
		tokens := 0
		for _, cid := range n.SubtreeIDs {
			if _, _, ok := parseToken(t.nodes[cid].Value); ok {
				tokens++
			}
		}
		if tokens == 0 {
			continue
		}
		if _, _, _, ok := t.continuousSplit(n); !ok {
			return fmt.Errorf("%w: node %d on %s", ErrInvalidContinuousSplit, id, n.SplitFeature)
		}
	}
	return nil
}

/*
FlattenBranchNodes returns the IDs of the branch nodes of the tree in
depth-first order, children visited in order.
*/
func (t *Tree) FlattenBranchNodes() []int {
	var result []int
	t.walk(RootID, 0, func(n *Node, _ int) {
		if n.IsBranch() {
			result = append(result, n.ID)
		}
	})
	return result
}

/*
FlattenLeafNodes returns the IDs of the leaves of the tree in depth-first
order, children visited in order.
*/
func (t *Tree) FlattenLeafNodes() []int {
	var result []int
	t.walk(RootID, 0, func(n *Node, _ int) {
		if n.IsLeaf() {
			result = append(result, n.ID)
		}
	})
	return result
}

/*
Stats returns the number of branch nodes and leaves of the tree and the
depth of its deepest leaf.
*/
func (t *Tree) Stats() (branches, leaves, depth int) {
	t.walk(RootID, 0, func(n *Node, d int) {
		if n.IsBranch() {
			branches++
		}
		if n.IsLeaf() {
			leaves++
			if d > depth {
				depth = d
			}
		}
	})
	return branches, leaves, depth
}

func (t *Tree) walk(id, depth int, f func(*Node, int)) {
	n := &t.nodes[id]
	f(n, depth)
	if !n.IsBranch() {
		return
	}
	for _, sid := range n.SubtreeIDs {
		t.walk(sid, depth+1, f)
	}
}

func (t *Tree) String() string {
	return t.subtreeString(RootID)
}

func (t *Tree) subtreeString(id int) string {
	n := &t.nodes[id]
	var result string
	if n.Feature != "" {
		result = fmt.Sprintf("{ %s = %s }", n.Feature, n.Value)
	} else {
		result = "{ root }"
	}
	if n.IsBranch() {
		result = fmt.Sprintf("%s split on %s (gain %.4f)\n", result, n.SplitFeature, n.InformationGain)
	} else {
		label, _ := n.Majority()
		return fmt.Sprintf("%s => %s %v\n", result, label, n.Distribution)
	}
	for i, sid := range n.SubtreeIDs {
		for j, line := range strings.Split(t.subtreeString(sid), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(n.SubtreeIDs)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
