package tree

import "fmt"

/*
Snapshot holds what pruning a node removed from the tree, so that Join can
put it back exactly as it was.
*/
type Snapshot struct {
	node     Node
	arenaLen int
}

// NodeID returns the ID of the pruned node
func (s Snapshot) NodeID() int {
	return s.node.ID
}

// SplitFeature returns the feature the pruned node used to split on
func (s Snapshot) SplitFeature() string {
	return s.node.SplitFeature
}

// SubtreeIDs returns the IDs of the children removed from the pruned node
func (s Snapshot) SubtreeIDs() []int {
	return s.node.SubtreeIDs
}

// InformationGain returns the information gain of the removed split
func (s Snapshot) InformationGain() float64 {
	return s.node.InformationGain
}

/*
Prune takes the ID of a branch node and collapses the node into a leaf
holding the class counts of the records that reached it. It returns a
Snapshot to undo the operation with Join. Snapshots must be joined in the
reverse order of the pruning that produced them.
*/
func (t *Tree) Prune(id int) (Snapshot, error) {
	n := t.Node(id)
	if n == nil {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if !n.IsBranch() {
		return Snapshot{}, fmt.Errorf("pruning node %d: %w", id, ErrNotABranch)
	}
	s := Snapshot{node: *n, arenaLen: len(t.nodes)}
	t.makeLeaf(id)
	return s, nil
}

/*
Join takes a Snapshot returned by Prune and restores the pruned node with
the split and children it had before pruning. Nodes added to the tree by the
pruning are dropped.
*/
func (t *Tree) Join(s Snapshot) error {
	if s.arenaLen > len(t.nodes) || s.node.ID >= s.arenaLen {
		return fmt.Errorf("joining node %d: snapshot does not belong to the current tree", s.node.ID)
	}
	t.nodes = t.nodes[:s.arenaLen]
	t.nodes[s.node.ID] = s.node
	return nil
}

/*
Compact drops nodes that are no longer reachable from the root, such as the
subtrees of pruned nodes, renumbering the rest in depth-first order. It
invalidates any pending Snapshot.
*/
func (t *Tree) Compact() {
	ids := make(map[int]int, len(t.nodes))
	var order []int
	var visit func(int)
	visit = func(id int) {
		ids[id] = len(order)
		order = append(order, id)
		for _, sid := range t.nodes[id].SubtreeIDs {
			visit(sid)
		}
	}
	visit(RootID)
	nodes := make([]Node, 0, len(order))
	for _, old := range order {
		n := t.nodes[old]
		n.ID = ids[old]
		if n.ParentID >= 0 {
			n.ParentID = ids[n.ParentID]
		}
		subtreeIDs := make([]int, 0, len(n.SubtreeIDs))
		for _, sid := range n.SubtreeIDs {
			subtreeIDs = append(subtreeIDs, ids[sid])
		}
		if len(subtreeIDs) == 0 {
			subtreeIDs = nil
		}
		n.SubtreeIDs = subtreeIDs
		nodes = append(nodes, n)
	}
	t.nodes = nodes
}
