package tree

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

type jsonNode struct {
	SplitFeature    string           `json:"split,omitempty"`
	Feature         string           `json:"feature,omitempty"`
	Value           string           `json:"value,omitempty"`
	InformationGain float64          `json:"gain"`
	RecordCount     int              `json:"count"`
	Distribution    []jsonLabelCount `json:"distribution,omitempty"`
	Children        []*jsonNode      `json:"children,omitempty"`
}

type jsonLabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

/*
MarshalJSON returns the tree encoded as nested JSON nodes, each with its split
feature, the feature and value of the edge from its parent, its information
gain, record count, label distribution and children.
*/
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.encodeNode(RootID))
}

func (t *Tree) encodeNode(id int) *jsonNode {
	n := &t.nodes[id]
	jn := &jsonNode{
		SplitFeature:    n.SplitFeature,
		Feature:         n.Feature,
		Value:           n.Value,
		InformationGain: n.InformationGain,
		RecordCount:     n.RecordCount,
	}
	for _, l := range sortedKeys(n.Distribution) {
		jn.Distribution = append(jn.Distribution, jsonLabelCount{l, n.Distribution[l]})
	}
	for _, sid := range n.SubtreeIDs {
		jn.Children = append(jn.Children, t.encodeNode(sid))
	}
	return jn
}

/*
UnmarshalJSON takes a slice of bytes with a tree encoded by MarshalJSON and
replaces the nodes of the tree with the decoded ones. It returns an error
wrapping ErrMalformedTree, leaving the tree empty, if the decoded nodes do
not form branches, leaves and class counts.
*/
func (t *Tree) UnmarshalJSON(data []byte) error {
	root := &jsonNode{}
	err := json.Unmarshal(data, root)
	if err != nil {
		return fmt.Errorf("decoding tree: %v", err)
	}
	if t.rnd == nil {
		t.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	t.nodes = nil
	t.decodeNode(root, -1)
	if err = t.checkStructure(RootID); err != nil {
		t.Clear()
		return err
	}
	return nil
}

/*
checkStructure returns ErrMalformedTree, wrapped with the offending node, if
a branch under the node has no children, or a leaf has children other than
class counts, or a class count sits anywhere but under a leaf.
*/
func (t *Tree) checkStructure(id int) error {
	n := &t.nodes[id]
	switch {
	case n.IsLeaf():
		for _, cid := range n.SubtreeIDs {
			c := &t.nodes[cid]
			if c.SplitFeature != "" || c.Feature != ClassFeature || len(c.SubtreeIDs) > 0 {
				return fmt.Errorf("%w: node %d under leaf %d is not a class count", ErrMalformedTree, cid, id)
			}
		}
		return nil
	case n.IsBranch():
		if len(n.SubtreeIDs) == 0 {
			return fmt.Errorf("%w: branch %d on %s has no children", ErrMalformedTree, id, n.SplitFeature)
		}
		for _, cid := range n.SubtreeIDs {
			if err := t.checkStructure(cid); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: node %d is a class count outside a leaf", ErrMalformedTree, id)
}

func (t *Tree) decodeNode(jn *jsonNode, parentID int) int {
	id := len(t.nodes)
	n := Node{
		ID:              id,
		ParentID:        parentID,
		SplitFeature:    jn.SplitFeature,
		Feature:         jn.Feature,
		Value:           jn.Value,
		InformationGain: jn.InformationGain,
		RecordCount:     jn.RecordCount,
		Distribution:    make(map[string]int, len(jn.Distribution)),
	}
	for _, lc := range jn.Distribution {
		n.Distribution[lc.Label] = lc.Count
	}
	t.nodes = append(t.nodes, n)
	var subtreeIDs []int
	for _, c := range jn.Children {
		subtreeIDs = append(subtreeIDs, t.decodeNode(c, id))
	}
	t.nodes[id].SubtreeIDs = subtreeIDs
	return id
}
