package tree

import "github.com/grovekit/grove/dataset"

/*
Partition pairs a node of a tree being built with the records that reached
it. Partitions only live while the tree is being built.
*/
type Partition struct {
	NodeID       int
	Records      []dataset.Record
	distribution map[string]int
}

/*
NewPartition takes a node ID and the records that reached the node and returns
a Partition for them.
*/
func NewPartition(nodeID int, records []dataset.Record) *Partition {
	return &Partition{NodeID: nodeID, Records: records}
}

// Count returns the number of records in the partition
func (p *Partition) Count() int {
	return len(p.Records)
}

/*
Distribution returns the number of records in the partition for each label.
The returned map must not be modified.
*/
func (p *Partition) Distribution() map[string]int {
	if p.distribution == nil {
		p.distribution = PartitionByClass(p.Records)
	}
	return p.distribution
}

// Entropy returns the entropy of the labels of the records in the partition
func (p *Partition) Entropy() float64 {
	return Entropy(p.Distribution(), p.Count())
}
