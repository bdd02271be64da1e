package queue

import (
	"fmt"
	"strconv"
)

// Task represents a member of a forest to
// be trained.
type Task struct {
	// The position of the member in the forest
	Member int
	// The seed for the random source of the
	// member, drawn before any training starts
	Seed int64
}

// ID returns a string that identifies the
// task, the position of its member.
func (t *Task) ID() string {
	return strconv.Itoa(t.Member)
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task member %d seed %d}", t.Member, t.Seed)
}
