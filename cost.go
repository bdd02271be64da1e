package grove

import (
	"fmt"
	"math"
)

/*
CostStrategy adjusts the information gain of a feature with the cost of
obtaining its value, making cheaper features preferable.
*/
type CostStrategy interface {
	// Adjust takes an information gain and a cost and returns the adjusted gain
	Adjust(gain, cost float64) float64
	// ValidCost returns an error if the cost cannot be used with the strategy
	ValidCost(cost float64) error
	Name() string
}

type tanSchlimmer struct{}

/*
TanSchlimmer returns the strategy that adjusts gains as gain² / cost.
Costs must be positive.
*/
func TanSchlimmer() CostStrategy {
	return tanSchlimmer{}
}

func (tanSchlimmer) Adjust(gain, cost float64) float64 {
	return gain * gain / cost
}

func (tanSchlimmer) ValidCost(cost float64) error {
	if !(cost > 0) {
		return fmt.Errorf("%w: tan-schlimmer costs must be positive, got %v", ErrInvalidCost, cost)
	}
	return nil
}

func (tanSchlimmer) Name() string {
	return "tan-schlimmer"
}

type nunez struct {
	weight float64
}

/*
Nunez takes a weight w and returns the strategy that adjusts gains as
(2^gain - 1) / (cost + 1)^w. Costs must not be negative.
*/
func Nunez(weight float64) CostStrategy {
	return nunez{weight}
}

func (n nunez) Adjust(gain, cost float64) float64 {
	return (math.Pow(2, gain) - 1) / math.Pow(cost+1, n.weight)
}

func (n nunez) ValidCost(cost float64) error {
	if !(cost >= 0) {
		return fmt.Errorf("%w: nunez costs must not be negative, got %v", ErrInvalidCost, cost)
	}
	return nil
}

func (n nunez) Name() string {
	return fmt.Sprintf("nunez:%v", n.weight)
}
