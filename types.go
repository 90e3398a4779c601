package rrsched

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Ttick is one unit of simulated time.
type Ttick int

func (t Ttick) String() string {
	return fmt.Sprintf("%dT", int(t))
}

type Tid int

type Number interface {
	constraints.Integer | constraints.Float
}

func sum[T Number](list []T) T {
	var s T
	for _, val := range list {
		s += val
	}
	return s
}

func avg[T Number](list []T) float64 {
	if len(list) == 0 {
		return 0
	}
	return float64(sum(list)) / float64(len(list))
}
