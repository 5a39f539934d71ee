package score

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tuple holds one utility per player, indexed by player number.
type Tuple []float64

// Op selects how Combine merges an external estimate into a tuple.
type Op int

const (
	Max Op = iota // keep the better value for the mover
	Min           // keep the worse value for the mover
)

// Rule keeps the non-mover entries consistent after the mover's entry changes.
type Rule int

const (
	// ZeroSum sets every other entry so that the tuple sums to zero. With two
	// players this is t[opponent] = -t[mover].
	ZeroSum Rule = iota
	// GeneralSum blends every other entry toward the combined tuple with the
	// same weight as the mover's entry.
	GeneralSum
)

var ErrLength = errors.New("score tuples differ in length")

func New(players int) Tuple {
	return make(Tuple, players)
}

// ZeroSumOf returns the tuple giving value to mover and splitting the negated
// value evenly among the other players.
func ZeroSumOf(players, mover int, value float64) Tuple {
	t := New(players)
	t[mover] = value
	t.balance(mover)
	return t
}

func (t Tuple) Clone() Tuple {
	c := make(Tuple, len(t))
	copy(c, t)
	return c
}

// Add accumulates o into t.
func (t Tuple) Add(o Tuple) {
	if len(t) != len(o) {
		panic(fmt.Sprintf("cannot add tuple of length %d to tuple of length %d", len(o), len(t)))
	}
	floats.Add(t, o)
}

// Scale returns a copy of t multiplied by f.
func (t Tuple) Scale(f float64) Tuple {
	c := t.Clone()
	floats.Scale(f, c)
	return c
}

// Mean returns the average tuple over visits. Zero visits yields NaN entries.
func (t Tuple) Mean(visits int) Tuple {
	if visits == 0 {
		c := New(len(t))
		for i := range c {
			c[i] = math.NaN()
		}
		return c
	}
	return t.Scale(1 / float64(visits))
}

func (t Tuple) Sum() float64 {
	return floats.Sum(t)
}

// IsZeroSum reports whether the entries sum to zero within tol.
func (t Tuple) IsZeroSum(tol float64) bool {
	return math.Abs(t.Sum()) <= tol
}

// Combine merges an externally computed estimate into t for the given mover.
//
// With Max, the mover's entry moves toward other[mover] only when the latter
// is larger; with Min only when it is smaller. A weight of 1 replaces the
// entry, smaller weights blend: t[mover] = (1-w)*t[mover] + w*other[mover].
// Whenever the mover's entry changes the remaining entries are fixed up by
// rule. Combine reports whether t changed.
func (t Tuple) Combine(other Tuple, op Op, mover int, weight float64, rule Rule) (bool, error) {
	if len(t) != len(other) {
		return false, fmt.Errorf("%w: %d != %d", ErrLength, len(t), len(other))
	}
	if mover < 0 || mover >= len(t) {
		return false, fmt.Errorf("mover %d out of range for %d players", mover, len(t))
	}
	if weight < 0 || weight > 1 || math.IsNaN(weight) {
		return false, fmt.Errorf("combine weight %v outside [0, 1]", weight)
	}

	var better bool
	switch op {
	case Max:
		better = other[mover] > t[mover]
	case Min:
		better = other[mover] < t[mover]
	default:
		return false, fmt.Errorf("unknown combine op %d", op)
	}
	if !better || weight == 0 {
		return false, nil
	}

	t[mover] = blend(t[mover], other[mover], weight)
	switch rule {
	case ZeroSum:
		t.balance(mover)
	case GeneralSum:
		for p := range t {
			if p != mover {
				t[p] = blend(t[p], other[p], weight)
			}
		}
	default:
		return false, fmt.Errorf("unknown consistency rule %d", rule)
	}
	return true, nil
}

func (t Tuple) balance(mover int) {
	if len(t) < 2 {
		return
	}
	share := -t[mover] / float64(len(t)-1)
	for p := range t {
		if p != mover {
			t[p] = share
		}
	}
}

func blend(from, to, weight float64) float64 {
	if weight == 1 {
		return to
	}
	return (1-weight)*from + weight*to
}
