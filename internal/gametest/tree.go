// Package gametest provides small deterministic games for exercising the
// search in tests.
package gametest

import (
	"fmt"

	"expectimax/game"
	"expectimax/score"
)

// Tree is a game given explicitly as a graph of named positions.
type Tree struct {
	Players  int
	Min, Max float64
	Root     string
	Nodes    map[string]Node
}

// Node is one position of a Tree. A node with Branches is a chance point
// waiting on an outcome; a node with neither Moves nor Branches is terminal.
type Node struct {
	Player   int
	Moves    []Move
	Branches []Branch
	Reward   score.Tuple
	// Bound, when set, is reported through game.Bounder.
	Bound score.Tuple
}

type Move struct {
	Action string
	Next   string
	Chance bool
}

type Branch struct {
	Outcome     string
	Next        string
	Probability float64
}

// TreeState is a position in a Tree.
type TreeState struct {
	tree *Tree
	at   string
	// Path records every position visited by this copy, in order.
	Path []string
}

func (t *Tree) Start() *TreeState {
	if _, ok := t.Nodes[t.Root]; !ok {
		panic(fmt.Sprintf("tree has no root %q", t.Root))
	}
	return &TreeState{tree: t, at: t.Root, Path: []string{t.Root}}
}

// At returns the name of the current position.
func (s *TreeState) At() string { return s.at }

func (s *TreeState) node() Node { return s.tree.Nodes[s.at] }

func (s *TreeState) Copy() game.State {
	path := make([]string, len(s.Path))
	copy(path, s.Path)
	return &TreeState{tree: s.tree, at: s.at, Path: path}
}

func (s *TreeState) Player() int         { return s.node().Player }
func (s *TreeState) NumPlayers() int     { return s.tree.Players }
func (s *TreeState) MinScore() float64   { return s.tree.Min }
func (s *TreeState) MaxScore() float64   { return s.tree.Max }
func (s *TreeState) Reward() score.Tuple { return s.node().Reward.Clone() }

func (s *TreeState) IsGameOver() bool {
	n := s.node()
	return len(n.Moves) == 0 && len(n.Branches) == 0
}

func (s *TreeState) LegalActions() []game.Action {
	moves := s.node().Moves
	actions := make([]game.Action, len(moves))
	for i, m := range moves {
		actions[i] = m.Action
	}
	return actions
}

func (s *TreeState) move(action game.Action) Move {
	for _, m := range s.node().Moves {
		if m.Action == action {
			return m
		}
	}
	panic(fmt.Sprintf("illegal action %v at %q", action, s.at))
}

func (s *TreeState) goTo(next string) {
	if _, ok := s.tree.Nodes[next]; !ok {
		panic(fmt.Sprintf("tree has no node %q", next))
	}
	s.at = next
	s.Path = append(s.Path, next)
}

func (s *TreeState) Advance(action game.Action) {
	m := s.move(action)
	if m.Chance {
		panic(fmt.Sprintf("action %v at %q is stochastic", action, s.at))
	}
	s.goTo(m.Next)
}

func (s *TreeState) IsStochastic(action game.Action) bool {
	return s.move(action).Chance
}

func (s *TreeState) AdvanceDeterministic(action game.Action) {
	s.goTo(s.move(action).Next)
}

func (s *TreeState) Outcomes() []game.Outcome {
	branches := s.node().Branches
	outcomes := make([]game.Outcome, len(branches))
	for i, b := range branches {
		outcomes[i] = b.Outcome
	}
	return outcomes
}

func (s *TreeState) branch(outcome game.Outcome) Branch {
	for _, b := range s.node().Branches {
		if b.Outcome == outcome {
			return b
		}
	}
	panic(fmt.Sprintf("unknown outcome %v at %q", outcome, s.at))
}

func (s *TreeState) AdvanceNondeterministic(outcome game.Outcome) {
	s.goTo(s.branch(outcome).Next)
}

func (s *TreeState) OutcomeProbability(outcome game.Outcome) float64 {
	return s.branch(outcome).Probability
}

func (s *TreeState) Bound() (score.Tuple, bool) {
	b := s.node().Bound
	if b == nil {
		return nil, false
	}
	return b.Clone(), true
}

// TwoActions is a root with action "A" winning and "B" losing for player 0.
func TwoActions() *Tree {
	return &Tree{
		Players: 2, Min: -1, Max: 1, Root: "root",
		Nodes: map[string]Node{
			"root": {Player: 0, Moves: []Move{{Action: "A", Next: "a"}, {Action: "B", Next: "b"}}},
			"a":    {Player: 1, Reward: score.Tuple{1, -1}},
			"b":    {Player: 1, Reward: score.Tuple{-1, 1}},
		},
	}
}

// CoinFlip is a root with one stochastic action followed by two outcomes
// worth low and high to player 0.
func CoinFlip(low, high, pLow float64) *Tree {
	return &Tree{
		Players: 2, Min: -1, Max: 1, Root: "root",
		Nodes: map[string]Node{
			"root": {Player: 0, Moves: []Move{{Action: "flip", Next: "coin", Chance: true}}},
			"coin": {Player: 0, Branches: []Branch{
				{Outcome: "low", Next: "low", Probability: pLow},
				{Outcome: "high", Next: "high", Probability: 1 - pLow},
			}},
			"low":  {Player: 1, Reward: score.Tuple{low, -low}},
			"high": {Player: 1, Reward: score.Tuple{high, -high}},
		},
	}
}

// Terminal is a finished game with the given reward.
func Terminal(reward score.Tuple) *Tree {
	return &Tree{
		Players: len(reward), Min: -1, Max: 1, Root: "end",
		Nodes: map[string]Node{"end": {Reward: reward}},
	}
}
