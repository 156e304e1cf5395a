// Package reach implements the reachability pruner: the pre-pass that
// discards states unreachable from the initial state, and states from
// which no accepting state is reachable, before minimization proper. It
// operates directly on the blocks partition's element ordering rather than
// a separate visited set, treating the contiguous prefix of already-found
// states as both the BFS frontier and the result.
package reach

import (
	"github.com/valmari/dfamin/internal/automaton"
	"github.com/valmari/dfamin/internal/partition"
)

// Pruner drives one reachability traversal and the transition-list
// compaction that follows it. A single Pruner is reused for both passes
// (forward from the initial state, then backward from the accepting set)
// since each call to RemoveUnreachable resets its reached-prefix counter.
type Pruner struct {
	blocks *partition.Partition
	n      int
	rr     int
}

// New creates a Pruner over blocks, whose universe has n elements (the
// automaton's state count).
func New(blocks *partition.Partition, n int) *Pruner {
	return &Pruner{blocks: blocks, n: n}
}

// Reach marks state q as reached, extending the reached prefix if it was
// not already within it. It is idempotent: reaching an already-reached
// state, or the same state twice, is a no-op the second time.
func (p *Pruner) Reach(q int) {
	if p.blocks.Promote(q, p.rr) {
		p.rr++
	}
}

// Reached returns the number of states reached so far in the current pass.
func (p *Pruner) Reached() int { return p.rr }

// RemoveUnreachable extends the reached prefix by following every
// transition out of an already-reached state (adjacency keyed by tail, the
// transition's source), then compacts tail, label and head in place,
// keeping only transitions whose tail survived. It returns the new
// transition count and resets the reached-prefix counter to 0.
//
// Calling it a second time with (head, label, tail) — endpoints swapped —
// performs the co-reachability pass: adjacency is then keyed by head, so
// the traversal follows transitions backward, and survival is judged by
// whether a transition's head (now playing the role of "tail" to this
// call) was reached.
func (p *Pruner) RemoveUnreachable(tail, label, head []int) int {
	idx := automaton.BuildAdjacency(tail, p.n)
	elements := p.blocks.Elements()
	for i := 0; i < p.rr; i++ {
		q := elements[i]
		for _, t := range idx.Adjacent(q) {
			p.Reach(head[t])
		}
	}

	m := len(tail)
	j := 0
	for t := 0; t < m; t++ {
		if p.blocks.Location(tail[t]) < p.rr {
			tail[j], label[j], head[j] = tail[t], label[t], head[t]
			j++
		}
	}

	p.blocks.SetPast(0, p.rr)
	p.rr = 0
	return j
}
