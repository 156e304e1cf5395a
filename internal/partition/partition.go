// Package partition implements a refinable partition over the integers
// [0, n): a mutable partition into disjoint, non-empty sets that supports
// marking elements and splitting every touched set in time proportional to
// the number of marked elements. It is the data structure at the heart of
// Valmari's 2011 partition-refinement DFA minimizer: used once over states
// (blocks) and once over transitions (cords), refined in lock-step by the
// driver in package minimize.
//
// The layout keeps every set's members in a contiguous range of a shared
// elements slice, and keeps the currently-marked members of a set as a
// prefix of that range. Marking swaps an element into the marked prefix in
// O(1); splitting walks only the marked elements of each touched set, and
// always gives the new set id to the smaller half, which bounds the total
// number of times any element changes set across a run of the algorithm to
// O(log n).
package partition

import "sort"

// Scratch holds the marked-element counters and touched-set worklist shared
// between two Partition instances that are never mid-refinement at the same
// time (see package minimize). A Partition created with New owns a private
// Scratch sized to its own universe; one created with NewWithScratch shares
// the caller's.
type Scratch struct {
	marked       []int
	touched      []int
	touchedCount int
}

// NewScratch allocates a Scratch usable by any Partition whose universe size
// is at most capacity.
func NewScratch(capacity int) *Scratch {
	return &Scratch{
		marked:  make([]int, capacity),
		touched: make([]int, capacity),
	}
}

// Partition is a mutable partition of {0, ..., n-1} into z disjoint,
// non-empty sets identified by the ids {0, ..., z-1}.
type Partition struct {
	elements []int // elements, arranged so each set occupies a contiguous range
	location []int // location[e] is the index i such that elements[i] == e
	setOf    []int // setOf[e] is the id of the set currently containing e
	first    []int // first[s] is the inclusive start of set s's range
	past     []int // past[s] is the exclusive end of set s's range
	z        int   // number of sets

	scratch *Scratch
}

// New builds a partition of {0, ..., n-1} containing a single set, with its
// own private mark/touch scratch space.
func New(n int) *Partition {
	return NewWithScratch(n, NewScratch(n+1))
}

// NewWithScratch builds a partition of {0, ..., n-1} containing a single
// set, using the given scratch space for marking. scratch must have
// capacity at least n+1; callers that run two partitions in the coupled
// refinement loop of package minimize share one Scratch sized to
// max(n, m)+1 between them.
func NewWithScratch(n int, scratch *Scratch) *Partition {
	p := &Partition{
		elements: make([]int, n),
		location: make([]int, n),
		setOf:    make([]int, n),
		first:    make([]int, n),
		past:     make([]int, n),
		scratch:  scratch,
	}
	for i := 0; i < n; i++ {
		p.elements[i] = i
		p.location[i] = i
	}
	if n > 0 {
		p.z = 1
		p.first[0] = 0
		p.past[0] = n
	}
	return p
}

// Len returns z, the current number of sets.
func (p *Partition) Len() int { return p.z }

// SetOf returns the id of the set currently containing e.
func (p *Partition) SetOf(e int) int { return p.setOf[e] }

// Location returns the index in Elements at which e currently sits.
func (p *Partition) Location(e int) int { return p.location[e] }

// First returns the inclusive start index of set s's range in Elements.
func (p *Partition) First(s int) int { return p.first[s] }

// Past returns the exclusive end index of set s's range in Elements.
func (p *Partition) Past(s int) int { return p.past[s] }

// SetPast overrides the exclusive end index of set s's range. This is used
// only by package reach, to shrink block 0's range to the surviving prefix
// after a reachability pass; no other caller should need it.
func (p *Partition) SetPast(s, past int) { p.past[s] = past }

// Elements returns the backing slice of the partition, ordered so that each
// set occupies the contiguous range [First(s), Past(s)). The returned slice
// aliases the partition's internal state: subsequent Mark and Promote calls
// reorder its contents in place, and Split moves the set boundaries.
func (p *Partition) Elements() []int { return p.elements }

// Mark extends the marked prefix of e's set by one, moving e into it.
// Marking the same element twice within a round (between Split calls) is
// forbidden; the partition does not detect the error.
func (p *Partition) Mark(e int) {
	s := p.setOf[e]
	i := p.location[e]
	j := p.first[s] + p.scratch.marked[s]

	other := p.elements[j]
	p.elements[i] = other
	p.location[other] = i
	p.elements[j] = e
	p.location[e] = j

	if p.scratch.marked[s] == 0 {
		p.scratch.touched[p.scratch.touchedCount] = s
		p.scratch.touchedCount++
	}
	p.scratch.marked[s]++
}

// MarkCount directly sets the marked-element count of set s to count,
// registering s as touched if count is nonzero. It is equivalent to calling
// Mark count times on the first count elements of s's range when those
// elements are already known to occupy that prefix, which the minimization
// driver relies on when seeding the initial accepting/non-accepting split:
// the accepting states are placed at the front of block 0 by the
// reachability pass that precedes it, so no swapping is needed.
func (p *Partition) MarkCount(s, count int) {
	if count == 0 {
		return
	}
	if p.scratch.marked[s] == 0 {
		p.scratch.touched[p.scratch.touchedCount] = s
		p.scratch.touchedCount++
	}
	p.scratch.marked[s] = count
}

// Split splits every touched set into its marked prefix and unmarked
// suffix, unless the entire set was marked. The smaller of the two halves
// becomes a newly-allocated set id; the larger retains the original id.
// After Split returns, no set is touched and every marked count is zero.
func (p *Partition) Split() {
	sc := p.scratch
	for sc.touchedCount > 0 {
		sc.touchedCount--
		s := sc.touched[sc.touchedCount]
		j := p.first[s] + sc.marked[s]

		if j == p.past[s] {
			sc.marked[s] = 0
			continue
		}

		z := p.z
		if sc.marked[s] <= p.past[s]-j {
			p.first[z] = p.first[s]
			p.past[z] = j
			p.first[s] = j
		} else {
			p.past[z] = p.past[s]
			p.first[z] = j
			p.past[s] = j
		}
		for i := p.first[z]; i < p.past[z]; i++ {
			p.setOf[p.elements[i]] = z
		}
		sc.marked[s] = 0
		sc.marked[z] = 0
		p.z++
	}
}

// NewGroupedByKey builds a partition over {0, ..., len(key)-1} whose
// initial sets are the groups of equal key value, with its own private
// scratch space. This is how the minimization driver builds the initial
// cord partition: key is each transition's label, so two transitions start
// in the same set iff they share a label.
func NewGroupedByKey(key []int) *Partition {
	return NewGroupedByKeyWithScratch(key, NewScratch(len(key)+1))
}

// NewGroupedByKeyWithScratch is NewGroupedByKey sharing scratch with
// another partition, per the resource-sharing discipline documented on
// NewWithScratch.
func NewGroupedByKeyWithScratch(key []int, scratch *Scratch) *Partition {
	n := len(key)
	p := &Partition{
		elements: make([]int, n),
		location: make([]int, n),
		setOf:    make([]int, n),
		first:    make([]int, n),
		past:     make([]int, n),
		scratch:  scratch,
	}
	for i := range p.elements {
		p.elements[i] = i
	}
	sort.Slice(p.elements, func(i, j int) bool {
		return key[p.elements[i]] < key[p.elements[j]]
	})
	for i, e := range p.elements {
		p.location[e] = i
	}
	if n == 0 {
		return p
	}

	z, start := 0, 0
	for i := 1; i <= n; i++ {
		if i == n || key[p.elements[i]] != key[p.elements[start]] {
			p.first[z] = start
			p.past[z] = i
			for k := start; k < i; k++ {
				p.setOf[p.elements[k]] = z
			}
			z++
			start = i
		}
	}
	p.z = z
	return p
}

// Promote moves element e to position pos in Elements if it currently sits
// at or after pos, swapping whatever occupied pos out to e's old location.
// It reports whether a swap happened. This is the primitive package reach
// uses to grow a reached-states prefix without going through the
// mark/touched machinery, since reachability traversal does not need to
// remember which sets were touched.
func (p *Partition) Promote(e, pos int) bool {
	i := p.location[e]
	if i < pos {
		return false
	}
	other := p.elements[pos]
	p.elements[pos] = e
	p.location[e] = pos
	p.elements[i] = other
	p.location[other] = i
	return true
}
