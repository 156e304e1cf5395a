package partition

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSingleSet(t *testing.T) {
	p := New(5)
	require.Equal(t, 1, p.Len())
	for e := 0; e < 5; e++ {
		assert.Equal(t, 0, p.SetOf(e))
		assert.Equal(t, e, p.Elements()[p.Location(e)])
	}
}

func TestNewEmpty(t *testing.T) {
	p := New(0)
	assert.Equal(t, 0, p.Len())
}

func TestMarkAndSplitBasic(t *testing.T) {
	p := New(6)
	// Mark the even elements; split should carve them into their own set.
	for _, e := range []int{0, 2, 4} {
		p.Mark(e)
	}
	p.Split()

	require.Equal(t, 2, p.Len())
	evenSet := p.SetOf(0)
	for _, e := range []int{0, 2, 4} {
		assert.Equal(t, evenSet, p.SetOf(e))
	}
	for _, e := range []int{1, 3, 5} {
		assert.NotEqual(t, evenSet, p.SetOf(e))
	}
}

func TestSplitNoOpWhenWholeSetMarked(t *testing.T) {
	p := New(3)
	for e := 0; e < 3; e++ {
		p.Mark(e)
	}
	p.Split()
	assert.Equal(t, 1, p.Len())
}

func TestSmallerHalfBecomesNewSet(t *testing.T) {
	p := New(10)
	// Mark a minority (3 of 10): the new id should get the marked prefix.
	for _, e := range []int{0, 1, 2} {
		p.Mark(e)
	}
	p.Split()
	require.Equal(t, 2, p.Len())
	newSet := 1
	assert.Equal(t, 3, p.Past(newSet)-p.First(newSet))
	assert.Equal(t, 7, p.Past(0)-p.First(0))
}

func TestSmallerHalfWhenMajorityMarked(t *testing.T) {
	p := New(10)
	for e := 0; e < 7; e++ {
		p.Mark(e)
	}
	p.Split()
	require.Equal(t, 2, p.Len())
	// The set that retains id 0 is the marked majority: the unmarked 3
	// elements became the new set (id 1), matching the smaller-half rule
	// regardless of which side was marked.
	assert.Equal(t, 3, p.Past(1)-p.First(1))
	assert.Equal(t, 7, p.Past(0)-p.First(0))
}

func TestWellFormedAfterRandomSplits(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 200
	p := New(n)
	for round := 0; round < 30; round++ {
		marked := map[int]bool{}
		for s := 0; s < p.Len(); s++ {
			lo, hi := p.First(s), p.Past(s)
			if hi-lo <= 1 {
				continue
			}
			// Mark a random non-empty, non-total subset of this set.
			count := 1 + rng.Intn(hi-lo-1)
			seen := map[int]bool{}
			for len(seen) < count {
				idx := lo + rng.Intn(hi-lo)
				e := p.Elements()[idx]
				if seen[e] {
					continue
				}
				seen[e] = true
				p.Mark(e)
				marked[e] = true
			}
		}
		p.Split()
		assertWellFormed(t, p, n)
	}
}

func assertWellFormed(t *testing.T, p *Partition, n int) {
	t.Helper()
	seen := make([]bool, n)
	for s := 0; s < p.Len(); s++ {
		require.Less(t, p.First(s), p.Past(s), "set %d must be non-empty", s)
		for i := p.First(s); i < p.Past(s); i++ {
			e := p.Elements()[i]
			assert.Equal(t, i, p.Location(e))
			assert.Equal(t, s, p.SetOf(e))
			assert.False(t, seen[e], "element %d claimed by two sets", e)
			seen[e] = true
		}
	}
	for e := 0; e < n; e++ {
		assert.True(t, seen[e], "element %d missing from every set", e)
	}
}

func TestPromoteMovesElementIntoPrefix(t *testing.T) {
	p := New(5)
	moved := p.Promote(3, 0)
	assert.True(t, moved)
	assert.Equal(t, 0, p.Location(3))
	assert.Equal(t, 3, p.Elements()[0])

	// Promoting an element already within the prefix is a no-op.
	moved = p.Promote(3, 1)
	assert.False(t, moved)
}

func TestMarkCountSeedsTouchedWithoutSwapping(t *testing.T) {
	p := New(6)
	// Simulate states already arranged with accepting states at the front.
	for i, e := range []int{4, 1, 3} {
		p.Promote(e, i)
	}
	p.MarkCount(0, 3)
	p.Split()
	require.Equal(t, 2, p.Len())
	accepting := map[int]bool{4: true, 1: true, 3: true}
	for i := 0; i < 3; i++ {
		assert.True(t, accepting[p.Elements()[i]])
	}
}

func TestSharedScratchAcrossTwoPartitions(t *testing.T) {
	scratch := NewScratch(10)
	blocks := NewWithScratch(5, scratch)
	cords := NewWithScratch(5, scratch)

	blocks.Mark(0)
	blocks.Mark(1)
	blocks.Split()
	require.Equal(t, 2, blocks.Len())

	// The scratch is fully drained by blocks.Split before cords uses it.
	cords.Mark(2)
	cords.Split()
	require.Equal(t, 2, cords.Len())
}
