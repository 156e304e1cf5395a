// Package automaton defines the input/output data model for the minimizer:
// a labeled transition graph read from a whitespace-separated integer
// stream, plus the CSR-style adjacency index the reachability pruner and
// minimization driver build over it. Package automaton owns validation of
// the wire format; once an Automaton has been returned from Read, every
// state and transition index it contains is known to be in range, so the
// algorithmic packages (partition, reach, minimize) never need to check.
package automaton

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	apperrors "github.com/valmari/dfamin/pkg/errors"
)

// Automaton is a labeled directed graph: n states, m transitions given as
// three parallel slices, an initial state and an accepting-state set. It
// need not be deterministic on input; the minimizer treats it as a graph to
// be partitioned up to bisimulation.
type Automaton struct {
	N      int
	M      int
	Q0     int
	Accept []int

	Tail  []int
	Label []int
	Head  []int
}

// Read parses an Automaton from the wire format: a header line
// "n m q0 f", m transition lines "tail label head", and
// f accepting-state lines. It validates sizes and every index before
// returning, so malformed or inconsistent input is reported as an
// *apperrors.AppError rather than causing undefined behavior downstream.
func Read(r io.Reader) (*Automaton, error) {
	tok := newTokenizer(r)

	n, err := tok.nextInt("n")
	if err != nil {
		return nil, err
	}
	m, err := tok.nextInt("m")
	if err != nil {
		return nil, err
	}
	q0, err := tok.nextInt("q0")
	if err != nil {
		return nil, err
	}
	f, err := tok.nextInt("f")
	if err != nil {
		return nil, err
	}
	if n < 0 || m < 0 || f < 0 {
		return nil, apperrors.New(apperrors.CodeMalformedInput, "n, m and f must be non-negative")
	}
	if q0 < 0 || q0 >= n {
		return nil, apperrors.New(apperrors.CodeInconsistentAutomaton, "initial state out of range")
	}

	a := &Automaton{
		N:     n,
		M:     m,
		Q0:    q0,
		Tail:  make([]int, m),
		Label: make([]int, m),
		Head:  make([]int, m),
	}
	for t := 0; t < m; t++ {
		tail, err := tok.nextInt("transition tail")
		if err != nil {
			return nil, err
		}
		label, err := tok.nextInt("transition label")
		if err != nil {
			return nil, err
		}
		head, err := tok.nextInt("transition head")
		if err != nil {
			return nil, err
		}
		if tail < 0 || tail >= n || head < 0 || head >= n {
			return nil, apperrors.New(apperrors.CodeInconsistentAutomaton,
				fmt.Sprintf("transition %d references a state outside [0, %d)", t, n))
		}
		a.Tail[t], a.Label[t], a.Head[t] = tail, label, head
	}

	a.Accept = make([]int, f)
	for i := 0; i < f; i++ {
		q, err := tok.nextInt("accepting state")
		if err != nil {
			return nil, err
		}
		if q < 0 || q >= n {
			return nil, apperrors.New(apperrors.CodeInconsistentAutomaton,
				fmt.Sprintf("accepting state %d is outside [0, %d)", q, n))
		}
		a.Accept[i] = q
	}

	return a, nil
}

// AdjacencyIndex is a CSR view of a transition list keyed by a chosen
// endpoint slice (Tail, to enumerate outgoing transitions by source, or
// Head, to enumerate incoming transitions by target).
type AdjacencyIndex struct {
	offset   []int
	adjacent []int
}

// BuildAdjacency builds an AdjacencyIndex over transitions 0..len(key)-1
// for n states, keyed by key (either an Automaton's Tail or Head slice).
// It is rebuilt from scratch on each call, matching the reference
// algorithm's choice to trade a little redundant work for a data structure
// with no incremental-update logic to get wrong.
func BuildAdjacency(key []int, n int) *AdjacencyIndex {
	offset := make([]int, n+1)
	for _, q := range key {
		offset[q+1]++
	}
	for q := 0; q < n; q++ {
		offset[q+1] += offset[q]
	}
	adjacent := make([]int, len(key))
	cursor := make([]int, n)
	copy(cursor, offset[:n])
	for t, q := range key {
		adjacent[cursor[q]] = t
		cursor[q]++
	}
	return &AdjacencyIndex{offset: offset, adjacent: adjacent}
}

// Adjacent returns the transition indices whose chosen endpoint is q. The
// returned slice aliases the index's own backing storage, which each
// BuildAdjacency call allocates afresh.
func (idx *AdjacencyIndex) Adjacent(q int) []int {
	return idx.adjacent[idx.offset[q]:idx.offset[q+1]]
}

// tokenizer reads whitespace-separated integers from a buffered stream,
// translating parse and EOF failures into apperrors.AppError values so
// Read never needs to distinguish "ran out of input" from "bad token" at
// its call sites.
type tokenizer struct {
	scanner *bufio.Scanner
}

func newTokenizer(r io.Reader) *tokenizer {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)
	return &tokenizer{scanner: s}
}

func (t *tokenizer) nextInt(field string) (int, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return 0, apperrors.Wrap(apperrors.CodeIOFailure, "reading "+field, err)
		}
		return 0, apperrors.New(apperrors.CodeMalformedInput, "unexpected end of input reading "+field)
	}
	v, err := strconv.Atoi(t.scanner.Text())
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeMalformedInput, "invalid integer for "+field, err)
	}
	return v, nil
}
