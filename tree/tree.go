// Package tree builds the dependency tree of a sentence.
//
// The tree is a read-only view: it is built on demand from the head indexes
// of the sentence words and is never patched. Rebuild it when the sentence
// changes.
package tree

import (
	"fmt"

	sent "github.com/revelaction/udcheck/sentence"
)

// NoRootFoundError is returned when a sentence has zero or more than one
// word attached to the virtual root.
type NoRootFoundError struct {
	SentenceId string
	Line       int
	Roots      int
}

func (e *NoRootFoundError) Error() string {
	id := e.SentenceId
	if id == "" {
		id = "-"
	}
	return fmt.Sprintf("sentence %s at line %d: expected one root word, found %d", id, e.Line, e.Roots)
}

// DetachedError is returned when some words can not be reached from the
// root, because of a cycle or a head pointing outside the sentence.
type DetachedError struct {
	SentenceId string
	Line       int
	Detached   []int
}

func (e *DetachedError) Error() string {
	id := e.SentenceId
	if id == "" {
		id = "-"
	}
	return fmt.Sprintf("sentence %s at line %d: words %v are not reachable from the root", id, e.Line, e.Detached)
}

// Node is a word of the sentence and its dependents, in sentence order.
type Node struct {
	Word     sent.Word
	Children []*Node
}

// Build returns the root node of the dependency tree of s.
func Build(s sent.Sentence) (*Node, error) {
	roots := s.Roots()
	if len(roots) != 1 {
		return nil, &NoRootFoundError{SentenceId: s.Id, Line: s.Line, Roots: len(roots)}
	}

	// dependents by head index, kept in sentence order
	dependents := make(map[int][]sent.Word, len(s.Words))
	for _, w := range s.Words {
		if w.IsRoot() {
			continue
		}
		dependents[w.Head] = append(dependents[w.Head], w)
	}

	root := &Node{Word: roots[0]}
	attached := map[int]bool{root.Word.Index: true}

	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, w := range dependents[n.Word.Index] {
			if attached[w.Index] {
				continue
			}
			attached[w.Index] = true
			child := &Node{Word: w}
			n.Children = append(n.Children, child)
			stack = append(stack, child)
		}
	}

	if len(attached) != len(s.Words) {
		var detached []int
		for _, w := range s.Words {
			if !attached[w.Index] {
				detached = append(detached, w.Index)
			}
		}
		return nil, &DetachedError{SentenceId: s.Id, Line: s.Line, Detached: detached}
	}

	return root, nil
}

// Size returns the number of nodes of the tree.
func (n *Node) Size() int {
	size := 0
	n.Walk(func(*Node, int) bool {
		size++
		return true
	})
	return size
}

// Find returns the subtree whose root word has the given index.
func (n *Node) Find(index int) (*Node, bool) {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if node.Word.Index == index {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}

// Contains reports whether the word with the given index is in the tree.
func (n *Node) Contains(index int) bool {
	_, ok := n.Find(index)
	return ok
}

// Walk visits the tree in pre-order. fn receives each node and its depth
// (0 for n) and stops the walk by returning false.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(fn, depth+1) {
			return false
		}
	}
	return true
}
