// Package history implements branching navigation history.
//
// Unlike a back/forward stack, going back and then visiting a new location
// adds a sibling branch instead of discarding the old forward path. Each node
// keeps its children ordered by recency of use, so Forward always follows the
// branch that was most recently created or revisited.
package history

import (
	"errors"
	"sync"
)

// ErrUnknownNode is returned by JumpTo for an id that is not part of the tree.
var ErrUnknownNode = errors.New("history: node not in tree")

// TitleUpdate is a title-changed notification addressed to a specific node.
// Titles arrive asynchronously and may refer to a node that is no longer
// current.
type TitleUpdate struct {
	Node  NodeID
	Title string
}

// Tree is the navigation controller: it owns every node and the cursor
// pointing at the page being displayed. Nodes are never removed.
//
// A Tree is safe for concurrent use.
type Tree struct {
	mu      sync.Mutex
	nodes   []node
	root    NodeID
	current NodeID
}

// New creates a tree whose root and current node is startURL.
func New(startURL, startTitle string) *Tree {
	return &Tree{
		nodes: []node{{
			url:    startURL,
			title:  startTitle,
			parent: NoNode,
		}},
		root:    0,
		current: 0,
	}
}

// Record adds url as a new primary branch of the current node and moves the
// cursor onto it. It never reuses an existing sibling with the same URL.
func (t *Tree) Record(url string) Node {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = t.addChild(t.current, url)
	return t.snapshot(t.current)
}

// CanGoBack reports whether the current node has a parent.
func (t *Tree) CanGoBack() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes[t.current].parent != NoNode
}

// Back moves to the parent. At the root it does nothing.
func (t *Tree) Back() Node {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = t.parentOrSelf(t.current)
	return t.snapshot(t.current)
}

// CanGoForward reports whether the current node has any children.
func (t *Tree) CanGoForward() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes[t.current].children) > 0
}

// Forward moves to the primary branch. At a leaf it does nothing.
func (t *Tree) Forward() Node {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = t.primaryForward(t.current)
	return t.snapshot(t.current)
}

// JumpTo moves the cursor straight to id and promotes it among its siblings,
// making it the default forward path from its parent.
func (t *Tree) JumpTo(id NodeID) (Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(id) {
		return Node{}, ErrUnknownNode
	}

	t.current = id
	if p := t.nodes[id].parent; p != NoNode {
		t.promote(p, id)
	}
	return t.snapshot(id), nil
}

// Promote makes child the primary branch of parent. Unknown ids and
// non-children are silently ignored.
func (t *Tree) Promote(parent, child NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(parent) {
		return
	}
	t.promote(parent, child)
}

// SetTitle overwrites the title of id. It reports false if id is unknown.
func (t *Tree) SetTitle(id NodeID, title string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(id) {
		return false
	}
	t.nodes[id].title = title
	return true
}

// Apply applies a title update. Applying the same update twice is harmless.
func (t *Tree) Apply(u TitleUpdate) bool {
	return t.SetTitle(u.Node, u.Title)
}

// Current returns the node being displayed.
func (t *Tree) Current() Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot(t.current)
}

// Root returns the node the tree was created with.
func (t *Tree) Root() Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot(t.root)
}

// Node returns a snapshot of id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(id) {
		return Node{}, false
	}
	return t.snapshot(id), true
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes)
}

// Path returns the chain of nodes from the root down to the current node.
func (t *Tree) Path() []Node {
	t.mu.Lock()
	defer t.mu.Unlock()

	var path []Node
	for id := t.current; id != NoNode; id = t.nodes[id].parent {
		path = append(path, t.snapshot(id))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Walk visits every node in depth-first pre-order, children in branch order.
// Returning false from fn skips that node's subtree.
//
// fn runs without the tree lock held, on a snapshot taken when Walk starts.
func (t *Tree) Walk(fn func(n Node, depth int) bool) {
	t.mu.Lock()
	snap := make([]Node, len(t.nodes))
	for i := range t.nodes {
		snap[i] = t.snapshot(NodeID(i))
	}
	root := t.root
	t.mu.Unlock()

	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		n := snap[id]
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(root, 0)
}
