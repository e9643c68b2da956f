package history

// MaxTitleLength is the display cap for titles and URLs in history views.
// Longer strings are cut and suffixed with "...".
const MaxTitleLength = 30

// NodeID addresses a node inside its Tree.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// node is the arena record. Children are ordered by recency of use; index 0 is
// the primary branch that Forward follows.
type node struct {
	url      string
	title    string
	parent   NodeID
	children []NodeID
}

// Node is a read-only snapshot of a visited location.
type Node struct {
	ID       NodeID
	URL      string
	Title    string
	Parent   NodeID
	Children []NodeID
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.Parent == NoNode
}

// IsLeaf reports whether the node has no forward branches.
func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Primary returns the default forward branch, or NoNode for a leaf.
func (n Node) Primary() NodeID {
	if len(n.Children) == 0 {
		return NoNode
	}
	return n.Children[0]
}

// addChild creates a new leaf under parent, using the URL as placeholder
// title, and makes it the primary branch. Existing children are displaced,
// never removed.
func (t *Tree) addChild(parent NodeID, url string) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		url:    url,
		title:  url,
		parent: parent,
	})

	p := &t.nodes[parent]
	p.children = append(p.children, 0)
	copy(p.children[1:], p.children)
	p.children[0] = id

	return t.primaryForward(parent)
}

// promote moves child to the front of parent's children.
// A child that is not present is ignored, matching the lenient behaviour
// callers have always relied on.
func (t *Tree) promote(parent, child NodeID) {
	p := &t.nodes[parent]
	for i, c := range p.children {
		if c != child {
			continue
		}
		copy(p.children[1:i+1], p.children[:i])
		p.children[0] = child
		return
	}
}

// primaryForward returns children[0], or id itself at a leaf.
func (t *Tree) primaryForward(id NodeID) NodeID {
	if children := t.nodes[id].children; len(children) > 0 {
		return children[0]
	}
	return id
}

// parentOrSelf returns the parent, or id itself at the root.
func (t *Tree) parentOrSelf(id NodeID) NodeID {
	if p := t.nodes[id].parent; p != NoNode {
		return p
	}
	return id
}

func (t *Tree) snapshot(id NodeID) Node {
	n := t.nodes[id]
	children := make([]NodeID, len(n.children))
	copy(children, n.children)
	return Node{
		ID:       id,
		URL:      n.url,
		Title:    n.title,
		Parent:   n.parent,
		Children: children,
	}
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}
