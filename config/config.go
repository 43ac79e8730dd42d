// Package config models an EOS configuration as an ordered tree of
// commands, three levels deep: top-level commands, sub-commands
// (indented three spaces) and sub-sub-commands (indented six spaces).
// It knows how to parse the tree from text, render it back, and
// compute a structural diff between two trees.
//
// A command's text is its identity at its level. Re-declaring the
// same text under the same parent discards the earlier subtree but
// keeps its position, mirroring how the device itself re-enters a
// configuration block. That is a policy carried over from how EOS
// renders `show running-config`, not a validation rule.
package config

// Node is a single configuration command, at any depth.
type Node struct {
	Text string
	// Comments the device associates with a command. Nothing in the
	// text rendering of a config carries these, so parsing leaves
	// them empty; kept so a tree built from the JSON form of the
	// config doesn't lose them.
	Comments []string

	cmds nodeSet
}

// Children returns the node's sub-commands in declaration order.
func (n *Node) Children() []*Node {
	return n.cmds.nodes()
}

// Child looks up a sub-command by its text.
func (n *Node) Child(text string) (*Node, bool) {
	return n.cmds.get(text)
}

// Keys returns the text of each sub-command, in declaration order.
func (n *Node) Keys() []string {
	return n.cmds.keys()
}

// Tree is a whole configuration. Name is a label for messages
// ("running", "candidate"); it plays no part in comparison.
type Tree struct {
	Name string

	cmds nodeSet
}

// Roots returns the top-level commands in declaration order.
func (t *Tree) Roots() []*Node {
	return t.cmds.nodes()
}

// Root looks up a top-level command by its text.
func (t *Tree) Root(text string) (*Node, bool) {
	return t.cmds.get(text)
}

// Keys returns the text of each top-level command, in declaration
// order.
func (t *Tree) Keys() []string {
	return t.cmds.keys()
}

// nodeSet is an insertion-ordered set of nodes keyed by their text.
type nodeSet struct {
	order []string
	index map[string]*Node
}

// put inserts a fresh node for text. If the text is already present
// its node is replaced (dropping any subtree) but keeps its position.
func (s *nodeSet) put(text string) *Node {
	if s.index == nil {
		s.index = map[string]*Node{}
	}
	node := &Node{Text: text}
	if _, ok := s.index[text]; !ok {
		s.order = append(s.order, text)
	}
	s.index[text] = node
	return node
}

func (s *nodeSet) get(text string) (*Node, bool) {
	node, ok := s.index[text]
	return node, ok
}

func (s *nodeSet) keys() []string {
	return append([]string(nil), s.order...)
}

func (s *nodeSet) nodes() []*Node {
	nodes := make([]*Node, 0, len(s.order))
	for _, text := range s.order {
		nodes = append(nodes, s.index[text])
	}
	return nodes
}
