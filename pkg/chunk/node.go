package chunk

import (
	"encoding/binary"
	"sort"
)

// HeaderSize is the size of a chunk header: u16 id + u32 total length.
const HeaderSize = 6

// Node is one chunk. Its serialized length is always derived from Payload and
// Children, so edits never leave a stale header behind.
type Node struct {
	ID       uint16
	Payload  []byte // flat payload, or a container's prefix bytes
	Children []*Node

	Offset   int    // header offset in the source buffer, -1 for built nodes
	Declared uint32 // length read from the source header, 0 for built nodes
}

// NewNode builds a node that did not come from a file.
func NewNode(id uint16, payload []byte, children ...*Node) *Node {
	return &Node{ID: id, Payload: payload, Children: children, Offset: -1}
}

// Len returns the total length the writer will put into the header.
func (n *Node) Len() int {
	size := HeaderSize + len(n.Payload)
	for _, c := range n.Children {
		size += c.Len()
	}
	return size
}

// Bytes serializes the node and its subtree.
func (n *Node) Bytes() []byte {
	parts := make([][]byte, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.Bytes()
	}
	return Encode(n.ID, n.Payload, parts...)
}

// Child returns the first direct child with the given id.
func (n *Node) Child(id uint16) *Node {
	for _, c := range n.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ChildrenOf returns all direct children with the given id.
func (n *Node) ChildrenOf(id uint16) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.ID == id {
			out = append(out, c)
		}
	}
	return out
}

// RemoveChildren drops every direct child with one of ids and returns how many
// were removed.
func (n *Node) RemoveChildren(ids ...uint16) int {
	kept := n.Children[:0]
	removed := 0
	for _, c := range n.Children {
		if containsID(ids, c.ID) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = kept
	return removed
}

// SortChildren orders direct children by numeric id, keeping the relative
// order of equal ids.
func (n *Node) SortChildren() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].ID < n.Children[j].ID
	})
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	c := &Node{ID: n.ID, Offset: n.Offset, Declared: n.Declared}
	if n.Payload != nil {
		c.Payload = append([]byte(nil), n.Payload...)
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// Encode writes one chunk: header, payload, then the already serialized
// children. It is the only place a header length is computed.
func Encode(id uint16, payload []byte, children ...[]byte) []byte {
	total := HeaderSize + len(payload)
	for _, c := range children {
		total += len(c)
	}
	buf := make([]byte, HeaderSize, total)
	binary.LittleEndian.PutUint16(buf[0:], id)
	binary.LittleEndian.PutUint32(buf[2:], uint32(total))
	buf = append(buf, payload...)
	for _, c := range children {
		buf = append(buf, c...)
	}
	return buf
}

// Tree is a decoded chunk file: the sequence of top-level chunks.
type Tree struct {
	Roots []*Node
}

// Bytes serializes every root in order.
func (t *Tree) Bytes() []byte {
	size := 0
	for _, r := range t.Roots {
		size += r.Len()
	}
	out := make([]byte, 0, size)
	for _, r := range t.Roots {
		out = append(out, r.Bytes()...)
	}
	return out
}

// WalkFunc is called for every node in depth-first pre-order. ancestors holds
// the enclosing nodes, outermost first, and must not be retained. Returning
// false skips the node's children.
type WalkFunc func(n *Node, ancestors []*Node) bool

// Walk visits every node of the tree.
func (t *Tree) Walk(fn WalkFunc) {
	var stack []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		if !fn(n, stack) {
			return
		}
		stack = append(stack, n)
		for _, c := range n.Children {
			visit(c)
		}
		stack = stack[:len(stack)-1]
	}
	for _, r := range t.Roots {
		visit(r)
	}
}

// Find returns the nodes reached by following ids from the roots, e.g.
// Find(IDPrimary, IDObjectInfo, IDObject).
func (t *Tree) Find(ids ...uint16) []*Node {
	if len(ids) == 0 {
		return nil
	}
	level := t.Roots
	for depth, id := range ids {
		var next []*Node
		for _, n := range level {
			if n.ID != id {
				continue
			}
			if depth == len(ids)-1 {
				next = append(next, n)
			} else {
				next = append(next, n.Children...)
			}
		}
		level = next
	}
	return level
}

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int {
	total := 0
	t.Walk(func(*Node, []*Node) bool {
		total++
		return true
	})
	return total
}

func containsID(ids []uint16, id uint16) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
