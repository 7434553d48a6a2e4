/*
File    : cocodol/ast/context.go
*/
package ast

// initialCapacity is the arena's starting node capacity; after that the
// arena grows however Go's append grows a slice.
// Grounded on the original C context's own INITIAL_CAPACITY of 16.
const initialCapacity = 16

// Context is the arena owning every Node produced while parsing one source
// buffer. Node() and NewNode() are the only ways to reach or create a node;
// callers must never keep a *Node across a call to NewNode, since growth may
// move the backing slice.
type Context struct {
	Source string
	nodes  []Node
}

// NewContext creates an empty arena over source.
func NewContext(source string) *Context {
	return &Context{
		Source: source,
		nodes:  make([]Node, 0, initialCapacity),
	}
}

// NewNode appends a zero-valued node to the arena and returns its index.
func (c *Context) NewNode() NodeID {
	c.nodes = append(c.nodes, Node{})
	return NodeID(len(c.nodes) - 1)
}

// Node returns a pointer to the node at index. The pointer is only valid
// until the next call to NewNode.
func (c *Context) Node(index NodeID) *Node {
	return &c.nodes[index]
}

// NodeCount returns the number of nodes allocated so far.
func (c *Context) NodeCount() int {
	return len(c.nodes)
}
