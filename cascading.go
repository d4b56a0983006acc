package alloc

import "github.com/pkg/errors"

// cascadeNode is one link in a CascadingAllocator's chain of sub-allocators.
//
// The source design self-hosts this bookkeeping inside memory carved from
// the node's own allocator. That doesn't translate safely here: a
// cascadeNode holds an Allocator interface value, which is a (type, data)
// pair the Go garbage collector must be able to see and scan; parking it
// inside manually-managed, GC-invisible memory (e.g. a Mallocator block)
// would let the GC collect or fail to update pointers it can't see. So
// cascadeNode is an ordinary Go-heap struct instead — the chain's node
// bookkeeping is the one piece of this toolkit that is intentionally not
// carved from the allocators it manages.
type cascadeNode struct {
	alloc Allocator
	next  *cascadeNode
}

// CascadingAllocator grows by prepending a fresh sub-allocator from make_
// whenever the current one can't satisfy a request (spec §4.9), instead of
// failing outright the way a single fixed-size arena would. It never
// shrinks on its own; DeallocateAll collapses the whole chain back to one
// node.
type CascadingAllocator struct {
	make_ func() (Allocator, error)
	head  *cascadeNode
}

// NewCascadingAllocator builds a CascadingAllocator with one initial node
// built by make_.
func NewCascadingAllocator(make_ func() (Allocator, error)) (*CascadingAllocator, error) {
	if make_ == nil {
		return nil, errors.New("alloc: cascading allocator requires a non-nil node factory")
	}
	first, err := make_()
	if err != nil {
		return nil, errors.Wrap(err, "alloc: cascading allocator initial node")
	}
	return &CascadingAllocator{make_: make_, head: &cascadeNode{alloc: first}}, nil
}

// grow prepends one new node, built by make_, at the head of the chain.
func (c *CascadingAllocator) grow() *cascadeNode {
	a, err := c.make_()
	if err != nil {
		return nil
	}
	n := &cascadeNode{alloc: a, next: c.head}
	c.head = n
	return n
}

// Allocate tries every node from most to least recently added, growing the
// chain with one fresh node if none can satisfy the request.
func (c *CascadingAllocator) Allocate(size int) Block {
	if size <= 0 {
		return Null
	}
	for n := c.head; n != nil; n = n.next {
		if b := n.alloc.Allocate(size); !b.IsNil() {
			return b
		}
	}
	if n := c.grow(); n != nil {
		return n.alloc.Allocate(size)
	}
	return Null
}

// findOwner returns the node that owns b, or nil if none does.
func (c *CascadingAllocator) findOwner(b Block) *cascadeNode {
	for n := c.head; n != nil; n = n.next {
		if owns(n.alloc, b) {
			return n
		}
	}
	return nil
}

// Deallocate routes to the node that owns b.
func (c *CascadingAllocator) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	if n := c.findOwner(*b); n != nil {
		n.alloc.Deallocate(b)
		return
	}
	*b = Null
}

// Reallocate resizes in place through the owning node; on failure it
// allocates fresh (possibly growing the chain) and copies across.
func (c *CascadingAllocator) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(c, b, newSize); handled {
		return ok
	}
	n := c.findOwner(*b)
	if n != nil && n.alloc.Reallocate(b, newSize) {
		return true
	}
	var src Allocator = NullAllocator{}
	if n != nil {
		src = n.alloc
	}
	return allocateCopyFree(src, c, b, newSize)
}

// Alignment reports the head node's alignment — every node is built by the
// same factory, so all nodes share one alignment guarantee.
func (c *CascadingAllocator) Alignment() int {
	return c.head.alloc.Alignment()
}

// SupportsTruncatedDeallocation is false: deallocation routes by node
// ownership of the exact block.
func (c *CascadingAllocator) SupportsTruncatedDeallocation() bool {
	return false
}

// Owns reports whether any node in the chain owns b.
func (c *CascadingAllocator) Owns(b Block) bool {
	return c.findOwner(b) != nil
}

// DeallocateAll collapses the chain back to a single node, discarding
// every other node along with everything allocated from it — the
// chain-wide equivalent of a single arena's reset. Discarded nodes that
// hold an external resource (e.g. a Mallocator-backed buffer) are released
// before being dropped, so collapsing the chain doesn't leak them.
func (c *CascadingAllocator) DeallocateAll() {
	if r, ok := c.head.alloc.(Resettable); ok {
		r.DeallocateAll()
	}
	for n := c.head.next; n != nil; n = n.next {
		if rel, ok := n.alloc.(releaser); ok {
			rel.Release()
		}
	}
	c.head.next = nil
}
