package alloc

// Segregator is a two-way Bucketizer special case (spec §4.7): requests at
// or below Threshold go to Small, everything else goes to Large. Kept as
// its own type rather than a two-bucket Bucketizer because the threshold
// dispatch is the common case callers reach for directly (e.g. "small
// objects from a free list, large ones straight from the system").
type Segregator struct {
	Threshold int
	Small     Allocator
	Large     Allocator
}

// NewSegregator builds a Segregator routing requests of size <= threshold
// to small and everything else to large.
func NewSegregator(threshold int, small, large Allocator) (*Segregator, error) {
	if err := requirePositive("threshold", threshold); err != nil {
		return nil, err
	}
	return &Segregator{Threshold: threshold, Small: small, Large: large}, nil
}

func (s *Segregator) route(size int) Allocator {
	if size <= s.Threshold {
		return s.Small
	}
	return s.Large
}

// Allocate routes to Small or Large by comparing size against Threshold.
func (s *Segregator) Allocate(size int) Block {
	if size <= 0 {
		return Null
	}
	return s.route(size).Allocate(size)
}

// Deallocate routes by the block's recorded size.
func (s *Segregator) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	s.route(b.Size).Deallocate(b)
}

// Reallocate resizes within the same side when old and new sizes land on
// the same side of Threshold; otherwise it moves the block across sides via
// allocate-copy-free.
func (s *Segregator) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(s, b, newSize); handled {
		return ok
	}
	oldSide := s.route(b.Size)
	newSide := s.route(newSize)
	if sameAllocator(oldSide, newSide) {
		return oldSide.Reallocate(b, newSize)
	}
	return allocateCopyFree(oldSide, newSide, b, newSize)
}

// Alignment reports the maximum of Small's and Large's alignment — a
// compositor advertises the strongest guarantee it can make across every
// inner allocator it might route a request to.
func (s *Segregator) Alignment() int {
	a, b := s.Small.Alignment(), s.Large.Alignment()
	if a > b {
		return a
	}
	return b
}

// SupportsTruncatedDeallocation is false: deallocation routing depends on
// the block's original recorded size.
func (s *Segregator) SupportsTruncatedDeallocation() bool {
	return false
}

// Owns reports whether the side that would handle b's size claims it.
func (s *Segregator) Owns(b Block) bool {
	if b.IsNil() {
		return false
	}
	if owner, ok := s.route(b.Size).(Owner); ok {
		return owner.Owns(b)
	}
	return false
}

// sameAllocator reports whether a and b are the identical allocator value
// (used to decide whether a reallocate can stay on one side of a routing
// split instead of moving across it).
func sameAllocator(a, b Allocator) bool {
	return a == b
}
