package alloc

import "github.com/pkg/errors"

// Bucketizer routes a request to one of several sub-allocators by size
// class (spec §4.6): a Raider partitions the overall size range into
// buckets, and each bucket owns its own Allocator, built lazily by the
// make_ factory the first time a request lands in it. Requests outside the
// raider's range fail outright — a Bucketizer is not itself a fallback.
type Bucketizer struct {
	raider  Raider
	make_   func(Range) (Allocator, error)
	buckets []Allocator
}

// NewBucketizer builds a Bucketizer over raider, deferring construction of
// each bucket's sub-allocator to make_ until the bucket is first needed.
func NewBucketizer(raider Raider, make_ func(Range) (Allocator, error)) (*Bucketizer, error) {
	if make_ == nil {
		return nil, errors.New("alloc: bucketizer requires a non-nil bucket factory")
	}
	n := raider.NumSteps()
	if n <= 0 {
		return nil, errors.New("alloc: bucketizer raider produces no buckets")
	}
	return &Bucketizer{raider: raider, make_: make_, buckets: make([]Allocator, n)}, nil
}

// bucketFor lazily builds (if needed) and returns the sub-allocator for
// bucket index i.
func (bk *Bucketizer) bucketFor(i int) Allocator {
	if bk.buckets[i] == nil {
		a, err := bk.make_(bk.raider.BucketRange(i))
		if err != nil || a == nil {
			return nil
		}
		bk.buckets[i] = a
	}
	return bk.buckets[i]
}

// Allocate routes by size to the bucket's sub-allocator, building it on
// first use. Sizes outside the raider's range fail.
func (bk *Bucketizer) Allocate(size int) Block {
	if size <= 0 {
		return Null
	}
	i := bk.raider.StepIndex(size)
	if i < 0 {
		return Null
	}
	a := bk.bucketFor(i)
	if a == nil {
		return Null
	}
	return a.Allocate(size)
}

// Deallocate routes by the block's recorded size back to the bucket that
// would have produced it.
func (bk *Bucketizer) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	i := bk.raider.StepIndex(b.Size)
	if i < 0 || bk.buckets[i] == nil {
		*b = Null
		return
	}
	bk.buckets[i].Deallocate(b)
}

// Reallocate resizes within the same bucket when old and new sizes land in
// the same bucket; otherwise it allocates in the new bucket, copies, and
// frees from the old one.
func (bk *Bucketizer) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(bk, b, newSize); handled {
		return ok
	}
	oldIdx := bk.raider.StepIndex(b.Size)
	newIdx := bk.raider.StepIndex(newSize)
	if newIdx < 0 {
		return false
	}
	if oldIdx == newIdx && oldIdx >= 0 && bk.buckets[oldIdx] != nil {
		return bk.buckets[oldIdx].Reallocate(b, newSize)
	}
	newBucket := bk.bucketFor(newIdx)
	if newBucket == nil {
		return false
	}
	var oldBucket Allocator = NullAllocator{}
	if oldIdx >= 0 && bk.buckets[oldIdx] != nil {
		oldBucket = bk.buckets[oldIdx]
	}
	return allocateCopyFree(oldBucket, newBucket, b, newSize)
}

// Alignment reports the minimum package alignment; individual buckets may
// guarantee more, but Bucketizer makes no promise across the whole range.
func (bk *Bucketizer) Alignment() int {
	return minAlignment
}

// SupportsTruncatedDeallocation is false: deallocation routes by the
// block's original recorded size, which a truncated block would misreport.
func (bk *Bucketizer) SupportsTruncatedDeallocation() bool {
	return false
}

// Owns reports whether b's size maps to a bucket that has been built and
// claims ownership of b.
func (bk *Bucketizer) Owns(b Block) bool {
	if b.IsNil() {
		return false
	}
	i := bk.raider.StepIndex(b.Size)
	if i < 0 || bk.buckets[i] == nil {
		return false
	}
	if owner, ok := bk.buckets[i].(Owner); ok {
		return owner.Owns(b)
	}
	return false
}
