package alloc

import "github.com/pkg/errors"

// Range is an inclusive [Min, Max] byte-size interval, used both to size a
// single bucket and to describe the overall span a Raider steps across.
type Range struct {
	Min int
	Max int
}

// Contains reports whether size falls within r, inclusive.
func (r Range) Contains(size int) bool {
	return size >= r.Min && size <= r.Max
}

// Stepping selects how a Raider advances from one bucket's upper bound to
// the next.
type Stepping int

const (
	// StepLinear advances by a fixed Step each bucket: bucket k covers
	// [Min + k*Step, Min + (k+1)*Step - 1] (with the "+1 after the first
	// bucket" boundary convention applied by BucketRange).
	StepLinear Stepping = iota
	// StepPow2 doubles the bucket width each step, starting from Step.
	StepPow2
)

// Raider partitions [Range.Min, Range.Max] into a sequence of
// non-overlapping buckets according to Stepping. It is the sizing engine
// behind Bucketizer.
type Raider struct {
	Range    Range
	Stepping Stepping
	Step     int
}

// NewLinearRaider builds a Raider that advances by a fixed step size.
func NewLinearRaider(r Range, step int) (Raider, error) {
	if err := requirePositive("step", step); err != nil {
		return Raider{}, err
	}
	if r.Max < r.Min {
		return Raider{}, errors.Errorf("alloc: range max %d below min %d", r.Max, r.Min)
	}
	return Raider{Range: r, Stepping: StepLinear, Step: step}, nil
}

// NewPow2Raider builds a Raider whose bucket widths double starting from
// the given first step.
func NewPow2Raider(r Range, firstStep int) (Raider, error) {
	if err := requirePositive("firstStep", firstStep); err != nil {
		return Raider{}, err
	}
	if !isPow2(firstStep) {
		return Raider{}, errors.Errorf("alloc: firstStep %d is not a power of two", firstStep)
	}
	if r.Max < r.Min {
		return Raider{}, errors.Errorf("alloc: range max %d below min %d", r.Max, r.Min)
	}
	return Raider{Range: r, Stepping: StepPow2, Step: firstStep}, nil
}

// NumSteps returns the number of buckets this raider partitions its range
// into.
func (r Raider) NumSteps() int {
	n := 0
	for lo := r.Range.Min; lo <= r.Range.Max; n++ {
		lo = r.nextLow(lo, n)
	}
	return n
}

// nextLow returns the lower bound of bucket n+1 given the lower bound of
// bucket n, lo.
func (r Raider) nextLow(lo int, n int) int {
	return lo + r.StepSize(n)
}

// StepSize returns the width, in bytes, of bucket i.
func (r Raider) StepSize(i int) int {
	switch r.Stepping {
	case StepPow2:
		return r.Step << uint(i)
	default:
		return r.Step
	}
}

// BucketRange returns the inclusive size range covered by bucket i, applying
// the "+1 after the first bucket" boundary convention: bucket 0 starts at
// Range.Min; bucket k>0 starts one byte past bucket k-1's max, so buckets
// never overlap and every integer size in [Range.Min, Range.Max] maps to
// exactly one bucket (the last bucket is clamped to Range.Max).
func (r Raider) BucketRange(i int) Range {
	lo := r.Range.Min
	for k := 0; k < i; k++ {
		lo += r.StepSize(k)
	}
	hi := lo + r.StepSize(i) - 1
	if hi > r.Range.Max {
		hi = r.Range.Max
	}
	return Range{Min: lo, Max: hi}
}

// StepIndex returns the index of the bucket that size falls into, or -1 if
// size is outside the raider's overall range.
func (r Raider) StepIndex(size int) int {
	if size < r.Range.Min || size > r.Range.Max {
		return -1
	}
	lo := r.Range.Min
	for i := 0; ; i++ {
		width := r.StepSize(i)
		hi := lo + width - 1
		if size <= hi || hi >= r.Range.Max {
			return i
		}
		lo = hi + 1
	}
}

// ceilLog2 returns the smallest n such that 1<<n >= v, for v > 0.
func ceilLog2(v int) int {
	n := 0
	for (1 << uint(n)) < v {
		n++
	}
	return n
}
