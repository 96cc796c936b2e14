package seed

import (
	"math/rand"
	"time"
)

// DefaultBuckets is the number of time slices a Spreader divides its year
// into when no bucket count is given.
const DefaultBuckets = 100

// Spreader hands out timestamps that look naturally distributed across one
// calendar year. The year is divided into equal-width buckets; consecutive
// Next calls walk the buckets round-robin and jitter within the current
// bucket. Over B consecutive calls every bucket is hit exactly once, which
// avoids the clustering artifacts of purely random draws.
//
// A Spreader holds no seed of its own. Reproducibility is entirely up to
// the *rand.Rand passed in by the caller.
type Spreader struct {
	start   time.Time
	step    int64 // bucket width in seconds
	buckets int
	i       int
	rnd     *rand.Rand
}

// NewSpreader returns a Spreader covering [Jan 1 of year, Jan 1 of year+1)
// in UTC. A bucket count below 1 is clamped to 1 (a single bucket spanning
// the whole year). The bucket width is at least 1 second, even if the year
// has fewer seconds than buckets.
func NewSpreader(year, buckets int, rnd *rand.Rand) *Spreader {
	if buckets < 1 {
		buckets = 1
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	step := int64(end.Sub(start)/time.Second) / int64(buckets)
	if step < 1 {
		step = 1
	}
	return &Spreader{
		start:   start,
		step:    step,
		buckets: buckets,
		rnd:     rnd,
	}
}

// Next returns a timestamp inside the current bucket and advances to the
// next one. Buckets are visited in order 0..B-1, then wrap around. The
// jitter is a uniform draw from [0, step-1] seconds, degenerating to 0
// when the bucket width is a single second.
func (s *Spreader) Next() time.Time {
	bucket := s.i % s.buckets
	s.i++
	base := s.start.Add(time.Duration(int64(bucket)*s.step) * time.Second)
	jitter := s.rnd.Int63n(s.step)
	return base.Add(time.Duration(jitter) * time.Second)
}
