// Package alloc pools the short-lived []string buffers internal/index
// uses to hold one token's trigram windows while walking postings and
// trigram entries during AddDocument/RemoveDocument maintenance.
package alloc

import "sync"

// gramBufferTiers is sized for the trigram-window count of a single
// token (windows = len(token)+1): most indexed tokens are short words
// or identifiers, so the lower tiers absorb the bulk of requests and
// only pathologically long tokens fall through to a direct allocation.
var gramBufferTiers = []int{8, 16, 32, 64, 128}

type tier struct {
	capacity int
	pool     sync.Pool
}

// GramBufferPool is a tiered sync.Pool wrapper for []string buffers.
// Buffers returned by Get have length 0 and are reset to length 0
// before being pooled by Put, so a caller never observes another
// caller's leftover elements.
type GramBufferPool struct {
	tiers []*tier
}

// NewGramBufferPool builds a pool with the default trigram-window tier
// sizes.
func NewGramBufferPool() *GramBufferPool {
	p := &GramBufferPool{tiers: make([]*tier, len(gramBufferTiers))}
	for i, capacity := range gramBufferTiers {
		capacity := capacity
		p.tiers[i] = &tier{
			capacity: capacity,
			pool: sync.Pool{
				New: func() any {
					return make([]string, 0, capacity)
				},
			},
		}
	}
	return p
}

// Get returns a []string with length 0 and capacity >= minCapacity,
// drawn from the smallest tier that fits or allocated directly if
// minCapacity exceeds every tier.
func (p *GramBufferPool) Get(minCapacity int) []string {
	if minCapacity <= 0 {
		return make([]string, 0)
	}
	for _, t := range p.tiers {
		if t.capacity >= minCapacity {
			return t.pool.Get().([]string)
		}
	}
	return make([]string, 0, minCapacity)
}

// Put returns buf to the tier matching its capacity for reuse. A
// buffer whose capacity doesn't exactly match a tier (e.g. one
// allocated directly because it exceeded every tier) is discarded.
func (p *GramBufferPool) Put(buf []string) {
	if buf == nil {
		return
	}
	c := cap(buf)
	for _, t := range p.tiers {
		if t.capacity == c {
			t.pool.Put(buf[:0])
			return
		}
	}
}
