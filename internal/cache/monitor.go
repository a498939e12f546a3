package cache

// Kind identifies which of the three bounded caches an operation
// concerns.
type Kind int

const (
	KindDocument Kind = iota
	KindPosting
	KindQuery
)

// Tier is a pressure band relative to the aggregate budget, governing
// admission and eviction aggressiveness.
type Tier int

const (
	TierNormal Tier = iota
	TierElevated
	TierCritical
)

const (
	elevatedThreshold = 0.75
	largeValueFrac    = 1.0 / 16.0
)

type evictable interface {
	Bytes() int64
	Len() int
	evictOldestUnpinned() (int64, bool)
	clear()
}

// Monitor is the global memory monitor: it holds the aggregate soft
// budget M (cache_size) and the hard ceiling max_memory, and arbitrates
// admission and eviction across the three caches it is registered
// with.
type Monitor struct {
	budget  int64 // M: soft aggregate budget (cache_size)
	hardMax int64 // max_memory: hard ceiling

	// caches in aggressive-eviction order (cheapest to rebuild first):
	// query results, then postings, then documents.
	query    evictable
	posting  evictable
	document evictable
}

// NewMonitor creates a Monitor for the given soft and hard budgets. If
// hardMax <= 0 or hardMax < budget, budget is used as the hard ceiling
// too.
func NewMonitor(budget, hardMax int64) *Monitor {
	if hardMax <= 0 || hardMax < budget {
		hardMax = budget
	}
	return &Monitor{budget: budget, hardMax: hardMax}
}

func (m *Monitor) register(query, posting, document evictable) {
	m.query, m.posting, m.document = query, posting, document
}

func (m *Monitor) totalBytes() int64 {
	return m.query.Bytes() + m.posting.Bytes() + m.document.Bytes()
}

// Tier reports the current pressure band.
func (m *Monitor) Tier() Tier {
	total := m.totalBytes()
	switch {
	case total > m.budget:
		return TierCritical
	case float64(total) > elevatedThreshold*float64(m.budget):
		return TierElevated
	default:
		return TierNormal
	}
}

// admit is called by a cache before inserting an entry of the given
// size. own is the cache being inserted into; others are the remaining
// two, taken in turn (round-robin) when own alone can't free enough
// room.
//
// Returns false if the value should not be cached at all (elevated/
// critical tier, non-dirty, value too large relative to budget). In the
// critical tier the caches are shed aggressively before such a value is
// refused.
func (m *Monitor) admit(kind Kind, bytes int64, dirty bool) bool {
	if !dirty {
		tier := m.Tier()
		if tier != TierNormal && bytes > int64(float64(m.budget)*largeValueFrac) {
			if tier == TierCritical {
				m.evictAggressively()
			}
			return false
		}
	}

	own, others := m.cachesFor(kind)
	next := 0
	for m.totalBytes()+bytes > m.hardMax {
		if freed, ok := own.evictOldestUnpinned(); ok {
			_ = freed
			continue
		}
		evictedAny := false
		for j := range others {
			c := others[(next+j)%len(others)]
			if _, ok := c.evictOldestUnpinned(); ok {
				evictedAny = true
				next = (next + j + 1) % len(others)
				break
			}
		}
		if !evictedAny {
			break // every cache is either empty or fully pinned by dirty entries
		}
	}

	if m.totalBytes()+bytes > m.budget {
		m.evictAggressively()
	}

	return true
}

// evictAggressively implements the above-1.0·M eviction policy: clear
// the query cache first, then the posting cache by LRU, then the
// document cache — cheapest-to-rebuild first.
func (m *Monitor) evictAggressively() {
	m.query.clear()
	for m.totalBytes() > m.budget {
		if _, ok := m.posting.evictOldestUnpinned(); ok {
			continue
		}
		break
	}
	for m.totalBytes() > m.budget {
		if _, ok := m.document.evictOldestUnpinned(); ok {
			continue
		}
		break
	}
}

func (m *Monitor) cachesFor(kind Kind) (own evictable, others []evictable) {
	switch kind {
	case KindDocument:
		return m.document, []evictable{m.posting, m.query}
	case KindPosting:
		return m.posting, []evictable{m.document, m.query}
	default:
		return m.query, []evictable{m.posting, m.document}
	}
}
