package agent

import (
	"errors"
	"fmt"
	"math/rand/v2"

	engine "github.com/jason-s-yu/hanabi/engine"
)

// ErrInconsistentKnowledge reports a slot with no possible identity. Callers
// treat it as "no hypotheses", not as a failure.
var ErrInconsistentKnowledge = errors.New("knowledge admits no identity")

// ---------------------------------------------------------------------------
// Exact enumeration
// ---------------------------------------------------------------------------

// HandIterator walks the cartesian product of per-slot possibilities as an
// odometer with slot 0 turning fastest. It ignores how many copies of an
// identity exist, so two slots may both hold the only red 5.
type HandIterator struct {
	slots [][]engine.Card
	idx   []int
	hand  []engine.Card
	done  bool
	fresh bool
}

// NewHandIterator builds an iterator over knowledge. An empty knowledge slice
// yields exactly one empty hand.
func NewHandIterator(knowledge []engine.Knowledge) (*HandIterator, error) {
	it := &HandIterator{
		slots: make([][]engine.Card, len(knowledge)),
		idx:   make([]int, len(knowledge)),
		hand:  make([]engine.Card, len(knowledge)),
	}
	for i, k := range knowledge {
		it.slots[i] = k.Possible()
		if len(it.slots[i]) == 0 {
			return nil, fmt.Errorf("slot %d: %w", i, ErrInconsistentKnowledge)
		}
	}
	it.Reset()
	return it, nil
}

// Reset restarts the sequence from the first hand.
func (it *HandIterator) Reset() {
	for i := range it.idx {
		it.idx[i] = 0
	}
	it.done = false
	it.fresh = true
}

// Size returns the number of hands in the full product, saturating at limit.
func (it *HandIterator) Size(limit int) int {
	n := 1
	for _, s := range it.slots {
		n *= len(s)
		if n >= limit {
			return limit
		}
	}
	return n
}

// Next returns the next hand. The returned slice is reused by the following
// call; copy it to keep it. ok is false once the product is exhausted.
func (it *HandIterator) Next() (hand []engine.Card, ok bool) {
	if it.done {
		return nil, false
	}
	if it.fresh {
		it.fresh = false
	} else if !it.advance() {
		it.done = true
		return nil, false
	}
	for i, s := range it.slots {
		it.hand[i] = s[it.idx[i]]
	}
	return it.hand, true
}

// Draw returns a fresh hand holding one possibility per slot, each chosen
// uniformly and independently of the others. Like Next it ignores copy
// counts, so repeated draws are uniform over the same product.
func (it *HandIterator) Draw(rng *rand.Rand) []engine.Card {
	hand := make([]engine.Card, len(it.slots))
	for i, s := range it.slots {
		hand[i] = s[rng.IntN(len(s))]
	}
	return hand
}

func (it *HandIterator) advance() bool {
	for i := range it.idx {
		it.idx[i]++
		if it.idx[i] < len(it.slots[i]) {
			return true
		}
		it.idx[i] = 0
	}
	return false
}

// ---------------------------------------------------------------------------
// Sampling
// ---------------------------------------------------------------------------

// Sampler draws hands one slot at a time from a shared pool of unseen copies.
// Each draw removes a copy from the pool, so a sampled hand never holds more
// copies of an identity than the deck has left.
type Sampler struct {
	knowledge []engine.Knowledge
	pool      engine.Tally
	rng       *rand.Rand
	retries   int
}

// NewSampler prepares a sampler. seen lists the cards known to be out of play
// (discard pile and played cards).
func NewSampler(knowledge []engine.Knowledge, seen []engine.Card, rng *rand.Rand) (*Sampler, error) {
	s := &Sampler{
		knowledge: knowledge,
		rng:       rng,
		retries:   DefaultSampleRetries,
	}
	used := engine.TallyOf(seen)
	for _, col := range engine.Colors {
		for r := uint8(1); r <= engine.MaxRank; r++ {
			s.pool[col][r-1] = used.Remaining(engine.NewCard(col, r))
		}
	}
	for i, k := range knowledge {
		open := false
		for _, c := range k.Possible() {
			if s.pool.Count(c) > 0 {
				open = true
				break
			}
		}
		if !open {
			return nil, fmt.Errorf("slot %d: %w", i, ErrInconsistentKnowledge)
		}
	}
	return s, nil
}

// Sample draws one hand. Draws that exhaust the pool for a later slot are
// retried up to a fixed bound before giving up with ErrInconsistentKnowledge.
func (s *Sampler) Sample() ([]engine.Card, error) {
	hand := make([]engine.Card, len(s.knowledge))
	for attempt := 0; attempt < s.retries; attempt++ {
		if s.draw(hand) {
			return hand, nil
		}
	}
	return nil, fmt.Errorf("no hand after %d draws: %w", s.retries, ErrInconsistentKnowledge)
}

// draw fills hand in slot order, weighting each identity by the smaller of
// its knowledge count and its remaining pool.
func (s *Sampler) draw(hand []engine.Card) bool {
	pool := s.pool
	for i, k := range s.knowledge {
		total := 0
		var weights [engine.NumColors][engine.NumRanks]int
		for c := range k {
			for r, cnt := range k[c] {
				w := int(min(cnt, pool[c][r]))
				weights[c][r] = w
				total += w
			}
		}
		if total == 0 {
			return false
		}
		pick := s.rng.IntN(total)
	search:
		for c := range weights {
			for r, w := range weights[c] {
				if pick < w {
					hand[i] = engine.NewCard(engine.Color(c), uint8(r)+1)
					pool[c][r]--
					break search
				}
				pick -= w
			}
		}
	}
	return true
}
