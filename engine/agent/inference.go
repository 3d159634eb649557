package agent

import (
	"errors"
	"fmt"
	"math/rand/v2"

	engine "github.com/jason-s-yu/hanabi/engine"
)

// ErrStaleHint reports a hint memory whose hand no longer lines up with the
// receiver's knowledge.
var ErrStaleHint = errors.New("hint memory does not match the current hand")

// Policy is the decision side of a player, replayed to model a partner.
type Policy interface {
	GetAction(obs engine.Observation) (engine.Action, error)
}

// PolicyFactory builds a fresh, stateless-at-start partner model.
type PolicyFactory func() Policy

// HintMemory is a received hint together with the hinter's view just before
// giving it. The receiver's own hand is removed from the view.
type HintMemory struct {
	Hint   engine.Action
	Hinter uint8
	View   engine.Observation
}

// CaptureHint records hint a by hinter. g must be the state before the hint is
// applied, which is when players are informed.
func CaptureHint(a engine.Action, hinter uint8, g *engine.GameState) HintMemory {
	view := g.Observe(hinter)
	view.Hands[a.Target] = nil
	view.ValidActions = nil
	return HintMemory{Hint: a, Hinter: hinter, View: view}
}

// Mode selects how hypothetical hands are produced.
type Mode uint8

const (
	ModeExact   Mode = iota // enumerate the per-slot cartesian product
	ModeSampled             // draw from the shared pool of unseen copies
)

func (m Mode) String() string {
	if m == ModeSampled {
		return "sampled"
	}
	return "exact"
}

// Inference deduces own cards from a received hint by asking which own hands
// would have made the partner give exactly that hint.
type Inference struct {
	Mode          Mode
	Partner       PolicyFactory
	Ratio         float64 // collapse threshold a; 0 means DefaultRatio
	MaxHypotheses int     // largest product enumerated in exact mode; 0 means DefaultMaxHypotheses
	Samples       int     // hands drawn when not enumerating; 0 means DefaultSamples

	// RNG drives sampled mode and exact mode over an oversized product.
	// nil uses a generator seeded with DefaultInferenceSeed.
	RNG *rand.Rand
}

// Deduction is the proposed narrowing from one inference run. Nothing is
// changed until Apply.
type Deduction struct {
	Proposals  []engine.Card // per slot; EmptyCard leaves the slot alone
	Top        []int         // per slot count of the most frequent identity
	Second     []int         // per slot count of the runner-up
	Tried      int
	Consistent int
	Mode       Mode // how the hypotheses were produced
}

// Apply collapses every proposed slot of k and returns how many changed.
func (d Deduction) Apply(k []engine.Knowledge) int {
	n := 0
	for i, c := range d.Proposals {
		if c == engine.EmptyCard || i >= len(k) {
			continue
		}
		if k[i] != engine.IsCard(c) {
			k[i].CollapseTo(c)
			n++
		}
	}
	return n
}

// Any reports whether at least one slot is proposed.
func (d Deduction) Any() bool {
	for _, c := range d.Proposals {
		if c != engine.EmptyCard {
			return true
		}
	}
	return false
}

// Infer runs the inference for mem against own, the receiver's current
// knowledge. seen holds the discard pile and played cards. Zero consistent
// hypotheses, or a slot with no possibility, yields an empty deduction.
// Errors come only from a failing partner model or a stale memory.
func (inf *Inference) Infer(mem HintMemory, own []engine.Knowledge, seen []engine.Card) (Deduction, error) {
	target := mem.Hint.Target
	d := Deduction{Proposals: make([]engine.Card, len(own))}
	for i := range d.Proposals {
		d.Proposals[i] = engine.EmptyCard
	}
	if int(target) >= len(mem.View.Knowledge) || mem.View.HandLen(target) != len(own) {
		return d, ErrStaleHint
	}

	tally := make([][engine.NumColors][engine.NumRanks]int, len(own))
	consider := func(hand []engine.Card) error {
		d.Tried++
		view := mem.View.WithHand(target, hand)
		act, err := inf.Partner().GetAction(view)
		if err != nil {
			return fmt.Errorf("replaying partner on hypothesis %d: %w", d.Tried, err)
		}
		if act != mem.Hint {
			return nil
		}
		d.Consistent++
		for i, c := range hand {
			tally[i][c.Color()][c.Rank()-1]++
		}
		return nil
	}

	d.Mode = inf.Mode
	switch d.Mode {
	case ModeSampled:
		s, err := NewSampler(own, seen, inf.rng())
		if errors.Is(err, ErrInconsistentKnowledge) {
			return d, nil
		}
		for n := 0; n < inf.samples(); n++ {
			hand, err := s.Sample()
			if errors.Is(err, ErrInconsistentKnowledge) {
				break
			}
			if err := consider(hand); err != nil {
				return d, err
			}
		}
	default:
		it, err := NewHandIterator(own)
		if errors.Is(err, ErrInconsistentKnowledge) {
			return d, nil
		}
		// A truncated odometer never moves its slow slots, so a product
		// over the cap is drawn uniformly instead, still slot by slot.
		if limit := inf.maxHypotheses(); it.Size(limit+1) > limit {
			rng := inf.rng()
			for n := 0; n < inf.samples(); n++ {
				if err := consider(it.Draw(rng)); err != nil {
					return d, err
				}
			}
			break
		}
		for {
			hand, ok := it.Next()
			if !ok {
				break
			}
			if err := consider(hand); err != nil {
				return d, err
			}
		}
	}

	if d.Consistent == 0 {
		return d, nil
	}
	d.Top = make([]int, len(own))
	d.Second = make([]int, len(own))
	ratio := inf.ratio()
	for i := range tally {
		best, top, second := engine.EmptyCard, 0, 0
		for _, col := range engine.Colors {
			for r, cnt := range tally[i][col] {
				switch {
				case cnt > top:
					second = top
					top = cnt
					best = engine.NewCard(col, uint8(r)+1)
				case cnt > second:
					second = cnt
				}
			}
		}
		d.Top[i], d.Second[i] = top, second
		if top > 0 && float64(top) >= ratio*float64(second) {
			d.Proposals[i] = best
		}
	}
	return d, nil
}

func (inf *Inference) ratio() float64 {
	if inf.Ratio <= 0 {
		return DefaultRatio
	}
	return inf.Ratio
}

func (inf *Inference) maxHypotheses() int {
	if inf.MaxHypotheses <= 0 {
		return DefaultMaxHypotheses
	}
	return inf.MaxHypotheses
}

// rng returns the configured generator, seeding a fixed one on first use.
func (inf *Inference) rng() *rand.Rand {
	if inf.RNG == nil {
		inf.RNG = rand.New(rand.NewPCG(DefaultInferenceSeed, 0))
	}
	return inf.RNG
}

func (inf *Inference) samples() int {
	if inf.Samples <= 0 {
		return DefaultSamples
	}
	return inf.Samples
}
