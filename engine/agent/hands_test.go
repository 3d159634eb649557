package agent

import (
	"errors"
	"math/rand/v2"
	"testing"

	engine "github.com/jason-s-yu/hanabi/engine"
)

func TestHandIteratorProduct(t *testing.T) {
	know := []engine.Knowledge{
		engine.InitialKnowledge().HintRank(1, true),                                   // 5 options
		engine.InitialKnowledge().HintColor(engine.ColorRed, true).HintRank(2, false), // 4 options
		engine.IsCard(card(engine.ColorBlue, 3)),                                      // 1 option
	}
	it, err := NewHandIterator(know)
	if err != nil {
		t.Fatal(err)
	}
	if it.Size(1000) != 20 || it.Size(7) != 7 {
		t.Errorf("Size = %d / %d", it.Size(1000), it.Size(7))
	}

	seen := map[[3]engine.Card]bool{}
	for {
		hand, ok := it.Next()
		if !ok {
			break
		}
		var key [3]engine.Card
		copy(key[:], hand)
		if seen[key] {
			t.Fatalf("hand %v produced twice", hand)
		}
		seen[key] = true
		for i, c := range hand {
			if !know[i].Has(c) {
				t.Fatalf("slot %d holds impossible %s", i, c)
			}
		}
	}
	if len(seen) != 20 {
		t.Errorf("produced %d hands, want 20", len(seen))
	}
	if _, ok := it.Next(); ok {
		t.Error("exhausted iterator produced another hand")
	}

	it.Reset()
	first, ok := it.Next()
	if !ok || first[0] != card(engine.ColorGreen, 1) || first[1] != card(engine.ColorRed, 1) {
		t.Errorf("after Reset first = %v", first)
	}
}

func TestHandIteratorEmpty(t *testing.T) {
	it, err := NewHandIterator(nil)
	if err != nil {
		t.Fatal(err)
	}
	if hand, ok := it.Next(); !ok || len(hand) != 0 {
		t.Errorf("first = %v, %v; want one empty hand", hand, ok)
	}
	if _, ok := it.Next(); ok {
		t.Error("empty product produced a second hand")
	}
}

func TestHandIteratorInconsistent(t *testing.T) {
	_, err := NewHandIterator([]engine.Knowledge{engine.InitialKnowledge(), {}})
	if !errors.Is(err, ErrInconsistentKnowledge) {
		t.Errorf("err = %v, want ErrInconsistentKnowledge", err)
	}
}

// TestSupplyCapModes shows exact enumeration ignoring the copy count while
// sampling enforces it.
func TestSupplyCapModes(t *testing.T) {
	r5 := card(engine.ColorRed, 5)
	know := []engine.Knowledge{engine.IsCard(r5), engine.IsCard(r5)}

	it, err := NewHandIterator(know)
	if err != nil {
		t.Fatal(err)
	}
	hand, ok := it.Next()
	if !ok || hand[0] != r5 || hand[1] != r5 {
		t.Errorf("exact = %v, want two red fives", hand)
	}
	if drawn := it.Draw(rand.New(rand.NewPCG(1, 0))); drawn[0] != r5 || drawn[1] != r5 {
		t.Errorf("exact draw = %v, want two red fives", drawn)
	}

	s, err := NewSampler(know, nil, rand.New(rand.NewPCG(1, 0)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Sample(); !errors.Is(err, ErrInconsistentKnowledge) {
		t.Errorf("sampled err = %v, want ErrInconsistentKnowledge", err)
	}
}

func TestSamplerRespectsSeen(t *testing.T) {
	b4 := card(engine.ColorBlue, 4)
	k := engine.InitialKnowledge().HintColor(engine.ColorBlue, true).HintRank(4, true)
	if _, err := NewSampler([]engine.Knowledge{k}, []engine.Card{b4, b4}, rand.New(rand.NewPCG(1, 0))); !errors.Is(err, ErrInconsistentKnowledge) {
		t.Errorf("err = %v, want ErrInconsistentKnowledge", err)
	}
}

// TestSamplerScarcity checks sampled hands never exceed the unseen copies.
func TestSamplerScarcity(t *testing.T) {
	ones := engine.InitialKnowledge().HintColor(engine.ColorWhite, true).HintRank(1, true)
	know := []engine.Knowledge{ones, ones, ones, ones}
	seen := []engine.Card{card(engine.ColorWhite, 1)}
	rng := rand.New(rand.NewPCG(9, 0))

	// Two white ones remain; four slots want them.
	if _, err := NewSampler(know, seen, rng); err != nil {
		t.Fatal(err)
	}
	s, _ := NewSampler(know[:2], seen, rng)
	for i := 0; i < 100; i++ {
		hand, err := s.Sample()
		if err != nil {
			t.Fatal(err)
		}
		if hand[0] != card(engine.ColorWhite, 1) || hand[1] != card(engine.ColorWhite, 1) {
			t.Fatalf("hand = %v", hand)
		}
	}
	s, _ = NewSampler(know[:3], seen, rng)
	if _, err := s.Sample(); !errors.Is(err, ErrInconsistentKnowledge) {
		t.Errorf("three slots on two copies: err = %v", err)
	}
}

func TestSamplerDistribution(t *testing.T) {
	// Slot holds a one of green (3 copies) or red (3 copies), one red 1 seen.
	k := engine.InitialKnowledge().HintRank(1, true)
	k = k.HintColor(engine.ColorYellow, false).HintColor(engine.ColorWhite, false).HintColor(engine.ColorBlue, false)
	s, err := NewSampler([]engine.Knowledge{k}, []engine.Card{card(engine.ColorRed, 1)}, rand.New(rand.NewPCG(5, 0)))
	if err != nil {
		t.Fatal(err)
	}
	green := 0
	const n = 5000
	for i := 0; i < n; i++ {
		hand, err := s.Sample()
		if err != nil {
			t.Fatal(err)
		}
		if hand[0].Color() == engine.ColorGreen {
			green++
		}
	}
	// Weights 3:2, so green near 60%.
	if green < n*55/100 || green > n*65/100 {
		t.Errorf("green drawn %d of %d, want about 60%%", green, n)
	}
}

func TestHandIteratorDraw(t *testing.T) {
	know := []engine.Knowledge{
		engine.InitialKnowledge().HintRank(1, true),
		engine.IsCard(card(engine.ColorBlue, 3)),
	}
	it, err := NewHandIterator(know)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(2, 0))
	var colors [engine.NumColors]int
	for i := 0; i < 500; i++ {
		hand := it.Draw(rng)
		if hand[0].Rank() != 1 || hand[1] != card(engine.ColorBlue, 3) {
			t.Fatalf("draw %d = %v", i, hand)
		}
		colors[hand[0].Color()]++
	}
	for col, n := range colors {
		if n == 0 {
			t.Errorf("color %d never drawn", col)
		}
	}
}
