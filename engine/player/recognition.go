package player

import (
	"errors"
	"fmt"
	"slices"

	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/engine/agent"
	"github.com/sirupsen/logrus"
)

// Recognition deduces its own cards from the hints it receives by replaying
// a model of the hinter over hypothetical hands, then acts like OuterState on
// the sharpened knowledge, preferring rank hints for playable cards.
type Recognition struct {
	seat
	inference agent.Inference
	history   agent.HintHistory
	memory    *agent.HintMemory
}

// NewRecognition builds a recognition player. inf.Partner models the hinter;
// inf.RNG defaults to the player's generator.
func NewRecognition(cfg Config, kind string, inf agent.Inference) *Recognition {
	p := &Recognition{seat: newSeat(cfg, kind), inference: inf}
	if p.inference.RNG == nil {
		p.inference.RNG = p.rng
	}
	return p
}

func (p *Recognition) Reset() {
	p.history.Reset()
	p.memory = nil
}

func (p *Recognition) Inform(a engine.Action, actor uint8, g *engine.GameState) {
	p.history.Observe(a, actor)
	if a.Type.IsHint() && a.Target == p.nr {
		mem := agent.CaptureHint(a, actor, g)
		p.memory = &mem
	}
}

func (p *Recognition) GetAction(obs engine.Observation) (engine.Action, error) {
	own := slices.Clone(obs.Knowledge[obs.Player])
	if p.memory != nil {
		mem := *p.memory
		p.memory = nil
		seen := append(slices.Clone(obs.Discard), obs.Played...)
		d, err := p.inference.Infer(mem, own, seen)
		switch {
		case errors.Is(err, agent.ErrStaleHint):
			p.log.WithField("hint", mem.Hint.String()).Warn("dropping stale hint memory")
		case err != nil:
			return engine.Action{}, fmt.Errorf("%s: inferring from %v: %w", p.name, mem.Hint, err)
		default:
			changed := d.Apply(own)
			p.log.WithFields(logrus.Fields{
				"hint":       mem.Hint.String(),
				"mode":       d.Mode.String(),
				"tried":      d.Tried,
				"consistent": d.Consistent,
				"collapsed":  changed,
			}).Debug("inferred from hint")
		}
	}
	return outerAction(obs, own, &p.history, p.rng, true)
}
