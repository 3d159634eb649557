package player

import engine "github.com/jason-s-yu/hanabi/engine"

// Random picks uniformly among the valid actions.
type Random struct {
	seat
}

func NewRandom(cfg Config) *Random { return &Random{seat: newSeat(cfg, "random")} }

func (p *Random) Reset() {}

func (p *Random) GetAction(obs engine.Observation) (engine.Action, error) {
	if len(obs.ValidActions) == 0 {
		return engine.Action{}, ErrNoAction
	}
	return pick(p.rng, obs.ValidActions), nil
}

func (p *Random) Inform(engine.Action, uint8, *engine.GameState) {}
