package agent

// Intent is the ground-truth target behavior for a teammate's card, computed
// with perfect information. It scores candidate hints and is never shown to
// the card's holder. The zero value is IntentKeep.
type Intent uint8

const (
	IntentKeep       Intent = iota // 0: nothing to signal
	IntentPlay                     // 1: immediately playable
	IntentDiscard                  // 2: already useless
	IntentCanDiscard               // 3: another copy remains
)

func (i Intent) String() string {
	switch i {
	case IntentPlay:
		return "Play"
	case IntentDiscard:
		return "Discard"
	case IntentCanDiscard:
		return "Can Discard"
	}
	return "Keep"
}

// Hint points awarded per signaled slot by Pretend.
const (
	PointsPlay       = 3
	PointsDiscard    = 2
	PointsCanDiscard = 1
)

const (
	// DefaultHintValue is the worth of a regained hint token in discard scoring.
	DefaultHintValue = 0.5

	// DefaultRatio is the collapse threshold a: a slot collapses when its top
	// identity count is at least a times the runner-up.
	DefaultRatio = 1.0

	// DefaultSamples is the number of hands drawn in sampled inference.
	DefaultSamples = 5000

	// DefaultMaxHypotheses is the largest product exact inference enumerates.
	// Larger products are drawn slot by slot, DefaultSamples times.
	DefaultMaxHypotheses = 20000

	// DefaultInferenceSeed seeds the generator of an Inference without one.
	DefaultInferenceSeed = 1

	// DefaultSampleRetries bounds the redraws of one sample that hit an
	// exhausted identity pool.
	DefaultSampleRetries = 100
)
