package player

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jason-s-yu/hanabi/engine/agent"
)

var (
	ErrUnknownPlayer = errors.New("unknown player kind")
	ErrBadPlayerSpec = errors.New("malformed player spec")
)

// SeatNames are handed out to players in seat order.
var SeatNames = [...]string{"Shangdi", "Yu Di", "Tian", "Nu Wa", "Pangu"}

// Kinds lists every player kind the registry knows.
var Kinds = []string{"random", "inner", "outer", "intentional", "full", "dead", "fully", "self", "sample"}

// Spec is a parsed player description such as "outer", "self(intentional)"
// or "sample(intentional, 50)".
type Spec struct {
	Kind    string
	Partner *Spec // self and sample only
	Samples int   // sample only
}

// ParseSpec validates s completely, partners included.
func ParseSpec(s string) (Spec, error) {
	name, args, err := splitCall(strings.TrimSpace(s))
	if err != nil {
		return Spec{}, fmt.Errorf("%q: %w", s, err)
	}
	if !knownKind(name) {
		return Spec{}, fmt.Errorf("%q: %w", name, ErrUnknownPlayer)
	}
	spec := Spec{Kind: name}
	switch name {
	case "self":
		spec.Partner = &Spec{Kind: "outer"}
		if args == nil {
			return spec, nil
		}
		if len(args) != 1 {
			return Spec{}, fmt.Errorf("%q: self takes one partner: %w", s, ErrBadPlayerSpec)
		}
	case "sample":
		spec.Partner = &Spec{Kind: "intentional"}
		spec.Samples = agent.DefaultSamples
		if args == nil {
			return spec, nil
		}
		switch len(args) {
		case 1:
		case 2:
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return Spec{}, fmt.Errorf("%q: sample count %q: %w", s, args[1], ErrBadPlayerSpec)
			}
			spec.Samples = n
		default:
			return Spec{}, fmt.Errorf("%q: sample takes a partner and a count: %w", s, ErrBadPlayerSpec)
		}
	default:
		if args != nil {
			return Spec{}, fmt.Errorf("%q: %s takes no arguments: %w", s, name, ErrBadPlayerSpec)
		}
		return spec, nil
	}

	partner, err := ParseSpec(args[0])
	if err != nil {
		return Spec{}, err
	}
	spec.Partner = &partner
	return spec, nil
}

func (s Spec) String() string {
	switch s.Kind {
	case "self":
		return "self(" + s.Partner.String() + ")"
	case "sample":
		return fmt.Sprintf("sample(%s, %d)", s.Partner, s.Samples)
	}
	return s.Kind
}

// New builds a fresh player for s.
func (s Spec) New(cfg Config) Player {
	switch s.Kind {
	case "random":
		return NewRandom(cfg)
	case "inner":
		return NewInnerState(cfg)
	case "outer":
		return NewOuterState(cfg)
	case "full":
		return NewIntentional(cfg, s.Kind, IntentionalOptions{ReadHints: true, RecycleRedundant: true})
	case "dead":
		return NewIntentional(cfg, s.Kind, IntentionalOptions{ReadHints: true, RecycleRedundant: true, DeadColors: true})
	case "fully":
		return NewIntentional(cfg, s.Kind, IntentionalOptions{HintFirst: true})
	case "self":
		return NewRecognition(cfg, s.String(), agent.Inference{
			Mode:    agent.ModeExact,
			Partner: s.Partner.PolicyFactory(cfg),
		})
	case "sample":
		return NewRecognition(cfg, s.String(), agent.Inference{
			Mode:    agent.ModeSampled,
			Partner: s.Partner.PolicyFactory(cfg),
			Samples: s.Samples,
		})
	}
	return NewIntentional(cfg, "intentional", IntentionalOptions{})
}

// PolicyFactory returns a builder of silent, fresh copies of s used to model
// a partner. The copies share cfg's generator.
func (s Spec) PolicyFactory(cfg Config) agent.PolicyFactory {
	model := Config{Name: s.String(), Seat: cfg.Seat, Log: quietLogger, RNG: cfg.RNG}
	return func() agent.Policy { return s.New(model) }
}

// New parses spec and builds the player in one step.
func New(spec string, cfg Config) (Player, error) {
	s, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	return s.New(cfg), nil
}

func knownKind(name string) bool {
	for _, k := range Kinds {
		if k == name {
			return true
		}
	}
	return false
}

// splitCall splits "name(a, b)" into name and its top level arguments. A bare
// name yields nil args.
func splitCall(s string) (string, []string, error) {
	if s == "" {
		return "", nil, ErrBadPlayerSpec
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		if strings.ContainsAny(s, "), ") {
			return "", nil, ErrBadPlayerSpec
		}
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, ErrBadPlayerSpec
	}
	name := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]

	var args []string
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", nil, ErrBadPlayerSpec
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return "", nil, ErrBadPlayerSpec
	}
	args = append(args, strings.TrimSpace(inner[start:]))
	for _, a := range args {
		if a == "" {
			return "", nil, ErrBadPlayerSpec
		}
	}
	return name, args, nil
}
