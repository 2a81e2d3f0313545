package circ

import (
	"fmt"
	"slices"
)

// Defaults of the CD C2 stage: RS(28,24) with position i delayed by 4*i frames.
const (
	DefaultCodewordLength = 28
	DefaultParityLength   = 4
	DefaultDelayStep      = 4
)

// FailurePolicy selects which bytes a Failed or Flushed codeword contributes to the output.
type FailurePolicy uint8

const (
	// PassThrough outputs the received, uncorrected bytes.
	PassThrough FailurePolicy = iota
	// ZeroFill outputs zeros.
	ZeroFill
)

func (p FailurePolicy) String() string {
	switch p {
	case PassThrough:
		return "pass-through"
	case ZeroFill:
		return "zero-fill"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParseFailurePolicy is the inverse of FailurePolicy.String.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "pass-through", "passthrough":
		return PassThrough, nil
	case "zero-fill", "zerofill":
		return ZeroFill, nil
	default:
		return 0, fmt.Errorf("%w: unknown failure policy %q", ErrConfig, s)
	}
}

// Event is delivered to a sink for every C2 codeword, in output order.
type Event struct {
	// Index is the codeword number since the last Reset.
	Index  int
	Result Result
}

type Option = func(*config)

// WithCodewordLength sets the number of symbols per C1/C2 codeword.
func WithCodewordLength(n int) Option {
	return func(c *config) {
		c.codewordLength = n
	}
}

// WithParityLength sets the number of C2 parity symbols per codeword.
func WithParityLength(np int) Option {
	return func(c *config) {
		c.parityLength = np
	}
}

// WithDelays sets the encode-side delay D(i) of every position. It takes
// precedence over WithUniformDelay.
func WithDelays(delays []int) Option {
	delays = slices.Clone(delays)
	return func(c *config) {
		c.delays = delays
	}
}

// WithUniformDelay sets D(i) = step*i.
func WithUniformDelay(step int) Option {
	return func(c *config) {
		c.delayStep = step
	}
}

func WithFailurePolicy(p FailurePolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithReporter sets the diagnostics collaborator used by ReportStatus.
func WithReporter(r StatusReporter) Option {
	return func(c *config) {
		c.reporter = r
	}
}

// WithSink registers a callback invoked synchronously for every decoded codeword.
func WithSink(sink func(Event)) Option {
	return func(c *config) {
		c.sink = sink
	}
}

type config struct {
	codewordLength int
	parityLength   int
	delays         []int
	delayStep      int
	policy         FailurePolicy
	reporter       StatusReporter
	sink           func(Event)
}

func newConfig(options ...Option) (*config, error) {
	cfg := config{
		codewordLength: DefaultCodewordLength,
		parityLength:   DefaultParityLength,
		delayStep:      DefaultDelayStep,
		policy:         PassThrough,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.codewordLength <= 0 || cfg.codewordLength > MaxCodewordLength {
		return nil, fmt.Errorf("%w: codeword length %d not in [1,%d]", ErrConfig, cfg.codewordLength, MaxCodewordLength)
	}
	if cfg.parityLength <= 0 || cfg.parityLength >= cfg.codewordLength {
		return nil, fmt.Errorf("%w: parity length %d not in [1,%d)", ErrConfig, cfg.parityLength, cfg.codewordLength)
	}
	if cfg.delays == nil {
		if cfg.delayStep < 0 {
			return nil, fmt.Errorf("%w: delay step %d is negative", ErrConfig, cfg.delayStep)
		}
		cfg.delays = UniformDelays(cfg.codewordLength, cfg.delayStep)
	}
	if len(cfg.delays) != cfg.codewordLength {
		return nil, fmt.Errorf("%w: %d delays for codeword length %d", ErrConfig, len(cfg.delays), cfg.codewordLength)
	}
	if err := ValidateDelays(cfg.delays); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if cfg.policy != PassThrough && cfg.policy != ZeroFill {
		return nil, fmt.Errorf("%w: failure policy %s", ErrConfig, cfg.policy)
	}
	if cfg.reporter == nil {
		cfg.reporter = NewLogReporter(nil)
	}

	return &cfg, nil
}
