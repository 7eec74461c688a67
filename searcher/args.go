package searcher

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// DefaultExplorationFactor is the UCB1 constant c = 1/√2.
const DefaultExplorationFactor = math.Sqrt2 / 2

const DefaultSearchIterations = 10_000

// Parameters stay fixed for the lifetime of a Searcher.
type Parameters struct {
	ExplorationFactor float64 `json:"exploration_factor" yaml:"exploration_factor" mapstructure:"exploration_factor"`
	SearchIterations  int     `json:"search_iterations" yaml:"search_iterations" mapstructure:"search_iterations"`
}

func DefaultParameters() Parameters {
	return Parameters{
		ExplorationFactor: DefaultExplorationFactor,
		SearchIterations:  DefaultSearchIterations,
	}
}

type settings struct {
	rng     *rand.Rand
	metrics Collector
	logger  zerolog.Logger
}

type Option func(s *settings)

// WithSeed makes expansion and rollouts reproducible.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = NewCollector()
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func newSettings(options []Option) settings {
	s := settings{ // Default values
		metrics: NewDummyCollector(),
		logger:  log.Logger,
	}
	for _, option := range options {
		option(&s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(RandomSeed()))
	}
	return s
}

// RandomSeed draws a seed from a cryptographically secure source.
func RandomSeed() uint64 {
	return frand.Uint64n(math.MaxUint64)
}
