package segwire

import (
	"fmt"
	"os"

	"github.com/rawbytedev/segwire/pkg/arena"
	"github.com/rawbytedev/segwire/pkg/framing"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTraversalLimitWords is 64 MiB of words.
	DefaultTraversalLimitWords = 8 << 20
	DefaultNestingLimit        = 64
)

// Options configure builders and readers. Zero fields take the value from
// DefaultOptions.
type Options struct {
	// TraversalLimitWords caps the total words a validated reader may
	// dereference before ResetLimit.
	TraversalLimitWords uint64 `yaml:"traversal_limit_words"`
	// NestingLimit is the pointer depth a validated reader may follow.
	NestingLimit int `yaml:"nesting_limit"`

	FirstSegmentWords uint32         `yaml:"first_segment_words"`
	Allocation        arena.Strategy `yaml:"allocation"`

	CheckUnions   bool `yaml:"check_unions"`   // panic on reading an inactive union member
	UnsafeStrings bool `yaml:"unsafe_strings"` // Text aliases the message bytes

	Logger *zap.Logger `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		TraversalLimitWords: DefaultTraversalLimitWords,
		NestingLimit:        DefaultNestingLimit,
		FirstSegmentWords:   arena.DefaultFirstSegmentWords,
		Allocation:          arena.Grow,
		Logger:              zap.NewNop(),
	}
}

func (o Options) normalize() Options {
	d := DefaultOptions()
	if o.TraversalLimitWords == 0 {
		o.TraversalLimitWords = d.TraversalLimitWords
	}
	if o.NestingLimit <= 0 {
		o.NestingLimit = d.NestingLimit
	}
	if o.FirstSegmentWords == 0 {
		o.FirstSegmentWords = d.FirstSegmentWords
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// FrameLimits returns the framing limits for messages read under o. A frame
// may be as large as the traversal limit, and never smaller than
// framing.DefaultLimits allows.
func (o Options) FrameLimits() framing.Limits {
	lim := framing.DefaultLimits
	lim.MaxWords = max(lim.MaxWords, o.normalize().TraversalLimitWords)
	return lim
}

// LoadOptions decodes YAML on top of DefaultOptions.
func LoadOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("segwire: options: %w", err)
	}
	return opts.normalize(), nil
}

func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	return LoadOptions(data)
}
