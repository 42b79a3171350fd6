package rangefiltertree

import (
	"github.com/hupe1980/rangefiltertree/planner"
	"github.com/hupe1980/rangefiltertree/pointstore"
	"github.com/hupe1980/rangefiltertree/subindex"
)

// Strategy selects which query routing algorithm answers a search. It
// re-exports planner.Strategy so callers never need to import the planner
// package directly.
type Strategy = planner.Strategy

const (
	FenwickTree         = planner.FenwickTree
	OptimizedPostfilter = planner.OptimizedPostfilter
	ThreeSplit          = planner.ThreeSplit
)

// config collects the options BuildOption mutates.
type config struct {
	cutoff  int
	distFn  pointstore.DistanceFunc
	buildFn subindex.BuildFunc
	logger  *Logger
}

// BuildOption configures Build. Each option returns a value, following the
// functional options pattern used throughout this module's ancestry.
type BuildOption func(*config)

// WithCutoff sets the BucketPyramid's base bucket width (the smallest
// level's size). Must be positive; defaults to 256.
func WithCutoff(cutoff int) BuildOption {
	return func(c *config) { c.cutoff = cutoff }
}

// WithDistanceFunc overrides the default squared-L2 distance kernel.
func WithDistanceFunc(fn pointstore.DistanceFunc) BuildOption {
	return func(c *config) { c.distFn = fn }
}

// WithSubIndexBuilder overrides the default brute-force (subindex.Flat)
// per-bucket SubIndex with a custom BuildFunc, e.g. a graph-based or
// quantized implementation.
func WithSubIndexBuilder(fn subindex.BuildFunc) BuildOption {
	return func(c *config) { c.buildFn = fn }
}

// WithLogger attaches a Logger; defaults to NoopLogger if never set.
func WithLogger(l *Logger) BuildOption {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []BuildOption) *config {
	c := &config{
		cutoff:  256,
		buildFn: subindex.BuildFlat,
		logger:  NoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
