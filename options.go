package fhircore

import (
	"runtime"

	"github.com/gofhir/fhircore/pkg/logger"
)

// Option configures parsing and auditing.
type Option func(*Options)

// Options holds all package configuration.
type Options struct {
	// GenerateIDs assigns a fresh id to parsed documents that carry no
	// usable one. When disabled, such documents fail to parse.
	GenerateIDs bool

	// MaxIssues caps the findings collected per audit (0 = unlimited).
	MaxIssues int

	// WorkerCount sizes batch decode pools.
	WorkerCount int

	// CacheSize bounds the decode cache.
	CacheSize int

	// LogLevel sets the package log threshold.
	LogLevel logger.Level

	// logLevelSet records an explicit WithLogLevel so a call without
	// one does not clobber a level configured elsewhere.
	logLevelSet bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		GenerateIDs: true,
		MaxIssues:   0,
		WorkerCount: runtime.NumCPU(),
		CacheSize:   128,
		LogLevel:    logger.LevelInfo,
	}
}

func applyOptions(opts []Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logLevelSet {
		logger.SetLevel(o.LogLevel)
	}
	return o
}

// WithGeneratedIDs controls id generation for documents without one.
func WithGeneratedIDs(enable bool) Option {
	return func(o *Options) {
		o.GenerateIDs = enable
	}
}

// WithMaxIssues caps the findings collected per audit.
func WithMaxIssues(n int) Option {
	return func(o *Options) {
		o.MaxIssues = n
	}
}

// WithWorkerCount sizes batch decode pools.
func WithWorkerCount(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.WorkerCount = n
		}
	}
}

// WithCacheSize bounds the decode cache.
func WithCacheSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.CacheSize = n
		}
	}
}

// WithLogLevel sets the package log threshold. The level applies to
// the package-wide logger and stays in effect after the call returns.
func WithLogLevel(level logger.Level) Option {
	return func(o *Options) {
		o.LogLevel = level
		o.logLevelSet = true
	}
}
