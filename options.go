package alignmentwriter

import (
	"log/slog"

	"github.com/tmaklin/alignment-writer/codec"
	"github.com/tmaklin/alignment-writer/manifest"
)

// DefaultBufferSize is the default block-flush threshold B (spec §4.E): the
// packer flushes a block once it has recorded more than this many hits.
const DefaultBufferSize = 256_000

// Config holds the options shared by the Packer and Unpacker constructors.
type Config struct {
	Codec            codec.Codec
	Logger           *Logger
	MetricsCollector MetricsCollector
	BufferSize       int
	Threads          int
	ManifestStore    manifest.Store
	ManifestKey      string
}

// Option configures a Packer or Unpacker.
type Option func(*Config)

// WithCodec configures the codec used for header payloads.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(cfg *Config) {
		if c == nil {
			c = codec.Default
		}
		cfg.Codec = c
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// WithLogLevel creates a text logger at the given level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(cfg *Config) {
		cfg.Logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector. Pass nil to disable
// metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(cfg *Config) {
		cfg.MetricsCollector = mc
	}
}

// WithBufferSize configures the block-flush threshold B used by the
// packer. Values <= 0 fall back to DefaultBufferSize.
func WithBufferSize(n int) Option {
	return func(cfg *Config) {
		if n <= 0 {
			n = DefaultBufferSize
		}
		cfg.BufferSize = n
	}
}

// WithThreads sets Config.Threads. unpack.Decode and unpack.Stream take
// their worker count as an explicit argument and do not read this field.
func WithThreads(n int) Option {
	return func(cfg *Config) {
		cfg.Threads = n
	}
}

// WithManifest configures the manifest.Store the packer records a
// manifest.Entry into under key after a successful pack (spec §4.E,
// component O). A nil store disables manifest recording.
func WithManifest(store manifest.Store, key string) Option {
	return func(cfg *Config) {
		cfg.ManifestStore = store
		cfg.ManifestKey = key
	}
}

// ApplyOptions builds a Config from the given options, applying defaults
// equivalent to a single-threaded, unbuffered-metrics, non-logging run.
func ApplyOptions(optFns []Option) Config {
	cfg := Config{
		Codec:            codec.Default,
		Logger:           NoopLogger(),
		MetricsCollector: NoopMetricsCollector{},
		BufferSize:       DefaultBufferSize,
		Threads:          1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&cfg)
		}
	}
	return cfg
}
