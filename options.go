package treekit

// Compression selects the artifact-container compression codec.
type Compression uint8

const (
	// CompressionNone writes the bare artifact stream with no container.
	CompressionNone Compression = iota
	// CompressionZstd wraps the artifact in a container compressed with
	// zstandard.
	CompressionZstd
	// CompressionLZ4 wraps the artifact in a container compressed with lz4.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

type options struct {
	compression      Compression
	compressionLevel int
	logger           *Logger
}

func defaultOptions() options {
	return options{
		compression:      CompressionNone,
		compressionLevel: 3,
		logger:           NoopLogger(),
	}
}

// Option configures save/load behavior.
type Option func(*options)

// WithCompression selects the container compression codec used by Save.
// Load detects the codec from the container header, so it does not need
// this option.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCompressionLevel sets the zstd encoder level (1-22, zstd scale).
// Ignored by the other codecs.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		o.compressionLevel = level
	}
}

// WithLogger routes operation logs and version-negotiation warnings to the
// given logger. If nil is passed, logging stays disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
