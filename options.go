package jobsystem

const (
	// DefaultMutateBatchSize is the default batch size for the mutation
	// job. Mutation does more per-index work than the distance pass, so
	// its batches are smaller.
	DefaultMutateBatchSize = 64

	// DefaultDistanceBatchSize is the default batch size for the
	// distance job.
	DefaultDistanceBatchSize = 128

	// DefaultConfidenceStride is the default sampling stride of the
	// confidence job: every record is sampled.
	DefaultConfidenceStride = 1
)

type options struct {
	workers           int
	mutateBatchSize   int
	distanceBatchSize int
	confidenceStride  int
	seed              SeedFunc
	mutate            MutateFunc
	logger            *Logger
	memoryLimit       int64
}

// Option configures Engine construction.
type Option func(*options)

// WithWorkers sets the number of worker slots available to parallel job
// batches. Values <= 0 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMutateBatchSize sets the batch size of the mutation job. Smaller
// batches spread uneven per-index work (the skip path) more evenly
// across workers; larger batches cut scheduling overhead.
func WithMutateBatchSize(n int) Option {
	return func(o *options) {
		o.mutateBatchSize = n
	}
}

// WithDistanceBatchSize sets the batch size of the distance job.
func WithDistanceBatchSize(n int) Option {
	return func(o *options) {
		o.distanceBatchSize = n
	}
}

// WithConfidenceStride sets the sampling stride of the confidence job.
// The job reads every stride-th record's w field, trading accuracy for
// throughput. Must satisfy 1 <= stride <= pointCount; the sampled index
// sequence then never reaches past the record array.
func WithConfidenceStride(n int) Option {
	return func(o *options) {
		o.confidenceStride = n
	}
}

// WithSeedFunc sets the function that produces each record's initial
// value. The driver typically injects its random source here.
func WithSeedFunc(fn SeedFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.seed = fn
		}
	}
}

// WithMutateFunc sets the per-record mutation applied between ticks.
// The driver typically injects its random source here.
func WithMutateFunc(fn MutateFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.mutate = fn
		}
	}
}

// WithLogger sets the structured logger. Defaults to NoopLogger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMemoryLimit caps the managed memory (persistent buffers plus
// scoped temporaries) at the given number of bytes. 0 means tracking
// without a limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

func defaultOptions() options {
	return options{
		mutateBatchSize:   DefaultMutateBatchSize,
		distanceBatchSize: DefaultDistanceBatchSize,
		confidenceStride:  DefaultConfidenceStride,
		seed:              defaultSeed,
		mutate:            defaultMutate,
		logger:            NoopLogger(),
	}
}
