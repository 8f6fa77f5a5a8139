package agent

import (
	"github.com/panjf2000/ants/v2"

	"github.com/hupe1980/agentbus/bus"
	"github.com/hupe1980/agentbus/logging"
)

// Options configures the coordinating agents.
type Options struct {
	// Logger receives [MEMORY] and [WARN] lines. Defaults to NoOp logger if nil.
	Logger logging.Logger

	// Pool runs fan-out legs. When nil, or when the pool rejects a task,
	// legs run on their own goroutine.
	Pool *ants.Pool

	// ContextOptions are applied to the bus.Context created for each
	// coordinating agent (shared memory store, trace sink, logger).
	ContextOptions []func(o *bus.ContextOptions)
}

func newOptions(optFns []func(o *Options)) Options {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return opts
}

// NewPool creates a non-blocking ants pool sized for fan-out legs.
func NewPool(size int) (*ants.Pool, error) {
	return ants.NewPool(size, ants.WithNonblocking(true))
}

// submit runs task on pool, falling back to a new goroutine when there is no
// pool or it is saturated.
func submit(pool *ants.Pool, task func()) {
	if pool != nil {
		if err := pool.Submit(task); err == nil {
			return
		}
	}
	go task()
}
