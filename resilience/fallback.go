package resilience

import (
	"context"

	"github.com/hupe1980/agentbus/core"
)

// SendFunc performs one delegated send.
type SendFunc func(ctx context.Context) (core.Response, error)

// FallbackFunc builds the response used once both attempts failed.
type FallbackFunc func(err error) core.Response

// Options configures CallWithFallback.
type Options struct {
	// OnRetry is invoked with the first error before the second attempt.
	OnRetry func(err error)
}

// CallWithFallback calls send and, if it fails, retries exactly once. When
// the retry fails too (or ctx is already done so no retry is attempted) the
// result of fallback is returned. It never returns an error.
func CallWithFallback(ctx context.Context, send SendFunc, fallback FallbackFunc, optFns ...func(o *Options)) core.Response {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	resp, err := send(ctx)
	if err == nil {
		return resp
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fallback(ctxErr)
	}

	if opts.OnRetry != nil {
		opts.OnRetry(err)
	}

	resp, err = send(ctx)
	if err == nil {
		return resp
	}
	return fallback(err)
}
