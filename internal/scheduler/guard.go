package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/phrazzld/goalpost/internal/platform/logger"
)

// recoverTick turns a panic in a tick into an error log. It must be deferred.
func recoverTick(log *slog.Logger, loop string) {
	if r := recover(); r != nil {
		log.Error("recovered from panic in tick",
			"loop", loop,
			"panic", fmt.Sprint(r),
			"stack", string(debug.Stack()))
	}
}

// callContext derives the context for one external call. It keeps the values
// of parent but not its cancellation, so stopping the engine lets an
// in-flight call finish while timeout still bounds it.
func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}

// runTicker calls tick every interval until ctx is cancelled. A tick always
// runs to completion before cancellation is observed.
func runTicker(ctx context.Context, interval time.Duration, log *slog.Logger, loop string, tick func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("loop started", "loop", loop, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			log.Info("loop stopped", "loop", loop)
			return
		case <-ticker.C:
			tick(logger.WithLogger(ctx, log))
		}
	}
}

// tickLogger returns base tagged with the correlation ID carried by ctx.
func tickLogger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if id := logger.CorrelationID(ctx); id != "" {
		return base.With("correlation_id", id)
	}
	return base
}
