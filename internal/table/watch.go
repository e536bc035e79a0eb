package table

import (
	"context"
	"errors"

	"github.com/matheus3301/bookadmin/internal/bus"
	"go.uber.org/zap"
)

// Watch refetches whenever an event under namespace is published, until ctx ends.
// It blocks; run it in its own goroutine.
func (c *Controller[T]) Watch(ctx context.Context, b *bus.Bus, namespace string) {
	ch, unsub := b.Subscribe(namespace, 8)
	defer unsub()

	for {
		select {
		case evt := <-ch:
			c.logger.Debug("external refresh", zap.String("event", evt.Kind))
			if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) && ctx.Err() == nil {
				c.logger.Warn("refresh after event failed", zap.String("event", evt.Kind), zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
