package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// New builds the application for p. Extra options usually carry fx.Populate
// targets or fx.Invoke hooks of the calling binary. fx's own events go to the
// profile log rather than stderr.
func New(p Params, opts ...fx.Option) *fx.App {
	all := []fx.Option{
		Module(p),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	}
	return fx.New(append(all, opts...)...)
}

// Run starts the application, calls fn, and stops it again. It is the
// one-shot entry point used by bookctl.
func Run(ctx context.Context, p Params, fn func(context.Context) error, opts ...fx.Option) error {
	a := New(p, opts...)
	if err := a.Err(); err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	runErr := fn(ctx)
	stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := a.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}
