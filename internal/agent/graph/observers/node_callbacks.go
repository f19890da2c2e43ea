package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"

	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

type nodeStartKey struct{}

// newNodeHandler logs every graph node with its duration.
func newNodeHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			return context.WithValue(ctx, nodeStartKey{}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			logx.Debug().
				Str("node", info.Name).
				Str("component", string(info.Component)).
				Dur("took", since(ctx)).
				Msg("node end")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().
				Err(err).
				Str("node", info.Name).
				Str("component", string(info.Component)).
				Dur("took", since(ctx)).
				Msg("node error")
			return ctx
		}).
		Build()
}

func since(ctx context.Context) time.Duration {
	if start, ok := ctx.Value(nodeStartKey{}).(time.Time); ok {
		return time.Since(start)
	}
	return 0
}
