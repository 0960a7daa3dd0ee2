package outbox

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/studorg/marketplace/internal/config"
)

// Module provides the event publisher: AMQP when a broker URL is
// configured, log-only otherwise.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newPublisher(p publisherParams) (Publisher, error) {
	if p.Config.AMQPURL == "" {
		return NewLogPublisher(p.Logger), nil
	}
	return NewAMQPPublisher(p.Config.AMQPURL)
}

func registerLifecycle(lc fx.Lifecycle, publisher Publisher) {
	closer, ok := publisher.(*AMQPPublisher)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})
}
