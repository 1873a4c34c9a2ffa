package queue

import (
	"context"
	"fmt"

	"photogallery/internal/config"
	"photogallery/internal/logging"
)

// Broker is a queue that can both publish and consume.
type Broker interface {
	Dispatcher
	Consumer
}

// Connect opens the broker selected by cfg.Queue.Broker. The returned close
// function releases the underlying connection.
func Connect(ctx context.Context, cfg *config.AppConfig, logger *logging.Logger) (Broker, func() error, error) {
	switch cfg.Queue.Broker {
	case "", "redis":
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisQueue(client, cfg.Queue.Name, logger), client.Close, nil
	case "amqp":
		conn, ch, err := DialAMQP(cfg.Queue.AMQPURL)
		if err != nil {
			return nil, nil, err
		}
		q, err := NewAMQPQueue(ch, cfg.Queue.Name, logger)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return q, conn.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown broker %q", cfg.Queue.Broker)
	}
}
