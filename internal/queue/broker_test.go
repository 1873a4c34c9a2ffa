package queue

import (
	"context"
	"io"
	"net"
	"testing"

	"photogallery/internal/config"
	"photogallery/internal/logging"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	logger := logging.New(io.Discard, nil)

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		host, port, err := net.SplitHostPort(mr.Addr())
		require.NoError(t, err)

		cfg := &config.AppConfig{
			Redis: config.RedisConfig{Host: host, Port: port},
			Queue: config.QueueConfig{Broker: "redis", Name: "process_image"},
		}
		b, closeFn, err := Connect(context.Background(), cfg, logger)
		require.NoError(t, err)
		defer closeFn()

		require.NoError(t, b.Enqueue(context.Background(), "/uploads/cat.png"))
		got, err := mr.List("process_image")
		require.NoError(t, err)
		assert.Equal(t, []string{"/uploads/cat.png"}, got)
	})

	t.Run("unknown broker", func(t *testing.T) {
		cfg := &config.AppConfig{Queue: config.QueueConfig{Broker: "kafka"}}
		_, _, err := Connect(context.Background(), cfg, logger)
		assert.ErrorContains(t, err, "unknown broker")
	})
}
