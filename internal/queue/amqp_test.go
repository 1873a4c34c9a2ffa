package queue

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"photogallery/internal/logging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	deliveries chan amqp.Delivery
	publishErr error
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Qos(prefetchCount, prefetchSize int, global bool) error {
	return nil
}

func (f *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

type fakeAck struct {
	acked  []uint64
	nacked []uint64
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error {
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = append(f.nacked, tag)
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func TestAMQPQueue_Enqueue(t *testing.T) {
	ch := &fakeChannel{}
	q, err := NewAMQPQueue(ch, "process_image", logging.Default())
	require.NoError(t, err)

	require.NoError(t, q.Enqueue(context.Background(), "/uploads/cat.png"))

	assert.Equal(t, []string{"process_image"}, ch.declared)
	require.Len(t, ch.published, 1)
	assert.Equal(t, "process_image", ch.keys[0])
	assert.Equal(t, "/uploads/cat.png", string(ch.published[0].Body))
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	ch.publishErr = errors.New("channel closed")
	assert.Error(t, q.Enqueue(context.Background(), "/uploads/dog.png"))
}

func TestAMQPQueue_Run(t *testing.T) {
	var buf bytes.Buffer
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 3)}
	q, err := NewAMQPQueue(ch, "process_image", logging.New(&buf, time.UTC))
	require.NoError(t, err)

	ack := &fakeAck{}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("/uploads/cat.png")}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: nil}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("/uploads/bad.png")}
	close(ch.deliveries)

	var got []string
	h := func(_ context.Context, path string) (Result, error) {
		got = append(got, path)
		if path == "/uploads/bad.png" {
			return Result{}, errors.New("boom")
		}
		return Result{FilePath: path, Status: "ok"}, nil
	}

	err = q.Run(context.Background(), h)

	assert.Error(t, err, "closed delivery channel ends the consumer")
	assert.Equal(t, []string{"/uploads/cat.png", "/uploads/bad.png"}, got)
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2, 3}, ack.nacked)
	assert.Contains(t, buf.String(), `"message_dropped"`)
}

func TestAMQPQueue_RunStopsOnCancel(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery)}
	q, err := NewAMQPQueue(ch, "process_image", logging.Default())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, q.Run(ctx, ProcessImage(logging.Default())))
}

func TestProcessImage(t *testing.T) {
	var buf bytes.Buffer
	res, err := ProcessImage(logging.New(&buf, time.UTC))(context.Background(), "/uploads/cat.png")

	require.NoError(t, err)
	assert.Equal(t, Result{FilePath: "/uploads/cat.png", Status: "ok"}, res)
	assert.Contains(t, buf.String(), `"file_path":"/uploads/cat.png"`)
}
