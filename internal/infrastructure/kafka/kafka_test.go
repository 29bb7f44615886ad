package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	msgs []kafka.Message
	errs []error
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return kafka.Message{}, err
	}
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w)

	err := p.Publish(context.Background(), "ORD-1", map[string]string{"event_type": "OrderPlaced"})

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "ORD-1", string(w.msgs[0].Key))
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "OrderPlaced", decoded["event_type"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w)

	assert.Error(t, p.Publish(context.Background(), "k", "v"))
	assert.Error(t, p.Publish(context.Background(), "k", make(chan int)), "unencodable event")
}

func TestConsumer_Consume(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := &fakeReader{
		errs: []error{errors.New("rebalance in progress")},
		msgs: []kafka.Message{
			{Key: []byte("a"), Value: []byte("1")},
			{Key: []byte("b"), Value: []byte("2")},
		},
	}
	c := NewConsumerWithReader(r, zap.New(core))

	var keys []string
	err := c.Consume(context.Background(), func(_ context.Context, key, value []byte) error {
		keys = append(keys, string(key))
		if string(key) == "b" {
			return errors.New("handler failed")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, 1, logs.FilterMessage("error reading message").Len())
	assert.Equal(t, 1, logs.FilterMessage("error handling message").Len())
}

func TestConsumer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewConsumerWithReader(&fakeReader{msgs: []kafka.Message{{Key: []byte("a")}}}, nil)

	err := c.Consume(ctx, func(context.Context, []byte, []byte) error {
		t.Fatal("handler should not run")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
