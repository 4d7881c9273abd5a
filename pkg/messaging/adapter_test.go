package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanBroker struct {
	ch  chan []byte
	err error
}

func (b *chanBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	return nil
}

func (b *chanBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return b.ch, b.err
}

func (b *chanBroker) Close() error { return nil }

func TestConsumeDecodesAndSkipsBadMessages(t *testing.T) {
	broker := &chanBroker{ch: make(chan []byte, 3)}
	broker.ch <- []byte(`{"id":"1","type":"PATIENT_CREATED","payload":{"id":"p1"}}`)
	broker.ch <- []byte(`not json`)
	broker.ch <- []byte(`{"id":"2","type":"PATIENT_DELETED","payload":{"id":"p1"}}`)
	close(broker.ch)

	var types []string
	var errs []error
	err := Consume(context.Background(), broker, "patient-events", func(m Message) error {
		types = append(types, m.Type)
		return nil
	}, func(err error) { errs = append(errs, err) })

	require.NoError(t, err)
	assert.Equal(t, []string{"PATIENT_CREATED", "PATIENT_DELETED"}, types)
	assert.Len(t, errs, 1)
}

func TestConsumeSubscribeFailure(t *testing.T) {
	broker := &chanBroker{err: errors.New("no connection")}
	err := Consume(context.Background(), broker, "patient-events", func(Message) error { return nil }, nil)
	assert.Error(t, err)
}

func TestConsumeStopsOnCancel(t *testing.T) {
	broker := &chanBroker{ch: make(chan []byte)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Consume(ctx, broker, "patient-events", func(Message) error { return nil }, nil)
	assert.NoError(t, err)
}
