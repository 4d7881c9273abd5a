package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
}

func TestNewRedisBrokerRejectsBadURL(t *testing.T) {
	_, err := NewRedisBroker(Config{URL: "not-a-url"}, zerolog.Nop())
	require.Error(t, err)
}

func TestPublishOpensBreakerAfterConsecutiveFailures(t *testing.T) {
	b := newBroker(unreachableClient(), Config{FailureThreshold: 2, OpenTimeout: time.Minute}, zerolog.Nop())
	defer b.Close()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := b.Publish(ctx, "patient-events", map[string]string{"id": "1"})
		require.Error(t, err)
		assert.False(t, errors.Is(err, gobreaker.ErrOpenState))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.Publish(ctx, "patient-events", []byte(`{}`))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestPublishRejectsUnmarshalableMessage(t *testing.T) {
	b := newBroker(unreachableClient(), Config{}, zerolog.Nop())
	defer b.Close()

	err := b.Publish(context.Background(), "patient-events", make(chan int))
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
