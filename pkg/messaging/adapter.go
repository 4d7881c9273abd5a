package messaging

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler receives decoded messages from Consume.
type Handler func(Message) error

// Consume subscribes to channel and feeds every decodable message to handler
// until ctx is cancelled or the subscription closes. Undecodable payloads and
// handler errors are passed to onError and skipped.
func Consume(ctx context.Context, broker Broker, channel string, handler Handler, onError func(error)) error {
	msgChan, err := broker.Subscribe(ctx, channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	if onError == nil {
		onError = func(error) {}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-msgChan:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				onError(fmt.Errorf("failed to decode message: %w", err))
				continue
			}
			if err := handler(msg); err != nil {
				onError(err)
			}
		}
	}
}
