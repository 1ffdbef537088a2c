// Package memory is an in-process message channel for local runs and tests.
package memory

import (
	"context"
	"errors"
	"sync"
)

// Handler consumes one message body.
type Handler func(ctx context.Context, body []byte) error

type subscription struct {
	id      int
	handler Handler
}

// Channel fans every message out to the handlers subscribed to its channel
// name, sequentially and in subscription order.
type Channel struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
}

func NewChannel() *Channel {
	return &Channel{subs: make(map[string][]subscription)}
}

// Send delivers body to every subscriber of channel. Handler errors are
// joined; a message without subscribers is dropped.
func (c *Channel) Send(ctx context.Context, channel string, body []byte) error {
	c.mu.RLock()
	subs := append([]subscription(nil), c.subs[channel]...)
	c.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		payload := append([]byte(nil), body...)
		if err := s.handler(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers h for channel and returns a func that removes it.
func (c *Channel) Subscribe(channel string, h Handler) (cancel func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs[channel] = append(c.subs[channel], subscription{id: id, handler: h})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		subs := c.subs[channel]
		for i, s := range subs {
			if s.id == id {
				c.subs[channel] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}
