package realtime

import (
	"context"
)

// Forwarder fans messages out across instances. bus.Bus satisfies it.
type Forwarder interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

// Publisher delivers messages through the forwarder when one is configured
// (its subscriber re-broadcasts locally) and straight to the hub otherwise.
type Publisher struct {
	hub *SSEHub
	fwd Forwarder
}

func NewPublisher(hub *SSEHub, fwd Forwarder) *Publisher {
	return &Publisher{hub: hub, fwd: fwd}
}

func (p *Publisher) Publish(ctx context.Context, msg SSEMessage) error {
	if p == nil {
		return nil
	}
	if p.fwd != nil {
		if err := p.fwd.Publish(ctx, msg); err == nil {
			return nil
		} else if p.hub == nil {
			return err
		}
		// Local subscribers still get the message when redis is down.
	}
	if p.hub != nil {
		p.hub.Broadcast(msg)
	}
	return nil
}
