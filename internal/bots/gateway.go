package bots

import "context"

// MessageHandler turns an inbound event into a reply.
type MessageHandler interface {
	HandleEvent(ctx context.Context, ev Event) (*Reply, error)
}

// Gateway is the platform-agnostic indirection between webhook
// handlers and message processing.
type Gateway struct {
	handler MessageHandler
}

// NewGateway creates a new Gateway with the given message handler.
func NewGateway(handler MessageHandler) *Gateway {
	return &Gateway{handler: handler}
}

// Process routes an event through the handler.
func (g *Gateway) Process(ctx context.Context, ev Event) (*Reply, error) {
	return g.handler.HandleEvent(ctx, ev)
}
