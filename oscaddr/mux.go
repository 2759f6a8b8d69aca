package oscaddr

import (
	"fmt"

	"github.com/chabad360/go-oscaddr/osc"
)

// Handler is implemented by anything that handles routed messages.
type Handler interface {
	HandleMessage(msg *Message) error
}

// HandlerFunc implements the Handler interface. Type definition for a handler
// function.
type HandlerFunc func(msg *Message) error

// HandleMessage calls itself with the given Message. Implements the Handler
// interface.
func (f HandlerFunc) HandleMessage(msg *Message) error {
	return f(msg)
}

// Mux calls a Handler for each routed message, keyed by variant name.
// Handlers must be registered before Dispatch is used concurrently.
type Mux struct {
	d        *Dispatcher
	handlers map[string]Handler
}

// NewMux returns a Mux dispatching with d.
func NewMux(d *Dispatcher) *Mux {
	return &Mux{d: d, handlers: make(map[string]Handler)}
}

// Handle registers h for the named variant.
func (m *Mux) Handle(name string, h Handler) error {
	if _, ok := m.d.table.Lookup(name); !ok {
		return fmt.Errorf("Handle: %w: %s", ErrUnknownVariant, name)
	}

	if _, ok := m.handlers[name]; ok {
		return fmt.Errorf("Handle: handler for %s exists already", name)
	}

	m.handlers[name] = h
	return nil
}

// HandleFunc allows you to just pass a HandlerFunc.
func (m *Mux) HandleFunc(name string, f HandlerFunc) error {
	return m.Handle(name, f)
}

// Dispatch routes every message of packet and calls the registered handlers
// in element order. Routing errors abort before any handler runs; the first
// handler error stops dispatch and is returned.
func (m *Mux) Dispatch(packet osc.Packet) error {
	msgs, err := m.d.RoutePacket(packet)
	if err != nil {
		return fmt.Errorf("Dispatch: %w", err)
	}

	for _, msg := range msgs {
		h, ok := m.handlers[msg.Route.Name]
		if !ok {
			m.d.logger.Debug().Str("route", msg.Route.Name).Msg("no handler registered, dropping message")
			continue
		}
		if err := h.HandleMessage(msg); err != nil {
			return fmt.Errorf("Dispatch: %s: %w", msg.Route.Name, err)
		}
	}
	return nil
}

// DispatchBytes decodes an OSC packet and dispatches it.
func (m *Mux) DispatchBytes(data []byte) error {
	p, err := osc.ParsePacket(data)
	if err != nil {
		return fmt.Errorf("DispatchBytes: %w", err)
	}
	return m.Dispatch(p)
}
