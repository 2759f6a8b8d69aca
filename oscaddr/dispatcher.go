package oscaddr

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chabad360/go-oscaddr/osc"
)

// Observer is notified about every routing decision. Implementations must be
// safe for concurrent use.
type Observer interface {
	// Routed is called when route accepted the address.
	Routed(route string)
	// FellThrough is called when route matched structurally but a capture
	// could not be converted, so dispatch continued with later routes.
	FellThrough(route string)
	// Unmatched is called when no route accepted a well-formed address.
	Unmatched()
	// Malformed is called when an address could not be parsed.
	Malformed()
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for debug output about fall-through and
// unmatched addresses.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithObserver sets an Observer.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// Dispatcher routes addresses against a Table. It holds no mutable state, so
// a single Dispatcher may be used from many goroutines at once.
type Dispatcher struct {
	table    *Table
	logger   zerolog.Logger
	observer Observer
}

// NewDispatcher returns a Dispatcher for t.
func NewDispatcher(t *Table, opts ...Option) *Dispatcher {
	d := &Dispatcher{table: t, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Table returns the dispatcher's route table.
func (d *Dispatcher) Table() *Table { return d.table }

// Route finds the first route, in declaration order, that matches p and whose
// captures all convert to their declared types. A route whose captures fail
// to convert is skipped, not reported. When nothing matches, Route returns a
// *NoRouteError. The arguments are attached to the message unchanged.
func (d *Dispatcher) Route(p Path, args []interface{}) (*Message, error) {
	for _, r := range d.table.routes {
		texts, ok := r.Template.Match(p)
		if !ok {
			continue
		}

		values, err := r.Template.Convert(texts)
		if err != nil {
			d.logger.Debug().
				Err(err).
				Str("address", p.String()).
				Str("route", r.Name).
				Msg("capture conversion failed, trying next route")
			if d.observer != nil {
				d.observer.FellThrough(r.Name)
			}
			continue
		}

		if d.observer != nil {
			d.observer.Routed(r.Name)
		}
		return &Message{Route: r, Values: values, Arguments: args}, nil
	}

	d.logger.Debug().Str("address", p.String()).Msg("no route matched")
	if d.observer != nil {
		d.observer.Unmatched()
	}
	return nil, &NoRouteError{Address: p.String()}
}

// RouteAddress parses addr and routes it.
func (d *Dispatcher) RouteAddress(addr string, args []interface{}) (*Message, error) {
	p, err := ParsePath(addr)
	if err != nil {
		d.logger.Debug().Err(err).Msg("rejecting malformed address")
		if d.observer != nil {
			d.observer.Malformed()
		}
		return nil, err
	}
	return d.Route(p, args)
}

// Decode routes addr and binds the result into the route's variant struct.
func (d *Dispatcher) Decode(addr string, args []interface{}) (interface{}, error) {
	m, err := d.RouteAddress(addr, args)
	if err != nil {
		return nil, err
	}
	return m.Variant()
}

// RouteMessage routes a decoded OSC message.
func (d *Dispatcher) RouteMessage(msg *osc.Message) (*Message, error) {
	return d.RouteAddress(msg.Address, msg.Arguments)
}

// RoutePacket routes every message of p. Bundles are flattened depth first in
// element order; their time tags are ignored. If any message fails to route,
// the error is returned and no messages are.
func (d *Dispatcher) RoutePacket(p osc.Packet) ([]*Message, error) {
	var msgs []*Message
	err := osc.Walk(p, func(msg *osc.Message) error {
		m, err := d.RouteMessage(msg)
		if err != nil {
			return err
		}
		msgs = append(msgs, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// RouteBytes decodes an OSC packet and routes it.
func (d *Dispatcher) RouteBytes(data []byte) ([]*Message, error) {
	p, err := osc.ParsePacket(data)
	if err != nil {
		return nil, fmt.Errorf("RouteBytes: %w", err)
	}
	return d.RoutePacket(p)
}
