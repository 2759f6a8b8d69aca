package oscaddr

import (
	"fmt"
	"reflect"
)

// Message is a routed variant: the route that accepted the address, the
// converted capture values in field order and the arguments, which are never
// inspected or modified by routing.
type Message struct {
	Route     *Route
	Values    []interface{}
	Arguments []interface{}
}

// Name returns the variant name.
func (m *Message) Name() string { return m.Route.Name }

// Param returns the value of the capture with the given name, or of the N-th
// capture when name is "#N".
func (m *Message) Param(name string) (interface{}, bool) {
	i, ok := m.Route.Template.captureIndex(name)
	if !ok {
		return nil, false
	}
	return m.Values[i], true
}

// Params returns the named captures as a map. Anonymous captures are keyed
// "#N".
func (m *Message) Params() map[string]interface{} {
	params := make(map[string]interface{}, len(m.Values))
	for i, f := range m.Route.Template.fields {
		if f == "" {
			f = captureRef("", i)
		}
		params[f] = m.Values[i]
	}
	return params
}

// Address renders the message's address.
func (m *Message) Address() (string, error) {
	return m.Route.Template.Render(m.Values)
}

// Variant binds the message into a new value of the route's struct type.
// Untyped routes return the message itself.
func (m *Message) Variant() (interface{}, error) {
	if m.Route.binder == nil {
		return m, nil
	}
	v, err := m.Route.binder.bind(m.Values, m.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Route.Name, err)
	}
	return v, nil
}

// Equal reports whether m and o are the same variant with equal capture
// values. Arguments are not compared.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Route == o.Route && reflect.DeepEqual(m.Values, o.Values)
}

func (m *Message) String() string {
	addr, err := m.Address()
	if err != nil {
		addr = m.Route.Template.String()
	}
	return fmt.Sprintf("%s(%s) %v", m.Route.Name, addr, m.Arguments)
}
