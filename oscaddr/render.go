package oscaddr

import (
	"fmt"
	"reflect"

	"github.com/chabad360/go-oscaddr/osc"
)

////
// Outbound
////

// resolve returns the route, capture values and arguments of v, which is a
// *Message or a value of (or pointer to) a registered variant struct.
func (t *Table) resolve(v interface{}) (*Route, []interface{}, []interface{}, error) {
	if m, ok := v.(*Message); ok {
		if m == nil || m.Route == nil {
			return nil, nil, nil, fmt.Errorf("%w: nil message", ErrUnknownVariant)
		}
		if r, ok := t.byName[m.Route.Name]; !ok || r != m.Route {
			return nil, nil, nil, fmt.Errorf("%w: %s is not a route of this table", ErrUnknownVariant, m.Route.Name)
		}
		return m.Route, m.Values, m.Arguments, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil, nil, fmt.Errorf("%w: nil %s", ErrUnknownVariant, rv.Type())
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, nil, nil, fmt.Errorf("%w: nil", ErrUnknownVariant)
	}

	r, ok := t.lookupType(rv.Type())
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrUnknownVariant, rv.Type())
	}
	values, args := r.binder.extract(rv, r.Template)
	return r, values, args, nil
}

// Render returns the address of v: the literals of its route's template with
// every capture replaced by the variant's value. v is a *Message or a
// registered variant struct (or a pointer to one).
func (t *Table) Render(v interface{}) (string, error) {
	r, values, _, err := t.resolve(v)
	if err != nil {
		return "", err
	}
	addr, err := r.Template.Render(values)
	if err != nil {
		return "", fmt.Errorf("%s: %w", r.Name, err)
	}
	return addr, nil
}

// Encode renders v and attaches its arguments, producing a message ready for
// the wire codec. Go integer and float kinds the codec does not know are
// widened to int32, int64 or float64.
func (t *Table) Encode(v interface{}) (*osc.Message, error) {
	r, values, args, err := t.resolve(v)
	if err != nil {
		return nil, err
	}
	addr, err := r.Template.Render(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}

	msg := osc.NewMessage(addr)
	for i, a := range args {
		a = oscValue(a)
		if err := msg.Append(a); err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", r.Name, i, err)
		}
	}
	return msg, nil
}

// oscValue converts a to a type the codec supports where that is lossless.
func oscValue(a interface{}) interface{} {
	if a == nil || osc.ToTypeTag(a) != osc.TypeInvalid {
		return a
	}

	rv := reflect.ValueOf(a)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return int32(rv.Convert(reflect.TypeOf(int64(0))).Int())
	case reflect.Int, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32:
		return float32(rv.Float())
	case reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return a
}
