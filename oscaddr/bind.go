package oscaddr

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Struct tags understood by DeclareVariant.
const (
	// CaptureTag binds a field to a capture by name, or by position as "#N".
	CaptureTag = "osc"
	// ArgumentTag binds a field to argument N, or to all arguments with "*".
	ArgumentTag = "oscarg"
)

var argsType = reflect.TypeOf([]interface{}(nil))

type argField struct {
	arg   int
	field int
	name  string
}

// binder moves values between a Message and a variant struct. It is compiled
// once per route when the table is built.
type binder struct {
	typ      reflect.Type
	captures []int // struct field index per capture
	args     []argField
	rest     int // field receiving all arguments, -1 if none
}

func compileBinder(t *Template, typ reflect.Type) (*binder, error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidVariant, typ)
	}

	b := &binder{typ: typ, captures: make([]int, t.NumCaptures()), rest: -1}
	for i := range b.captures {
		b.captures[i] = -1
	}

	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		ref, hasCapture := f.Tag.Lookup(CaptureTag)
		arg, hasArg := f.Tag.Lookup(ArgumentTag)
		if !hasCapture && !hasArg {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s is tagged but not exported", ErrInvalidVariant, typ, f.Name)
		}
		if hasCapture && hasArg {
			return nil, fmt.Errorf("%w: %s.%s has both %s and %s tags", ErrInvalidVariant, typ, f.Name, CaptureTag, ArgumentTag)
		}

		if hasCapture {
			c, ok := t.captureIndex(ref)
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s: template %s has no capture %q", ErrInvalidVariant, typ, f.Name, t, ref)
			}
			if b.captures[c] != -1 {
				return nil, fmt.Errorf("%w: %s: capture %q is bound twice", ErrInvalidVariant, typ, ref)
			}
			want := t.CaptureAt(c).Type.GoType()
			if f.Type.Kind() != want.Kind() {
				return nil, fmt.Errorf("%w: %s.%s is %s, capture %q needs %s", ErrInvalidVariant, typ, f.Name, f.Type, ref, want)
			}
			b.captures[c] = i
			continue
		}

		if arg == "*" {
			if f.Type != argsType {
				return nil, fmt.Errorf("%w: %s.%s must be []interface{} to receive all arguments", ErrInvalidVariant, typ, f.Name)
			}
			b.rest = i
			continue
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %s.%s: invalid argument index %q", ErrInvalidVariant, typ, f.Name, arg)
		}
		for _, a := range b.args {
			if a.arg == n {
				return nil, fmt.Errorf("%w: %s: argument %d is bound twice", ErrInvalidVariant, typ, n)
			}
		}
		b.args = append(b.args, argField{arg: n, field: i, name: f.Name})
	}

	for c, fi := range b.captures {
		if fi == -1 {
			seg := t.CaptureAt(c)
			return nil, fmt.Errorf("%w: %s does not bind capture %s of %s", ErrInvalidVariant, typ, captureRef(seg.Name, c), t)
		}
	}
	if b.rest != -1 && len(b.args) > 0 {
		return nil, fmt.Errorf("%w: %s mixes positional and \"*\" argument fields", ErrInvalidVariant, typ)
	}

	return b, nil
}

func captureRef(name string, i int) string {
	if name == "" {
		return "#" + strconv.Itoa(i)
	}
	return strconv.Quote(name)
}

// bind builds a new struct value from converted capture values and arguments.
func (b *binder) bind(values, args []interface{}) (interface{}, error) {
	v := reflect.New(b.typ).Elem()

	for c, fi := range b.captures {
		f := v.Field(fi)
		f.Set(reflect.ValueOf(values[c]).Convert(f.Type()))
	}

	for _, a := range b.args {
		if a.arg >= len(args) {
			return nil, &ArgumentError{Index: -1, Field: a.name}
		}
		if !assignArg(v.Field(a.field), args[a.arg]) {
			return nil, &ArgumentError{Index: a.arg, Field: a.name, Value: args[a.arg]}
		}
	}

	if b.rest != -1 {
		v.Field(b.rest).Set(reflect.ValueOf(args))
	}

	return v.Interface(), nil
}

// extract reads capture values and arguments back out of a struct value.
func (b *binder) extract(v reflect.Value, t *Template) (values, args []interface{}) {
	values = make([]interface{}, len(b.captures))
	for c, fi := range b.captures {
		want := t.CaptureAt(c).Type.GoType()
		values[c] = v.Field(fi).Convert(want).Interface()
	}

	if b.rest != -1 {
		args, _ = v.Field(b.rest).Interface().([]interface{})
		return values, args
	}

	n := 0
	for _, a := range b.args {
		if a.arg+1 > n {
			n = a.arg + 1
		}
	}
	if n > 0 {
		args = make([]interface{}, n)
		for _, a := range b.args {
			args[a.arg] = v.Field(a.field).Interface()
		}
	}
	return values, args
}

// assignArg stores arg in field if it is assignable, or if both are numbers,
// the conversion does not drop a fractional part and the value fits.
func assignArg(field reflect.Value, arg interface{}) bool {
	if arg == nil {
		switch field.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map:
			field.Set(reflect.Zero(field.Type()))
			return true
		}
		return false
	}

	rv := reflect.ValueOf(arg)
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return true
	}

	from, to := numberKind(rv.Kind()), numberKind(field.Kind())
	if from == notNumber || to == notNumber || (from == floatNumber && to != floatNumber) {
		return false
	}
	if overflows(field, rv, from, to) {
		return false
	}
	field.Set(rv.Convert(field.Type()))
	return true
}

// overflows reports whether the numeric value rv does not fit in field.
func overflows(field, rv reflect.Value, from, to int) bool {
	switch from {
	case signedNumber:
		n := rv.Int()
		switch to {
		case signedNumber:
			return field.OverflowInt(n)
		case unsignedNumber:
			return n < 0 || field.OverflowUint(uint64(n))
		}
	case unsignedNumber:
		u := rv.Uint()
		switch to {
		case signedNumber:
			return u > math.MaxInt64 || field.OverflowInt(int64(u))
		case unsignedNumber:
			return field.OverflowUint(u)
		}
	case floatNumber:
		return field.OverflowFloat(rv.Float())
	}
	return false
}

const (
	notNumber = iota
	signedNumber
	unsignedNumber
	floatNumber
)

func numberKind(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNumber
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return unsignedNumber
	case reflect.Float32, reflect.Float64:
		return floatNumber
	default:
		return notNumber
	}
}
