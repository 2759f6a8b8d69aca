package oscaddr

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// CaptureType is the declared type of a capture segment. It decides how the
// captured text is converted into a value and how the value is rendered back.
type CaptureType string

const (
	TypeString  CaptureType = "string"
	TypeInt     CaptureType = "int"
	TypeInt32   CaptureType = "int32"
	TypeInt64   CaptureType = "int64"
	TypeUint    CaptureType = "uint"
	TypeUint32  CaptureType = "uint32"
	TypeFloat32 CaptureType = "float32"
	TypeFloat   CaptureType = "float"
	TypeBool    CaptureType = "bool"
)

var captureGoTypes = map[CaptureType]reflect.Type{
	TypeString:  reflect.TypeOf(""),
	TypeInt:     reflect.TypeOf(int(0)),
	TypeInt32:   reflect.TypeOf(int32(0)),
	TypeInt64:   reflect.TypeOf(int64(0)),
	TypeUint:    reflect.TypeOf(uint(0)),
	TypeUint32:  reflect.TypeOf(uint32(0)),
	TypeFloat32: reflect.TypeOf(float32(0)),
	TypeFloat:   reflect.TypeOf(float64(0)),
	TypeBool:    reflect.TypeOf(false),
}

// Valid reports whether t is a known capture type.
func (t CaptureType) Valid() bool {
	_, ok := captureGoTypes[t]
	return ok
}

// GoType returns the Go type of values produced by Parse.
func (t CaptureType) GoType() reflect.Type {
	return captureGoTypes[t]
}

func (t CaptureType) String() string { return string(t) }

// Parse converts captured segment text into a value of the capture type.
func (t CaptureType) Parse(text string) (interface{}, error) {
	switch t {
	case TypeString:
		return text, nil
	case TypeInt:
		n, err := strconv.ParseInt(text, 10, strconv.IntSize)
		return int(n), numError(err)
	case TypeInt32:
		n, err := strconv.ParseInt(text, 10, 32)
		return int32(n), numError(err)
	case TypeInt64:
		n, err := strconv.ParseInt(text, 10, 64)
		return n, numError(err)
	case TypeUint:
		n, err := strconv.ParseUint(text, 10, strconv.IntSize)
		return uint(n), numError(err)
	case TypeUint32:
		n, err := strconv.ParseUint(text, 10, 32)
		return uint32(n), numError(err)
	case TypeFloat32:
		f, err := strconv.ParseFloat(text, 32)
		return float32(f), numError(err)
	case TypeFloat:
		f, err := strconv.ParseFloat(text, 64)
		return f, numError(err)
	case TypeBool:
		b, err := strconv.ParseBool(text)
		return b, numError(err)
	default:
		return nil, fmt.Errorf("unknown capture type %q", string(t))
	}
}

// Format renders v, which must have the capture type's Go type, as segment
// text. String values must be non-empty and must not contain '/'.
func (t CaptureType) Format(v interface{}) (string, error) {
	switch t {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return "", wrongType(t, v)
		}
		if s == "" {
			return "", fmt.Errorf("empty string")
		}
		if strings.Contains(s, "/") {
			return "", fmt.Errorf("string contains '/'")
		}
		return s, nil
	case TypeInt:
		n, ok := v.(int)
		if !ok {
			return "", wrongType(t, v)
		}
		return strconv.Itoa(n), nil
	case TypeInt32:
		n, ok := v.(int32)
		if !ok {
			return "", wrongType(t, v)
		}
		return strconv.FormatInt(int64(n), 10), nil
	case TypeInt64:
		n, ok := v.(int64)
		if !ok {
			return "", wrongType(t, v)
		}
		return strconv.FormatInt(n, 10), nil
	case TypeUint:
		n, ok := v.(uint)
		if !ok {
			return "", wrongType(t, v)
		}
		return strconv.FormatUint(uint64(n), 10), nil
	case TypeUint32:
		n, ok := v.(uint32)
		if !ok {
			return "", wrongType(t, v)
		}
		return strconv.FormatUint(uint64(n), 10), nil
	case TypeFloat32:
		f, ok := v.(float32)
		if !ok {
			return "", wrongType(t, v)
		}
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case TypeFloat:
		f, ok := v.(float64)
		if !ok {
			return "", wrongType(t, v)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return "", wrongType(t, v)
		}
		return strconv.FormatBool(b), nil
	default:
		return "", fmt.Errorf("unknown capture type %q", string(t))
	}
}

// numError strips the strconv wrapper, which repeats the input text.
func numError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

func wrongType(t CaptureType, v interface{}) error {
	return fmt.Errorf("value of type %T, want %s", v, t.GoType())
}
