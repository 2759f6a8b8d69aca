package osc

import (
	"reflect"
	"testing"
)

func TestMessage_Append(t *testing.T) {
	message := NewMessage("/address")

	if err := message.Append("string argument", int32(123456789), true); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if len(message.Arguments) != 3 {
		t.Errorf("Number of arguments should be %d and is %d", 3, len(message.Arguments))
	}

	if err := message.Append(struct{}{}); err == nil {
		t.Errorf("Append() of an unsupported type should fail")
	}
	if len(message.Arguments) != 3 {
		t.Errorf("failed Append() must not change the arguments")
	}
}

func TestMessage_TypeTags(t *testing.T) {
	tests := []struct {
		name    string
		args    []interface{}
		want    string
		wantErr bool
	}{
		{"empty", nil, ",", false},
		{"all", []interface{}{int32(1), int64(1), float32(1), float64(1), "s", []byte{1}, Timetag(1), nil, true, false}, ",ihfdsbtNTF", false},
		{"unsupported", []interface{}{1}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMessage("/a", tt.args...).TypeTags()
			if (err != nil) != tt.wantErr {
				t.Errorf("TypeTags() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("TypeTags() got = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMessage_String(t *testing.T) {
	msg := NewMessage("/synth/3/freq", float32(440), "sine", nil)
	if got, want := msg.String(), "/synth/3/freq ,fsN 440 sine Nil"; got != want {
		t.Errorf("String() got = %q, want %q", got, want)
	}
}

func TestMessage_MarshalBinary(t *testing.T) {
	for _, tt := range messageTestCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.MarshalBinary()
			if (err != nil) != tt.wantErr {
				t.Errorf("MarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.raw) {
				t.Errorf("MarshalBinary() got = %v, want %v", got, tt.raw)
			}
		})
	}
}

func TestMessage_MarshalBinaryInvalidAddress(t *testing.T) {
	if _, err := NewMessage("no-slash").MarshalBinary(); err == nil {
		t.Errorf("MarshalBinary() should reject an address without a leading '/'")
	}
}

func TestMessage_UnmarshalBinary(t *testing.T) {
	for _, tt := range messageTestCases {
		t.Run(tt.name, func(t *testing.T) {
			m := new(Message)
			if err := m.UnmarshalBinary(tt.raw); (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(m, tt.obj) {
				t.Errorf("UnmarshalBinary() got = %v, want %v", m, tt.obj)
			}
		})
	}
}

func TestMessage_UnmarshalBinaryTruncated(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"not_a_message", []byte{'#', 'b', 0, 0}},
		{"unaligned", []byte{'/', 'a', 0}},
		{"missing_int", []byte{'/', 'a', 0, 0, ',', 'i', 0, 0}},
		{"unknown_tag", []byte{'/', 'a', 0, 0, ',', 'x', 0, 0}},
		{"bad_tag_string", []byte{'/', 'a', 0, 0, 'i', 0, 0, 0}},
		{"long_blob", []byte{'/', 'a', 0, 0, ',', 'b', 0, 0, 0, 0, 0, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := new(Message).UnmarshalBinary(tt.raw); err == nil {
				t.Errorf("UnmarshalBinary() expected an error")
			}
		})
	}
}

var result interface{}

func BenchmarkMessageMarshalBinary(b *testing.B) {
	var buf []byte
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		buf, _ = temp.MarshalBinary()
	}
	result = buf
}
