package oscaddr

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chabad360/go-oscaddr/osc"
)

func synthTable(t testing.TB) *Table {
	t.Helper()
	tbl, err := NewTable(
		DeclareVariant("/synth/{id:int}/freq", setFreq{}),
		DeclareVariant("/synth/{id:int}/gate", setGate{}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

type countingObserver struct {
	mu          sync.Mutex
	routed      map[string]int
	fellThrough map[string]int
	unmatched   int
	malformed   int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{routed: map[string]int{}, fellThrough: map[string]int{}}
}

func (o *countingObserver) Routed(route string) {
	o.mu.Lock()
	o.routed[route]++
	o.mu.Unlock()
}

func (o *countingObserver) FellThrough(route string) {
	o.mu.Lock()
	o.fellThrough[route]++
	o.mu.Unlock()
}

func (o *countingObserver) Unmatched() {
	o.mu.Lock()
	o.unmatched++
	o.mu.Unlock()
}

func (o *countingObserver) Malformed() {
	o.mu.Lock()
	o.malformed++
	o.mu.Unlock()
}

func TestDispatcher_SynthScenario(t *testing.T) {
	tbl := synthTable(t)
	d := NewDispatcher(tbl)

	args := []interface{}{float32(440)}
	msg, err := d.RouteAddress("/synth/3/freq", args)
	if err != nil {
		t.Fatalf("RouteAddress() error = %v", err)
	}
	if msg.Name() != "setFreq" {
		t.Errorf("Name() got = %s, want setFreq", msg.Name())
	}
	if id, ok := msg.Param("id"); !ok || id != 3 {
		t.Errorf("Param(id) got = %v, %v", id, ok)
	}
	if !reflect.DeepEqual(msg.Arguments, args) {
		t.Errorf("Arguments got = %v, want %v", msg.Arguments, args)
	}

	v, err := msg.Variant()
	if err != nil {
		t.Fatalf("Variant() error = %v", err)
	}
	if want := (setFreq{ID: 3, Freq: 440}); v != want {
		t.Errorf("Variant() got = %#v, want %#v", v, want)
	}

	addr, err := tbl.Render(v)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if addr != "/synth/3/freq" {
		t.Errorf("Render() got = %q, want /synth/3/freq", addr)
	}

	gate, err := d.Decode("/synth/7/gate", []interface{}{true})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if want := (setGate{ID: 7, Gate: true}); gate != want {
		t.Errorf("Decode() got = %#v, want %#v", gate, want)
	}
}

func TestDispatcher_FirstMatchWins(t *testing.T) {
	tbl := MustTable(
		Declare("Literal", "/a/1"),
		Declare("Param", "/a/{int}"),
	)
	d := NewDispatcher(tbl)

	for addr, want := range map[string]string{"/a/1": "Literal", "/a/2": "Param"} {
		msg, err := d.RouteAddress(addr, nil)
		if err != nil {
			t.Fatalf("RouteAddress(%q) error = %v", addr, err)
		}
		if msg.Name() != want {
			t.Errorf("RouteAddress(%q) got = %s, want %s", addr, msg.Name(), want)
		}
	}

	// Declared the other way round, the parameterized route shadows the literal.
	d = NewDispatcher(MustTable(
		Declare("Param", "/a/{int}"),
		Declare("Literal", "/a/1"),
	))
	msg, err := d.RouteAddress("/a/1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Name() != "Param" {
		t.Errorf("RouteAddress(/a/1) got = %s, want Param", msg.Name())
	}
}

func TestDispatcher_FallThrough(t *testing.T) {
	obs := newCountingObserver()
	d := NewDispatcher(MustTable(
		Declare("ByID", "/voice/{id:int}"),
		Declare("ByName", "/voice/{name}"),
		Declare("Exact", "/voice/{on:bool}/x"),
	), WithObserver(obs))

	msg, err := d.RouteAddress("/voice/lead", nil)
	if err != nil {
		t.Fatalf("RouteAddress() error = %v", err)
	}
	if msg.Name() != "ByName" {
		t.Errorf("RouteAddress() got = %s, want ByName", msg.Name())
	}
	if v, _ := msg.Param("name"); v != "lead" {
		t.Errorf("Param(name) got = %v", v)
	}
	if obs.fellThrough["ByID"] != 1 || obs.routed["ByName"] != 1 {
		t.Errorf("observer got routed = %v, fellThrough = %v", obs.routed, obs.fellThrough)
	}

	_, err = d.RouteAddress("/voice/maybe/x", nil)
	if !errors.Is(err, ErrNoRouteMatched) {
		t.Errorf("RouteAddress() error = %v, want ErrNoRouteMatched", err)
	}
	if obs.fellThrough["Exact"] != 1 || obs.unmatched != 1 {
		t.Errorf("observer got fellThrough = %v, unmatched = %d", obs.fellThrough, obs.unmatched)
	}
}

func TestDispatcher_Errors(t *testing.T) {
	obs := newCountingObserver()
	d := NewDispatcher(MustTable(Declare("A", "/a/{int}/c")), WithObserver(obs))

	tests := []struct {
		addr    string
		wantErr error
	}{
		{"no-leading-slash", ErrMalformedAddress},
		{"/a//b", ErrMalformedAddress},
		{"/a/b", ErrNoRouteMatched},
		{"/a/x/c", ErrNoRouteMatched},
		{"/a/1/c/d", ErrNoRouteMatched},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			msg, err := d.RouteAddress(tt.addr, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RouteAddress() error = %v, want %v", err, tt.wantErr)
			}
			if msg != nil {
				t.Errorf("RouteAddress() returned a message on error")
			}
		})
	}

	var nre *NoRouteError
	_, err := d.RouteAddress("/a/b", nil)
	if !errors.As(err, &nre) || nre.Address != "/a/b" {
		t.Errorf("RouteAddress() error = %#v, want *NoRouteError for /a/b", err)
	}
	if obs.malformed != 2 || obs.unmatched != 4 {
		t.Errorf("observer got malformed = %d, unmatched = %d", obs.malformed, obs.unmatched)
	}
}

func TestDispatcher_RoundTrip(t *testing.T) {
	type voice struct {
		Renderer uint   `osc:"rid"`
		Voice    int64  `osc:"#1"`
		Name     string `osc:"name"`
		On       bool   `osc:"on"`
		Level    int32  `osc:"level"`
		Port     uint32 `osc:"port"`
	}
	tbl := MustTable(
		DeclareVariant("/r/{rid:uint}/v/{int64}/{name}/{on:bool}/{level:int32}/{port:uint32}", voice{}),
		Declare("Plain", "/p/{n:int}/{f:float}"),
	)
	d := NewDispatcher(tbl)

	for _, addr := range []string{
		"/r/4/v/-9000000000/lead/true/-3/57120",
		"/p/12/0.25",
	} {
		m1, err := d.RouteAddress(addr, []interface{}{"payload"})
		if err != nil {
			t.Fatalf("RouteAddress(%q) error = %v", addr, err)
		}
		rendered, err := m1.Address()
		if err != nil {
			t.Fatalf("Address() error = %v", err)
		}
		m2, err := d.RouteAddress(rendered, nil)
		if err != nil {
			t.Fatalf("RouteAddress(%q) error = %v", rendered, err)
		}
		if !m1.Equal(m2) {
			t.Errorf("round trip of %q gave %v, want %v", addr, m2, m1)
		}

		if m1.Route.VariantType() == nil {
			continue
		}
		v, err := m1.Variant()
		if err != nil {
			t.Fatalf("Variant() error = %v", err)
		}
		fromVariant, err := tbl.Render(&v)
		if err == nil {
			t.Errorf("Render() of *interface{} should fail, got %q", fromVariant)
		}
		fromVariant, err = tbl.Render(v)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if fromVariant != addr {
			t.Errorf("Render() got = %q, want %q", fromVariant, addr)
		}
	}
}

func TestDispatcher_Params(t *testing.T) {
	d := NewDispatcher(MustTable(Declare("V", "/r/{rid:uint}/{int}")))
	msg, err := d.RouteAddress("/r/2/5", nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"rid": uint(2), "#1": 5}
	if got := msg.Params(); !reflect.DeepEqual(got, want) {
		t.Errorf("Params() got = %v, want %v", got, want)
	}
	if v, ok := msg.Param("#1"); !ok || v != 5 {
		t.Errorf("Param(#1) got = %v, %v", v, ok)
	}
	if _, ok := msg.Param("missing"); ok {
		t.Errorf("Param(missing) should fail")
	}

	// Untyped routes return the message itself.
	v, err := msg.Variant()
	if err != nil || v != msg {
		t.Errorf("Variant() got = %v, %v", v, err)
	}
}

func TestDispatcher_RoutePacket(t *testing.T) {
	d := NewDispatcher(synthTable(t))

	b := osc.NewBundle(
		osc.NewMessage("/synth/1/freq", float32(220)),
		osc.NewBundle(osc.NewMessage("/synth/2/gate", true)),
		osc.NewMessage("/synth/3/freq", float32(440)),
	)
	msgs, err := d.RoutePacket(b)
	if err != nil {
		t.Fatalf("RoutePacket() error = %v", err)
	}
	var got []string
	for _, m := range msgs {
		addr, _ := m.Address()
		got = append(got, m.Name()+" "+addr)
	}
	want := []string{"setFreq /synth/1/freq", "setGate /synth/2/gate", "setFreq /synth/3/freq"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RoutePacket() got = %q, want %q", got, want)
	}

	data, err := b.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	msgs, err = d.RouteBytes(data)
	if err != nil || len(msgs) != 3 {
		t.Errorf("RouteBytes() got %d messages, error = %v", len(msgs), err)
	}

	bad := osc.NewBundle(osc.NewMessage("/synth/1/freq"), osc.NewMessage("/nope"))
	msgs, err = d.RoutePacket(bad)
	if !errors.Is(err, ErrNoRouteMatched) || msgs != nil {
		t.Errorf("RoutePacket() got = %v, error = %v", msgs, err)
	}

	if _, err := d.RouteBytes([]byte{1, 2, 3}); err == nil {
		t.Errorf("RouteBytes() of garbage should fail")
	}
}

func TestDispatcher_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	d := NewDispatcher(MustTable(
		Declare("ByID", "/v/{id:int}"),
		Declare("ByName", "/v/{name}"),
	), WithLogger(logger))

	if _, err := d.RouteAddress("/v/lead", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := d.RouteAddress("/w", nil); err == nil {
		t.Fatal("RouteAddress(/w) should fail")
	}

	out := buf.String()
	for _, want := range []string{`"route":"ByID"`, "capture conversion failed", "no route matched", `"address":"/w"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}

func TestDispatcher_Concurrent(t *testing.T) {
	obs := newCountingObserver()
	d := NewDispatcher(synthTable(t), WithObserver(obs))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := d.RouteAddress("/synth/3/freq", nil); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if obs.routed["setFreq"] != 800 {
		t.Errorf("routed got = %d, want 800", obs.routed["setFreq"])
	}
}

func TestMessage_VariantArguments(t *testing.T) {
	type rest struct {
		ID   int           `osc:"id"`
		Args []interface{} `oscarg:"*"`
	}
	type widened struct {
		ID    int     `osc:"id"`
		Level float64 `oscarg:"0"`
		Count int     `oscarg:"1"`
	}
	type narrow struct {
		ID int     `osc:"id"`
		U  uint    `oscarg:"0"`
		B  int8    `oscarg:"1"`
		F  float32 `oscarg:"2"`
	}
	d := NewDispatcher(MustTable(
		DeclareVariant("/rest/{id:int}", rest{}),
		DeclareVariant("/w/{id:int}", widened{}),
		DeclareVariant("/n/{id:int}", narrow{}),
		DeclareVariant("/synth/{id:int}/freq", setFreq{}),
	))

	v, err := d.Decode("/rest/1", []interface{}{"a", int32(2)})
	if err != nil {
		t.Fatal(err)
	}
	if want := (rest{ID: 1, Args: []interface{}{"a", int32(2)}}); !reflect.DeepEqual(v, want) {
		t.Errorf("Decode() got = %#v, want %#v", v, want)
	}

	v, err = d.Decode("/w/1", []interface{}{float32(0.5), int32(4)})
	if err != nil {
		t.Fatal(err)
	}
	if want := (widened{ID: 1, Level: 0.5, Count: 4}); v != want {
		t.Errorf("Decode() got = %#v, want %#v", v, want)
	}

	tests := []struct {
		name string
		args []interface{}
	}{
		{"missing", nil},
		{"float_to_int", []interface{}{float32(0.5), float32(4)}},
		{"string_to_float", []interface{}{"x", int32(4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Decode("/w/1", tt.args)
			if !errors.Is(err, ErrArgumentMismatch) {
				t.Errorf("Decode() error = %v, want ErrArgumentMismatch", err)
			}
		})
	}

	v, err = d.Decode("/n/1", []interface{}{int32(7), int64(-128), 1.5})
	if err != nil {
		t.Fatal(err)
	}
	if want := (narrow{ID: 1, U: 7, B: -128, F: 1.5}); v != want {
		t.Errorf("Decode() got = %#v, want %#v", v, want)
	}

	overflow := []struct {
		name  string
		args  []interface{}
		index int
	}{
		{"negative_to_unsigned", []interface{}{int32(-1), int32(0), float32(0)}, 0},
		{"too_large_for_int8", []interface{}{int32(0), int32(300), float32(0)}, 1},
		{"too_small_for_int8", []interface{}{int32(0), int64(-129), float32(0)}, 1},
		{"unsigned_too_large_for_int8", []interface{}{int32(0), uint32(128), float32(0)}, 1},
		{"too_large_for_float32", []interface{}{int32(0), int32(0), 1e300}, 2},
	}
	for _, tt := range overflow {
		t.Run(tt.name, func(t *testing.T) {
			v, err := d.Decode("/n/1", tt.args)
			var ae *ArgumentError
			if !errors.As(err, &ae) || ae.Index != tt.index {
				t.Errorf("Decode() got = %#v, error = %v, want *ArgumentError for argument %d", v, err, tt.index)
			}
		})
	}

	// Routing itself never looks at the arguments.
	msg, err := d.RouteAddress("/synth/1/freq", []interface{}{"not a number"})
	if err != nil || msg.Name() != "setFreq" {
		t.Errorf("RouteAddress() got = %v, error = %v", msg, err)
	}
}

func BenchmarkDispatcher_Route(b *testing.B) {
	tbl := MustTable(
		Declare("A", "/mixer/{ch:int}/mute"),
		Declare("B", "/mixer/{ch:int}/gain"),
		Declare("C", "/synth/{id:int}/gate"),
		DeclareVariant("/synth/{id:int}/freq", setFreq{}),
	)
	d := NewDispatcher(tbl)
	p := mustPath(b, "/synth/3/freq")
	args := []interface{}{float32(440)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Route(p, args); err != nil {
			b.Fatal(err)
		}
	}
}
