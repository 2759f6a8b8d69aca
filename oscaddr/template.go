package oscaddr

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind distinguishes literal segments from captures.
type SegmentKind int

const (
	Literal SegmentKind = iota
	Capture
)

// Segment is a single matcher of a Template. A Literal matches a path
// segment with exactly the same text; a Capture matches any non-empty
// segment and converts it with Type.
type Segment struct {
	Kind SegmentKind
	Text string      // literal text
	Name string      // capture field name, empty for anonymous captures
	Type CaptureType // capture type
}

func (s Segment) String() string {
	if s.Kind == Literal {
		return s.Text
	}
	if s.Name == "" {
		return "{" + string(s.Type) + "}"
	}
	if s.Type == TypeString && !CaptureType(s.Name).Valid() {
		return "{" + s.Name + "}"
	}
	return "{" + s.Name + ":" + string(s.Type) + "}"
}

// Template is a fixed-length sequence of segment matchers. Templates are
// immutable and safe for concurrent use.
type Template struct {
	segments []Segment
	captures []int // indexes into segments, in order
	fields   []string
}

// ParseTemplate parses a route pattern such as "/synth/{id:int}/freq".
//
// A capture occupies a whole segment and is written as {name:type}, {name}
// (a string capture) or {type} for an anonymous capture of a known type,
// which can only be addressed by position ("#0", "#1", ...).
func ParseTemplate(pattern string) (*Template, error) {
	p, err := ParsePath(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTemplate, pattern, err)
	}

	t := &Template{segments: make([]Segment, 0, p.Len())}
	seen := make(map[string]bool)
	for _, raw := range p.segments {
		seg, err := parseSegment(raw)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidTemplate, pattern, err)
		}
		if seg.Kind == Capture {
			if seg.Name != "" {
				if seen[seg.Name] {
					return nil, fmt.Errorf("%w %q: duplicate capture name %q", ErrInvalidTemplate, pattern, seg.Name)
				}
				seen[seg.Name] = true
			}
			t.captures = append(t.captures, len(t.segments))
			t.fields = append(t.fields, seg.Name)
		}
		t.segments = append(t.segments, seg)
	}

	return t, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(pattern string) *Template {
	t, err := ParseTemplate(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

func parseSegment(raw string) (Segment, error) {
	if !strings.HasPrefix(raw, "{") {
		if strings.ContainsAny(raw, "{}") {
			return Segment{}, fmt.Errorf("segment %q: captures must span the whole segment", raw)
		}
		return Segment{Kind: Literal, Text: raw}, nil
	}

	if !strings.HasSuffix(raw, "}") || strings.Count(raw, "{") != 1 || strings.Count(raw, "}") != 1 {
		return Segment{}, fmt.Errorf("segment %q: unbalanced braces", raw)
	}

	inner := raw[1 : len(raw)-1]
	if inner == "" {
		return Segment{}, fmt.Errorf("segment %q: empty capture", raw)
	}

	name, typ, hasType := strings.Cut(inner, ":")
	switch {
	case hasType:
		if name == "" {
			return Segment{}, fmt.Errorf("segment %q: empty capture name", raw)
		}
		ct := CaptureType(typ)
		if !ct.Valid() {
			return Segment{}, fmt.Errorf("segment %q: unknown capture type %q", raw, typ)
		}
		return Segment{Kind: Capture, Name: name, Type: ct}, nil

	case CaptureType(name).Valid():
		return Segment{Kind: Capture, Type: CaptureType(name)}, nil

	default:
		if strings.HasPrefix(name, "#") {
			return Segment{}, fmt.Errorf("segment %q: capture names may not start with '#'", raw)
		}
		return Segment{Kind: Capture, Name: name, Type: TypeString}, nil
	}
}

// Len returns the number of segments.
func (t *Template) Len() int { return len(t.segments) }

// Segments returns a copy of the matcher sequence.
func (t *Template) Segments() []Segment {
	s := make([]Segment, len(t.segments))
	copy(s, t.segments)
	return s
}

// Fields returns the capture field names in declaration order. Anonymous
// captures have an empty name.
func (t *Template) Fields() []string {
	f := make([]string, len(t.fields))
	copy(f, t.fields)
	return f
}

// NumCaptures returns the number of capture segments.
func (t *Template) NumCaptures() int { return len(t.captures) }

// CaptureAt returns the i-th capture segment.
func (t *Template) CaptureAt(i int) Segment { return t.segments[t.captures[i]] }

// captureIndex resolves a field reference, either a capture name or "#N".
func (t *Template) captureIndex(ref string) (int, bool) {
	if strings.HasPrefix(ref, "#") {
		i, err := strconv.Atoi(ref[1:])
		if err != nil || i < 0 || i >= len(t.captures) {
			return 0, false
		}
		return i, true
	}
	for i, f := range t.fields {
		if f != "" && f == ref {
			return i, true
		}
	}
	return 0, false
}

// Match reports whether p has the same length as the template and every
// literal equals its segment byte for byte. On success it returns the raw
// text of every capture, in template order.
func (t *Template) Match(p Path) ([]string, bool) {
	if p.Len() != len(t.segments) {
		return nil, false
	}
	for i, seg := range t.segments {
		if seg.Kind == Literal && seg.Text != p.segments[i] {
			return nil, false
		}
	}

	texts := make([]string, len(t.captures))
	for i, idx := range t.captures {
		texts[i] = p.segments[idx]
	}
	return texts, true
}

// Convert turns captured texts into typed values. The first text that does
// not parse yields a *CaptureError wrapping ErrCaptureTypeMismatch.
func (t *Template) Convert(texts []string) ([]interface{}, error) {
	if len(texts) != len(t.captures) {
		return nil, fmt.Errorf("Convert: got %d captures, want %d", len(texts), len(t.captures))
	}

	values := make([]interface{}, len(texts))
	for i, text := range texts {
		seg := t.CaptureAt(i)
		v, err := seg.Type.Parse(text)
		if err != nil {
			return nil, &CaptureError{Field: seg.Name, Type: seg.Type, Text: text, Err: err}
		}
		values[i] = v
	}
	return values, nil
}

// Render is the inverse of Match followed by Convert: literals are written
// verbatim and each capture is replaced by its formatted value.
func (t *Template) Render(values []interface{}) (string, error) {
	if len(values) != len(t.captures) {
		return "", fmt.Errorf("Render: got %d values, want %d", len(values), len(t.captures))
	}

	var sb strings.Builder
	c := 0
	for _, seg := range t.segments {
		sb.WriteByte('/')
		if seg.Kind == Literal {
			sb.WriteString(seg.Text)
			continue
		}

		text, err := seg.Type.Format(values[c])
		if err != nil {
			return "", &CaptureError{Field: seg.Name, Type: seg.Type, Text: fmt.Sprint(values[c]), Err: err}
		}
		sb.WriteString(text)
		c++
	}
	return sb.String(), nil
}

// Equal reports whether t and o are structurally identical: the same literal
// texts and the same capture types at the same positions. Capture names are
// ignored.
func (t *Template) Equal(o *Template) bool {
	if len(t.segments) != len(o.segments) {
		return false
	}
	for i, a := range t.segments {
		b := o.segments[i]
		if a.Kind != b.Kind {
			return false
		}
		if a.Kind == Literal && a.Text != b.Text {
			return false
		}
		if a.Kind == Capture && a.Type != b.Type {
			return false
		}
	}
	return true
}

// join returns a template whose segments are t's followed by o's.
func (t *Template) join(o *Template) (*Template, error) {
	seen := make(map[string]bool, len(t.fields))
	for _, f := range t.fields {
		if f != "" {
			seen[f] = true
		}
	}
	for _, f := range o.fields {
		if f != "" && seen[f] {
			return nil, fmt.Errorf("%w %q: duplicate capture name %q", ErrInvalidTemplate, t.String()+o.String(), f)
		}
	}

	j := &Template{segments: make([]Segment, 0, len(t.segments)+len(o.segments))}
	for _, seg := range append(t.Segments(), o.segments...) {
		if seg.Kind == Capture {
			j.captures = append(j.captures, len(j.segments))
			j.fields = append(j.fields, seg.Name)
		}
		j.segments = append(j.segments, seg)
	}
	return j, nil
}

// String returns the template in pattern syntax.
func (t *Template) String() string {
	var sb strings.Builder
	for _, seg := range t.segments {
		sb.WriteByte('/')
		sb.WriteString(seg.String())
	}
	return sb.String()
}
