package oscaddr

import "strings"

// Path is a parsed OSC address: an ordered sequence of non-empty segments
// rooted at "/". A Path is immutable once parsed.
type Path struct {
	raw      string
	segments []string
}

// ParsePath splits raw on '/' into a Path. The address must start with '/'
// and must not contain empty segments, so "", "/", "/a/" and "/a//b" are all
// rejected with an *AddressError wrapping ErrMalformedAddress. Segments are
// not trimmed.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return Path{}, &AddressError{Address: raw, Reason: "empty address"}
	}
	if raw[0] != '/' {
		return Path{}, &AddressError{Address: raw, Reason: "address must start with '/'"}
	}

	segments := strings.Split(raw[1:], "/")
	for i, s := range segments {
		if s == "" {
			return Path{}, &AddressError{Address: raw, Reason: emptySegmentReason(i, len(segments))}
		}
	}

	return Path{raw: raw, segments: segments}, nil
}

func emptySegmentReason(i, n int) string {
	switch {
	case n == 1:
		return "address has no segments"
	case i == n-1:
		return "trailing '/'"
	default:
		return "empty segment"
	}
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segments) }

// Segment returns the i-th segment.
func (p Path) Segment(i int) string { return p.segments[i] }

// Segments returns a copy of the segments.
func (p Path) Segments() []string {
	s := make([]string, len(p.segments))
	copy(s, p.segments)
	return s
}

// String returns the segments joined with '/' behind a leading '/'.
func (p Path) String() string {
	if p.raw != "" {
		return p.raw
	}
	return joinSegments(p.segments)
}

func joinSegments(segments []string) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(s)
	}
	return sb.String()
}
