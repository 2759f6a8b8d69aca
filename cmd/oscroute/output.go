package main

import (
	"io"
	"math"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/chabad360/go-oscaddr/oscaddr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// routeResult is the JSON form of a routed message.
type routeResult struct {
	Route     string                 `json:"route"`
	Template  string                 `json:"template"`
	Captures  map[string]interface{} `json:"captures"`
	Arguments []interface{}          `json:"arguments"`
	Address   string                 `json:"address"`
}

func newRouteResult(m *oscaddr.Message) (routeResult, error) {
	addr, err := m.Address()
	if err != nil {
		return routeResult{}, err
	}
	captures := m.Params()
	for k, v := range captures {
		captures[k] = jsonValue(v)
	}
	args := make([]interface{}, len(m.Arguments))
	for i, a := range m.Arguments {
		args[i] = jsonValue(a)
	}
	return routeResult{
		Route:     m.Name(),
		Template:  m.Route.Template.String(),
		Captures:  captures,
		Arguments: args,
		Address:   addr,
	}, nil
}

// jsonValue replaces NaN and infinite floats, which JSON cannot represent,
// with their text form.
func jsonValue(v interface{}) interface{} {
	switch f := v.(type) {
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// inferArgs converts command line arguments into OSC arguments: int32,
// finite float32, true/false, and strings for everything else.
func inferArgs(texts []string) []interface{} {
	if len(texts) == 0 {
		return nil
	}
	args := make([]interface{}, len(texts))
	for i, s := range texts {
		args[i] = inferArg(s)
	}
	return args
}

func inferArg(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(n)
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return float32(f)
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
