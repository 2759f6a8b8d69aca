package oscaddr

import (
	"fmt"
	"reflect"
)

// Declaration pairs a variant identity with its address pattern. An optional
// prototype struct value makes the variant typed: dispatch results can then
// be bound into a new value of that type, and values of that type rendered.
type Declaration struct {
	Name    string
	Pattern string
	Variant interface{}

	prefixes []string
}

// Declare returns an untyped declaration.
func Declare(name, pattern string) Declaration {
	return Declaration{Name: name, Pattern: pattern}
}

// DeclareVariant returns a declaration bound to the struct type of prototype.
// The variant name is the struct type name.
func DeclareVariant(pattern string, prototype interface{}) Declaration {
	name := ""
	if typ := reflect.TypeOf(prototype); typ != nil {
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		name = typ.Name()
	}
	return Declaration{Name: name, Pattern: pattern, Variant: prototype}
}

// Prefix nests decls under prefix: every resulting template is the prefix
// template followed by the declaration's own template. Prefixes compose, and
// an invalid prefix is reported by NewTable.
func Prefix(prefix string, decls ...Declaration) []Declaration {
	out := make([]Declaration, len(decls))
	for i, d := range decls {
		d.prefixes = append([]string{prefix}, d.prefixes...)
		out[i] = d
	}
	return out
}

func (d Declaration) template() (*Template, error) {
	t, err := ParseTemplate(d.Pattern)
	if err != nil {
		return nil, err
	}
	for i := len(d.prefixes) - 1; i >= 0; i-- {
		p, err := ParseTemplate(d.prefixes[i])
		if err != nil {
			return nil, err
		}
		if t, err = p.join(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Route is one entry of a Table.
type Route struct {
	Name     string
	Template *Template

	index  int
	binder *binder
}

// Index returns the declaration position of the route in its table.
func (r *Route) Index() int { return r.index }

// VariantType returns the struct type bound to the route, or nil.
func (r *Route) VariantType() reflect.Type {
	if r.binder == nil {
		return nil
	}
	return r.binder.typ
}

// New builds an outbound message for the route from typed capture values in
// field order. Values are checked by rendering them.
func (r *Route) New(values []interface{}, args ...interface{}) (*Message, error) {
	if _, err := r.Template.Render(values); err != nil {
		return nil, err
	}
	v := make([]interface{}, len(values))
	copy(v, values)
	return &Message{Route: r, Values: v, Arguments: args}, nil
}

func (r *Route) String() string {
	return fmt.Sprintf("%s %s", r.Name, r.Template)
}

// Table is the ordered, read-only set of routes. Declaration order decides
// which of several overlapping routes wins. A Table is never modified after
// NewTable returns and may be shared between goroutines.
type Table struct {
	routes []*Route
	byName map[string]*Route
	byType map[reflect.Type]*Route
}

// NewTable builds a Table from decls. Structurally identical templates,
// repeated names and repeated variant types fail with ErrDuplicateRoute;
// no table is returned on error.
func NewTable(decls ...Declaration) (*Table, error) {
	t := &Table{
		routes: make([]*Route, 0, len(decls)),
		byName: make(map[string]*Route, len(decls)),
		byType: make(map[reflect.Type]*Route),
	}

	for i, d := range decls {
		if d.Name == "" {
			return nil, fmt.Errorf("NewTable: declaration %d (%s): %w: missing name", i, d.Pattern, ErrInvalidVariant)
		}

		tmpl, err := d.template()
		if err != nil {
			return nil, fmt.Errorf("NewTable: %s: %w", d.Name, err)
		}

		r := &Route{Name: d.Name, Template: tmpl, index: i}

		if prev, ok := t.byName[d.Name]; ok {
			return nil, &DuplicateRouteError{First: prev.String(), Second: r.String(), Reason: "same name"}
		}
		for _, prev := range t.routes {
			if prev.Template.Equal(tmpl) {
				return nil, &DuplicateRouteError{First: prev.String(), Second: r.String(), Reason: "identical templates"}
			}
		}

		if d.Variant != nil {
			r.binder, err = compileBinder(tmpl, reflect.TypeOf(d.Variant))
			if err != nil {
				return nil, fmt.Errorf("NewTable: %s: %w", d.Name, err)
			}
			if prev, ok := t.byType[r.binder.typ]; ok {
				return nil, &DuplicateRouteError{First: prev.String(), Second: r.String(), Reason: "same variant type " + r.binder.typ.String()}
			}
			t.byType[r.binder.typ] = r
		}

		t.routes = append(t.routes, r)
		t.byName[d.Name] = r
	}

	return t, nil
}

// MustTable is like NewTable but panics on error. It is meant for package
// level route tables, where a bad declaration is a programming error.
func MustTable(decls ...Declaration) *Table {
	t, err := NewTable(decls...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of routes.
func (t *Table) Len() int { return len(t.routes) }

// Routes returns the routes in declaration order.
func (t *Table) Routes() []*Route {
	r := make([]*Route, len(t.routes))
	copy(r, t.routes)
	return r
}

// Lookup returns the route with the given variant name.
func (t *Table) Lookup(name string) (*Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// lookupType returns the route bound to the struct type of v.
func (t *Table) lookupType(typ reflect.Type) (*Route, bool) {
	r, ok := t.byType[typ]
	return r, ok
}
