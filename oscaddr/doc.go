/*
Package oscaddr routes OSC address strings to typed message variants and
renders variants back into addresses.

A route table is declared once, in order:

	type SetFreq struct {
		ID int     `osc:"id"`
		Hz float32 `oscarg:"0"`
	}

	var routes = oscaddr.MustTable(
		oscaddr.DeclareVariant("/synth/{id:int}/freq", SetFreq{}),
		oscaddr.Declare("Gate", "/synth/{id:int}/gate"),
	)

Prefix nests a group of declarations under a common template, and
ParseDeclarations reads untyped declarations from YAML.

Captures are written {name:type}, {name} for strings, or {type} for an
anonymous capture referred to as "#N". Supported types are string, int,
int32, int64, uint, uint32, float32, float and bool.

Dispatch scans the table in declaration order. The first route whose
literals match and whose captures all convert wins; a route whose capture
text does not convert is skipped, not reported:

	d := oscaddr.NewDispatcher(routes)
	msg, err := d.RouteAddress("/synth/3/freq", []interface{}{float32(440)})
	v, err := msg.Variant() // SetFreq{ID: 3, Hz: 440}

Rendering is the inverse:

	addr, err := routes.Render(SetFreq{ID: 3}) // "/synth/3/freq"

Tables are immutable and Dispatchers are safe for concurrent use.
*/
package oscaddr
