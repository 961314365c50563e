// Package schematic materializes and validates typed instance graphs from
// parsed JSON using declarative, per-type schemas.
//
// - A Scope is an isolated registry of types; Register freezes a Schema under a name
// - Type expressions: "string|undefined", "Item[]", "(Label|integer[])|null", regular expressions
// - Descriptor.New materializes an Instance; Instance.Validate re-checks it in place
// - Errors either abort the walk (*Error) or accumulate in a Context (Issues) with a recovery value
// - Property order is either preserved from input or normalized to schema order
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Schema catalogs live under catalog/, leaf formats under formats/, and the CLI under cmd/schematic.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := schematic.NewScope()
//	s.Register("Digits", schematic.Schema{Regex: regexp.MustCompile(`^[0-9]+$`)})
//	s.Register("Item", schematic.Fields("id", "integer", "label", "string|undefined"))
//	item, _ := s.Lookup("Item")
//	inst, err := item.NewFromJSON(data)
//
//	ctx := schematic.Collect(schematic.RecoverValue)
//	inst, _ = item.New(raw, ctx)
//	for _, it := range ctx.Issues() { fmt.Println(it.Describe()) }
package schematic
