// Package il4il provides IL4IL binary module construction, validation, and
// encoding.
//
// IL4IL is an intermediate-language container format: a module is an
// ordered list of sections (metadata, symbols, types, function signatures,
// entry point, module imports) serialized behind a fixed magic number and
// an explicit major.minor format version. All counts and lengths use the
// VarU28 variable-length integer, and every section carries a byte-length
// prefix so readers can skip kinds they do not understand.
//
// # Building
//
// A Module is a mutable builder:
//
//	m := il4il.NewModule()
//	name, _ := il4il.NewIdentifier("MyModule")
//	m.AddMetadataName(name)
//	data, err := m.Encode()
//
// # Validation
//
// Validate consumes the builder and yields an immutable Browser; the
// builder is unusable afterward:
//
//	browser, err := m.Validate()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n := browser.MetadataCount()
//
// # Decoding
//
// ParseModule decodes binary back into a builder, never directly into a
// Browser:
//
//	m, err := il4il.ParseModule(data)
//
// Round-tripping a builder through Encode and ParseModule preserves the
// encoded bytes exactly.
package il4il
