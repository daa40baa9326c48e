// Package il4ilgo provides a Go implementation of the IL4IL intermediate
// language module format.
//
// IL4IL modules are binary containers: a magic number and format version
// followed by length-prefixed sections holding metadata, symbols, types,
// function signatures, entry points, and module imports. The length prefix
// makes every section skippable, so readers stay compatible with kinds they
// do not understand.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	il4il-go/
//	├── il4il/       Core module builder, binary codec, validation, browser
//	├── disasm/      Textual listings of module contents
//	├── capi/        Handle-based surface for foreign-function bindings
//	└── errors/      Structured error types for debugging
//
// # Quick Start
//
// Build, validate, and serialize a module:
//
//	m := il4il.NewModule()
//	name, err := il4il.NewIdentifier("my_module")
//	if err != nil {
//	    return err
//	}
//	if err := m.AddMetadataName(name); err != nil {
//	    return err
//	}
//	data, err := m.Encode()
//	if err != nil {
//	    return err
//	}
//	browser, err := m.Validate() // consumes m
//	if err != nil {
//	    return err
//	}
//
// Read one back:
//
//	m, err := il4il.ReadModuleFile("my_module.il4il")
//	if err != nil {
//	    return err
//	}
//	browser, err := m.Validate()
package il4ilgo
