package il4il

import (
	"github.com/il4il/il4il-go/errors"
)

// ValidationOptions configure the structural rules applied by Validate.
type ValidationOptions struct {
	// AllowMultipleNames permits more than one module name metadata entry.
	// The default enforces at most one.
	AllowMultipleNames bool
}

// Validate checks the module's structural and semantic rules and, on
// success, consumes the builder into an immutable Browser.
//
// Validation is total: it either fully succeeds or fully fails, and the
// builder is unusable afterward in both cases. Exactly one concurrent
// Validate call can win; every other operation on the module afterward
// fails with an already-consumed error.
func (m *Module) Validate() (*Browser, error) {
	return m.ValidateOptions(ValidationOptions{})
}

// ValidateOptions is Validate with explicit rule configuration.
func (m *Module) ValidateOptions(opts ValidationOptions) (*Browser, error) {
	sections, ok := m.consume()
	if !ok {
		return nil, errors.AlreadyConsumed(errors.PhaseValidate)
	}
	major, minor := m.major, m.minor

	b := &Browser{major: major, minor: minor}
	for _, s := range sections {
		switch sec := s.(type) {
		case *MetadataSection:
			b.metadata = append(b.metadata, sec.Entries...)
		case *SymbolSection:
			b.symbols = append(b.symbols, sec.Assignments...)
		case *TypeSection:
			b.types = append(b.types, sec.Types...)
		case *FunctionSignatureSection:
			b.signatures = append(b.signatures, sec.Signatures...)
		case *EntryPointSection:
			if b.entryPoint != nil {
				return nil, errors.New(errors.PhaseValidate, errors.KindValidation).
					Detail("multiple entry point sections").
					Build()
			}
			fn := sec.Function
			b.entryPoint = &fn
		case *ModuleImportSection:
			b.imports = append(b.imports, sec.Names...)
		case *RawSection:
			b.raw = append(b.raw, *sec)
		}
	}

	if err := validateMetadata(b.metadata, opts); err != nil {
		return nil, err
	}
	if err := validateSymbols(b.symbols); err != nil {
		return nil, err
	}
	if err := validateSignatures(b.signatures, len(b.types)); err != nil {
		return nil, err
	}
	if err := validateEntryPoint(b.entryPoint, len(b.signatures)); err != nil {
		return nil, err
	}
	return b, nil
}

func validateMetadata(entries []MetadataEntry, opts ValidationOptions) error {
	names := 0
	for i, e := range entries {
		switch e.Kind() {
		case MetadataName:
			name, err := e.AsName()
			if err != nil {
				return err
			}
			// Construction already guarantees validity; re-checked here so
			// a zero-value entry smuggled in through struct literals still
			// fails closed.
			if name.IsZero() {
				return errors.New(errors.PhaseValidate, errors.KindInvalidIdentifier).
					Path("metadata").
					Detail("name entry %d holds an invalid identifier", i).
					Build()
			}
			names++
		default:
			return errors.New(errors.PhaseValidate, errors.KindValidation).
				Path("metadata").
				Detail("unknown metadata kind %d", e.Kind()).
				Build()
		}
	}
	if names > 1 && !opts.AllowMultipleNames {
		return errors.New(errors.PhaseValidate, errors.KindValidation).
			Path("metadata").
			Detail("module declares %d names, at most one is allowed", names).
			Build()
	}
	return nil
}

func validateSymbols(assignments []SymbolAssignment) error {
	seen := make(map[SymbolKind]map[string]struct{})
	for _, a := range assignments {
		kindSeen := seen[a.SymbolKind]
		if kindSeen == nil {
			kindSeen = make(map[string]struct{})
			seen[a.SymbolKind] = kindSeen
		}
		for _, sym := range a.Symbols {
			if sym.Name.IsZero() {
				return errors.New(errors.PhaseValidate, errors.KindInvalidIdentifier).
					Path("symbols").
					Detail("symbol binding holds an invalid identifier").
					Build()
			}
			if _, dup := kindSeen[sym.Name.String()]; dup {
				return errors.DuplicateSymbol(sym.Name.String())
			}
			kindSeen[sym.Name.String()] = struct{}{}
		}
	}
	return nil
}

func validateSignatures(signatures []Signature, typeCount int) error {
	for i, sig := range signatures {
		for _, idx := range sig.Results {
			if int(idx) >= typeCount {
				return indexError("function signature", i, idx, typeCount)
			}
		}
		for _, idx := range sig.Params {
			if int(idx) >= typeCount {
				return indexError("function signature", i, idx, typeCount)
			}
		}
	}
	return nil
}

func validateEntryPoint(entry *uint32, signatureCount int) error {
	if entry == nil {
		return nil
	}
	if int(*entry) >= signatureCount {
		return errors.New(errors.PhaseValidate, errors.KindValidation).
			Path("entry point").
			Detail("function index %d exceeds signature count %d", *entry, signatureCount).
			Build()
	}
	return nil
}

func indexError(where string, element int, index uint32, length int) error {
	return errors.New(errors.PhaseValidate, errors.KindValidation).
		Path(where).
		Detail("element %d references type index %d, only %d types are defined", element, index, length).
		Value(index).
		Build()
}
