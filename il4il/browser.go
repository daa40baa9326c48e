package il4il

import (
	"github.com/il4il/il4il-go/errors"
)

// Browser is the immutable, read-optimized view of a validated module. It
// is only obtainable through Module.Validate; there is no way to fabricate
// one from raw bytes without going through decode and validation.
//
// A Browser is safe for unlimited concurrent readers: nothing mutates it
// after validation completes.
type Browser struct {
	major uint8
	minor uint8

	metadata   []MetadataEntry
	symbols    []SymbolAssignment
	types      []TypeTag
	signatures []Signature
	entryPoint *uint32
	imports    []ModuleName
	raw        []RawSection
}

// FormatVersion returns the validated module's format version pair.
func (b *Browser) FormatVersion() (major, minor uint8) {
	return b.major, b.minor
}

// MetadataCount returns the number of metadata entries.
func (b *Browser) MetadataCount() int {
	return len(b.metadata)
}

// MetadataAt returns the metadata entry at the given index, in original
// insertion order.
func (b *Browser) MetadataAt(index int) (MetadataEntry, error) {
	if index < 0 || index >= len(b.metadata) {
		return MetadataEntry{}, errors.OutOfRange(errors.PhaseBrowse, []string{"metadata"}, index, len(b.metadata))
	}
	return b.metadata[index], nil
}

// CopyMetadataTo copies metadata entries into dst in insertion order and
// returns the number copied.
func (b *Browser) CopyMetadataTo(dst []MetadataEntry) int {
	return copy(dst, b.metadata)
}

// Name returns the module's name if a name metadata entry exists.
func (b *Browser) Name() (Identifier, bool) {
	for _, e := range b.metadata {
		if e.Kind() == MetadataName {
			name, err := e.AsName()
			if err == nil {
				return name, true
			}
		}
	}
	return Identifier{}, false
}

// Symbols returns the module's symbol assignments.
func (b *Browser) Symbols() []SymbolAssignment {
	return b.symbols
}

// Types returns the module's type section contents.
func (b *Browser) Types() []TypeTag {
	return b.types
}

// Signatures returns the module's function signatures.
func (b *Browser) Signatures() []Signature {
	return b.signatures
}

// EntryPoint returns the entry point function index, if one is declared.
func (b *Browser) EntryPoint() (uint32, bool) {
	if b.entryPoint == nil {
		return 0, false
	}
	return *b.entryPoint, true
}

// Imports returns the names of modules this module depends on.
func (b *Browser) Imports() []ModuleName {
	return b.imports
}

// Encode serializes the validated module back to binary form. Section
// grouping follows the browser's normalized layout: one section per
// populated kind, in kind order, with preserved raw sections last.
func (b *Browser) Encode() ([]byte, error) {
	return encodeModule(b.sections(), b.major, b.minor)
}

func (b *Browser) sections() []Section {
	var sections []Section
	if len(b.metadata) > 0 {
		sections = append(sections, &MetadataSection{Entries: b.metadata})
	}
	if len(b.symbols) > 0 {
		sections = append(sections, &SymbolSection{Assignments: b.symbols})
	}
	if len(b.types) > 0 {
		sections = append(sections, &TypeSection{Types: b.types})
	}
	if len(b.signatures) > 0 {
		sections = append(sections, &FunctionSignatureSection{Signatures: b.signatures})
	}
	if b.entryPoint != nil {
		sections = append(sections, &EntryPointSection{Function: *b.entryPoint})
	}
	if len(b.imports) > 0 {
		sections = append(sections, &ModuleImportSection{Names: b.imports})
	}
	for i := range b.raw {
		sections = append(sections, &b.raw[i])
	}
	return sections
}
