package il4il

import (
	"sync"

	"github.com/il4il/il4il-go/errors"
)

// Module is a mutable, in-progress IL4IL module: an ordered sequence of
// sections accumulated before serialization or validation.
//
// A Module has single-writer semantics; concurrent mutation must be
// serialized by the caller. Consumption by Validate is atomic: exactly one
// concurrent Validate call wins and every later operation observes an
// already-consumed error.
type Module struct {
	mu       sync.Mutex
	consumed bool

	major    uint8
	minor    uint8
	sections []Section
}

// NewModule creates an empty module using the current format version.
func NewModule() *Module {
	return &Module{major: CurrentMajor, minor: CurrentMinor}
}

// FormatVersion returns the module's binary format version pair.
func (m *Module) FormatVersion() (major, minor uint8) {
	return m.major, m.minor
}

// Sections returns the module's sections in insertion order. The returned
// slice is shared; callers must not mutate it while other goroutines use
// the module.
func (m *Module) Sections() ([]Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumed {
		return nil, errors.AlreadyConsumed(errors.PhaseBrowse)
	}
	return m.sections, nil
}

// AddMetadataName appends a Name metadata entry to the module's trailing
// metadata section, creating one if the last section is not a metadata
// section.
func (m *Module) AddMetadataName(name Identifier) error {
	if name.IsZero() {
		return errors.InvalidIdentifier(errors.PhaseBuild, "zero-value identifier")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumed {
		return errors.AlreadyConsumed(errors.PhaseBuild)
	}

	if n := len(m.sections); n > 0 {
		if md, ok := m.sections[n-1].(*MetadataSection); ok {
			md.Entries = append(md.Entries, NameEntry(name))
			return nil
		}
	}
	m.sections = append(m.sections, &MetadataSection{Entries: []MetadataEntry{NameEntry(name)}})
	return nil
}

// AddSection appends a section to the module.
func (m *Module) AddSection(s Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumed {
		return errors.AlreadyConsumed(errors.PhaseBuild)
	}
	m.sections = append(m.sections, s)
	return nil
}

// AddSymbols appends a symbol section with the given assignments.
func (m *Module) AddSymbols(assignments ...SymbolAssignment) error {
	return m.AddSection(&SymbolSection{Assignments: assignments})
}

// AddTypes appends a type section.
func (m *Module) AddTypes(types ...TypeTag) error {
	for _, t := range types {
		if !t.Valid() {
			return errors.New(errors.PhaseBuild, errors.KindValidation).
				Detail("unknown type tag 0x%02X", byte(t)).
				Build()
		}
	}
	return m.AddSection(&TypeSection{Types: types})
}

// AddFunctionSignatures appends a function signature section.
func (m *Module) AddFunctionSignatures(signatures ...Signature) error {
	return m.AddSection(&FunctionSignatureSection{Signatures: signatures})
}

// SetEntryPoint appends an entry point section naming a function index.
func (m *Module) SetEntryPoint(function uint32) error {
	return m.AddSection(&EntryPointSection{Function: function})
}

// AddModuleImport appends a module import section naming required modules.
func (m *Module) AddModuleImport(names ...ModuleName) error {
	return m.AddSection(&ModuleImportSection{Names: names})
}

// consume atomically marks the module consumed and takes its sections.
// The second result is false if the module was already consumed.
func (m *Module) consume() ([]Section, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumed {
		return nil, false
	}
	m.consumed = true
	sections := m.sections
	m.sections = nil
	return sections, true
}

// snapshot returns the sections for serialization without consuming.
func (m *Module) snapshot() ([]Section, uint8, uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumed {
		return nil, 0, 0, errors.AlreadyConsumed(errors.PhaseEncode)
	}
	return m.sections, m.major, m.minor, nil
}

// Section is one module section. The set of implementations is closed:
// MetadataSection, SymbolSection, TypeSection, FunctionSignatureSection,
// EntryPointSection, ModuleImportSection, and RawSection for kinds this
// reader preserves without decoding.
type Section interface {
	Kind() SectionKind
}

// MetadataSection carries descriptive facts about the module.
type MetadataSection struct {
	Entries []MetadataEntry
}

// Kind implements Section.
func (*MetadataSection) Kind() SectionKind { return SectionMetadata }

// MetadataEntry is a closed tagged variant describing one metadata fact.
// Callers switch on Kind and then request the kind-specific payload.
type MetadataEntry struct {
	kind MetadataKind
	name Identifier
}

// NameEntry creates a module name metadata entry.
func NameEntry(name Identifier) MetadataEntry {
	return MetadataEntry{kind: MetadataName, name: name}
}

// Kind returns the entry's discriminant.
func (e MetadataEntry) Kind() MetadataKind {
	return e.kind
}

// AsName returns the module name payload, or a wrong-kind error when the
// entry is not a name.
func (e MetadataEntry) AsName() (Identifier, error) {
	if e.kind != MetadataName {
		return Identifier{}, errors.WrongKind(errors.PhaseBrowse, MetadataName.String(), e.kind.String())
	}
	return e.name, nil
}

// ModuleName names a module, either this one (metadata) or a dependency
// (module import section). Version numbers are reserved by the format and
// always encode as an empty list.
type ModuleName struct {
	Name Identifier
}

// SymbolSection assigns names to indexed module contents.
type SymbolSection struct {
	Assignments []SymbolAssignment
}

// Kind implements Section.
func (*SymbolSection) Kind() SectionKind { return SectionSymbol }

// SymbolAssignment binds a group of symbols of one kind to targets in one
// index space.
type SymbolAssignment struct {
	SymbolKind SymbolKind
	TargetKind SymbolTargetKind
	Symbols    []SymbolBinding
}

// SymbolBinding is a single name-to-index pair.
type SymbolBinding struct {
	Name   Identifier
	Target uint32
}

// TypeSection stores commonly used types referenced by index elsewhere in
// the module.
type TypeSection struct {
	Types []TypeTag
}

// Kind implements Section.
func (*TypeSection) Kind() SectionKind { return SectionType }

// FunctionSignatureSection stores parameter and result types of functions.
type FunctionSignatureSection struct {
	Signatures []Signature
}

// Kind implements Section.
func (*FunctionSignatureSection) Kind() SectionKind { return SectionFunctionSignature }

// Signature lists result and parameter types as type section indices.
type Signature struct {
	Results []uint32
	Params  []uint32
}

// EntryPointSection designates the module's entry point function.
type EntryPointSection struct {
	Function uint32
}

// Kind implements Section.
func (*EntryPointSection) Kind() SectionKind { return SectionEntryPoint }

// ModuleImportSection lists modules this module depends on.
type ModuleImportSection struct {
	Names []ModuleName
}

// Kind implements Section.
func (*ModuleImportSection) Kind() SectionKind { return SectionModuleImport }

// RawSection preserves a section whose kind this reader does not decode.
// The byte-length prefix in the format makes such sections skippable; they
// round-trip through encode unchanged.
type RawSection struct {
	SectionKind SectionKind
	Data        []byte
}

// Kind implements Section.
func (s *RawSection) Kind() SectionKind { return s.SectionKind }
