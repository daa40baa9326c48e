package il4il

import (
	"bytes"
	"io"
	"os"

	"github.com/il4il/il4il-go/errors"
	"github.com/il4il/il4il-go/il4il/internal/binary"
)

// ParseModule decodes an IL4IL binary module into a fresh builder. It fails
// with a malformed-module error at the first structural violation: bad
// magic, unsupported version, truncation, varint overflow, invalid UTF-8,
// or a section body whose contents disagree with its length prefix.
//
// ParseModule never yields a Browser; decoded modules go through Validate
// like any other builder.
func ParseModule(data []byte) (*Module, error) {
	r := binary.NewBytesReader(data)

	header, err := r.ReadBytes(len(Magic))
	if err != nil {
		return nil, errors.Malformed(r.Position(), "truncated magic number")
	}
	if !bytes.Equal(header, Magic[:]) {
		return nil, errors.Malformed(0, "not an IL4IL module (bad magic number)")
	}

	version, err := r.ReadBytes(2)
	if err != nil {
		return nil, errors.Malformed(r.Position(), "truncated format version")
	}
	major, minor := version[0], version[1]
	if !versionSupported(major, minor) {
		return nil, errors.UnsupportedVersion(major, minor)
	}

	count, err := r.ReadLength()
	if err != nil {
		return nil, wrapDecodeErr(r, "section count", err)
	}

	m := &Module{major: major, minor: minor}
	for i := 0; i < count; i++ {
		s, err := parseSection(r)
		if err != nil {
			return nil, err
		}
		m.sections = append(m.sections, s)
	}

	if r.Remaining() > 0 {
		return nil, errors.Malformed(r.Position(), "trailing data after final section")
	}
	return m, nil
}

// ReadModule decodes a module from a stream.
func ReadModule(src io.Reader) (*Module, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.IO(errors.PhaseDecode, err)
	}
	return ParseModule(data)
}

// ReadModuleFile decodes a module from the named file.
func ReadModuleFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseDecode, err)
	}
	return ParseModule(data)
}

// versionSupported compares the version pair lexicographically against
// [MinimumMajor.MinimumMinor, CurrentMajor.CurrentMinor].
func versionSupported(major, minor uint8) bool {
	if major > CurrentMajor || (major == CurrentMajor && minor > CurrentMinor) {
		return false
	}
	if major < MinimumMajor || (major == MinimumMajor && minor < MinimumMinor) {
		return false
	}
	return true
}

func parseSection(r *binary.Reader) (Section, error) {
	kind, err := r.ReadByte()
	if err != nil {
		return nil, wrapDecodeErr(r, "section kind", err)
	}
	length, err := r.ReadLength()
	if err != nil {
		return nil, wrapDecodeErr(r, "section length", err)
	}
	base := r.Position()
	body, err := r.ReadBytes(length)
	if err != nil {
		return nil, errors.Malformed(r.Position(), "%s section cut off (declared %d bytes)", SectionKind(kind), length)
	}

	sr := binary.NewBytesReader(body)
	sr.SetBase(base)

	var s Section
	switch SectionKind(kind) {
	case SectionMetadata:
		s, err = parseMetadataSection(sr)
	case SectionSymbol:
		s, err = parseSymbolSection(sr)
	case SectionType:
		s, err = parseTypeSection(sr)
	case SectionFunctionSignature:
		s, err = parseSignatureSection(sr)
	case SectionEntryPoint:
		s, err = parseEntryPointSection(sr)
	case SectionModuleImport:
		s, err = parseModuleImportSection(sr)
	default:
		// Unknown kinds stay skippable: preserve the raw body so the
		// module still round-trips byte for byte.
		return &RawSection{SectionKind: SectionKind(kind), Data: body}, nil
	}
	if err != nil {
		return nil, err
	}
	if sr.Remaining() != 0 {
		return nil, errors.Malformed(sr.Position(), "%s section length mismatch (%d bytes unread)", SectionKind(kind), sr.Remaining())
	}
	return s, nil
}

func parseMetadataSection(r *binary.Reader) (Section, error) {
	count, err := r.ReadLength()
	if err != nil {
		return nil, wrapDecodeErr(r, "metadata count", err)
	}
	sec := &MetadataSection{Entries: make([]MetadataEntry, 0, count)}
	for i := 0; i < count; i++ {
		kind, err := r.ReadByte()
		if err != nil {
			return nil, wrapDecodeErr(r, "metadata kind", err)
		}
		switch MetadataKind(kind) {
		case MetadataName:
			name, err := parseModuleName(r)
			if err != nil {
				return nil, err
			}
			sec.Entries = append(sec.Entries, NameEntry(name.Name))
		default:
			return nil, errors.Malformed(r.Position(), "unknown metadata kind %d", kind)
		}
	}
	return sec, nil
}

func parseModuleName(r *binary.Reader) (ModuleName, error) {
	name, err := parseIdentifier(r)
	if err != nil {
		return ModuleName{}, err
	}
	// Reserved module version number list, must be empty.
	versions, err := r.ReadLength()
	if err != nil {
		return ModuleName{}, wrapDecodeErr(r, "module version count", err)
	}
	if versions != 0 {
		return ModuleName{}, errors.Malformed(r.Position(), "module version numbers are reserved")
	}
	return ModuleName{Name: name}, nil
}

func parseIdentifier(r *binary.Reader) (Identifier, error) {
	s, err := r.ReadName()
	if err != nil {
		return Identifier{}, wrapDecodeErr(r, "identifier", err)
	}
	id, err := NewIdentifier(s)
	if err != nil {
		return Identifier{}, errors.New(errors.PhaseDecode, errors.KindMalformedModule).
			Offset(r.Position()).
			Detail("invalid identifier").
			Cause(err).
			Build()
	}
	return id, nil
}

func parseSymbolSection(r *binary.Reader) (Section, error) {
	count, err := r.ReadLength()
	if err != nil {
		return nil, wrapDecodeErr(r, "symbol assignment count", err)
	}
	sec := &SymbolSection{Assignments: make([]SymbolAssignment, 0, count)}
	for i := 0; i < count; i++ {
		target, err := r.ReadByte()
		if err != nil {
			return nil, wrapDecodeErr(r, "symbol target kind", err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return nil, wrapDecodeErr(r, "symbol kind", err)
		}
		pairs, err := r.ReadLength()
		if err != nil {
			return nil, wrapDecodeErr(r, "symbol count", err)
		}
		a := SymbolAssignment{
			SymbolKind: SymbolKind(kind),
			TargetKind: SymbolTargetKind(target),
			Symbols:    make([]SymbolBinding, 0, pairs),
		}
		for j := 0; j < pairs; j++ {
			name, err := parseIdentifier(r)
			if err != nil {
				return nil, err
			}
			index, err := r.ReadVarU28()
			if err != nil {
				return nil, wrapDecodeErr(r, "symbol target index", err)
			}
			a.Symbols = append(a.Symbols, SymbolBinding{Name: name, Target: index})
		}
		sec.Assignments = append(sec.Assignments, a)
	}
	return sec, nil
}

func parseTypeSection(r *binary.Reader) (Section, error) {
	count, err := r.ReadLength()
	if err != nil {
		return nil, wrapDecodeErr(r, "type count", err)
	}
	sec := &TypeSection{Types: make([]TypeTag, 0, count)}
	for i := 0; i < count; i++ {
		tag, err := r.ReadByte()
		if err != nil {
			return nil, wrapDecodeErr(r, "type tag", err)
		}
		if !TypeTag(tag).Valid() {
			return nil, errors.Malformed(r.Position(), "unknown type tag 0x%02X", tag)
		}
		sec.Types = append(sec.Types, TypeTag(tag))
	}
	return sec, nil
}

func parseSignatureSection(r *binary.Reader) (Section, error) {
	count, err := r.ReadLength()
	if err != nil {
		return nil, wrapDecodeErr(r, "signature count", err)
	}
	sec := &FunctionSignatureSection{Signatures: make([]Signature, 0, count)}
	for i := 0; i < count; i++ {
		results, err := r.ReadLength()
		if err != nil {
			return nil, wrapDecodeErr(r, "result count", err)
		}
		params, err := r.ReadLength()
		if err != nil {
			return nil, wrapDecodeErr(r, "parameter count", err)
		}
		sig := Signature{
			Results: make([]uint32, results),
			Params:  make([]uint32, params),
		}
		for j := range sig.Results {
			if sig.Results[j], err = r.ReadVarU28(); err != nil {
				return nil, wrapDecodeErr(r, "result type index", err)
			}
		}
		for j := range sig.Params {
			if sig.Params[j], err = r.ReadVarU28(); err != nil {
				return nil, wrapDecodeErr(r, "parameter type index", err)
			}
		}
		sec.Signatures = append(sec.Signatures, sig)
	}
	return sec, nil
}

func parseEntryPointSection(r *binary.Reader) (Section, error) {
	index, err := r.ReadVarU28()
	if err != nil {
		return nil, wrapDecodeErr(r, "entry point index", err)
	}
	return &EntryPointSection{Function: index}, nil
}

func parseModuleImportSection(r *binary.Reader) (Section, error) {
	count, err := r.ReadLength()
	if err != nil {
		return nil, wrapDecodeErr(r, "module import count", err)
	}
	sec := &ModuleImportSection{Names: make([]ModuleName, 0, count)}
	for i := 0; i < count; i++ {
		name, err := parseModuleName(r)
		if err != nil {
			return nil, err
		}
		sec.Names = append(sec.Names, name)
	}
	return sec, nil
}

func wrapDecodeErr(r *binary.Reader, what string, err error) error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	return errors.New(errors.PhaseDecode, errors.KindMalformedModule).
		Offset(r.Position()).
		Detail("truncated or malformed %s", what).
		Cause(err).
		Build()
}
