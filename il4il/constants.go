package il4il

// Magic is the byte sequence at the start of every IL4IL module file.
var Magic = [6]byte{'I', 'L', '4', 'I', 'L', 0}

// Format version numbers. The major number is incremented for breaking
// changes, the minor number for additive ones. Modules using versions
// outside [MinimumMajor.MinimumMinor, CurrentMajor.CurrentMinor] cannot be
// read.
const (
	CurrentMajor uint8 = 0
	CurrentMinor uint8 = 1

	MinimumMajor uint8 = 0
	MinimumMinor uint8 = 1
)

// SectionKind identifies a module section in the binary format.
type SectionKind byte

// Section kinds. Gaps in the numbering are reserved by earlier format
// iterations; readers skip any kind they do not recognize using the section
// byte-length prefix.
const (
	SectionMetadata              SectionKind = 0
	SectionSymbol                SectionKind = 3
	SectionType                  SectionKind = 4
	SectionFunctionSignature     SectionKind = 5
	SectionFunctionInstantiation SectionKind = 6
	SectionFunctionImport        SectionKind = 7
	SectionFunctionDefinition    SectionKind = 8
	SectionCode                  SectionKind = 9
	SectionEntryPoint            SectionKind = 10
	SectionModuleImport          SectionKind = 11
)

// String returns the section kind's name for diagnostics.
func (k SectionKind) String() string {
	switch k {
	case SectionMetadata:
		return "metadata"
	case SectionSymbol:
		return "symbol"
	case SectionType:
		return "type"
	case SectionFunctionSignature:
		return "function signature"
	case SectionFunctionInstantiation:
		return "function instantiation"
	case SectionFunctionImport:
		return "function import"
	case SectionFunctionDefinition:
		return "function definition"
	case SectionCode:
		return "code"
	case SectionEntryPoint:
		return "entry point"
	case SectionModuleImport:
		return "module import"
	default:
		return "unknown"
	}
}

// MetadataKind identifies a metadata entry variant.
type MetadataKind byte

const (
	// MetadataName specifies the name of the module.
	MetadataName MetadataKind = 0
)

// String returns the metadata kind's name for diagnostics.
func (k MetadataKind) String() string {
	switch k {
	case MetadataName:
		return "name"
	default:
		return "unknown"
	}
}

// TypeTag encodes a scalar type in the type section. Tags occupy the high
// end of the byte range so they never collide with small section counts.
type TypeTag byte

const (
	TypeBool  TypeTag = 0xFE
	TypeU8    TypeTag = 0xFC
	TypeS8    TypeTag = 0xFA
	TypeU16   TypeTag = 0xF8
	TypeS16   TypeTag = 0xF6
	TypeU32   TypeTag = 0xF4
	TypeS32   TypeTag = 0xF2
	TypeU64   TypeTag = 0xF0
	TypeS64   TypeTag = 0xEE
	TypeUAddr TypeTag = 0xE4
	TypeSAddr TypeTag = 0xE2
	TypeF16   TypeTag = 0xDC
	TypeF32   TypeTag = 0xDA
	TypeF64   TypeTag = 0xD8
)

var typeTagNames = map[TypeTag]string{
	TypeBool:  "bool",
	TypeU8:    "u8",
	TypeS8:    "s8",
	TypeU16:   "u16",
	TypeS16:   "s16",
	TypeU32:   "u32",
	TypeS32:   "s32",
	TypeU64:   "u64",
	TypeS64:   "s64",
	TypeUAddr: "uaddr",
	TypeSAddr: "saddr",
	TypeF16:   "f16",
	TypeF32:   "f32",
	TypeF64:   "f64",
}

// Valid reports whether the tag is a known scalar type.
func (t TypeTag) Valid() bool {
	_, ok := typeTagNames[t]
	return ok
}

// String returns the type's textual name.
func (t TypeTag) String() string {
	if s, ok := typeTagNames[t]; ok {
		return s
	}
	return "unknown"
}

// SymbolKind categorizes a symbol assignment.
type SymbolKind byte

const (
	// SymbolExported symbols are visible to importing modules.
	SymbolExported SymbolKind = 0
	// SymbolPrivate symbols are internal to the module.
	SymbolPrivate SymbolKind = 1
)

// String returns the symbol kind's name.
func (k SymbolKind) String() string {
	switch k {
	case SymbolExported:
		return "exported"
	case SymbolPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// SymbolTargetKind identifies the index space a symbol assignment targets.
type SymbolTargetKind byte

const (
	// SymbolTargetFunction symbols name entries in the function index space.
	SymbolTargetFunction SymbolTargetKind = 0
)

// String returns the target kind's name.
func (k SymbolTargetKind) String() string {
	switch k {
	case SymbolTargetFunction:
		return "function"
	default:
		return "unknown"
	}
}
