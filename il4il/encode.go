package il4il

import (
	"io"
	"os"

	"github.com/il4il/il4il-go/errors"
	"github.com/il4il/il4il-go/il4il/internal/binary"
)

// Encode serializes the module to the IL4IL binary format. Encoding is
// deterministic and does not mutate or consume the module; the only
// failures are a consumed builder or a value exceeding the varint range.
func (m *Module) Encode() ([]byte, error) {
	sections, major, minor, err := m.snapshot()
	if err != nil {
		return nil, err
	}
	return encodeModule(sections, major, minor)
}

// WriteTo encodes the module and writes it to w. The module is encoded to
// memory first, so a sink failure leaves the builder untouched and the sink
// holding a prefix that a later decode will reject as truncated.
func (m *Module) WriteTo(w io.Writer) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.IO(errors.PhaseEncode, err)
	}
	return nil
}

// WriteFile encodes the module and writes it to the named file.
func (m *Module) WriteFile(path string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IO(errors.PhaseEncode, err)
	}
	return nil
}

func encodeModule(sections []Section, major, minor uint8) ([]byte, error) {
	w := binary.NewWriter()
	w.WriteBytes(Magic[:])
	w.Byte(major)
	w.Byte(minor)

	if err := w.WriteLength(len(sections)); err != nil {
		return nil, encodeErr(err)
	}
	for _, s := range sections {
		if err := writeSection(w, s); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

// writeSection emits kind, byte length, then the section body. The body is
// built in a scratch writer so the length prefix lets readers skip kinds
// they do not understand.
func writeSection(w *binary.Writer, s Section) error {
	body := binary.NewWriter()
	var err error
	switch sec := s.(type) {
	case *MetadataSection:
		err = writeMetadataSection(body, sec)
	case *SymbolSection:
		err = writeSymbolSection(body, sec)
	case *TypeSection:
		err = writeTypeSection(body, sec)
	case *FunctionSignatureSection:
		err = writeSignatureSection(body, sec)
	case *EntryPointSection:
		err = body.WriteVarU28(sec.Function)
	case *ModuleImportSection:
		err = writeModuleImportSection(body, sec)
	case *RawSection:
		body.WriteBytes(sec.Data)
	default:
		return errors.New(errors.PhaseEncode, errors.KindValidation).
			Detail("unencodable section kind %d", s.Kind()).
			Build()
	}
	if err != nil {
		return encodeErr(err)
	}

	w.Byte(byte(s.Kind()))
	if err := w.WriteLength(body.Len()); err != nil {
		return encodeErr(err)
	}
	w.WriteBytes(body.Bytes())
	return nil
}

func writeMetadataSection(w *binary.Writer, s *MetadataSection) error {
	if err := w.WriteLength(len(s.Entries)); err != nil {
		return err
	}
	for _, e := range s.Entries {
		w.Byte(byte(e.Kind()))
		switch e.Kind() {
		case MetadataName:
			name, err := e.AsName()
			if err != nil {
				return err
			}
			if err := writeModuleName(w, ModuleName{Name: name}); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeModuleName(w *binary.Writer, n ModuleName) error {
	if err := w.WriteName(n.Name.String()); err != nil {
		return err
	}
	// Reserved module version number list, always empty.
	return w.WriteLength(0)
}

func writeSymbolSection(w *binary.Writer, s *SymbolSection) error {
	if err := w.WriteLength(len(s.Assignments)); err != nil {
		return err
	}
	for _, a := range s.Assignments {
		w.Byte(byte(a.TargetKind))
		w.Byte(byte(a.SymbolKind))
		if err := w.WriteLength(len(a.Symbols)); err != nil {
			return err
		}
		for _, sym := range a.Symbols {
			if err := w.WriteName(sym.Name.String()); err != nil {
				return err
			}
			if err := w.WriteVarU28(sym.Target); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTypeSection(w *binary.Writer, s *TypeSection) error {
	if err := w.WriteLength(len(s.Types)); err != nil {
		return err
	}
	for _, t := range s.Types {
		w.Byte(byte(t))
	}
	return nil
}

func writeSignatureSection(w *binary.Writer, s *FunctionSignatureSection) error {
	if err := w.WriteLength(len(s.Signatures)); err != nil {
		return err
	}
	for _, sig := range s.Signatures {
		if err := w.WriteLength(len(sig.Results)); err != nil {
			return err
		}
		if err := w.WriteLength(len(sig.Params)); err != nil {
			return err
		}
		for _, idx := range sig.Results {
			if err := w.WriteVarU28(idx); err != nil {
				return err
			}
		}
		for _, idx := range sig.Params {
			if err := w.WriteVarU28(idx); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeModuleImportSection(w *binary.Writer, s *ModuleImportSection) error {
	if err := w.WriteLength(len(s.Names)); err != nil {
		return err
	}
	for _, n := range s.Names {
		if err := writeModuleName(w, n); err != nil {
			return err
		}
	}
	return nil
}

func encodeErr(err error) error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	return errors.Wrap(errors.PhaseEncode, errors.KindValidation, err, "value not encodable")
}
