// Package disasm renders IL4IL modules as a textual listing.
//
// The output follows the assembly surface syntax: a `.format` directive
// followed by `.section` blocks. Sections the decoder preserves without
// understanding are emitted as hex dumps, so a listing always accounts for
// every section in the module.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/il4il/il4il-go/errors"
	"github.com/il4il/il4il-go/il4il"
)

// Fprint writes a textual listing of the module to w.
func Fprint(w io.Writer, m *il4il.Module) error {
	sections, err := m.Sections()
	if err != nil {
		return err
	}
	p := &printer{w: w}
	major, minor := m.FormatVersion()
	p.printf(".format %d.%d\n", major, minor)
	for _, s := range sections {
		p.printf("\n")
		p.section(s)
	}
	if p.err != nil {
		return errors.IO(errors.PhaseEncode, p.err)
	}
	return nil
}

// Sprint returns the module's textual listing as a string.
func Sprint(m *il4il.Module) (string, error) {
	var b strings.Builder
	if err := Fprint(&b, m); err != nil {
		return "", err
	}
	return b.String(), nil
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(s il4il.Section) {
	switch sec := s.(type) {
	case *il4il.MetadataSection:
		p.printf(".section metadata {\n")
		for _, e := range sec.Entries {
			if name, err := e.AsName(); err == nil {
				p.printf("  .name %q\n", name.String())
			} else {
				p.printf("  ; unknown metadata kind %d\n", e.Kind())
			}
		}
		p.printf("}\n")
	case *il4il.SymbolSection:
		p.printf(".section symbol {\n")
		for _, a := range sec.Assignments {
			p.printf("  .%s %s {\n", a.SymbolKind, a.TargetKind)
			for _, sym := range a.Symbols {
				p.printf("    %q = %d\n", sym.Name.String(), sym.Target)
			}
			p.printf("  }\n")
		}
		p.printf("}\n")
	case *il4il.TypeSection:
		p.printf(".section type {\n")
		for i, t := range sec.Types {
			p.printf("  type %d = %s\n", i, t)
		}
		p.printf("}\n")
	case *il4il.FunctionSignatureSection:
		p.printf(".section signature {\n")
		for i, sig := range sec.Signatures {
			p.printf("  signature %d = (%s) -> (%s)\n", i, indexList(sig.Params), indexList(sig.Results))
		}
		p.printf("}\n")
	case *il4il.EntryPointSection:
		p.printf(".section entry {\n  function %d\n}\n", sec.Function)
	case *il4il.ModuleImportSection:
		p.printf(".section import {\n")
		for _, n := range sec.Names {
			p.printf("  .module %q\n", n.Name.String())
		}
		p.printf("}\n")
	case *il4il.RawSection:
		p.printf("; unrecognized section kind %d, %d bytes\n", byte(sec.SectionKind), len(sec.Data))
		p.hexDump(sec.Data)
	}
}

func (p *printer) hexDump(data []byte) {
	for off := 0; off < len(data); off += 16 {
		end := min(off+16, len(data))
		p.printf(";   %04x:", off)
		for _, b := range data[off:end] {
			p.printf(" %02x", b)
		}
		p.printf("\n")
	}
}

func indexList(indices []uint32) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = fmt.Sprintf("type %d", idx)
	}
	return strings.Join(parts, ", ")
}
