package capi

import (
	"go.uber.org/zap"

	"github.com/il4il/il4il-go/errors"
	"github.com/il4il/il4il-go/il4il"
)

// API is the foreign-call surface over the core library: every object a
// caller can hold (module builder, browser, identifier, error message) is
// referenced through an opaque Handle in one Table.
//
// Fallible operations return an error Handle; zero means success. Error
// handles own a message and are disposed like any other handle, so no
// failure is ever silently dropped. Disposing a handle twice is detected
// and reported, never undefined behavior.
type API struct {
	table *Table
}

// New creates an API with an empty handle table.
func New() *API {
	return &API{table: NewTable()}
}

// Close invalidates every outstanding handle.
func (a *API) Close() {
	a.table.Close()
}

// Live returns the number of outstanding handles, for leak checks.
func (a *API) Live() int {
	return a.table.Len()
}

// wrap stores a failure as an error handle.
func (a *API) wrap(err error) Handle {
	h := a.table.create(kindError, err.Error())
	Logger().Debug("error produced", zap.Uint32("handle", uint32(h)), zap.Error(err))
	return h
}

func (a *API) invalid(what string) Handle {
	return a.wrap(errors.InvalidHandle(what))
}

// Module operations

// NewModule creates an empty module builder and returns its handle.
func (a *API) NewModule() Handle {
	h := a.table.create(kindModule, il4il.NewModule())
	Logger().Debug("module created", zap.Uint32("handle", uint32(h)))
	return h
}

// DisposeModule releases a module builder.
func (a *API) DisposeModule(module Handle) Handle {
	if _, ok := a.table.take(kindModule, module); !ok {
		return a.invalid("module")
	}
	Logger().Debug("module disposed", zap.Uint32("handle", uint32(module)))
	return 0
}

// ModuleAddMetadataName appends a name metadata entry to the module,
// copying the identifier's contents.
func (a *API) ModuleAddMetadataName(module, identifier Handle) Handle {
	v, ok := a.table.get(kindModule, module)
	if !ok {
		return a.invalid("module")
	}
	idv, ok := a.table.get(kindIdentifier, identifier)
	if !ok {
		return a.invalid("identifier")
	}
	if err := v.(*il4il.Module).AddMetadataName(idv.(il4il.Identifier)); err != nil {
		return a.wrap(err)
	}
	return 0
}

// ModuleValidate validates the module and consumes its handle. On success
// the browser handle is returned; on failure the module handle is gone
// either way and the error handle carries the reason. The take is atomic:
// of two concurrent calls on the same handle, exactly one reaches
// validation and the other observes an invalid handle.
func (a *API) ModuleValidate(module Handle) (Handle, Handle) {
	v, ok := a.table.take(kindModule, module)
	if !ok {
		return 0, a.invalid("module")
	}
	browser, err := v.(*il4il.Module).Validate()
	if err != nil {
		return 0, a.wrap(err)
	}
	h := a.table.create(kindBrowser, browser)
	Logger().Debug("module validated",
		zap.Uint32("module", uint32(module)),
		zap.Uint32("browser", uint32(h)))
	return h, 0
}

// ModuleEncode serializes the module without consuming it.
func (a *API) ModuleEncode(module Handle) ([]byte, Handle) {
	v, ok := a.table.get(kindModule, module)
	if !ok {
		return nil, a.invalid("module")
	}
	data, err := v.(*il4il.Module).Encode()
	if err != nil {
		return nil, a.wrap(err)
	}
	return data, 0
}

// ModuleWriteFile serializes the module to the named file without
// consuming it.
func (a *API) ModuleWriteFile(module Handle, path string) Handle {
	v, ok := a.table.get(kindModule, module)
	if !ok {
		return a.invalid("module")
	}
	if err := v.(*il4il.Module).WriteFile(path); err != nil {
		return a.wrap(err)
	}
	return 0
}

// Browser operations

// DisposeBrowser releases a browser. Metadata references derived from it
// become invalid.
func (a *API) DisposeBrowser(browser Handle) Handle {
	if _, ok := a.table.take(kindBrowser, browser); !ok {
		return a.invalid("browser")
	}
	Logger().Debug("browser disposed", zap.Uint32("handle", uint32(browser)))
	return 0
}

// BrowserMetadataCount returns the number of metadata entries in the
// validated module.
func (a *API) BrowserMetadataCount(browser Handle) (int, Handle) {
	v, ok := a.table.get(kindBrowser, browser)
	if !ok {
		return 0, a.invalid("browser")
	}
	return v.(*il4il.Browser).MetadataCount(), 0
}

// MetadataRef is a non-owning reference to a metadata entry: the parent
// browser handle plus an index. Every access through it re-validates that
// the browser is still alive, so a reference never outlives its parent
// silently.
type MetadataRef struct {
	Browser Handle
	Index   int
}

// BrowserMetadataCopyTo fills dst with references to the browser's
// metadata entries in insertion order and returns the number copied.
func (a *API) BrowserMetadataCopyTo(browser Handle, dst []MetadataRef) (int, Handle) {
	v, ok := a.table.get(kindBrowser, browser)
	if !ok {
		return 0, a.invalid("browser")
	}
	count := v.(*il4il.Browser).MetadataCount()
	n := min(count, len(dst))
	for i := 0; i < n; i++ {
		dst[i] = MetadataRef{Browser: browser, Index: i}
	}
	return n, 0
}

func (a *API) metadataAt(ref MetadataRef) (il4il.MetadataEntry, Handle) {
	v, ok := a.table.get(kindBrowser, ref.Browser)
	if !ok {
		return il4il.MetadataEntry{}, a.invalid("browser")
	}
	entry, err := v.(*il4il.Browser).MetadataAt(ref.Index)
	if err != nil {
		return il4il.MetadataEntry{}, a.wrap(err)
	}
	return entry, 0
}

// MetadataKind returns the referenced entry's kind.
func (a *API) MetadataKind(ref MetadataRef) (il4il.MetadataKind, Handle) {
	entry, errh := a.metadataAt(ref)
	if errh != 0 {
		return 0, errh
	}
	return entry.Kind(), 0
}

// MetadataName extracts the referenced entry's module name payload into a
// fresh identifier handle owned by the caller.
func (a *API) MetadataName(ref MetadataRef) (Handle, Handle) {
	entry, errh := a.metadataAt(ref)
	if errh != 0 {
		return 0, errh
	}
	name, err := entry.AsName()
	if err != nil {
		return 0, a.wrap(err)
	}
	return a.table.create(kindIdentifier, name), 0
}

// Identifier operations

// IdentifierFromUTF8 validates a byte sequence as an identifier.
func (a *API) IdentifierFromUTF8(contents []byte) (Handle, Handle) {
	id, err := il4il.IdentifierFromBytes(contents)
	if err != nil {
		return 0, a.wrap(err)
	}
	return a.table.create(kindIdentifier, id), 0
}

// IdentifierFromUTF16 validates a sequence of UTF-16 code units as an
// identifier.
func (a *API) IdentifierFromUTF16(contents []uint16) (Handle, Handle) {
	id, err := il4il.IdentifierFromUTF16(contents)
	if err != nil {
		return 0, a.wrap(err)
	}
	return a.table.create(kindIdentifier, id), 0
}

// IdentifierByteLength returns the identifier's length in bytes.
func (a *API) IdentifierByteLength(identifier Handle) (int, Handle) {
	v, ok := a.table.get(kindIdentifier, identifier)
	if !ok {
		return 0, a.invalid("identifier")
	}
	return v.(il4il.Identifier).Len(), 0
}

// IdentifierCopyTo copies the identifier's UTF-8 contents into buf and
// returns the number of bytes copied.
func (a *API) IdentifierCopyTo(identifier Handle, buf []byte) (int, Handle) {
	v, ok := a.table.get(kindIdentifier, identifier)
	if !ok {
		return 0, a.invalid("identifier")
	}
	return copy(buf, v.(il4il.Identifier).Bytes()), 0
}

// DisposeIdentifier releases an identifier.
func (a *API) DisposeIdentifier(identifier Handle) Handle {
	if _, ok := a.table.take(kindIdentifier, identifier); !ok {
		return a.invalid("identifier")
	}
	return 0
}

// Error message operations

// NewErrorMessage creates an error handle carrying the given message.
func (a *API) NewErrorMessage(message string) Handle {
	return a.table.create(kindError, message)
}

// ErrorLength returns the byte length of an error's message.
func (a *API) ErrorLength(errh Handle) (int, bool) {
	v, ok := a.table.get(kindError, errh)
	if !ok {
		return 0, false
	}
	return len(v.(string)), true
}

// ErrorMessage returns an error's message. The message is the verbatim
// text of the failure that produced the handle.
func (a *API) ErrorMessage(errh Handle) (string, bool) {
	v, ok := a.table.get(kindError, errh)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// DisposeError releases an error handle. Disposing an already-disposed
// handle returns false.
func (a *API) DisposeError(errh Handle) bool {
	_, ok := a.table.take(kindError, errh)
	return ok
}
