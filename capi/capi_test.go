package capi

import (
	"strings"
	"sync"
	"testing"

	"github.com/il4il/il4il-go/il4il"
)

// noError fails the test if errh is a live error handle, reporting its
// message, then releases it.
func noError(t *testing.T, a *API, errh Handle) {
	t.Helper()
	if errh == 0 {
		return
	}
	msg, _ := a.ErrorMessage(errh)
	a.DisposeError(errh)
	t.Fatalf("unexpected error: %s", msg)
}

func errorContains(t *testing.T, a *API, errh Handle, want string) {
	t.Helper()
	if errh == 0 {
		t.Fatal("expected an error handle, got success")
	}
	msg, ok := a.ErrorMessage(errh)
	if !ok {
		t.Fatal("error handle has no message")
	}
	if !strings.Contains(msg, want) {
		t.Errorf("error %q does not contain %q", msg, want)
	}
	if !a.DisposeError(errh) {
		t.Error("error handle dispose failed")
	}
}

func TestAPI_ModuleLifecycle(t *testing.T) {
	a := New()

	mod := a.NewModule()
	id, errh := a.IdentifierFromUTF8([]byte("lifecycle"))
	noError(t, a, errh)

	noError(t, a, a.ModuleAddMetadataName(mod, id))

	data, errh := a.ModuleEncode(mod)
	noError(t, a, errh)
	if _, err := il4il.ParseModule(data); err != nil {
		t.Fatalf("encoded module does not parse: %v", err)
	}

	browser, errh := a.ModuleValidate(mod)
	noError(t, a, errh)

	// Validation consumed the module handle.
	errorContains(t, a, a.DisposeModule(mod), "module handle")

	count, errh := a.BrowserMetadataCount(browser)
	noError(t, a, errh)
	if count != 1 {
		t.Errorf("metadata count = %d, want 1", count)
	}

	refs := make([]MetadataRef, 4)
	n, errh := a.BrowserMetadataCopyTo(browser, refs)
	noError(t, a, errh)
	if n != 1 {
		t.Fatalf("copied %d refs, want 1", n)
	}

	kind, errh := a.MetadataKind(refs[0])
	noError(t, a, errh)
	if kind != il4il.MetadataName {
		t.Errorf("metadata kind = %d, want name", kind)
	}

	nameID, errh := a.MetadataName(refs[0])
	noError(t, a, errh)
	length, errh := a.IdentifierByteLength(nameID)
	noError(t, a, errh)
	buf := make([]byte, length)
	if _, errh := a.IdentifierCopyTo(nameID, buf); errh != 0 {
		noError(t, a, errh)
	}
	if string(buf) != "lifecycle" {
		t.Errorf("extracted name = %q", buf)
	}

	noError(t, a, a.DisposeIdentifier(nameID))
	noError(t, a, a.DisposeIdentifier(id))
	noError(t, a, a.DisposeBrowser(browser))

	if live := a.Live(); live != 0 {
		t.Errorf("%d handles leaked", live)
	}
}

func TestAPI_InvalidIdentifierProducesErrorHandle(t *testing.T) {
	a := New()

	_, errh := a.IdentifierFromUTF8(nil)
	errorContains(t, a, errh, "empty")

	_, errh = a.IdentifierFromUTF8([]byte{0xFF})
	errorContains(t, a, errh, "invalid_utf8")

	_, errh = a.IdentifierFromUTF16([]uint16{0xD800})
	errorContains(t, a, errh, "surrogate")

	id, errh := a.IdentifierFromUTF16([]uint16{0xD83D, 0xDE00})
	noError(t, a, errh)
	length, errh := a.IdentifierByteLength(id)
	noError(t, a, errh)
	if length != 4 {
		t.Errorf("emoji identifier length = %d, want 4", length)
	}
	noError(t, a, a.DisposeIdentifier(id))
}

func TestAPI_DoubleDispose(t *testing.T) {
	a := New()

	mod := a.NewModule()
	noError(t, a, a.DisposeModule(mod))
	errorContains(t, a, a.DisposeModule(mod), "module handle")

	errh := a.NewErrorMessage("boom")
	if !a.DisposeError(errh) {
		t.Error("first error dispose failed")
	}
	if a.DisposeError(errh) {
		t.Error("second error dispose succeeded")
	}
}

func TestAPI_WrongHandleKind(t *testing.T) {
	a := New()
	mod := a.NewModule()

	// A module handle is not a browser handle.
	_, errh := a.BrowserMetadataCount(mod)
	errorContains(t, a, errh, "browser handle")

	noError(t, a, a.DisposeModule(mod))
}

func TestAPI_ValidateFailureConsumesModule(t *testing.T) {
	a := New()
	mod := a.NewModule()

	for _, name := range []string{"one", "two"} {
		id, errh := a.IdentifierFromUTF8([]byte(name))
		noError(t, a, errh)
		noError(t, a, a.ModuleAddMetadataName(mod, id))
		noError(t, a, a.DisposeIdentifier(id))
	}

	browser, errh := a.ModuleValidate(mod)
	if browser != 0 {
		t.Fatal("two-name module validated")
	}
	errorContains(t, a, errh, "validation")

	// The module handle is gone even though validation failed.
	errorContains(t, a, a.DisposeModule(mod), "module handle")
}

func TestAPI_MetadataRefAfterBrowserDispose(t *testing.T) {
	a := New()
	mod := a.NewModule()
	id, errh := a.IdentifierFromUTF8([]byte("gone"))
	noError(t, a, errh)
	noError(t, a, a.ModuleAddMetadataName(mod, id))
	noError(t, a, a.DisposeIdentifier(id))

	browser, errh := a.ModuleValidate(mod)
	noError(t, a, errh)

	refs := make([]MetadataRef, 1)
	if _, errh := a.BrowserMetadataCopyTo(browser, refs); errh != 0 {
		noError(t, a, errh)
	}
	noError(t, a, a.DisposeBrowser(browser))

	_, errh = a.MetadataKind(refs[0])
	errorContains(t, a, errh, "browser handle")
	_, errh = a.MetadataName(refs[0])
	errorContains(t, a, errh, "browser handle")
}

func TestAPI_MetadataRefOutOfRange(t *testing.T) {
	a := New()
	mod := a.NewModule()
	browser, errh := a.ModuleValidate(mod)
	noError(t, a, errh)

	_, errh = a.MetadataKind(MetadataRef{Browser: browser, Index: 5})
	errorContains(t, a, errh, "out_of_range")

	noError(t, a, a.DisposeBrowser(browser))
}

func TestAPI_ConcurrentValidate_OneWinner(t *testing.T) {
	a := New()
	mod := a.NewModule()

	const goroutines = 16
	var wg sync.WaitGroup
	type result struct{ browser, errh Handle }
	results := make(chan result, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, e := a.ModuleValidate(mod)
			results <- result{b, e}
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for r := range results {
		if r.browser != 0 {
			wins++
			noError(t, a, a.DisposeBrowser(r.browser))
		} else {
			a.DisposeError(r.errh)
		}
	}
	if wins != 1 {
		t.Errorf("%d validations won, want exactly 1", wins)
	}
	if live := a.Live(); live != 0 {
		t.Errorf("%d handles leaked", live)
	}
}

func TestAPI_ErrorLength(t *testing.T) {
	a := New()
	errh := a.NewErrorMessage("four")
	length, ok := a.ErrorLength(errh)
	if !ok || length != 4 {
		t.Errorf("ErrorLength = %d, %v", length, ok)
	}
	a.DisposeError(errh)
	if _, ok := a.ErrorLength(errh); ok {
		t.Error("ErrorLength succeeded on a disposed handle")
	}
}

func TestAPI_ModuleWriteFile(t *testing.T) {
	a := New()
	mod := a.NewModule()
	id, errh := a.IdentifierFromUTF8([]byte("on_disk"))
	noError(t, a, errh)
	noError(t, a, a.ModuleAddMetadataName(mod, id))
	noError(t, a, a.DisposeIdentifier(id))

	path := t.TempDir() + "/out.il4il"
	noError(t, a, a.ModuleWriteFile(mod, path))
	noError(t, a, a.DisposeModule(mod))

	m, err := il4il.ReadModuleFile(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if name, ok := b.Name(); !ok || name.String() != "on_disk" {
		t.Errorf("name = %q, %v", name.String(), ok)
	}
}
