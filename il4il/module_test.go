package il4il

import (
	"sync"
	"testing"

	"github.com/il4il/il4il-go/errors"
)

func mustIdentifier(t *testing.T, s string) Identifier {
	t.Helper()
	id, err := NewIdentifier(s)
	if err != nil {
		t.Fatalf("NewIdentifier(%q): %v", s, err)
	}
	return id
}

func TestNewModule_FormatVersion(t *testing.T) {
	m := NewModule()
	major, minor := m.FormatVersion()
	if major != CurrentMajor || minor != CurrentMinor {
		t.Errorf("FormatVersion = %d.%d, want %d.%d", major, minor, CurrentMajor, CurrentMinor)
	}
}

func TestAddMetadataName_GroupsIntoTrailingSection(t *testing.T) {
	m := NewModule()
	if err := m.AddMetadataName(mustIdentifier(t, "first")); err != nil {
		t.Fatal(err)
	}
	if err := m.AddMetadataName(mustIdentifier(t, "second")); err != nil {
		t.Fatal(err)
	}

	sections, err := m.Sections()
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	md, ok := sections[0].(*MetadataSection)
	if !ok {
		t.Fatalf("section is %T, want *MetadataSection", sections[0])
	}
	if len(md.Entries) != 2 {
		t.Errorf("got %d entries, want 2", len(md.Entries))
	}
}

func TestAddMetadataName_NewSectionAfterOtherKind(t *testing.T) {
	m := NewModule()
	if err := m.AddMetadataName(mustIdentifier(t, "first")); err != nil {
		t.Fatal(err)
	}
	if err := m.AddTypes(TypeS32); err != nil {
		t.Fatal(err)
	}
	if err := m.AddMetadataName(mustIdentifier(t, "second")); err != nil {
		t.Fatal(err)
	}

	sections, err := m.Sections()
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(sections))
	}
	if _, ok := sections[2].(*MetadataSection); !ok {
		t.Errorf("last section is %T, want *MetadataSection", sections[2])
	}
}

func TestAddMetadataName_RejectsZeroIdentifier(t *testing.T) {
	m := NewModule()
	err := m.AddMetadataName(Identifier{})
	assertKind(t, err, errors.KindInvalidIdentifier)
}

func TestAddTypes_RejectsUnknownTag(t *testing.T) {
	m := NewModule()
	err := m.AddTypes(TypeS32, TypeTag(0x42))
	assertKind(t, err, errors.KindValidation)

	sections, err := m.Sections()
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 0 {
		t.Errorf("failed AddTypes still appended a section")
	}
}

func TestModule_ConsumedAfterValidate(t *testing.T) {
	m := NewModule()
	if _, err := m.Validate(); err != nil {
		t.Fatal(err)
	}

	if err := m.AddMetadataName(mustIdentifier(t, "late")); err == nil {
		t.Error("AddMetadataName succeeded on a consumed module")
	} else {
		assertKind(t, err, errors.KindAlreadyConsumed)
	}
	if _, err := m.Sections(); err == nil {
		t.Error("Sections succeeded on a consumed module")
	}
	if _, err := m.Encode(); err == nil {
		t.Error("Encode succeeded on a consumed module")
	} else {
		assertKind(t, err, errors.KindAlreadyConsumed)
	}
}

func TestModule_ConcurrentValidate_OneWinner(t *testing.T) {
	m := NewModule()
	if err := m.AddMetadataName(mustIdentifier(t, "racer")); err != nil {
		t.Fatal(err)
	}

	const goroutines = 16
	var wg sync.WaitGroup
	results := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Validate()
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assertKind(t, err, errors.KindAlreadyConsumed)
		}
	}
	if wins != 1 {
		t.Errorf("%d Validate calls succeeded, want exactly 1", wins)
	}
}

func TestMetadataEntry_AsName_WrongKind(t *testing.T) {
	e := MetadataEntry{kind: MetadataKind(7)}
	_, err := e.AsName()
	assertKind(t, err, errors.KindWrongKind)
}
