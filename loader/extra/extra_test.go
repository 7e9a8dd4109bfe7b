package extra

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseListSplitsOnSeparatorAndDefaultsSymbol(t *testing.T) {
	entries := ParseList("./a.so:./b.so")
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Symbol != DefaultEntrySymbol {
			t.Fatalf("entry %+v should default to %s", e, DefaultEntrySymbol)
		}
	}
}

func TestParseListEmptyValue(t *testing.T) {
	if entries := ParseList(""); entries != nil {
		t.Fatalf("expected no entries for an empty value, got %v", entries)
	}
}

func TestLoadManifestDefaultsSymbolPerEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")
	content := []byte("libraries:\n  - library: ./a.so\n    optional: true\n  - library: ./b.so\n    symbol: CustomEntry\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(m.Libraries) != 2 {
		t.Fatalf("got %d libraries, want 2", len(m.Libraries))
	}
	if m.Libraries[0].Symbol != DefaultEntrySymbol || !m.Libraries[0].Optional {
		t.Fatalf("entry 0 = %+v", m.Libraries[0])
	}
	if m.Libraries[1].Symbol != "CustomEntry" {
		t.Fatalf("entry 1 = %+v", m.Libraries[1])
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest("/nonexistent/path.yaml"); err == nil {
		t.Fatalf("expected an error for a missing manifest file")
	}
}
