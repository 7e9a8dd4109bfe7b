// Package extra is the extra-library loader (ELL): it parses the
// separator-delimited list (or, as an enrichment, a YAML manifest) of
// extra libraries a simulator wants loaded alongside the built-in
// backends, and invokes each one's entry symbol.
package extra

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/gogpi/gpierr"
	"github.com/sarchlab/gogpi/loader"
)

// DefaultEntrySymbol is the well-known entry point invoked when an
// element does not specify its own.
const DefaultEntrySymbol = "GpiEntryPoint"

// Separator delimits elements of the GOGPI_EXTRA_LIBS list. Library paths
// containing it are not representable; rely on the dynamic linker's
// search path instead.
const Separator = ":"

// Entry is one library to load: its reference (a bare name or a path),
// the entry symbol to invoke (defaulting to DefaultEntrySymbol), and
// whether a failure to load or invoke it is fatal.
type Entry struct {
	Library  string `yaml:"library"`
	Symbol   string `yaml:"symbol,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// Manifest is the YAML-decoded shape of GOGPI_EXTRA_LIBS_FILE.
type Manifest struct {
	Libraries []Entry `yaml:"libraries"`
}

// ParseList parses a separator-delimited GOGPI_EXTRA_LIBS value into one
// Entry per non-empty element. Because the separator is ":", an element
// cannot name its own entry symbol: every entry gets DefaultEntrySymbol,
// and "a.so:Sym" yields two library entries. None are optional (the list
// form has no way to mark one); the YAML manifest can set both.
func ParseList(value string) []Entry {
	if value == "" {
		return nil
	}

	var entries []Entry
	for _, elem := range strings.Split(value, Separator) {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		entries = append(entries, Entry{Library: elem, Symbol: DefaultEntrySymbol})
	}
	return entries
}

// LoadManifest reads and decodes a YAML manifest file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, gpierr.Wrap(gpierr.LoadError, "could not read extra-libraries manifest "+path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, gpierr.Wrap(gpierr.LoadError, "could not parse extra-libraries manifest "+path, err)
	}
	for i := range m.Libraries {
		if m.Libraries[i].Symbol == "" {
			m.Libraries[i].Symbol = DefaultEntrySymbol
		}
	}
	return m, nil
}

// LoadAll opens and invokes every entry's entry point in order. A failure
// on a non-optional entry stops processing and is returned; a failure on
// an optional entry is skipped.
func LoadAll(entries []Entry) error {
	for _, e := range entries {
		lib, err := loader.Open(e.Library)
		if err != nil {
			if e.Optional {
				continue
			}
			return err
		}
		if err := lib.EntryPoint(e.Symbol); err != nil {
			if e.Optional {
				continue
			}
			return err
		}
	}
	return nil
}
