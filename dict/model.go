package dict

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/crystalshelf/cif/diag"
)

var nameFold = cases.Lower(language.Und)

// CompositionMode controls whether Merge reports name collisions between
// two composed dictionaries.
type CompositionMode int

const (
	// CompositionQuiet lets the later dictionary's definition shadow the
	// earlier one without comment, per spec §3's composition rule.
	CompositionQuiet CompositionMode = iota
	// CompositionPedantic additionally reports every shadowed name as a
	// diag.CategoryStyle warning (spec §3: "a warning... only in Pedantic
	// mode").
	CompositionPedantic
)

// Model indexes Definitions by canonical lowercase name and by every
// alias, and records category head-frame metadata (spec §3
// "DictionaryModel", supplemented by §4.1 of the dictionary loader design).
// A Model is built once and read only thereafter; it is safe for
// concurrent reads.
type Model struct {
	byName map[string]*Definition
	// order preserves the sequence names were first added in, for
	// deterministic iteration (e.g. in tests or debug dumps).
	order []string

	Categories map[string]CategoryInfo
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{byName: make(map[string]*Definition), Categories: make(map[string]CategoryInfo)}
}

func canonical(name string) string { return nameFold.String(name) }

// Add inserts or overwrites def, indexed by its canonical name and every
// alias. When a name is already present (from an earlier dictionary in a
// composed Model), the new definition takes precedence, per spec §3:
// "the later-added dictionary's definition takes precedence".
func (m *Model) Add(def Definition) {
	key := canonical(def.Name)
	if _, exists := m.byName[key]; !exists {
		m.order = append(m.order, key)
	}
	stored := def
	m.byName[key] = &stored
	for _, alias := range def.Aliases {
		m.byName[canonical(alias)] = &stored
	}
}

// AddCategory records a category head frame.
func (m *Model) AddCategory(info CategoryInfo) {
	m.Categories[canonical(info.Name)] = info
}

// Lookup resolves name (case-insensitively) to its Definition, first by
// canonical name then by alias. The bool reports whether anything was
// found.
func (m *Model) Lookup(name string) (Definition, bool) {
	d, ok := m.byName[canonical(name)]
	if !ok {
		return Definition{}, false
	}
	return *d, true
}

// Names returns every canonical definition name in the order definitions
// were first added (across a composed sequence of Merge calls).
func (m *Model) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of distinct canonical definitions (not counting
// alias entries).
func (m *Model) Len() int { return len(m.order) }

// Merge composes other into m, with other's definitions taking precedence
// on name collisions (spec §3's "DictionaryModel is composed by
// concatenation; later additions shadow earlier ones"). In
// CompositionPedantic mode, every shadowed name is reported as a
// diag.CategoryStyle warning anchored at the shadowing definition;
// CompositionQuiet (the default) reports nothing.
func (m *Model) Merge(other *Model, mode CompositionMode) []diag.Diagnostic {
	if other == nil {
		return nil
	}
	var diags []diag.Diagnostic
	for _, name := range other.order {
		def, _ := other.Lookup(name)
		if mode == CompositionPedantic {
			if existing, shadowed := m.byName[canonical(def.Name)]; shadowed {
				diags = append(diags, diag.NewWarning(diag.CategoryStyle,
					fmt.Sprintf("%s shadows an earlier definition of the same name (category %s)",
						def.Name, existing.Category),
					def.SourceSpan, diag.WithDataName(def.Name)))
			}
		}
		m.Add(def)
	}
	for catName, info := range other.Categories {
		m.Categories[catName] = info
	}
	return diags
}

// DefinitionsInCategory returns every Definition whose Category matches
// categoryID (case-insensitive), in Model order.
func (m *Model) DefinitionsInCategory(categoryID string) []Definition {
	want := canonical(categoryID)
	var out []Definition
	for _, name := range m.order {
		def := m.byName[name]
		if canonical(def.Category) == want {
			out = append(out, *def)
		}
	}
	return out
}
