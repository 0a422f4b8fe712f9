package dict

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/crystalshelf/cif"
	"github.com/crystalshelf/cif/diag"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidOptions is returned when a LoadOptions value fails struct-tag
// validation; this is a programmer error (spec §7 level 3), never a
// diag.Diagnostic.
var ErrInvalidOptions = errors.New("dict: invalid LoadOptions")

var optionsValidator = validator.New()

// LoadOptions configures one Load call.
type LoadOptions struct {
	Logger *slog.Logger

	// MaxDiagnostics caps the number of DictionaryError diagnostics
	// collected before Load stops reporting further per-frame anomalies
	// (it keeps loading regardless). Zero means unlimited.
	MaxDiagnostics int `validate:"gte=0"`
}

// Load walks every save frame of doc's first data block and builds a Model.
// doc is expected to already be the output of cif.ParseAll on a .dic file:
// Load does not itself read or parse bytes.
func Load(doc *cif.Document, opts LoadOptions) (*Model, []diag.Diagnostic, error) {
	if err := optionsValidator.Struct(opts); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidOptions, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := NewModel()
	var diags []diag.Diagnostic
	addDiag := func(d diag.Diagnostic) {
		if opts.MaxDiagnostics > 0 && len(diags) >= opts.MaxDiagnostics {
			return
		}
		diags = append(diags, d)
	}

	block, ok := doc.FirstBlock()
	if !ok {
		return m, diags, nil
	}

	for _, frame := range block.Frames {
		defIDItem, ok := frame.Item("_definition.id")
		if !ok {
			continue
		}
		name, isText := defIDItem.Value.TextValue()
		if !isText {
			continue
		}

		class := textItem(frame, "_definition.class")
		if strings.EqualFold(class, "Head") {
			parentID := ""
			if catID := textItem(frame, "_name.category_id"); catID != "" && catID != "." {
				parentID = catID
			}
			m.AddCategory(CategoryInfo{Name: name, ParentID: parentID, SourceSpan: defIDItem.Value.Span()})
			continue
		}

		def := Definition{
			Name:       name,
			Category:   textItem(frame, "_name.category_id"),
			ObjectID:   textItem(frame, "_name.object_id"),
			Purpose:    textItem(frame, "_type.purpose"),
			Contents:   textItem(frame, "_type.contents"),
			Container:  ContainerSingle,
			Units:      textItem(frame, "_units.code"),
			Default:    textItem(frame, "_enumeration.default"),
			SourceSpan: defIDItem.Value.Span(),
		}
		if c := textItem(frame, "_type.container"); c != "" {
			def.Container = Container(c)
		}
		if strings.EqualFold(textItem(frame, "_name.mandatory_code"), "Yes") {
			def.Mandatory = true
		}

		def.Aliases = collectAliases(frame)
		def.Enumeration, def.EnumerationDetail = collectEnumeration(frame)

		if rangeText := textItem(frame, "_enumeration.range"); rangeText != "" {
			r, parseable := parseRange(rangeText)
			if r == nil && !parseable {
				d := diag.NewError(diag.CategoryDictionaryError,
					fmt.Sprintf("malformed _enumeration.range %q for %s", rangeText, name),
					defIDItem.Value.Span(), diag.WithDataName(name))
				addDiag(d)
				logger.Warn("dict: malformed enumeration range", "name", name, "range", rangeText)
			} else {
				def.Range = r
			}
		}

		m.Add(def)
	}

	return m, diags, nil
}

// textItem returns the text content of tag in frame, or "" if absent or
// non-Text.
func textItem(frame cif.SaveFrame, tag string) string {
	it, ok := frame.Item(tag)
	if !ok {
		return ""
	}
	s, _ := it.Value.TextValue()
	return s
}

// collectAliases gathers every alias from either a singular
// _alias.definition_id item or a loop column of that name.
func collectAliases(frame cif.SaveFrame) []string {
	var out []string
	if it, ok := frame.Item("_alias.definition_id"); ok {
		if s, isText := it.Value.TextValue(); isText {
			out = append(out, s)
		}
	}
	if lp, ok := frame.LoopWithTag("_alias.definition_id"); ok {
		if col, ok := lp.Column(cif.Tag("_alias.definition_id")); ok {
			for _, v := range col {
				if s, isText := v.TextValue(); isText {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// collectEnumeration gathers enumeration membership from a
// _enumeration_set.state loop, along with any paired
// _enumeration_set.detail values keyed by state.
func collectEnumeration(frame cif.SaveFrame) ([]string, map[string]string) {
	lp, ok := frame.LoopWithTag("_enumeration_set.state")
	if !ok {
		return nil, nil
	}
	states, _ := lp.Column(cif.Tag("_enumeration_set.state"))
	details, hasDetails := lp.Column(cif.Tag("_enumeration_set.detail"))

	var enum []string
	var detailMap map[string]string
	for i, v := range states {
		s, isText := v.TextValue()
		if !isText {
			continue
		}
		enum = append(enum, s)
		if hasDetails && i < len(details) {
			if d, isText := details[i].TextValue(); isText {
				if detailMap == nil {
					detailMap = make(map[string]string)
				}
				detailMap[s] = d
			}
		}
	}
	return enum, detailMap
}

// parseRange parses a "min:max" string into a Range with open sides for
// empty text. The second return value is false only when the string is not
// even shaped like "a:b" (a malformed range, reported as DictionaryError);
// a shaped-but-non-numeric side is silently ignored, per spec §4.3.
func parseRange(s string) (*Range, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return nil, false
	}
	r := &Range{}
	minText, maxText := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if minText != "" {
		if v, err := strconv.ParseFloat(minText, 64); err == nil {
			r.Min = &v
		} else {
			return nil, true
		}
	}
	if maxText != "" {
		if v, err := strconv.ParseFloat(maxText, 64); err == nil {
			r.Max = &v
		} else {
			return nil, true
		}
	}
	return r, true
}
