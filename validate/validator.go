package validate

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/crystalshelf/cif"
	"github.com/crystalshelf/cif/dict"
	"github.com/crystalshelf/cif/diag"
	"github.com/crystalshelf/cif/internal/textmetric"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Validator checks a cif.Document against a composed dict.Model, per the
// eight-step algorithm of spec §4.4. A Validator is built once against a
// Model and Options and is safe for concurrent use across distinct
// Validate calls, since each call owns its own diag.Collector and the
// Model is read-only.
type Validator struct {
	id     uuid.UUID
	model  *dict.Model
	opts   Options
	logger *slog.Logger

	fold cases.Caser

	// suggestions memoizes the nearest-candidate search used by Pedantic
	// close-alias warnings and EnumerationError suggestion lists, keyed by
	// the query, the distance ceiling and the full candidate list, since a
	// Model never changes after construction.
	suggestions *lru.Cache[string, []string]
}

// New builds a Validator. It returns ErrNoDictionary for a nil model and
// ErrInvalidOptions if opts fails struct-tag validation.
func New(model *dict.Model, opts Options) (*Validator, error) {
	if model == nil {
		return nil, ErrNoDictionary
	}
	if err := optionsValidator.Struct(opts); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOptions, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, []string](512)
	if err != nil {
		return nil, fmt.Errorf("validate: building suggestion cache: %w", err)
	}
	return &Validator{
		id:          uuid.New(),
		model:       model,
		opts:        opts,
		logger:      logger,
		fold:        cases.Fold(),
		suggestions: cache,
	}, nil
}

// ID returns a correlation identifier unique to this Validator instance,
// suitable for tying log lines and metrics across one Validate call.
func (v *Validator) ID() uuid.UUID { return v.id }

// Validate runs the full spec §4.4 algorithm over doc and returns every
// diagnostic found, in canonical order.
func (v *Validator) Validate(doc *cif.Document) diag.Result {
	start := time.Now()
	c := diag.NewCollector()

	for _, block := range doc.Blocks {
		v.checkBlock(block.Block, c)
		v.checkMandatory(block.Block, c)
		for _, frame := range block.Frames {
			v.checkBlock(frame.Block, c)
			v.checkMandatory(frame.Block, c)
		}
	}

	result := c.Result()
	v.opts.Metrics.ObserveValidate(time.Since(start).Seconds(), result.ErrorCount(), result.WarningCount())
	for _, d := range result.Diagnostics() {
		v.opts.Metrics.ObserveDiagnostic(d.Category().Name())
	}
	return result
}

// checkBlock runs steps 1-5 and 8 over every bare item and loop cell of b,
// plus the loop-shape checks of step 7.
func (v *Validator) checkBlock(b cif.Block, c *diag.Collector) {
	bareTags := make(map[string]bool, len(b.Items))
	for _, it := range b.Items {
		bareTags[it.Tag.Canonical()] = true
		v.checkItem(it.Tag, it.Value, c)
	}

	for _, lp := range b.Loops {
		v.checkLoopShape(lp, bareTags, c)
		for _, row := range lp.Rows {
			for i, tag := range lp.Tags {
				v.checkItem(tag, row[i], c)
			}
		}
	}
}

// checkLoopShape implements spec §4.4 step 7: a loop must have at least one
// column, the raw value count must be a multiple of the header length, no
// tag may appear as both a bare item and a loop column, and every column of
// one loop must belong to the same dictionary category.
func (v *Validator) checkLoopShape(lp cif.Loop, bareTags map[string]bool, c *diag.Collector) {
	if lp.NumColumns() == 0 {
		c.Add(diag.NewError(diag.CategoryLoopStructure, "loop has no columns", lp.Span))
	}
	if lp.NumColumns() > 0 && lp.RawCount != lp.NumColumns()*lp.NumRows() {
		c.Add(diag.NewError(diag.CategoryLoopStructure,
			fmt.Sprintf("loop body has %d values, not a multiple of its %d-column header", lp.RawCount, lp.NumColumns()),
			lp.Span))
	}

	cats := make(map[string]bool)
	for _, tag := range lp.Tags {
		if bareTags[tag.Canonical()] {
			c.Add(diag.NewError(diag.CategoryLoopStructure,
				fmt.Sprintf("%s appears both as a bare item and as a loop column", tag),
				lp.Span, diag.WithDataName(string(tag))))
		}
		if def, ok := v.model.Lookup(string(tag)); ok && def.Category != "" {
			cats[strings.ToLower(def.Category)] = true
		}
	}
	if len(cats) > 1 {
		names := make([]string, 0, len(cats))
		for cat := range cats {
			names = append(names, cat)
		}
		sort.Strings(names)
		c.Add(diag.NewWarning(diag.CategoryMixedCategories,
			fmt.Sprintf("loop mixes columns from categories %s", strings.Join(names, ", ")),
			lp.Span))
	}
}

// checkMandatory implements spec §4.4 step 6: every category with at least
// one definition present in b (via a bare item or a loop column) must also
// carry every Mandatory definition of that category.
func (v *Validator) checkMandatory(b cif.Block, c *diag.Collector) {
	present := make(map[string]bool)
	for _, it := range b.Items {
		present[it.Tag.Canonical()] = true
	}
	for _, lp := range b.Loops {
		for _, tag := range lp.Tags {
			present[tag.Canonical()] = true
		}
	}
	if len(present) == 0 {
		return
	}

	touchedCategories := make(map[string]bool)
	for name := range present {
		if def, ok := v.model.Lookup(name); ok && def.Category != "" {
			touchedCategories[strings.ToLower(def.Category)] = true
		}
	}

	for category := range touchedCategories {
		for _, def := range v.model.DefinitionsInCategory(category) {
			if !def.Mandatory {
				continue
			}
			if present[strings.ToLower(def.Name)] {
				continue
			}
			if v.hasAnyAlias(present, def) {
				continue
			}
			c.Add(diag.NewError(diag.CategoryMissingMandatory,
				fmt.Sprintf("mandatory item %s of category %s is absent", def.Name, def.Category),
				b.Span, diag.WithDataName(def.Name)))
		}
	}
}

func (v *Validator) hasAnyAlias(present map[string]bool, def dict.Definition) bool {
	for _, alias := range def.Aliases {
		if present[strings.ToLower(alias)] {
			return true
		}
	}
	return false
}

// checkItem implements spec §4.4 steps 1-5 and step 8 for a single
// (tag, value) occurrence, whether it came from a bare item or a loop cell.
func (v *Validator) checkItem(tag cif.Tag, val cif.Value, c *diag.Collector) {
	def, ok := v.model.Lookup(string(tag))
	if !ok {
		v.checkUnknownName(tag, val, c)
		return
	}

	v.checkContainer(def, tag, val, c)
	v.checkContents(def, tag, val, c)
	v.checkEnumeration(def, tag, val, c)
	v.checkRange(def, tag, val, c)

	if def.Deprecated {
		c.Add(diag.NewWarning(diag.CategoryDeprecatedItem,
			fmt.Sprintf("%s is deprecated", tag), val.Span(), diag.WithDataName(def.Name)))
	}
}

// checkUnknownName implements spec §4.4 step 1's failure path.
func (v *Validator) checkUnknownName(tag cif.Tag, val cif.Value, c *diag.Collector) {
	switch v.opts.Mode {
	case Lenient:
		c.Add(diag.NewWarning(diag.CategoryUnknownItem,
			fmt.Sprintf("%s is not defined by any loaded dictionary", tag), val.Span(),
			diag.WithDataName(string(tag))))
	case Pedantic:
		c.Add(diag.NewError(diag.CategoryUnknownDataName,
			fmt.Sprintf("%s is not defined by any loaded dictionary", tag), val.Span(),
			diag.WithDataName(string(tag))))
		if close := v.closeNames(tag.Canonical()); len(close) > 0 {
			c.Add(diag.NewWarning(diag.CategoryStyle,
				fmt.Sprintf("%s resembles %s", tag, strings.Join(close, ", ")), val.Span(),
				diag.WithDataName(string(tag)), diag.WithSuggestions(close...)))
		}
	default: // Strict
		c.Add(diag.NewError(diag.CategoryUnknownDataName,
			fmt.Sprintf("%s is not defined by any loaded dictionary", tag), val.Span(),
			diag.WithDataName(string(tag))))
	}
}

// checkContainer implements spec §4.4 step 2.
func (v *Validator) checkContainer(def dict.Definition, tag cif.Tag, val cif.Value, c *diag.Collector) {
	if val.IsSpecial() {
		return
	}
	switch def.Container {
	case dict.ContainerList:
		if !val.IsList() {
			c.Add(diag.NewError(diag.CategoryTypeError,
				fmt.Sprintf("%s must be a %s, found %s", tag, def.Container, val.Kind()),
				val.Span(), diag.WithDataName(def.Name),
				diag.WithExpected(string(def.Container)), diag.WithActual(val.Kind().String())))
		}
	case dict.ContainerMatrix:
		v.checkMatrixShape(def, tag, val, c)
	case dict.ContainerTable:
		if !val.IsTable() {
			c.Add(diag.NewError(diag.CategoryTypeError,
				fmt.Sprintf("%s must be a Table, found %s", tag, val.Kind()),
				val.Span(), diag.WithDataName(def.Name),
				diag.WithExpected("Table"), diag.WithActual(val.Kind().String())))
		}
	default: // Single or unset
		if val.IsList() || val.IsTable() {
			c.Add(diag.NewError(diag.CategoryTypeError,
				fmt.Sprintf("%s must be a single value, found %s", tag, val.Kind()),
				val.Span(), diag.WithDataName(def.Name),
				diag.WithExpected("Single"), diag.WithActual(val.Kind().String())))
		}
	}
}

// checkMatrixShape verifies that val is a List of Lists, every inner List
// sharing one common length of at least 1, per spec §4.4 step 2's Matrix
// container rule. A bare List (no nested Lists at all) or a ragged/empty
// nesting is reported as a single TypeError anchored at the whole value.
func (v *Validator) checkMatrixShape(def dict.Definition, tag cif.Tag, val cif.Value, c *diag.Collector) {
	malformed := func(reason string) {
		c.Add(diag.NewError(diag.CategoryTypeError,
			fmt.Sprintf("%s must be a Matrix (a list of equal-length lists), %s", tag, reason),
			val.Span(), diag.WithDataName(def.Name),
			diag.WithExpected(string(dict.ContainerMatrix)), diag.WithActual(val.Kind().String())))
	}

	rows, ok := val.ListValue()
	if !ok {
		malformed(fmt.Sprintf("found %s", val.Kind()))
		return
	}
	if len(rows) == 0 {
		malformed("found no rows")
		return
	}

	rowLen := -1
	for _, row := range rows {
		cols, ok := row.ListValue()
		if !ok {
			malformed(fmt.Sprintf("found a non-list element (%s)", row.Kind()))
			return
		}
		if len(cols) == 0 {
			malformed("found an empty row")
			return
		}
		if rowLen == -1 {
			rowLen = len(cols)
		} else if len(cols) != rowLen {
			malformed("found rows of differing length")
			return
		}
	}
}

// checkContents implements spec §4.4 step 3. Only the token set recognized
// by dict.Contents* drives a check; any other Contents token is tolerated.
func (v *Validator) checkContents(def dict.Definition, tag cif.Tag, val cif.Value, c *diag.Collector) {
	if val.IsSpecial() || val.IsList() || val.IsTable() {
		return
	}
	switch def.Contents {
	case dict.ContentsInteger, dict.ContentsReal, dict.ContentsComplex, dict.ContentsImag:
		if !val.IsNumeric() && !val.IsNumericWithUncertainty() {
			c.Add(diag.NewError(diag.CategoryTypeError,
				fmt.Sprintf("%s must be numeric (%s), found %s", tag, def.Contents, val.Kind()),
				val.Span(), diag.WithDataName(def.Name),
				diag.WithExpected(def.Contents), diag.WithActual(val.Kind().String())))
		}
	case dict.ContentsText, dict.ContentsCode, dict.ContentsUri, dict.ContentsDateTime,
		dict.ContentsVersion, dict.ContentsSymOp:
		if !val.IsText() {
			c.Add(diag.NewError(diag.CategoryTypeError,
				fmt.Sprintf("%s must be text (%s), found %s", tag, def.Contents, val.Kind()),
				val.Span(), diag.WithDataName(def.Name),
				diag.WithExpected(def.Contents), diag.WithActual(val.Kind().String())))
		}
	}
}

// checkEnumeration implements spec §4.4 step 4. Code membership is always
// case-sensitive; Text membership folds case when Options.FoldCase is set.
func (v *Validator) checkEnumeration(def dict.Definition, tag cif.Tag, val cif.Value, c *diag.Collector) {
	if len(def.Enumeration) == 0 || val.IsSpecial() {
		return
	}
	text, isText := val.TextValue()
	if !isText {
		return
	}

	caseSensitive := def.Contents == dict.ContentsCode || !v.opts.FoldCase
	needle := text
	if !caseSensitive {
		needle = v.fold.String(text)
	}
	for _, member := range def.Enumeration {
		candidate := member
		if !caseSensitive {
			candidate = v.fold.String(candidate)
		}
		if needle == candidate {
			return
		}
	}

	suggestions := v.nearest(text, def.Enumeration, v.opts.MaxSuggestions)
	opts := []diag.Option{diag.WithDataName(def.Name), diag.WithActual(text)}
	if len(suggestions) > 0 {
		opts = append(opts, diag.WithSuggestions(suggestions...))
	}
	c.Add(diag.NewError(diag.CategoryEnumerationError,
		fmt.Sprintf("%s value %q is not a member of its enumeration", tag, text),
		val.Span(), opts...))
}

// checkRange implements spec §4.4 step 5. The central value is used for
// NumericWithUncertainty, per spec's "central value" rule.
func (v *Validator) checkRange(def dict.Definition, tag cif.Tag, val cif.Value, c *diag.Collector) {
	if def.Range == nil || val.IsSpecial() {
		return
	}
	n, isNumeric := val.NumericValue()
	if !isNumeric {
		return
	}
	if def.Range.Min != nil && n < *def.Range.Min {
		c.Add(diag.NewError(diag.CategoryRangeError,
			fmt.Sprintf("%s value %v is below minimum %v", tag, n, *def.Range.Min),
			val.Span(), diag.WithDataName(def.Name)))
		return
	}
	if def.Range.Max != nil && n > *def.Range.Max {
		c.Add(diag.NewError(diag.CategoryRangeError,
			fmt.Sprintf("%s value %v exceeds maximum %v", tag, n, *def.Range.Max),
			val.Span(), diag.WithDataName(def.Name)))
	}
}

// closeNames returns the canonical dictionary names within edit distance 2
// of query, for Pedantic-mode step 1's "close alias" style warning.
func (v *Validator) closeNames(query string) []string {
	return v.nearestWithin(query, v.model.Names(), v.opts.MaxSuggestions, 2)
}

// nearest returns the up-to-limit enumeration members closest to query by
// Levenshtein distance, without a hard distance ceiling (spec §4.4 step 4
// always attaches its best guesses, however far).
func (v *Validator) nearest(query string, candidates []string, limit int) []string {
	return v.nearestWithin(query, candidates, limit, -1)
}

func (v *Validator) nearestWithin(query string, candidates []string, limit int, maxDistance int) []string {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}
	cacheKey := fmt.Sprintf("%s\x00%d\x00%s", query, maxDistance, strings.Join(candidates, "\x00"))
	if cached, ok := v.suggestions.Get(cacheKey); ok {
		return cached
	}

	type scored struct {
		name string
		dist int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		d := textmetric.Levenshtein(strings.ToLower(query), strings.ToLower(cand))
		if maxDistance >= 0 && d > maxDistance {
			continue
		}
		ranked = append(ranked, scored{cand, d})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].dist < ranked[j].dist })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.name
	}
	v.suggestions.Add(cacheKey, out)
	return out
}
