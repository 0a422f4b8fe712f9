package cif

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	looksNumeric1 = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]*([eE][+-]?[0-9]+)?)?$`)
	looksNumeric2 = regexp.MustCompile(`^[+-]?\.[0-9]+([eE][+-]?[0-9]+)?$`)
)

// WriteTo re-emits the Document as CIF 2.0 text: tags in original
// block-insertion order, every Value rendered with the narrowest legal CIF
// token for its kind. This is the serializer half of the round-trip
// property spec §8 requires of parse(serialize(parse(x))).
func (d Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if d.Version == VersionCIF2_0 {
		fmt.Fprintf(cw, "#\\#CIF_2.0\n")
	} else if d.Version == VersionCIF1_1 {
		fmt.Fprintf(cw, "#\\#CIF_1.1\n")
	}
	for _, block := range d.Blocks {
		writeDataBlock(cw, block)
	}
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}

func writeDataBlock(w io.Writer, b DataBlock) {
	fmt.Fprintf(w, "data_%s\n", b.Name)
	writeBlockBody(w, b.Block)
	for _, frame := range b.Frames {
		fmt.Fprintf(w, "save_%s\n", frame.Name)
		writeBlockBody(w, frame.Block)
		fmt.Fprintf(w, "save_\n")
	}
}

func writeBlockBody(w io.Writer, b Block) {
	for _, it := range b.Items {
		fmt.Fprintf(w, "%s  %s\n", it.Tag, formatValue(it.Value))
	}
	for _, lp := range b.Loops {
		writeLoop(w, lp)
	}
}

func writeLoop(w io.Writer, lp Loop) {
	fmt.Fprintf(w, "loop_\n")
	for _, tag := range lp.Tags {
		fmt.Fprintf(w, "%s\n", tag)
	}
	for _, row := range lp.Rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = formatValue(v)
		}
		fmt.Fprintf(w, "%s\n", strings.Join(parts, "  "))
	}
}

func formatValue(v Value) string {
	switch v.Kind() {
	case KindText:
		s, _ := v.TextValue()
		return formatText(s)
	case KindNumeric:
		f, _ := v.NumericValue()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case KindNumericWithUncertainty:
		f, _ := v.NumericValue()
		u, _ := v.UncertaintyValue()
		// The mantissa keeps as many fractional digits as the uncertainty
		// needs, so that the "(digits)" suffix re-parses to the same value.
		prec := 0
		if us := strconv.FormatFloat(u, 'f', -1, 64); strings.Contains(us, ".") {
			prec = len(us) - strings.IndexByte(us, '.') - 1
		}
		return fmt.Sprintf("%s(%s)", strconv.FormatFloat(f, 'f', prec, 64), uncertaintyDigits(u))
	case KindUnknown:
		return "?"
	case KindNotApplicable:
		return "."
	case KindList:
		elems, _ := v.ListValue()
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindTable:
		m, _ := v.TableValue()
		parts := make([]string, 0, m.Len())
		for _, k := range m.Keys() {
			e, _ := m.Get(k)
			// Table keys are always quoted; the lexer accepts no bare key.
			key := "'" + k + "'"
			if strings.ContainsRune(k, '\'') {
				key = "\"" + k + "\""
			}
			parts = append(parts, fmt.Sprintf("%s: %s", key, formatValue(e)))
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return ""
	}
}

// uncertaintyDigits renders an uncertainty value back into the bare digit
// sequence a CIF "(digits)" suffix expects, the inverse of the
// value=mantissa, uncertainty=digits*10^-fracDigits recovery rule in ast.go.
func uncertaintyDigits(u float64) string {
	s := strconv.FormatFloat(u, 'f', -1, 64)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	return s
}

// formatText picks the narrowest legal CIF delimiter for s: unquoted,
// single-quoted, double-quoted, or (when it contains a newline or both
// quote characters) a semicolon text field.
func formatText(s string) string {
	if s == "" {
		return "''"
	}
	if looksNumeric1.MatchString(s) || looksNumeric2.MatchString(s) || s == "?" || s == "." {
		return "'" + s + "'"
	}
	if strings.ContainsAny(s, "\n\r") {
		return "\n;" + s + "\n;"
	}

	hasSingle := strings.ContainsRune(s, '\'')
	hasDouble := strings.ContainsRune(s, '"')
	switch {
	case hasSingle && hasDouble:
		return "\n;" + s + "\n;"
	case hasDouble:
		return "'" + s + "'"
	case hasSingle:
		return "\"" + s + "\""
	case strings.HasPrefix(s, "_") || strings.HasPrefix(s, "$") ||
		strings.HasPrefix(s, "#") || strings.ContainsAny(s, " \t[]{}"):
		return "'" + s + "'"
	default:
		return s
	}
}
