package cif_test

import (
	"testing"

	"github.com/crystalshelf/cif"
	"github.com/crystalshelf/cif/diag"
	"github.com/stretchr/testify/require"
)

func TestParseStringBasicBlock(t *testing.T) {
	src := `data_example
_cell.length_a 5.123(4)
_cell.length_b 6.0
_cell.formula 'C6 H12 O6'
loop_
_atom_site.label
_atom_site.fract_x
C1 0.1
C2 0.2
`
	doc, diags, err := cif.ParseString(src)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, doc.Blocks, 1)

	block, ok := doc.BlockByName("EXAMPLE")
	require.True(t, ok, "block lookup must fold case")

	a, ok := block.Item("_cell.length_a")
	require.True(t, ok)
	require.True(t, a.Value.IsNumericWithUncertainty())
	n, _ := a.Value.NumericValue()
	require.InDelta(t, 5.123, n, 1e-9)
	u, _ := a.Value.UncertaintyValue()
	require.InDelta(t, 0.004, u, 1e-9)

	formula, ok := block.Item("_cell.formula")
	require.True(t, ok)
	text, isText := formula.Value.TextValue()
	require.True(t, isText)
	require.Equal(t, "C6 H12 O6", text)

	lp, ok := block.LoopWithTag("_atom_site.label")
	require.True(t, ok)
	require.Equal(t, 2, lp.NumRows())
	require.Equal(t, 4, lp.RawCount)

	col, ok := lp.Column("_atom_site.label")
	require.True(t, ok)
	labels := make([]string, len(col))
	for i, v := range col {
		labels[i], _ = v.TextValue()
	}
	require.Equal(t, []string{"C1", "C2"}, labels)
}

func TestParseStringSpecialValues(t *testing.T) {
	doc, _, err := cif.ParseString("data_x\n_a ?\n_b .\n")
	require.NoError(t, err)
	block, _ := doc.FirstBlock()

	a, _ := block.Item("_a")
	require.True(t, a.Value.IsUnknown())
	require.True(t, a.Value.IsSpecial())

	b, _ := block.Item("_b")
	require.True(t, b.Value.IsNotApplicable())
}

func TestParseStringCIF2List(t *testing.T) {
	doc, diags, err := cif.ParseString("data_x\n_m.vec [1 2 3]\n")
	require.NoError(t, err)
	require.Empty(t, diags)
	block, _ := doc.FirstBlock()
	item, ok := block.Item("_m.vec")
	require.True(t, ok)
	require.True(t, item.Value.IsList())
	elems, _ := item.Value.ListValue()
	require.Len(t, elems, 3)
	first, _ := elems[0].NumericValue()
	require.Equal(t, float64(1), first)
}

func TestParseStringCIF2Table(t *testing.T) {
	doc, _, err := cif.ParseString("data_x\n_m.tbl {'a': 1 'b': 2}\n")
	require.NoError(t, err)
	block, _ := doc.FirstBlock()
	item, ok := block.Item("_m.tbl")
	require.True(t, ok)
	require.True(t, item.Value.IsTable())
	tbl, _ := item.Value.TableValue()
	require.Equal(t, []string{"a", "b"}, tbl.Keys())
}

func TestParseStringSaveFrame(t *testing.T) {
	doc, _, err := cif.ParseString("data_x\nsave_frame1\n_a 1\nsave_\n")
	require.NoError(t, err)
	block, _ := doc.FirstBlock()
	frame, ok := block.FrameByName("frame1")
	require.True(t, ok)
	item, ok := frame.Item("_a")
	require.True(t, ok)
	n, _ := item.Value.NumericValue()
	require.Equal(t, float64(1), n)
}

func TestRoundTripWriteTo(t *testing.T) {
	src := "data_x\n_a text_value\n_b 5.0\n"
	doc, _, err := cif.ParseString(src)
	require.NoError(t, err)

	writer := &byteSliceWriter{}
	n, err := doc.WriteTo(writer)
	require.NoError(t, err)
	require.Positive(t, n)

	doc2, diags, err := cif.ParseString(string(writer.data))
	require.NoError(t, err)
	require.Empty(t, diags)
	block, _ := doc2.FirstBlock()
	item, ok := block.Item("_a")
	require.True(t, ok)
	text, _ := item.Value.TextValue()
	require.Equal(t, "text_value", text)
}

func TestParseStringResynchronizesAfterBlockScopeError(t *testing.T) {
	src := "data_x\n_a 1\n%bad\ndata_y\n_b 2\n"
	doc, diags, err := cif.ParseString(src)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, diag.CategorySyntax, diags[0].Category())

	require.Len(t, doc.Blocks, 2)

	x, ok := doc.BlockByName("x")
	require.True(t, ok)
	a, ok := x.Item("_a")
	require.True(t, ok)
	n, _ := a.Value.NumericValue()
	require.Equal(t, float64(1), n)

	y, ok := doc.BlockByName("y")
	require.True(t, ok)
	b, ok := y.Item("_b")
	require.True(t, ok)
	n, _ = b.Value.NumericValue()
	require.Equal(t, float64(2), n)
}

type byteSliceWriter struct{ data []byte }

func (w *byteSliceWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
