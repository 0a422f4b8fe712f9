package diag_test

import (
	"testing"

	"github.com/crystalshelf/cif/diag"
	"github.com/crystalshelf/cif/location"
	"github.com/stretchr/testify/require"
)

func span(source string, line, col int) location.Span {
	return location.Point(location.SourceID(source), line, col)
}

func TestNewErrorPanicsOnWarningCategory(t *testing.T) {
	require.Panics(t, func() {
		diag.NewError(diag.CategoryStyle, "oops", span("f", 1, 1))
	})
}

func TestNewWarningPanicsOnErrorCategory(t *testing.T) {
	require.Panics(t, func() {
		diag.NewWarning(diag.CategoryTypeError, "oops", span("f", 1, 1))
	})
}

func TestCollectorAddPanicsOnUnbuiltDiagnostic(t *testing.T) {
	c := diag.NewCollector()
	require.Panics(t, func() {
		c.Add(diag.Diagnostic{})
	})
}

func TestResultSortedByPosition(t *testing.T) {
	c := diag.NewCollector()
	c.Add(diag.NewError(diag.CategoryTypeError, "second", span("f", 2, 1)))
	c.Add(diag.NewError(diag.CategoryTypeError, "first", span("f", 1, 5)))
	c.Add(diag.NewWarning(diag.CategoryStyle, "tie-break-later", span("f", 1, 5)))

	result := c.Result()
	require.Equal(t, 2, result.ErrorCount())
	require.Equal(t, 1, result.WarningCount())

	ds := result.Diagnostics()
	require.Len(t, ds, 3)
	require.Equal(t, "first", ds[0].Message())
	require.Equal(t, "tie-break-later", ds[1].Message(), "stable sort keeps insertion order on ties")
	require.Equal(t, "second", ds[2].Message())
}

func TestDiagnosticRender(t *testing.T) {
	d := diag.NewError(diag.CategoryUnknownDataName, "_foo.bar is not defined", span("example.cif", 3, 7))
	require.Equal(t, "example.cif:3:7: UnknownDataName: _foo.bar is not defined", d.Render())
}

func TestOptionsAttachFields(t *testing.T) {
	d := diag.NewError(diag.CategoryEnumerationError, "bad value", span("f", 1, 1),
		diag.WithDataName("_a.b"), diag.WithExpected("x or y"), diag.WithActual("z"),
		diag.WithSuggestions("x", "y"))
	require.Equal(t, "_a.b", d.DataName())
	require.Equal(t, "x or y", d.Expected())
	require.Equal(t, "z", d.Actual())
	require.Equal(t, []string{"x", "y"}, d.Suggestions())
}

func TestResultOK(t *testing.T) {
	c := diag.NewCollector()
	c.Add(diag.NewWarning(diag.CategoryStyle, "just a warning", span("f", 1, 1)))
	require.True(t, c.Result().OK())

	c.Add(diag.NewError(diag.CategoryTypeError, "an error", span("f", 1, 1)))
	require.False(t, c.Result().OK())
}
