package validate_test

import (
	"testing"

	"github.com/crystalshelf/cif"
	"github.com/crystalshelf/cif/diag"
	"github.com/crystalshelf/cif/dict"
	"github.com/crystalshelf/cif/validate"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const testDictionary = `data_example_dic

save_CELL
_definition.id CELL
_definition.class Head
_name.category_id .
save_

save_cell.length_a
_definition.id '_cell.length_a'
_name.category_id cell
_name.object_id length_a
_name.mandatory_code Yes
_type.contents Real
_enumeration.range 0.0:
save_

save_cell.lattice_type
_definition.id '_cell.lattice_type'
_name.category_id cell
_name.object_id lattice_type
_type.contents Code
loop_
_enumeration_set.state
_enumeration_set.detail
P  'primitive'
I  'body-centered'
F  'face-centered'
save_

save_cell.orientation_matrix
_definition.id '_cell.orientation_matrix'
_name.category_id cell
_name.object_id orientation_matrix
_type.contents Real
_type.container Matrix
save_
`

func buildModel(t *testing.T) *dict.Model {
	t.Helper()
	doc, _, err := cif.ParseString(testDictionary)
	require.NoError(t, err)
	m, _, err := dict.Load(doc, dict.LoadOptions{})
	require.NoError(t, err)
	return m
}

func TestValidateCleanDocument(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_cell.length_a 5.0\n_cell.lattice_type P\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.True(t, result.OK(), result.Render())
}

func TestValidateStrictUnknownName(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_cell.length_a 5.0\n_not.a_real_tag yes\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.False(t, result.OK())
	require.Equal(t, 1, result.ErrorCount())
	require.Equal(t, "UnknownDataName", result.Diagnostics()[0].Category().Name())
}

func TestValidateLenientUnknownNameIsWarning(t *testing.T) {
	model := buildModel(t)
	opts := validate.DefaultOptions()
	opts.Mode = validate.Lenient
	v, err := validate.New(model, opts)
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_not.a_real_tag yes\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.True(t, result.OK())
	require.Equal(t, 1, result.WarningCount())
	require.Equal(t, "UnknownItem", result.Diagnostics()[0].Category().Name())
}

func TestValidateRangeError(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_cell.length_a -1.0\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.False(t, result.OK())
	require.Equal(t, "RangeError", result.Diagnostics()[0].Category().Name())
}

func TestValidateEnumerationErrorWithSuggestion(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_cell.length_a 5.0\n_cell.lattice_type Q\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.False(t, result.OK())
	ds := result.Diagnostics()
	require.Equal(t, "EnumerationError", ds[0].Category().Name())
	require.NotEmpty(t, ds[0].Suggestions())
}

func TestValidateTypeErrorWrongContents(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_cell.length_a not_a_number\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.False(t, result.OK())
	require.Equal(t, "TypeError", result.Diagnostics()[0].Category().Name())
}

func TestValidateMatrixShapeAccepted(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_cell.length_a 5.0\n" +
		"_cell.orientation_matrix [[1 0 0] [0 1 0] [0 0 1]]\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.True(t, result.OK())
}

func TestValidateMatrixShapeRejectsRaggedRows(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_cell.length_a 5.0\n" +
		"_cell.orientation_matrix [[1 0 0] [0 1]]\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.False(t, result.OK())
	require.Equal(t, "TypeError", result.Diagnostics()[0].Category().Name())
}

func TestValidateMatrixShapeRejectsNonListRows(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_cell.length_a 5.0\n" +
		"_cell.orientation_matrix [1 2 3]\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.False(t, result.OK())
	require.Equal(t, "TypeError", result.Diagnostics()[0].Category().Name())
}

func TestValidateMissingMandatory(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	// Touches the "cell" category via lattice_type but omits the
	// mandatory length_a.
	doc, _, err := cif.ParseString("data_x\n_cell.lattice_type P\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.False(t, result.OK())
	found := false
	for _, d := range result.Diagnostics() {
		if d.Category().Name() == "MissingMandatory" {
			found = true
		}
	}
	require.True(t, found)
}

func TestValidateLoopStructureMismatch(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\nloop_\n_cell.lattice_type\n_cell.length_a\nP 1.0 I\n")
	require.NoError(t, err)

	result := v.Validate(doc)
	require.False(t, result.OK())
	require.Equal(t, "LoopStructure", result.Diagnostics()[0].Category().Name())
}

// diagnosticComparer lets go-cmp diff diag.Diagnostic values: its fields
// (and its embedded Category) are unexported, but every field is reachable
// through an exported accessor and each underlying type is natively
// comparable, so the comparer can be built from plain == comparisons.
var diagnosticComparer = cmp.Comparer(func(a, b diag.Diagnostic) bool {
	if len(a.Suggestions()) != len(b.Suggestions()) {
		return false
	}
	for i, s := range a.Suggestions() {
		if b.Suggestions()[i] != s {
			return false
		}
	}
	return a.Category() == b.Category() &&
		a.Message() == b.Message() &&
		a.Span() == b.Span() &&
		a.DataName() == b.DataName() &&
		a.Expected() == b.Expected() &&
		a.Actual() == b.Actual()
})

func TestValidateIsDeterministic(t *testing.T) {
	model := buildModel(t)
	v, err := validate.New(model, validate.DefaultOptions())
	require.NoError(t, err)

	doc, _, err := cif.ParseString("data_x\n_cell.length_a not_a_number\n_cell.lattice_type Q\n")
	require.NoError(t, err)

	first := v.Validate(doc)
	second := v.Validate(doc)

	if diff := cmp.Diff(first.Diagnostics(), second.Diagnostics(), diagnosticComparer); diff != "" {
		t.Fatalf("repeated validation of the same document differed:\n%s", diff)
	}
}

func TestNewRejectsNilModel(t *testing.T) {
	_, err := validate.New(nil, validate.DefaultOptions())
	require.ErrorIs(t, err, validate.ErrNoDictionary)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	model := buildModel(t)
	_, err := validate.New(model, validate.Options{})
	require.ErrorIs(t, err, validate.ErrInvalidOptions)
}
