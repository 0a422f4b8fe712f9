package dict

import "github.com/crystalshelf/cif/location"

// Container is the shape a Definition's value must take.
type Container string

const (
	ContainerSingle Container = "Single"
	ContainerList   Container = "List"
	ContainerMatrix Container = "Matrix"
	ContainerTable  Container = "Table"
)

// Known Contents tokens that drive a type check in validate. Any other
// token is preserved on Definition.Contents but produces no runtime check,
// per spec §3's "unknown tokens are tolerated".
const (
	ContentsInteger  = "Integer"
	ContentsReal     = "Real"
	ContentsText     = "Text"
	ContentsCode     = "Code"
	ContentsComplex  = "Complex"
	ContentsImag     = "Imag"
	ContentsUri      = "Uri"
	ContentsDateTime = "DateTime"
	ContentsVersion  = "Version"
	ContentsSymOp    = "SymOp"
)

// Range is an inclusive numeric bound; a nil Min or Max means that side is
// open.
type Range struct {
	Min *float64
	Max *float64
}

// Definition describes one data name as declared by a DDLm dictionary save
// frame (spec §3 "Definition").
type Definition struct {
	Name       string
	Aliases    []string
	Category   string
	ObjectID   string
	Purpose    string
	Container  Container
	Contents   string
	Enumeration []string
	Range      *Range
	Mandatory  bool
	Deprecated bool
	SourceSpan location.Span

	// EnumerationDetail maps an enumeration state to its free-text
	// _enumeration_set.detail, when the dictionary supplies one.
	EnumerationDetail map[string]string
	// Units carries _units.code, when present, for richer diagnostic
	// messages; it adds no validation rule of its own.
	Units string
	// Default carries _enumeration.default, when present. It is metadata
	// only: validate neither substitutes it for an absent item nor checks
	// it against Enumeration.
	Default string
}

// CategoryInfo records a DDLm category head frame (spec §4.1 of the
// dictionary loader's supplemented features): a frame whose
// _definition.class is Head and whose _name.category_id is "." identifies
// itself rather than its parent.
type CategoryInfo struct {
	Name       string
	ParentID   string
	SourceSpan location.Span
}
