package validate

import (
	"errors"
	"log/slog"

	"github.com/crystalshelf/cif/metrics"
	"github.com/go-playground/validator/v10"
)

// ErrNoDictionary is returned by New when given a nil dict.Model.
var ErrNoDictionary = errors.New("validate: no dictionary model given")

// ErrInvalidOptions is returned by New when Options fails struct-tag
// validation. Both are spec §7 level-3 "programmer error" signals, never
// surfaced as a diag.Diagnostic.
var ErrInvalidOptions = errors.New("validate: invalid Options")

var optionsValidator = validator.New()

// Mode selects how strictly the validator treats data names that are
// absent from the composed dictionary (spec §4.4 step 1).
type Mode string

const (
	Strict   Mode = "strict"
	Lenient  Mode = "lenient"
	Pedantic Mode = "pedantic"
)

// Options configures a Validator. It is checked with struct-tag validation
// at construction time (spec §5.1): a malformed Options never reaches the
// validation algorithm itself.
type Options struct {
	Mode Mode `validate:"required,oneof=strict lenient pedantic"`

	// MaxSuggestions caps the number of nearest-candidate strings attached
	// to EnumerationError diagnostics and Pedantic-mode close-alias Style
	// warnings.
	MaxSuggestions int `validate:"gte=0"`

	// FoldCase controls whether Text enumeration membership (spec §4.4
	// step 4) is case-insensitive. Code membership is always
	// case-sensitive regardless of this setting.
	FoldCase bool

	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// DefaultOptions returns Strict-mode options with up to 3 suggestions and
// case-insensitive Text enumeration folding.
func DefaultOptions() Options {
	return Options{Mode: Strict, MaxSuggestions: 3, FoldCase: true}
}
