package cif

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/crystalshelf/cif/diag"
	"github.com/crystalshelf/cif/location"
	"github.com/crystalshelf/cif/metrics"
)

// ErrRead is wrapped around any error returned by the caller's io.Reader.
var ErrRead = errors.New("cif: read error")

// ParseOption customizes a ParseAll/ParseString call.
type ParseOption func(*parseConfig)

type parseConfig struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	source  location.SourceID
}

// WithLogger overrides the *slog.Logger used for the Debug line logged at
// the start of each parse.
// A nil logger (the default) falls back to slog.Default().
func WithLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) { c.logger = logger }
}

// WithMetrics attaches a metrics.Recorder. A nil Recorder (the default) is
// a valid no-op.
func WithMetrics(r *metrics.Recorder) ParseOption {
	return func(c *parseConfig) { c.metrics = r }
}

// WithSourceID overrides the SourceID attached to every Span produced by
// this parse. The default is "inline".
func WithSourceID(id location.SourceID) ParseOption {
	return func(c *parseConfig) { c.source = id }
}

// ParseAll reads every byte of r and parses it as a single CIF document. It
// never panics on malformed CIF content: a lexical or structural break
// inside one block resynchronizes at the next data_ keyword, so parsing
// continues into every subsequent well-formed block. Each break contributes
// one diag.Diagnostic at diag.CategorySyntax describing where it occurred.
// The returned error is non-nil only when reading from r itself fails.
func ParseAll(r io.Reader, opts ...ParseOption) (*Document, []diag.Diagnostic, error) {
	cfg := parseConfig{source: "inline"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrRead, err)
	}

	cfg.logger.Debug("cif: starting parse", "source", cfg.source, "bytes", len(data))
	builder := newASTBuilder(cfg.source, string(data), cfg.logger)
	doc, diags := builder.build()

	cfg.metrics.ObserveParse(len(doc.Blocks), len(diags))
	return doc, diags, nil
}

// ParseString is a convenience wrapper over ParseAll for in-memory CIF
// text.
func ParseString(s string, opts ...ParseOption) (*Document, []diag.Diagnostic, error) {
	return ParseAll(strings.NewReader(s), opts...)
}
