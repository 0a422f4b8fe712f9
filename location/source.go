package location

// SourceID identifies the origin of a Span: the CIF data file being parsed,
// or a dictionary file contributing definitions to a DictionaryModel. Two
// Spans from different sources are never compared geometrically against
// each other.
type SourceID string

// IsZero reports whether the source identity is unset.
func (s SourceID) IsZero() bool {
	return s == ""
}

// String returns the source identity as given by the caller (typically a
// file path, or a synthetic label like "inline" for in-memory buffers).
func (s SourceID) String() string {
	if s == "" {
		return "<unknown>"
	}
	return string(s)
}
