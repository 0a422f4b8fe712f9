// Package validate implements the validator core: given a parsed
// cif.Document and a composed dict.Model, it walks every item and loop
// cell and emits a diag.Result of structured diagnostics describing where
// the document disagrees with the dictionary.
package validate
