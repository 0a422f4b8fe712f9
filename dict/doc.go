// Package dict loads a DDLm dictionary — itself a CIF document parsed by
// the cif package — into a DictionaryModel: an index from canonical
// data-name to Definition, usable by the validate package to check a CIF
// document's items against the dictionary's types, containers,
// enumerations, and ranges.
package dict
