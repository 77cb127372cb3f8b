// Package ir provides the identifier types that facts are built from.
//
// Entities, attributes, and values are all ir.Value. Nothing at this layer
// distinguishes an entity from a value; a uuid may appear in either position
// and a string may name an attribute or be a literal.
//
// This package imports nothing internal. Every other internal package
// imports ir, so it stays the foundational layer.
//
// Key design constraints:
//   - NO float kinds: identifiers must have exact equality and a total order
//   - Value is sealed: only String, Int, Bool, and UUID implement it
//   - Compare is a total order across kinds (Bool < Int < String < UUID)
//   - Canonical encoding (MarshalCanonical) is the only input to FactID
package ir
