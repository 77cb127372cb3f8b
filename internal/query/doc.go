// Package query provides triple-pattern queries over an edb.Bag.
//
// A Query binds any subset of entity, attribute, and value; nil marks a free
// position. The bound set determines the scan signature:
//
//	alice age ?   -> EAv
//	? tag staff   -> eAV
//	? ? ?         -> eav
//
// Shapes that bind the value without the attribute (eaV, EaV) have no index
// and are rejected with ErrUnsupportedShape. The SQL backend in querysql
// answers every shape and is used as an independent oracle in tests.
package query
