package edb

import "errors"

var (
	// ErrIncludeCycle is returned when an include would make a store reach itself.
	ErrIncludeCycle = errors.New("include would create a cycle")

	// ErrNilInclude is returned when including a nil store.
	ErrNilInclude = errors.New("cannot include nil store")
)
