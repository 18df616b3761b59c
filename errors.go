package lazy

import "github.com/tychoish/lazy/ers"

// ErrInvalidArgument is the root of the errors returned when an
// operator is constructed with an argument outside of its domain,
// such as a non-positive buffer size or consumer limit.
const ErrInvalidArgument ers.Error = ers.ErrInvalidArgument

// ErrResourceExhausted is the root of the errors returned when
// acquiring a cursor from a memoized sequence whose consumer limit
// has been reached.
const ErrResourceExhausted ers.Error = ers.ErrResourceExhausted
