package ers

// ErrInvalidArgument is returned by constructors that receive an
// argument outside of their domain (e.g. a non-positive size or
// limit). These errors are never retriable.
const ErrInvalidArgument Error = Error("invalid argument")

// ErrResourceExhausted is returned when an operation would exceed a
// configured capacity, such as acquiring more cursors from a
// multicast sequence than its consumer limit allows. Releasing a
// held resource makes the operation possible again.
const ErrResourceExhausted Error = Error("resource exhausted")

// ErrInvariantViolation is the root of errors that indicate an
// internal bookkeeping inconsistency.
const ErrInvariantViolation Error = Error("invariant violation")
