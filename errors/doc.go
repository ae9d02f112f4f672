// Package errors provides the structured error type shared by seqkit packages.
//
// Every failure raised by seqkit itself (as opposed to a failure returned by a
// caller-supplied stage function) is an *AppError carrying a machine-readable
// ErrorCode. The sequence engine raises exactly one kind on its own,
// ErrCodeIndexOutOfRange; the remaining codes belong to plan compilation and
// the HTTP surface.
package errors
