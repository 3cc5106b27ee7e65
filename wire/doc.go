// Package wire encodes operations as JSON for the transport layer.
//
// Encoding is lossless; decoding validates the structural contract (field
// presence, array shapes, signed 32-bit numeric ranges) and returns
// ErrMalformed for anything else, leaving the caller's replica untouched.
// Transport itself is out of scope: the caller moves the bytes.
package wire
