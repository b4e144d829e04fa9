// Package vbyte implements the variable-byte integer codec used by the
// posting-list compressor: 7 payload bits per byte, little-endian payload
// order, and the high bit set on the final byte as terminator.
package vbyte

import (
	pkgerrors "github.com/fts-lab/searchcore/pkg/errors"
)

// Append encodes v and appends the bytes to dst.
func Append(dst []byte, v int) ([]byte, error) {
	if v < 0 {
		return dst, pkgerrors.ErrNegativeValue
	}
	for v >= 128 {
		dst = append(dst, byte(v&0x7F))
		v >>= 7
	}
	return append(dst, byte(v|0x80)), nil
}

// Encode returns the encoding of v.
func Encode(v int) ([]byte, error) {
	return Append(nil, v)
}

// Decode reads one value from data starting at *off and advances *off past
// the consumed bytes. Running off the buffer before seeing a terminator
// yields ErrTruncatedValue; more than 28 bits of continuation payload yields
// ErrVByteOverflow.
func Decode(data []byte, off *int) (int, error) {
	if *off >= len(data) {
		return 0, pkgerrors.ErrTruncatedValue
	}
	result := 0
	shift := 0
	for *off < len(data) {
		b := data[*off]
		*off++
		result |= int(b&0x7F) << shift
		if b&0x80 != 0 {
			return result, nil
		}
		shift += 7
		if shift > 28 {
			return 0, pkgerrors.ErrVByteOverflow
		}
	}
	return 0, pkgerrors.ErrTruncatedValue
}

// Size returns the number of bytes v occupies when encoded, or 0 for
// negative input.
func Size(v int) int {
	if v < 0 {
		return 0
	}
	if v == 0 {
		return 1
	}
	n := 0
	for v > 0 {
		n++
		v >>= 7
	}
	return n
}
