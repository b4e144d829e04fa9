package codec

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestDecodeASCII(t *testing.T) {
	assert.Equal(t, []uint32{'a', 'b', 'c'}, Decode([]byte("abc")))
}

func TestDecodeCyrillic(t *testing.T) {
	codes := Decode([]byte("Привет"))
	assert.Equal(t, []uint32{0x041F, 0x0440, 0x0438, 0x0432, 0x0435, 0x0442}, codes)
}

func TestDecodeSkipsInvalidLeadingByte(t *testing.T) {
	// 0xFF can never start a sequence; the decoder advances one byte.
	assert.Equal(t, []uint32{'a', 'b'}, Decode([]byte{'a', 0xFF, 'b'}))
}

func TestDecodeDropsTruncatedTail(t *testing.T) {
	// 0xD0 declares one continuation byte that never arrives.
	assert.Empty(t, Decode([]byte{0xD0}))
	assert.Equal(t, []uint32{'a'}, Decode([]byte{'a', 0xD0}))
}

func TestDecodeResyncsAfterBadContinuation(t *testing.T) {
	// The byte after the bad lead is not consumed: 0x41 decodes as 'A'.
	assert.Equal(t, []uint32{'A'}, Decode([]byte{0xD0, 0x41}))
}

func TestEncodeBoundaries(t *testing.T) {
	assert.Equal(t, []byte{0x7F}, Encode([]uint32{0x7F}))
	assert.Equal(t, []byte{0xC2, 0x80}, Encode([]uint32{0x80}))
	assert.Equal(t, []byte{0xDF, 0xBF}, Encode([]uint32{0x7FF}))
	assert.Equal(t, []byte{0xE0, 0xA0, 0x80}, Encode([]uint32{0x800}))
	assert.Equal(t, []byte{0xEF, 0xBF, 0xBF}, Encode([]uint32{0xFFFF}))
	assert.Equal(t, []byte{0xF0, 0x90, 0x80, 0x80}, Encode([]uint32{0x10000}))
	assert.Equal(t, []byte{0xF4, 0x8F, 0xBF, 0xBF}, Encode([]uint32{0x10FFFF}))
}

func TestEncodeDropsOutOfRange(t *testing.T) {
	assert.Equal(t, []byte("ab"), Encode([]uint32{'a', 0x110000, 'b'}))
}

func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	properties.Property("decode(encode(cs)) == cs", prop.ForAll(
		func(codes []uint32) bool {
			decoded := Decode(Encode(codes))
			if len(decoded) != len(codes) {
				return false
			}
			for i := range codes {
				if decoded[i] != codes[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt32Range(0, MaxCodePoint)),
	))
	properties.TestingRun(t)
}
