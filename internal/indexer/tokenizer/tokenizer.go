// Package tokenizer provides text tokenisation for the search engine.
// It lower-cases ASCII and Cyrillic input, splits on any code point outside
// the word alphabet, and produces a sequence of lowered word tokens.
package tokenizer

import (
	"github.com/fts-lab/searchcore/internal/indexer/codec"
)

// Lower returns the lower-cased form of cp. Only ASCII A-Z, the Cyrillic
// capital block U+0410..U+042F, and Ё (U+0401) are mapped; everything else
// passes through.
func Lower(cp uint32) uint32 {
	if cp >= 'A' && cp <= 'Z' {
		return cp + 0x20
	}
	if cp >= 0x0410 && cp <= 0x042F {
		return cp + 0x20
	}
	if cp == 0x0401 {
		return 0x0451
	}
	return cp
}

// IsWordChar reports whether cp belongs to the word alphabet: ASCII letters
// and digits plus the Cyrillic block U+0400..U+04FF.
func IsWordChar(cp uint32) bool {
	if (cp >= 'A' && cp <= 'Z') || (cp >= 'a' && cp <= 'z') {
		return true
	}
	if cp >= '0' && cp <= '9' {
		return true
	}
	return cp >= 0x0400 && cp <= 0x04FF
}

// Tokenize breaks text into lowered word tokens. Any non-word code point is
// a separator; there is no minimum token length and no stop-word filtering.
func Tokenize(text []byte) []string {
	codes := codec.Decode(text)
	tokens := make([]string, 0, len(codes)/4)
	current := make([]uint32, 0, 16)

	for _, cp := range codes {
		if IsWordChar(cp) {
			current = append(current, Lower(cp))
			continue
		}
		if len(current) > 0 {
			tokens = append(tokens, string(codec.Encode(current)))
			current = current[:0]
		}
	}
	if len(current) > 0 {
		tokens = append(tokens, string(codec.Encode(current)))
	}
	return tokens
}

// ToLowerCase lower-cases every code point of s without splitting. Used for
// whole-document substring checks during boolean re-verification.
func ToLowerCase(s string) string {
	codes := codec.Decode([]byte(s))
	for i, cp := range codes {
		codes[i] = Lower(cp)
	}
	return string(codec.Encode(codes))
}
