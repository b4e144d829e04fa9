package benchmark

import (
	"fmt"
	"testing"

	"github.com/fts-lab/searchcore/internal/indexer/index"
	"github.com/fts-lab/searchcore/internal/indexer/vbyte"
)

func makePostings(n int) []index.Posting {
	postings := make([]index.Posting, n)
	for i := range postings {
		postings[i] = index.Posting{DocID: (i + 1) * 3, Frequency: 1 + i%40}
	}
	return postings
}

func BenchmarkVByteEncode(b *testing.B) {
	b.ReportAllocs()
	buf := make([]byte, 0, 8)
	for i := 0; i < b.N; i++ {
		buf = buf[:0]
		buf, _ = vbyte.Append(buf, i)
	}
}

func BenchmarkVByteDecode(b *testing.B) {
	encoded, _ := vbyte.Encode(1 << 20)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		off := 0
		_, _ = vbyte.Decode(encoded, &off)
	}
}

func BenchmarkCompressPostings(b *testing.B) {
	for _, n := range []int{10, 1000, 100000} {
		postings := makePostings(n)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				compressed, err := index.Compress(postings)
				if err != nil {
					b.Fatal(err)
				}
				_ = compressed
			}
		})
	}
}

func BenchmarkDecompressPostings(b *testing.B) {
	for _, n := range []int{10, 1000, 100000} {
		compressed, err := index.Compress(makePostings(n))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(compressed)))
			for i := 0; i < b.N; i++ {
				postings, err := index.Decompress(compressed)
				if err != nil {
					b.Fatal(err)
				}
				_ = postings
			}
		})
	}
}
