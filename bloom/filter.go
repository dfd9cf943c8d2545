// Package bloom provides substring prefilters backed by Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// TrigramSize is the length in bytes of the indexed substrings.
const TrigramSize = 3

// TrigramFilter records every byte trigram of a set of strings. A term with a
// trigram missing from the filter cannot be a substring of any of them.
type TrigramFilter struct {
	f *bloom.BloomFilter
	n uint
}

// NewTrigramFilter indexes the trigrams of texts at the given false positive
// rate. Trigrams never span two texts.
func NewTrigramFilter(fpRate float64, texts ...string) *TrigramFilter {
	var n uint
	for _, s := range texts {
		if len(s) >= TrigramSize {
			n += uint(len(s) - TrigramSize + 1)
		}
	}

	f := bloom.NewWithEstimates(max(n, 1), fpRate)
	for _, s := range texts {
		for i := 0; i+TrigramSize <= len(s); i++ {
			f.AddString(s[i : i+TrigramSize])
		}
	}
	return &TrigramFilter{f: f, n: n}
}

// Trigrams returns the number of trigrams added, counting repeats.
func (t *TrigramFilter) Trigrams() uint {
	return t.n
}

// MayContain reports whether term may be a substring of an indexed text.
// Terms shorter than a trigram always may. False positives are possible;
// false negatives are not.
func (t *TrigramFilter) MayContain(term string) bool {
	for i := 0; i+TrigramSize <= len(term); i++ {
		if !t.f.TestString(term[i : i+TrigramSize]) {
			return false
		}
	}
	return true
}
