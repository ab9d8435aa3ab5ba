// internal/grid/tags.go
//
// Tag generation and the per-family tag total orders. Letter tags skip I
// and O to match drawing conventions; number tags are zero-padded.

package grid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// letterAlphabet is the primary tag alphabet with I and O removed.
const letterAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// LetterTag returns the i-th primary tag: A..Z without I/O, then AA, AB...
func LetterTag(i int) string {
	if i < 0 {
		i = 0
	}
	n := len(letterAlphabet)
	if i < n {
		return string(letterAlphabet[i])
	}
	return string(letterAlphabet[i/n-1]) + string(letterAlphabet[i%n])
}

// NumberTag returns the i-th secondary tag: 01, 02, ...
func NumberTag(i int) string {
	if i < 0 {
		i = 0
	}
	return fmt.Sprintf("%02d", i+1)
}

// CompareTags orders two tags within a family. Secondary tags compare by
// parsed integer value (non-numeric parses as 0, ties break by string);
// primary tags compare byte-wise on the upper-cased form, so a prefix
// sorts first: A < AA < B.
func CompareTags(f Family, a, b string) int {
	if f == Secondary {
		av, bv := numericTagValue(a), numericTagValue(b)
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	}
	return strings.Compare(strings.ToUpper(a), strings.ToUpper(b))
}

// SortTags sorts tags in place by the family order.
func SortTags(f Family, tags []string) {
	sort.SliceStable(tags, func(i, j int) bool {
		return CompareTags(f, tags[i], tags[j]) < 0
	})
}

func numericTagValue(tag string) int {
	v, err := strconv.Atoi(strings.TrimSpace(tag))
	if err != nil {
		return 0
	}
	return v
}
