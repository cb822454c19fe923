package version

import (
	"strconv"
	"strings"
)

// Ordering is the result of comparing two tool versions.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// String returns a lowercase label for the ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// Reverse returns the ordering with its direction flipped.
func (o Ordering) Reverse() Ordering {
	return -o
}

// Compare orders two dotted-numeric tool versions.
//
// Each dot-separated segment is cut at its first "-" and parsed as an unsigned
// 32-bit integer; segments that do not parse are dropped rather than treated as
// zero. The remaining numbers are compared element-wise and, when one sequence
// is a prefix of the other, the longer sequence is greater. Pre-release suffixes
// therefore never affect the result: "1.2.3-beta" equals "1.2.3".
func Compare(a string, b string) Ordering {
	left := segments(a)
	right := segments(b)
	for i := 0; i < len(left) && i < len(right); i++ {
		if left[i] < right[i] {
			return Less
		}
		if left[i] > right[i] {
			return Greater
		}
	}
	switch {
	case len(left) < len(right):
		return Less
	case len(left) > len(right):
		return Greater
	default:
		return Equal
	}
}

// segments extracts the numeric components of a dotted version.
func segments(v string) []uint64 {
	parts := strings.Split(v, ".")
	out := make([]uint64, 0, len(parts))
	for _, part := range parts {
		head, _, _ := strings.Cut(part, "-")
		n, err := strconv.ParseUint(head, 10, 32)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
