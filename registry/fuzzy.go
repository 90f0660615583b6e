package registry

import (
	"strings"

	"github.com/xrash/smetrics"
)

// PartialRatio scores how well the shorter string matches the best aligned
// window of the longer one, case-insensitively, from 0 to 100.
//
// Each window is scored with the Indel similarity 100*(1 - d/(m+n)), where d
// is the edit distance with substitutions costing 2.
func PartialRatio(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	short, long, ok := encodePair(ra, rb)
	if !ok {
		// Too many distinct runes for a byte alphabet; compare the UTF-8 bytes.
		short, long = string(ra), string(rb)
	}

	m := len(short)
	best := 0
	for start := 0; start+m <= len(long); start++ {
		window := long[start : start+m]
		d := smetrics.WagnerFischer(short, window, 1, 1, 2)
		score := similarity(d, m+len(window))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

func similarity(distance, total int) int {
	if total == 0 {
		return 0
	}
	ratio := 1 - float64(distance)/float64(total)
	return int(ratio*100 + 0.5)
}

// encodePair maps each distinct rune of a and b to a single byte so that a
// byte-oriented edit distance counts runes. It reports false when the pair
// uses more than 256 distinct runes.
func encodePair(a, b []rune) (string, string, bool) {
	alphabet := make(map[rune]byte)
	encode := func(rs []rune) ([]byte, bool) {
		out := make([]byte, len(rs))
		for i, r := range rs {
			c, ok := alphabet[r]
			if !ok {
				if len(alphabet) == 256 {
					return nil, false
				}
				c = byte(len(alphabet))
				alphabet[r] = c
			}
			out[i] = c
		}
		return out, true
	}

	ea, ok := encode(a)
	if !ok {
		return "", "", false
	}
	eb, ok := encode(b)
	if !ok {
		return "", "", false
	}
	return string(ea), string(eb), true
}
