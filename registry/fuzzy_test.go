package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "kanyon", "kanyon", 100},
		{"case insensitive", "ISTINYEPARK", "istinyepark", 100},
		{"substring", "istinyepark", "ISTINYEPARK - NSP", 100},
		{"argument order", "ISTINYEPARK - NSP", "istinyepark", 100},
		{"empty", "", "kanyon", 0},
		{"disjoint", "abc", "xyz", 0},
		// "akasya" vs the best 6-rune window "akasia": one substitution, d=2.
		{"one substitution", "akasia", "akasya", 83},
		// Multi-byte runes count once: "satış" vs "satis" differs in two runes.
		{"turkish runes", "satış", "satis", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartialRatio(tt.a, tt.b))
		})
	}
}

func TestPartialRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"zorlu", "zorlu center"},
		{"optimum", "optimun"},
		{"ğüşiöç", "gusioc"},
	}
	for _, p := range pairs {
		assert.Equal(t, PartialRatio(p[0], p[1]), PartialRatio(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestPartialRatio_Range(t *testing.T) {
	inputs := []string{"a", "ab", "kanyon", "ISTINYEPARK - NSP", "çalışan", "x y z"}
	for _, a := range inputs {
		for _, b := range inputs {
			score := PartialRatio(a, b)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestEncodePair(t *testing.T) {
	a, b, ok := encodePair([]rune("ış"), []rune("şı"))
	assert.True(t, ok)
	assert.Len(t, a, 2)
	assert.Equal(t, string([]byte{a[1], a[0]}), b)
}
