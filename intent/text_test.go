package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Kaç çalışan var?", "kaç çalışan var"},
		{"  IT,  departmanı!! ", "it departmanı"},
		{"how_many employee", "how_many employee"},
		{"maaş-analiz/2024", "maaş analiz 2024"},
		{"", ""},
		{"?!.", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestExpand(t *testing.T) {
	t.Run("action synonym pulls in its group", func(t *testing.T) {
		got := Expand([]string{"göster"})
		assert.Equal(t, []string{"göster", "listele", "say", "çıkar", "ver", "bul", "getir", "show", "list"}, got)
	})

	t.Run("word in two groups", func(t *testing.T) {
		got := Expand([]string{"personel"})
		assert.Equal(t, []string{
			"personel",
			"ik", "insan_kaynakları", "insan kaynakları", "hr", "human_resources",
			"çalışan", "employee", "kişi", "people", "worker", "staff",
		}, got)
	})

	t.Run("unknown token kept", func(t *testing.T) {
		assert.Equal(t, []string{"var"}, Expand([]string{"var"}))
	})

	t.Run("deduplicated", func(t *testing.T) {
		got := Expand([]string{"kaç", "count", "kaç"})
		assert.Equal(t, []string{"kaç", "ne_kadar", "ne kadar", "how_many", "count", "sayı"}, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Expand(nil))
	})
}

func TestIsTitle(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"Ahmet", true},
		{"İstanbul", true},
		{"Ali,", true},
		{"O'Neil", true},
		{"AHMET", false},
		{"ahmet", false},
		{"AhMet", false},
		{"123", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isTitle(tt.word), "isTitle(%q)", tt.word)
	}
}
