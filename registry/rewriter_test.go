package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRewriter(t *testing.T, names ...string) *Rewriter {
	t.Helper()
	reg := New()
	for _, n := range names {
		reg.Register(n)
	}
	rw, err := NewRewriter(reg)
	require.NoError(t, err)
	return rw
}

func TestRewrite_AppendsCanonicalOnSimplifiedMatch(t *testing.T) {
	rw := newTestRewriter(t, "ISTINYEPARK - NSP")
	assert.Equal(t, "istinyepark satış ISTINYEPARK - NSP", rw.Rewrite("istinyepark satış"))
}

func TestRewrite_NoMatchReturnsQuery(t *testing.T) {
	rw := newTestRewriter(t, "ISTINYEPARK - NSP")
	assert.Equal(t, "toplam ciro nedir", rw.Rewrite("toplam ciro nedir"))
	assert.Equal(t, "", rw.Rewrite(""))
}

func TestRewrite_EmptyRegistry(t *testing.T) {
	rw := newTestRewriter(t)
	assert.Equal(t, "kanyon satış", rw.Rewrite("kanyon satış"))
}

func TestRewrite_EachCanonicalOnceInRegistrationOrder(t *testing.T) {
	rw := newTestRewriter(t, "Zorlu - Beşiktaş", "Kanyon - Levent", "Akasya")
	got := rw.Rewrite("kanyon ve zorlu zorlu")
	assert.Equal(t, "kanyon ve zorlu zorlu Zorlu - Beşiktaş Kanyon - Levent", got)
}

func TestRewrite_NotLiterallyIdempotent(t *testing.T) {
	rw := newTestRewriter(t, "Kanyon")
	once := rw.Rewrite("kanyon")
	twice := rw.Rewrite(once)
	assert.Equal(t, "kanyon Kanyon", once)
	assert.Equal(t, "kanyon Kanyon Kanyon", twice)
}

func TestRewrite_FuzzyTypo(t *testing.T) {
	rw := newTestRewriter(t, "Optimum - Ataşehir")
	assert.Equal(t, "optimun cirosu Optimum - Ataşehir", rw.Rewrite("optimun cirosu"))
}

func TestRewrite_ShortTokensCompared(t *testing.T) {
	rw := newTestRewriter(t, "Vega")
	assert.Equal(t, "ve Vega", rw.Rewrite("ve"))

	reg := New()
	reg.Register("Vega")
	strict, err := NewRewriter(reg, WithMinTokenLength(3))
	require.NoError(t, err)
	assert.Equal(t, "ve", strict.Rewrite("ve"))
}

func TestRewrite_ShortStoreCode(t *testing.T) {
	rw := newTestRewriter(t, "AX - Kadıköy")
	assert.Equal(t, "ax satış AX - Kadıköy", rw.Rewrite("ax satış"))
}

func TestNewRewriter_Options(t *testing.T) {
	_, err := NewRewriter(nil)
	assert.ErrorIs(t, err, ErrRegistryRequired)

	_, err = NewRewriter(New(), WithThreshold(101))
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewRewriter(New(), WithMinTokenLength(-1))
	assert.ErrorIs(t, err, ErrInvalidMinTokenLength)

	reg := New()
	reg.Register("Kanyon")
	strict, err := NewRewriter(reg, WithThreshold(100))
	require.NoError(t, err)
	assert.Equal(t, "kanyon", strict.Rewrite("kanyon"), "score must exceed the threshold")
}
