package intent

import (
	"context"
	"testing"

	"github.com/poiesic/retriever/core"
	"github.com/poiesic/retriever/storage"
	"github.com/poiesic/retriever/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	repo, backend, err := badger.NewMemoryPatternRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	store, err := NewPatternStore(repo)
	require.NoError(t, err)
	require.NoError(t, store.Load(context.Background()))

	c, err := NewClassifier(store)
	require.NoError(t, err)
	return c
}

func TestExtractEntities(t *testing.T) {
	t.Run("count query", func(t *testing.T) {
		e := ExtractEntities("kaç çalışan var")
		assert.Equal(t, []string{"ik"}, e.Departments)
		assert.Equal(t, []string{"kaç"}, e.Actions)
		assert.Empty(t, e.Names)
		assert.Empty(t, e.Objects)
	})

	t.Run("names skip stopwords and short words", func(t *testing.T) {
		e := ExtractEntities("Ahmet hangi departmanda Kaç Tüm Al")
		assert.Equal(t, []string{"Ahmet"}, e.Names)
		assert.Equal(t, []string{"kaç", "hangi"}, e.Actions)
		assert.Empty(t, e.Departments)
	})

	t.Run("departments in keyword order", func(t *testing.T) {
		e := ExtractEntities("finans ve yazılım ekibi")
		assert.Equal(t, []string{"it", "muhasebe"}, e.Departments)
	})

	t.Run("synonym action", func(t *testing.T) {
		e := ExtractEntities("göster")
		assert.Equal(t, []string{"listele", "göster"}, e.Actions)
	})
}

func TestScore(t *testing.T) {
	entities := core.Entities{Actions: []string{"kaç"}, Departments: []string{"ik"}}
	patterns := []IntentPatterns{
		{Intent: "a", Patterns: [][]string{{"kaç", "çalışan"}, {"kaç"}}},
		{Intent: "b", Patterns: [][]string{{"x", "y", "ik"}}},
		{Intent: "c", Patterns: [][]string{{"none"}, {}}},
		{Intent: "d"},
	}
	scores := Score(entities, patterns)
	require.Len(t, scores, 4)
	assert.Equal(t, 1.0, scores[0])
	assert.InDelta(t, 1.0/3, scores[1], 1e-9)
	assert.Equal(t, 0.0, scores[2])
	assert.Equal(t, 0.0, scores[3])
}

func TestScore_ObjectsCount(t *testing.T) {
	entities := core.Entities{Objects: []string{"çalışan"}, Actions: []string{"kaç"}}
	scores := Score(entities, []IntentPatterns{{Intent: "a", Patterns: [][]string{{"kaç", "çalışan"}}}})
	assert.Equal(t, []float64{1.0}, scores)
}

func TestPredict_BuiltIn(t *testing.T) {
	c := newTestClassifier(t)

	p := c.Predict("kaç çalışan var")
	assert.Equal(t, "count_employees", p.Intent)
	assert.Equal(t, 0.5, p.Confidence)
	assert.Equal(t, []string{"kaç"}, p.Entities.Actions)
}

func TestPredict_Unknown(t *testing.T) {
	c := newTestClassifier(t)

	for _, q := range []string{"merhaba dünya", "", "???"} {
		p := c.Predict(q)
		assert.Equal(t, Unknown, p.Intent, q)
		assert.Equal(t, 0.0, p.Confidence, q)
	}
}

func TestPredict_TieGoesToFirstBuiltIn(t *testing.T) {
	c := newTestClassifier(t)

	// list_all_employees and list_departments both score 0.5.
	p := c.Predict("listele")
	assert.Equal(t, "list_all_employees", p.Intent)
	assert.Equal(t, 0.5, p.Confidence)
}

func TestLearn_NewIntent(t *testing.T) {
	ctx := context.Background()
	c := newTestClassifier(t)

	require.NoError(t, c.Learn(ctx, "Satış raporu hazırla lütfen", "sales_report"))

	p := c.Predict("satış raporu")
	assert.Equal(t, "sales_report", p.Intent)
	assert.InDelta(t, 1.0/3, p.Confidence, 1e-9)

	assert.Equal(t, []storage.LearnedPattern{
		{Intent: "sales_report", Tokens: []string{"satış", "raporu", "hazırla"}},
	}, c.store.Snapshot())
}

func TestLearn_AppendsToBuiltInIntent(t *testing.T) {
	ctx := context.Background()
	c := newTestClassifier(t)

	require.NoError(t, c.Learn(ctx, "satış birimleri", "list_departments"))

	p := c.Predict("satış")
	assert.Equal(t, "list_departments", p.Intent)
	assert.Equal(t, 0.5, p.Confidence)

	// Built-in patterns stay in place.
	p = c.Predict("kaç çalışan var")
	assert.Equal(t, "count_employees", p.Intent)
}

func TestLearn_BuiltInWinsTieWithLearned(t *testing.T) {
	ctx := context.Background()
	c := newTestClassifier(t)

	require.NoError(t, c.Learn(ctx, "listele çalışan", "custom_list"))

	p := c.Predict("listele")
	assert.Equal(t, "list_all_employees", p.Intent)
}

func TestLearn_DuplicatesKept(t *testing.T) {
	ctx := context.Background()
	c := newTestClassifier(t)

	require.NoError(t, c.Learn(ctx, "rapor", "report"))
	require.NoError(t, c.Learn(ctx, "rapor", "report"))
	assert.Equal(t, 2, c.store.Len())
}

func TestLearn_Errors(t *testing.T) {
	ctx := context.Background()
	c := newTestClassifier(t)

	assert.ErrorIs(t, c.Learn(ctx, "?!", "report"), ErrEmptyFeedback)
	assert.ErrorIs(t, c.Learn(ctx, "rapor", "  "), ErrEmptyIntent)
	assert.Equal(t, 0, c.store.Len())
}

func TestLearn_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	backend, err := badger.OpenBackend(dir, false)
	require.NoError(t, err)
	repo, err := badger.NewPatternRepository(backend)
	require.NoError(t, err)
	store, err := NewPatternStore(repo)
	require.NoError(t, err)
	require.NoError(t, store.Load(ctx))
	c, err := NewClassifier(store)
	require.NoError(t, err)

	require.NoError(t, c.Learn(ctx, "bana departmanları göster", "list_departments"))
	require.NoError(t, repo.Close())
	require.NoError(t, backend.Close())

	backend, err = badger.OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()
	repo, err = badger.NewPatternRepository(backend)
	require.NoError(t, err)
	defer repo.Close()

	reloaded, err := NewPatternStore(repo)
	require.NoError(t, err)
	require.NoError(t, reloaded.Load(ctx))

	assert.Equal(t, []IntentPatterns{
		{Intent: "list_departments", Patterns: [][]string{{"bana", "departmanları", "göster"}}},
	}, reloaded.ByIntent())
}

func TestNewClassifier_RequiresStore(t *testing.T) {
	_, err := NewClassifier(nil)
	assert.ErrorIs(t, err, ErrPatternStoreRequired)

	_, err = NewPatternStore(nil)
	assert.ErrorIs(t, err, ErrPatternRepositoryRequired)
}
