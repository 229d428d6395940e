package predict

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzhavan/disai/core"
)

func TestNewLexicalMatcher(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		matcher, err := NewLexicalMatcher(testIndex(t))
		require.NoError(t, err)
		assert.NotNil(t, matcher)
		assert.Equal(t, StrategyLexical, matcher.Strategy())
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewLexicalMatcher(nil)
		assert.Equal(t, ErrIndexRequired, err)
	})
}

func TestLexicalMatcher_Predict_SubstringScoring(t *testing.T) {
	ctx := context.Background()
	idx := buildIndex(t,
		core.Page{
			Name:        "crop_recommendation",
			Keywords:    []string{"பயிர் பரிந்துரை", "என்ன பயிர்"},
			Description: "பயிர் தேர்வு உதவி",
		},
		core.Page{
			Name:        "disease_detection",
			Keywords:    []string{"பயிர்நோய்"},
			Description: "நோய் கண்டறிதல்",
		},
		core.Page{
			Name:     "weather_page",
			Keywords: []string{"வானிலை"},
		},
	)

	matcher, err := NewLexicalMatcher(idx)
	require.NoError(t, err)

	// "பயிர்" hits both crop keywords plus the disease keyword, "பரிந்துரை"
	// hits the first crop keyword again, "வேண்டும்" hits nothing.
	results, err := matcher.Predict(ctx, "பயிர் பரிந்துரை வேண்டும்", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "crop_recommendation", results[0].PageName)
	assert.Equal(t, "பயிர் பரிந்துரை", results[0].Keyword)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
	assert.Equal(t, "பயிர் தேர்வு உதவி", results[0].Description)

	assert.Equal(t, "disease_detection", results[1].PageName)
	assert.Equal(t, "பயிர்நோய்", results[1].Keyword)
	assert.InDelta(t, 1.0/3.0, results[1].Score, 1e-5)

	// Pages with no hits stay out of the list entirely.
	for _, r := range results {
		assert.NotEqual(t, "weather_page", r.PageName)
	}
}

func TestLexicalMatcher_Predict_ReverseContainmentFallback(t *testing.T) {
	ctx := context.Background()
	idx := buildIndex(t, core.Page{
		Name:     "irrigation_plan",
		Keywords: []string{"வறட்சி மேலாண்மை", "நீர்"},
	})

	matcher, err := NewLexicalMatcher(idx)
	require.NoError(t, err)

	// The query word contains the keyword "நீர்", which scores, but the
	// surfaced keyword falls back to the page's first one because no keyword
	// contains the query word.
	results, err := matcher.Predict(ctx, "நீர்ப்பாசனம்", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "irrigation_plan", results[0].PageName)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
	assert.Equal(t, "வறட்சி மேலாண்மை", results[0].Keyword)
}

func TestLexicalMatcher_Predict_NoMatches(t *testing.T) {
	ctx := context.Background()
	matcher, err := NewLexicalMatcher(testIndex(t))
	require.NoError(t, err)

	results, err := matcher.Predict(ctx, "rocket launch", 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Every page competes with score zero, in catalog order, each surfacing
	// its first keyword.
	assert.Equal(t, "crop_recommendation", results[0].PageName)
	assert.Equal(t, "disease_detection", results[1].PageName)
	assert.Equal(t, "weather_page", results[2].PageName)
	for _, r := range results {
		assert.Zero(t, r.Score)
		assert.NotEmpty(t, r.Keyword)
	}
}

func TestLexicalMatcher_Predict_EmptyQuery(t *testing.T) {
	ctx := context.Background()
	matcher, err := NewLexicalMatcher(testIndex(t))
	require.NoError(t, err)

	for _, query := range []string{"", "   "} {
		results, err := matcher.Predict(ctx, query, 0)
		require.NoError(t, err)
		require.Len(t, results, 3)
		for _, r := range results {
			assert.Zero(t, r.Score)
		}
	}
}

func TestLexicalMatcher_Predict_TopKCap(t *testing.T) {
	ctx := context.Background()

	pages := make([]core.Page, 7)
	for i := range pages {
		pages[i] = core.Page{
			Name:     fmt.Sprintf("page_%d", i+1),
			Keywords: []string{fmt.Sprintf("keyword%d", i+1)},
		}
	}
	matcher, err := NewLexicalMatcher(buildIndex(t, pages...))
	require.NoError(t, err)

	// Even the zero-score fallback is capped at k.
	results, err := matcher.Predict(ctx, "nothing relevant", 0)
	require.NoError(t, err)
	require.Len(t, results, DefaultTopK)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("page_%d", i+1), r.PageName)
	}
}

func TestLexicalMatcher_Predict_ScoreCanExceedOne(t *testing.T) {
	ctx := context.Background()
	idx := buildIndex(t,
		core.Page{
			Name:     "crop_recommendation",
			Keywords: []string{"பயிர் பரிந்துரை", "என்ன பயிர்"},
		},
		core.Page{
			Name:     "disease_detection",
			Keywords: []string{"பயிர்நோய்"},
		},
	)

	matcher, err := NewLexicalMatcher(idx)
	require.NoError(t, err)

	// One query word matching two keywords of the same page doubles its count.
	results, err := matcher.Predict(ctx, "பயிர்", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "crop_recommendation", results[0].PageName)
	assert.InDelta(t, 2.0, results[0].Score, 1e-5)
	assert.Equal(t, "disease_detection", results[1].PageName)
	assert.InDelta(t, 1.0, results[1].Score, 1e-5)
}

func TestLexicalMatcher_Predict_TieKeepsFirstScoredOrder(t *testing.T) {
	ctx := context.Background()

	soil := core.Page{Name: "soil_testing", Keywords: []string{"மண் பரிசோதனை"}}
	fertility := core.Page{Name: "soil_fertility", Keywords: []string{"மண் வளம்"}}

	forward, err := NewLexicalMatcher(buildIndex(t, soil, fertility))
	require.NoError(t, err)
	results, err := forward.Predict(ctx, "மண்", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "soil_testing", results[0].PageName)
	assert.Equal(t, "soil_fertility", results[1].PageName)

	// Reversing the catalog reverses the tie order.
	reversed, err := NewLexicalMatcher(buildIndex(t, fertility, soil))
	require.NoError(t, err)
	results, err = reversed.Predict(ctx, "மண்", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "soil_fertility", results[0].PageName)
	assert.Equal(t, "soil_testing", results[1].PageName)
}

func TestLexicalMatcher_Predict_SharedKeyword(t *testing.T) {
	ctx := context.Background()
	idx := buildIndex(t,
		core.Page{Name: "market_prices", Keywords: []string{"சந்தை விலை"}},
		core.Page{Name: "sell_produce", Keywords: []string{"சந்தை விலை"}},
	)

	matcher, err := NewLexicalMatcher(idx)
	require.NoError(t, err)

	// A keyword owned by two pages scores both of them.
	results, err := matcher.Predict(ctx, "விலை", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "market_prices", results[0].PageName)
	assert.Equal(t, "sell_produce", results[1].PageName)
	assert.Equal(t, results[0].Score, results[1].Score)
}

func TestLexicalMatcher_Predict_DuplicateKeywordWeight(t *testing.T) {
	ctx := context.Background()
	idx := buildIndex(t,
		core.Page{Name: "weather_page", Keywords: []string{"வானிலை", "வானிலை"}},
		core.Page{Name: "forecast_page", Keywords: []string{"வானிலை முன்னறிவிப்பு"}},
	)

	matcher, err := NewLexicalMatcher(idx)
	require.NoError(t, err)

	// A keyword listed twice by its page counts twice.
	results, err := matcher.Predict(ctx, "வானிலை", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "weather_page", results[0].PageName)
	assert.InDelta(t, 2.0, results[0].Score, 1e-5)
	assert.Equal(t, "forecast_page", results[1].PageName)
	assert.InDelta(t, 1.0, results[1].Score, 1e-5)
}

func TestLexicalMatcher_Predict_CaseFolding(t *testing.T) {
	ctx := context.Background()
	idx := buildIndex(t, core.Page{
		Name:     "ndvi_analysis",
		Keywords: []string{"NDVI குறியீடு"},
	})

	matcher, err := NewLexicalMatcher(idx)
	require.NoError(t, err)

	results, err := matcher.Predict(ctx, "ndvi மதிப்பு", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.InDelta(t, 0.5, results[0].Score, 1e-5)
	// The surfaced keyword keeps its original casing.
	assert.Equal(t, "NDVI குறியீடு", results[0].Keyword)
}
