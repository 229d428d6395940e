package predict

import (
	"context"
	"fmt"

	"github.com/uzhavan/disai/core"
)

// DefaultTopK is the number of predictions returned when the caller does not
// ask for a specific count.
const DefaultTopK = 5

// Strategy names a matching algorithm.
type Strategy string

const (
	// StrategyEmbedding ranks candidates by embedding cosine similarity.
	StrategyEmbedding Strategy = "embedding"

	// StrategyLexical ranks pages by keyword substring containment.
	StrategyLexical Strategy = "lexical"
)

// ParseStrategy maps a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyEmbedding:
		return StrategyEmbedding, nil
	case StrategyLexical:
		return StrategyLexical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Matcher ranks catalog pages for a free-text query.
// Implementations must be safe for concurrent use.
type Matcher interface {
	// Predict returns up to topK predictions ordered best-first.
	// A non-positive topK falls back to DefaultTopK.
	Predict(ctx context.Context, query string, topK int) ([]core.Prediction, error)

	// Strategy identifies the matching algorithm.
	Strategy() Strategy
}

// TopPrediction returns the head of a prediction list.
func TopPrediction(predictions []core.Prediction) (core.Prediction, bool) {
	if len(predictions) == 0 {
		return core.Prediction{}, false
	}
	return predictions[0], true
}

func normalizeTopK(topK int) int {
	if topK <= 0 {
		return DefaultTopK
	}
	return topK
}
