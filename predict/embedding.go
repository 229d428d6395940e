package predict

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/uzhavan/disai/ai"
	"github.com/uzhavan/disai/catalog"
	"github.com/uzhavan/disai/core"
	"github.com/uzhavan/disai/storage"
)

// DefaultBatchSize is the number of keywords sent per embedding request
// during index construction.
const DefaultBatchSize = 64

// EmbeddingMatcher ranks (page, keyword) candidates by cosine similarity
// between the query vector and each keyword vector. All candidate vectors are
// encoded at construction time and held unit-normalized in memory, so a query
// costs one embedding call plus a dot product per candidate.
type EmbeddingMatcher struct {
	index    *catalog.Index
	embedder ai.Embedder
	vectors  [][]float32
	logger   *slog.Logger

	cache     storage.VectorCache
	batchSize int
	poolSize  int
}

var _ Matcher = (*EmbeddingMatcher)(nil)

// Option configures an EmbeddingMatcher.
type Option func(*EmbeddingMatcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *EmbeddingMatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithCache attaches a vector cache. The cache is consulted before encoding
// and updated with freshly encoded vectors. Cached vectors are stored
// unit-normalized.
func WithCache(cache storage.VectorCache) Option {
	return func(m *EmbeddingMatcher) error {
		m.cache = cache
		return nil
	}
}

// WithBatchSize sets how many keywords are encoded per embedding request.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(m *EmbeddingMatcher) error {
		if size < 1 {
			size = 1
		}
		m.batchSize = size
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent encoding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *EmbeddingMatcher) error {
		if size < 1 {
			size = 1
		}
		m.poolSize = size
		return nil
	}
}

// NewEmbeddingMatcher encodes every catalog candidate and returns a matcher
// ready for queries. Any encoding failure aborts construction; there is no
// partially built index and no silent retry.
func NewEmbeddingMatcher(ctx context.Context, index *catalog.Index, embedder ai.Embedder, opts ...Option) (*EmbeddingMatcher, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	m := &EmbeddingMatcher{
		index:     index,
		embedder:  embedder,
		logger:    slog.Default(),
		batchSize: DefaultBatchSize,
		poolSize:  poolSize,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	if err := m.build(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *EmbeddingMatcher) build(ctx context.Context) error {
	candidates := m.index.Candidates()
	vectors := make([][]float32, len(candidates))

	texts := make([]string, len(candidates))
	keys := make([]core.ID, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Keyword
		keys[i] = storage.CacheKey(m.embedder.ModelID(), c.Keyword)
	}

	missing := make([]int, 0, len(candidates))
	if m.cache != nil {
		cached, err := m.cache.GetVectors(ctx, keys...)
		if err != nil {
			m.logger.Warn("vector cache read failed, encoding all candidates", "err", err)
			cached = make([][]float32, len(candidates))
		}
		for i, v := range cached {
			if v == nil {
				missing = append(missing, i)
				continue
			}
			vectors[i] = v
		}
	} else {
		for i := range candidates {
			missing = append(missing, i)
		}
	}

	if err := m.encodeMissing(ctx, texts, keys, missing, vectors); err != nil {
		return err
	}

	for i, v := range vectors {
		if v == nil {
			return fmt.Errorf("%w: candidate %d has no vector", core.ErrCandidateMismatch, i)
		}
	}

	m.vectors = vectors
	m.logger.Info("embedding index ready",
		"candidates", len(candidates),
		"cached", len(candidates)-len(missing),
		"encoded", len(missing))
	return nil
}

// encodeMissing batch-encodes the candidates absent from the cache, writing
// unit vectors into their slots, then stores the fresh vectors back.
func (m *EmbeddingMatcher) encodeMissing(ctx context.Context, texts []string, keys []core.ID, missing []int, vectors [][]float32) error {
	if len(missing) == 0 {
		return nil
	}

	pool, err := ants.NewPool(m.poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(missing); start += m.batchSize {
		end := min(start+m.batchSize, len(missing))
		batch := missing[start:end]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			batchTexts := make([]string, len(batch))
			for i, idx := range batch {
				batchTexts[i] = texts[idx]
			}

			embedded, embErr := m.embedder.EmbedTexts(ctx, batchTexts)
			if embErr != nil {
				setErr(embErr)
				return
			}
			if len(embedded) != len(batchTexts) {
				setErr(fmt.Errorf("%w: expected %d vectors, got %d",
					ai.ErrEncodingUnavailable, len(batchTexts), len(embedded)))
				return
			}

			// Batches cover disjoint index ranges, so no lock is needed here.
			for i, idx := range batch {
				vectors[idx] = NormalizeVector(embedded[i])
			}
		})
		if submitErr != nil {
			wg.Done()
			setErr(submitErr)
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	if m.cache != nil {
		missKeys := make([]core.ID, len(missing))
		missVectors := make([][]float32, len(missing))
		for i, idx := range missing {
			missKeys[i] = keys[idx]
			missVectors[i] = vectors[idx]
		}
		if err := m.cache.PutVectors(ctx, missKeys, missVectors); err != nil {
			m.logger.Warn("vector cache write failed", "count", len(missKeys), "err", err)
		}
	}

	return nil
}

// Predict embeds the query and ranks every candidate by cosine similarity.
// One page may appear several times when more than one of its keywords ranks
// in the top-k. A query that embeds to the zero vector scores 0 against
// everything rather than failing.
func (m *EmbeddingMatcher) Predict(ctx context.Context, query string, topK int) ([]core.Prediction, error) {
	topK = normalizeTopK(topK)

	queryVector, err := m.embedder.EmbedText(ctx, core.NormalizeText(query))
	if err != nil {
		m.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	unit := NormalizeVector(queryVector)

	scores := make([]float32, len(m.vectors))
	for i, candidate := range m.vectors {
		scores[i] = Dot(unit, candidate)
	}

	order := rankIndices(scores)
	if topK > len(order) {
		topK = len(order)
	}

	candidates := m.index.Candidates()
	results := make([]core.Prediction, 0, topK)
	for _, idx := range order[:topK] {
		c := candidates[idx]
		results = append(results, core.Prediction{
			PageName:    c.Page,
			Keyword:     c.Keyword,
			Score:       scores[idx],
			Description: m.index.Description(c.Page),
		})
	}
	return results, nil
}

// Strategy identifies the matching algorithm.
func (m *EmbeddingMatcher) Strategy() Strategy {
	return StrategyEmbedding
}
