// Copyright 2026 Uzhavan Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package disai

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/uzhavan/disai/ai"
	"github.com/uzhavan/disai/ai/openai"
	"github.com/uzhavan/disai/catalog"
	"github.com/uzhavan/disai/core"
	"github.com/uzhavan/disai/predict"
	"github.com/uzhavan/disai/storage"
	"github.com/uzhavan/disai/storage/badger"
)

// Config controls engine construction.
type Config struct {
	// CatalogPath is the knowledge base file. Required.
	CatalogPath string

	// Strategy selects the matching algorithm.
	// Default is predict.StrategyEmbedding.
	Strategy predict.Strategy

	// TopK is the number of predictions returned per query.
	// Default is predict.DefaultTopK.
	TopK int

	// EmbeddingHost and EmbeddingModel configure the embedding service.
	// Only used by the embedding strategy; empty values keep the ai package
	// defaults.
	EmbeddingHost  string
	EmbeddingModel string

	// CachePath is the directory for the persistent vector cache. Empty
	// disables caching; the catalog is then re-encoded on every start.
	CachePath string
}

// Engine loads a catalog and answers queries against it. The active index and
// matcher are published through an atomic pointer, so predictions proceed
// lock-free while a reload builds a full replacement off to the side.
type Engine struct {
	catalogPath string
	strategy    predict.Strategy
	topK        int

	embedder ai.Embedder
	cache    storage.VectorCache
	backend  *badger.Backend
	logger   *slog.Logger

	state atomic.Pointer[engineState]

	// reloadMu serializes reloads; predictions never take it.
	reloadMu sync.Mutex
}

type engineState struct {
	index   *catalog.Index
	matcher predict.Matcher
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger   *slog.Logger
	embedder ai.Embedder
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithEmbedder injects an embedding client, bypassing the one built from
// Config. Used by tests and by callers bringing their own transport.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// New loads the catalog, builds the configured matcher, and returns a ready
// engine. With the embedding strategy every candidate keyword is encoded
// before New returns; an unreachable embedding service fails here, wrapped in
// ai.ErrEncodingUnavailable.
func New(ctx context.Context, cfg Config, opts ...Option) (*Engine, error) {
	if cfg.CatalogPath == "" {
		return nil, ErrCatalogPathRequired
	}

	strategy := cfg.Strategy
	if strategy == "" {
		strategy = predict.StrategyEmbedding
	}
	strategy, err := predict.ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = predict.DefaultTopK
	}

	options := &engineOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	e := &Engine{
		catalogPath: cfg.CatalogPath,
		strategy:    strategy,
		topK:        topK,
		embedder:    options.embedder,
		logger:      options.logger,
	}

	if strategy == predict.StrategyEmbedding {
		if e.embedder == nil {
			var aiOpts []ai.ConfigOption
			if cfg.EmbeddingHost != "" {
				aiOpts = append(aiOpts, ai.WithHost(cfg.EmbeddingHost))
			}
			if cfg.EmbeddingModel != "" {
				aiOpts = append(aiOpts, ai.WithModel(cfg.EmbeddingModel))
			}
			embedder, err := openai.NewEmbedder(ai.NewConfig(aiOpts...))
			if err != nil {
				return nil, err
			}
			e.embedder = embedder
		}

		if cfg.CachePath != "" {
			backend, err := badger.OpenBackend(cfg.CachePath, false)
			if err != nil {
				return nil, err
			}
			e.backend = backend
			e.cache = badger.NewVectorCache(backend)
		}
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		e.closeStorage()
		return nil, err
	}

	index, err := catalog.NewIndex(cat)
	if err != nil {
		e.closeStorage()
		return nil, err
	}

	matcher, err := e.buildMatcher(ctx, index)
	if err != nil {
		e.closeStorage()
		return nil, err
	}

	e.state.Store(&engineState{index: index, matcher: matcher})

	e.logger.Info("engine ready",
		"strategy", strategy,
		"pages", index.Stats().TotalPages,
		"candidates", len(index.Candidates()),
		"fingerprint", uint64(index.Fingerprint()))

	return e, nil
}

func (e *Engine) buildMatcher(ctx context.Context, index *catalog.Index) (predict.Matcher, error) {
	switch e.strategy {
	case predict.StrategyLexical:
		return predict.NewLexicalMatcher(index)
	default:
		matcherOpts := []predict.Option{predict.WithLogger(e.logger)}
		if e.cache != nil {
			matcherOpts = append(matcherOpts, predict.WithCache(e.cache))
		}
		return predict.NewEmbeddingMatcher(ctx, index, e.embedder, matcherOpts...)
	}
}

// Predict returns the ranked predictions for a free-text query against the
// currently published index.
func (e *Engine) Predict(ctx context.Context, query string) ([]core.Prediction, error) {
	st := e.state.Load()
	return st.matcher.Predict(ctx, query, e.topK)
}

// Reload builds a fresh index and matcher from cat and swaps them in
// atomically. Concurrent Predict calls observe either the old state or the
// new one, never a partial rebuild. On error the previous state stays live.
func (e *Engine) Reload(ctx context.Context, cat *catalog.Catalog) error {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	index, err := catalog.NewIndex(cat)
	if err != nil {
		return err
	}

	matcher, err := e.buildMatcher(ctx, index)
	if err != nil {
		return err
	}

	e.state.Store(&engineState{index: index, matcher: matcher})

	e.logger.Info("catalog reloaded",
		"pages", index.Stats().TotalPages,
		"candidates", len(index.Candidates()),
		"fingerprint", uint64(index.Fingerprint()))

	return nil
}

// ReloadFromFile re-reads the configured catalog file and reloads from it.
func (e *Engine) ReloadFromFile(ctx context.Context) error {
	cat, err := catalog.Load(e.catalogPath)
	if err != nil {
		return err
	}
	return e.Reload(ctx, cat)
}

// Pages returns the loaded catalog in document order.
func (e *Engine) Pages() []core.Page {
	return e.state.Load().index.Pages()
}

// Stats summarizes the loaded catalog.
func (e *Engine) Stats() core.CatalogStats {
	return e.state.Load().index.Stats()
}

// Strategy identifies the configured matching strategy.
func (e *Engine) Strategy() predict.Strategy {
	return e.strategy
}

// Close releases the vector cache. The engine must not be used afterwards.
func (e *Engine) Close() error {
	return e.closeStorage()
}

func (e *Engine) closeStorage() error {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("error closing vector cache", "err", err)
		}
		e.cache = nil
	}
	if e.backend != nil {
		err := e.backend.Close()
		e.backend = nil
		if err != nil {
			e.logger.Error("error closing cache backend", "err", err)
			return err
		}
	}
	return nil
}
