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


// Package storage provides the vector cache abstraction.
//
// Encoding every catalog keyword through the embedding service is the
// expensive part of startup and reload. The cache persists those vectors
// keyed by content hash of (model, text), so an unchanged catalog costs no
// encode calls on the next boot and an edited catalog only encodes the
// changed keywords.
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types to enforce abstraction and
// enable alternative backend implementations:
//
//	cache, backend, err := badger.NewMemoryCache()  // cache is storage.VectorCache
//
// # Keying
//
// Keys are core.ID values produced by CacheKey(modelID, text). The model
// identifier is part of the key, so switching embedding models never serves
// vectors produced by the old model.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use; index construction writes
// from multiple worker goroutines.
package storage
