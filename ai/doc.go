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


// Package ai provides the embedding abstraction used by semantic matching.
//
// The package defines the Embedder interface and its configuration. Matching
// and serving code depend on this abstraction rather than on a concrete
// embedding client, so the backend can be swapped without touching the
// ranking logic.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test double for unit testing without an embedding service
//
// # Constructor Return Type Pattern
//
// The production constructor (openai.NewEmbedder) returns the ai.Embedder
// INTERFACE to enforce abstraction and prevent accidental coupling to the
// concrete client.
//
//	embedder, err := openai.NewEmbedder(config)  // returns ai.Embedder
//
// The test constructor (mock.NewMockEmbedder) returns a CONCRETE type so
// tests can inject behavior via function fields and assert on call counts.
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextFunc = ...        // needs concrete type
//	count := mockEmbed.CallCount()       // test assertion
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:8000"))
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vector, err := embedder.EmbedText(ctx, "விவசாய கடன் வேண்டும்")
package ai
