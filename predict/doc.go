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


// Package predict implements the two page-matching strategies.
//
// The EmbeddingMatcher ranks every (page, keyword) candidate by cosine
// similarity between the query vector and the keyword vector. Results are
// per-candidate: one page may appear more than once when several of its
// keywords score highly.
//
// The LexicalMatcher ranks pages by permissive substring containment between
// query words and keywords. Tamil is agglutinative, so a query word often
// contains a keyword as a stem (or the reverse); containment in either
// direction counts as a hit. Results are per-page.
//
// Both matchers produce core.Prediction values ordered best-first and
// truncated to a requested top-k. Each matcher is immutable once built and
// safe for concurrent queries; catalog changes are handled by building a
// fresh matcher and swapping it in.
package predict
