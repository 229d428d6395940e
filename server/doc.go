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


// Package server exposes the prediction engine over HTTP.
//
// The route surface and wire shapes are frozen: clients built against the
// original serving API keep working unchanged. Field names like
// "similarity_score" and the exact validation error strings are contract,
// not style.
//
//	POST /predict   {"query": …}         ranked predictions for a query
//	GET  /predict   ?query=…             same, for quick manual testing
//	GET  /pages                          the loaded catalog
//	GET  /stats                          catalog shape statistics
//	GET  /test                           built-in Tamil smoke queries
//	POST /reload                         re-read the catalog file, atomic swap
//	GET  /healthz                        liveness plus strategy and index size
//
// The package also provides Watcher, which reloads the engine when the
// catalog file changes on disk.
package server
